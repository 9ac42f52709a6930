package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/decisionlog"
	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/override"
	"github.com/xraph/muster/rank"
	"github.com/xraph/muster/roster"
)

// ──────────────────────────────────────────────────
// Membership model
// ──────────────────────────────────────────────────

type membershipModel struct {
	grove.BaseModel `grove:"table:muster_memberships"`
	ID              string         `grove:"id,pk"       bson:"_id"`
	AppID           string         `grove:"app_id"      bson:"app_id"`
	GuildID         string         `grove:"guild_id"    bson:"guild_id"`
	UserID          string         `grove:"user_id"     bson:"user_id"`
	Role            string         `grove:"role"        bson:"role"`
	IsCreator       bool           `grove:"is_creator"  bson:"is_creator"`
	InvitedBy       string         `grove:"invited_by"  bson:"invited_by,omitempty"`
	ApprovedAt      *time.Time     `grove:"approved_at" bson:"approved_at,omitempty"`
	Metadata        map[string]any `grove:"metadata"    bson:"metadata,omitempty"`
	CreatedAt       time.Time      `grove:"created_at"  bson:"created_at"`
	UpdatedAt       time.Time      `grove:"updated_at"  bson:"updated_at"`
}

func membershipToModel(m *membership.Membership) *membershipModel {
	return &membershipModel{
		ID:         m.ID.String(),
		AppID:      m.AppID,
		GuildID:    m.GuildID.String(),
		UserID:     m.UserID,
		Role:       string(m.Role),
		IsCreator:  m.IsCreator,
		InvitedBy:  m.InvitedBy,
		ApprovedAt: m.ApprovedAt,
		Metadata:   m.Metadata,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func membershipFromModel(m *membershipModel) *membership.Membership {
	mid, _ := id.ParseMembershipID(m.ID) //nolint:errcheck // stored IDs are always valid
	gid, _ := id.ParseGuildID(m.GuildID) //nolint:errcheck // stored IDs are always valid
	return &membership.Membership{
		ID:         mid,
		AppID:      m.AppID,
		GuildID:    gid,
		UserID:     m.UserID,
		Role:       rank.Role(m.Role),
		IsCreator:  m.IsCreator,
		InvitedBy:  m.InvitedBy,
		ApprovedAt: m.ApprovedAt,
		Metadata:   m.Metadata,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Override model
// ──────────────────────────────────────────────────

type overrideModel struct {
	grove.BaseModel `grove:"table:muster_overrides"`
	ID              string          `grove:"id,pk"      bson:"_id"`
	AppID           string          `grove:"app_id"     bson:"app_id"`
	GuildID         string          `grove:"guild_id"   bson:"guild_id"`
	Role            string          `grove:"role"       bson:"role"`
	Grants          map[string]bool `grove:"grants"     bson:"grants"`
	UpdatedBy       string          `grove:"updated_by" bson:"updated_by,omitempty"`
	CreatedAt       time.Time       `grove:"created_at" bson:"created_at"`
	UpdatedAt       time.Time       `grove:"updated_at" bson:"updated_at"`
}

func overrideToModel(o *override.Override) *overrideModel {
	return &overrideModel{
		ID:        o.ID.String(),
		AppID:     o.AppID,
		GuildID:   o.GuildID.String(),
		Role:      string(o.Role),
		Grants:    o.Grants,
		UpdatedBy: o.UpdatedBy,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func overrideFromModel(m *overrideModel) *override.Override {
	oid, _ := id.ParseOverrideID(m.ID)   //nolint:errcheck // stored IDs are always valid
	gid, _ := id.ParseGuildID(m.GuildID) //nolint:errcheck // stored IDs are always valid
	return &override.Override{
		ID:        oid,
		AppID:     m.AppID,
		GuildID:   gid,
		Role:      rank.Role(m.Role),
		Grants:    catalog.Overrides(m.Grants),
		UpdatedBy: m.UpdatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Instance model
// ──────────────────────────────────────────────────

type instanceModel struct {
	grove.BaseModel `grove:"table:muster_instances"`
	ID              string              `grove:"id,pk"        bson:"_id"`
	AppID           string              `grove:"app_id"       bson:"app_id"`
	GuildID         string              `grove:"guild_id"     bson:"guild_id"`
	Kind            string              `grove:"kind"         bson:"kind"`
	Title           string              `grove:"title"        bson:"title"`
	Description     string              `grove:"description"  bson:"description,omitempty"`
	StartsAt        time.Time           `grove:"starts_at"    bson:"starts_at"`
	EndsAt          *time.Time          `grove:"ends_at"      bson:"ends_at,omitempty"`
	Requirements    roster.Requirements `grove:"requirements" bson:"requirements"`
	IsCanceled      bool                `grove:"is_canceled"  bson:"is_canceled"`
	CreatedBy       string              `grove:"created_by"   bson:"created_by,omitempty"`
	Metadata        map[string]any      `grove:"metadata"     bson:"metadata,omitempty"`
	CreatedAt       time.Time           `grove:"created_at"   bson:"created_at"`
	UpdatedAt       time.Time           `grove:"updated_at"   bson:"updated_at"`
}

func instanceToModel(inst *event.Instance) *instanceModel {
	return &instanceModel{
		ID:           inst.ID.String(),
		AppID:        inst.AppID,
		GuildID:      inst.GuildID.String(),
		Kind:         string(inst.Kind),
		Title:        inst.Title,
		Description:  inst.Description,
		StartsAt:     inst.StartsAt,
		EndsAt:       inst.EndsAt,
		Requirements: inst.Requirements,
		IsCanceled:   inst.IsCanceled,
		CreatedBy:    inst.CreatedBy,
		Metadata:     inst.Metadata,
		CreatedAt:    inst.CreatedAt,
		UpdatedAt:    inst.UpdatedAt,
	}
}

func instanceFromModel(m *instanceModel) *event.Instance {
	iid, _ := id.ParseInstanceID(m.ID)   //nolint:errcheck // stored IDs are always valid
	gid, _ := id.ParseGuildID(m.GuildID) //nolint:errcheck // stored IDs are always valid
	return &event.Instance{
		ID:           iid,
		AppID:        m.AppID,
		GuildID:      gid,
		Kind:         event.Kind(m.Kind),
		Title:        m.Title,
		Description:  m.Description,
		StartsAt:     m.StartsAt,
		EndsAt:       m.EndsAt,
		Requirements: m.Requirements,
		IsCanceled:   m.IsCanceled,
		CreatedBy:    m.CreatedBy,
		Metadata:     m.Metadata,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Roster entry model
// ──────────────────────────────────────────────────

type entryModel struct {
	grove.BaseModel `grove:"table:muster_roster_entries"`
	ID              string     `grove:"id,pk"         bson:"_id"`
	InstanceID      string     `grove:"instance_id"   bson:"instance_id"`
	GuildID         string     `grove:"guild_id"      bson:"guild_id"`
	ActorID         string     `grove:"actor_id"      bson:"actor_id"`
	CharacterID     *string    `grove:"character_id"  bson:"character_id,omitempty"`
	Slot            string     `grove:"slot"          bson:"slot,omitempty"`
	Status          string     `grove:"status"        bson:"status"`
	Note            string     `grove:"note"          bson:"note,omitempty"`
	ConfirmedAt     *time.Time `grove:"confirmed_at"  bson:"confirmed_at,omitempty"`
	CheckedInAt     *time.Time `grove:"checked_in_at" bson:"checked_in_at,omitempty"`
	CreatedAt       time.Time  `grove:"created_at"    bson:"created_at"`
	UpdatedAt       time.Time  `grove:"updated_at"    bson:"updated_at"`
}

func entryToModel(e *roster.Entry) *entryModel {
	m := &entryModel{
		ID:          e.ID.String(),
		InstanceID:  e.InstanceID.String(),
		GuildID:     e.GuildID.String(),
		ActorID:     e.ActorID,
		Slot:        string(e.Slot),
		Status:      string(e.Status),
		Note:        e.Note,
		ConfirmedAt: e.ConfirmedAt,
		CheckedInAt: e.CheckedInAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if !e.CharacterID.IsNil() {
		s := e.CharacterID.String()
		m.CharacterID = &s
	}
	return m
}

func entryFromModel(m *entryModel) *roster.Entry {
	eid, _ := id.ParseEntryID(m.ID)            //nolint:errcheck // stored IDs are always valid
	iid, _ := id.ParseInstanceID(m.InstanceID) //nolint:errcheck // stored IDs are always valid
	gid, _ := id.ParseGuildID(m.GuildID)       //nolint:errcheck // stored IDs are always valid
	e := &roster.Entry{
		ID:          eid,
		InstanceID:  iid,
		GuildID:     gid,
		ActorID:     m.ActorID,
		Slot:        roster.Slot(m.Slot),
		Status:      roster.Status(m.Status),
		Note:        m.Note,
		ConfirmedAt: m.ConfirmedAt,
		CheckedInAt: m.CheckedInAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.CharacterID != nil {
		cid, err := id.ParseCharacterID(*m.CharacterID)
		if err == nil {
			e.CharacterID = cid
		}
	}
	return e
}

// ──────────────────────────────────────────────────
// Decision log model
// ──────────────────────────────────────────────────

type decisionLogModel struct {
	grove.BaseModel `grove:"table:muster_decision_logs"`
	ID              string         `grove:"id,pk"         bson:"_id"`
	AppID           string         `grove:"app_id"        bson:"app_id"`
	GuildID         string         `grove:"guild_id"      bson:"guild_id"`
	ActorID         string         `grove:"actor_id"      bson:"actor_id"`
	PermissionID    string         `grove:"permission_id" bson:"permission_id"`
	TargetID        string         `grove:"target_id"     bson:"target_id,omitempty"`
	Decision        string         `grove:"decision"      bson:"decision"`
	Reason          string         `grove:"reason"        bson:"reason,omitempty"`
	EvalTimeNs      int64          `grove:"eval_time_ns"  bson:"eval_time_ns"`
	Metadata        map[string]any `grove:"metadata"      bson:"metadata,omitempty"`
	CreatedAt       time.Time      `grove:"created_at"    bson:"created_at"`
}

func decisionLogToModel(e *decisionlog.Entry) *decisionLogModel {
	return &decisionLogModel{
		ID:           e.ID.String(),
		AppID:        e.AppID,
		GuildID:      e.GuildID.String(),
		ActorID:      e.ActorID,
		PermissionID: e.PermissionID,
		TargetID:     e.TargetID,
		Decision:     e.Decision,
		Reason:       e.Reason,
		EvalTimeNs:   e.EvalTimeNs,
		Metadata:     e.Metadata,
		CreatedAt:    e.CreatedAt,
	}
}

func decisionLogFromModel(m *decisionLogModel) *decisionlog.Entry {
	lid, _ := id.ParseDecisionLogID(m.ID) //nolint:errcheck // stored IDs are always valid
	gid, _ := id.ParseGuildID(m.GuildID)  //nolint:errcheck // stored IDs are always valid
	return &decisionlog.Entry{
		ID:           lid,
		AppID:        m.AppID,
		GuildID:      gid,
		ActorID:      m.ActorID,
		PermissionID: m.PermissionID,
		TargetID:     m.TargetID,
		Decision:     m.Decision,
		Reason:       m.Reason,
		EvalTimeNs:   m.EvalTimeNs,
		Metadata:     m.Metadata,
		CreatedAt:    m.CreatedAt,
	}
}
