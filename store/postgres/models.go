package postgres

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
	ID              string         `grove:"id,pk"`
	AppID           string         `grove:"app_id,notnull"`
	GuildID         string         `grove:"guild_id,notnull"`
	UserID          string         `grove:"user_id,notnull"`
	Role            string         `grove:"role,notnull"`
	IsCreator       bool           `grove:"is_creator,notnull"`
	InvitedBy       string         `grove:"invited_by"`
	ApprovedAt      *time.Time     `grove:"approved_at"`
	Metadata        map[string]any `grove:"metadata,type:jsonb"`
	CreatedAt       time.Time      `grove:"created_at,notnull"`
	UpdatedAt       time.Time      `grove:"updated_at,notnull"`
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
	ID              string          `grove:"id,pk"`
	AppID           string          `grove:"app_id,notnull"`
	GuildID         string          `grove:"guild_id,notnull"`
	Role            string          `grove:"role,notnull"`
	Grants          map[string]bool `grove:"grants,type:jsonb"`
	UpdatedBy       string          `grove:"updated_by"`
	CreatedAt       time.Time       `grove:"created_at,notnull"`
	UpdatedAt       time.Time       `grove:"updated_at,notnull"`
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
	ID              string              `grove:"id,pk"`
	AppID           string              `grove:"app_id,notnull"`
	GuildID         string              `grove:"guild_id,notnull"`
	Kind            string              `grove:"kind,notnull"`
	Title           string              `grove:"title,notnull"`
	Description     string              `grove:"description"`
	StartsAt        time.Time           `grove:"starts_at,notnull"`
	EndsAt          *time.Time          `grove:"ends_at"`
	Requirements    roster.Requirements `grove:"requirements,type:jsonb"`
	IsCanceled      bool                `grove:"is_canceled,notnull"`
	CreatedBy       string              `grove:"created_by"`
	Metadata        map[string]any      `grove:"metadata,type:jsonb"`
	CreatedAt       time.Time           `grove:"created_at,notnull"`
	UpdatedAt       time.Time           `grove:"updated_at,notnull"`
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
	ID              string     `grove:"id,pk"`
	InstanceID      string     `grove:"instance_id,notnull"`
	GuildID         string     `grove:"guild_id,notnull"`
	ActorID         string     `grove:"actor_id,notnull"`
	CharacterID     *string    `grove:"character_id"`
	Slot            string     `grove:"slot"`
	Status          string     `grove:"status,notnull"`
	Note            string     `grove:"note"`
	ConfirmedAt     *time.Time `grove:"confirmed_at"`
	CheckedInAt     *time.Time `grove:"checked_in_at"`
	CreatedAt       time.Time  `grove:"created_at,notnull"`
	UpdatedAt       time.Time  `grove:"updated_at,notnull"`
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
	ID              string         `grove:"id,pk"`
	AppID           string         `grove:"app_id,notnull"`
	GuildID         string         `grove:"guild_id,notnull"`
	ActorID         string         `grove:"actor_id,notnull"`
	PermissionID    string         `grove:"permission_id,notnull"`
	TargetID        string         `grove:"target_id"`
	Decision        string         `grove:"decision,notnull"`
	Reason          string         `grove:"reason"`
	EvalTimeNs      int64          `grove:"eval_time_ns,notnull"`
	Metadata        map[string]any `grove:"metadata,type:jsonb"`
	CreatedAt       time.Time      `grove:"created_at,notnull"`
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
