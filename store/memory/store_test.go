package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/muster"
	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/decisionlog"
	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/override"
	"github.com/xraph/muster/rank"
	"github.com/xraph/muster/roster"
	"github.com/xraph/muster/store"
)

// Compile-time check that *Store implements store.Store.
var _ store.Store = (*Store)(nil)

func TestMembershipCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	guildID := id.NewGuildID()

	m := &membership.Membership{
		ID:      id.NewMembershipID(),
		AppID:   "app1",
		GuildID: guildID,
		UserID:  "user_1",
		Role:    rank.RoleMember,
	}

	// Create
	if err := s.CreateMembership(ctx, m); err != nil {
		t.Fatal(err)
	}

	// Duplicate (guild, user) rejected.
	dup := &membership.Membership{
		ID:      id.NewMembershipID(),
		GuildID: guildID,
		UserID:  "user_1",
		Role:    rank.RoleTrial,
	}
	if err := s.CreateMembership(ctx, dup); !errors.Is(err, muster.ErrDuplicateMembership) {
		t.Fatalf("expected ErrDuplicateMembership, got %v", err)
	}

	// Get
	got, err := s.GetMembership(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != rank.RoleMember {
		t.Fatalf("expected member, got %s", got.Role)
	}

	// GetByUser
	got, err = s.GetMembershipByUser(ctx, guildID, "user_1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID.String() != m.ID.String() {
		t.Fatal("user lookup mismatch")
	}

	// Absent user resolves to nil, nil.
	got, err = s.GetMembershipByUser(ctx, guildID, "stranger")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for absent user, got %v, %v", got, err)
	}

	// Update
	m.Role = rank.RoleOfficer
	if err := s.UpdateMembership(ctx, m); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetMembership(ctx, m.ID)
	if got.Role != rank.RoleOfficer {
		t.Fatal("update failed")
	}

	// List + Count
	list, _ := s.ListMemberships(ctx, &membership.ListFilter{GuildID: &guildID})
	if len(list) != 1 {
		t.Fatalf("expected 1 membership, got %d", len(list))
	}
	count, _ := s.CountByRole(ctx, guildID, rank.RoleOfficer)
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Delete
	if err := s.DeleteMembership(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetMembership(ctx, m.ID); !errors.Is(err, muster.ErrMembershipNotFound) {
		t.Fatalf("expected ErrMembershipNotFound after delete, got %v", err)
	}
}

func TestOverrideUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()
	guildID := id.NewGuildID()

	first := &override.Override{
		ID:      id.NewOverrideID(),
		GuildID: guildID,
		Role:    rank.RoleMember,
		Grants:  catalog.Overrides{catalog.EventsCreate: true},
	}
	if err := s.SetOverride(ctx, first); err != nil {
		t.Fatal(err)
	}

	// No patch for other roles.
	grants, err := s.GetOverrides(ctx, guildID, rank.RoleTrial)
	if err != nil || grants != nil {
		t.Fatalf("expected nil overrides for untouched role, got %v, %v", grants, err)
	}

	grants, err = s.GetOverrides(ctx, guildID, rank.RoleMember)
	if err != nil {
		t.Fatal(err)
	}
	if !grants[catalog.EventsCreate] {
		t.Fatal("missing granted override")
	}

	// Replacing the patch drops the previous row.
	second := &override.Override{
		ID:      id.NewOverrideID(),
		GuildID: guildID,
		Role:    rank.RoleMember,
		Grants:  catalog.Overrides{catalog.EventsSignup: false},
	}
	if err := s.SetOverride(ctx, second); err != nil {
		t.Fatal(err)
	}
	grants, _ = s.GetOverrides(ctx, guildID, rank.RoleMember)
	if _, ok := grants[catalog.EventsCreate]; ok {
		t.Fatal("old patch should be gone")
	}
	if v, ok := grants[catalog.EventsSignup]; !ok || v {
		t.Fatal("new patch should revoke events_signup")
	}
	list, _ := s.ListOverrides(ctx, &override.ListFilter{GuildID: &guildID})
	if len(list) != 1 {
		t.Fatalf("expected 1 override row, got %d", len(list))
	}

	// Unknown permission ids are rejected loudly.
	bad := &override.Override{
		ID:      id.NewOverrideID(),
		GuildID: guildID,
		Role:    rank.RoleMember,
		Grants:  catalog.Overrides{"bogus_permission": true},
	}
	if err := s.SetOverride(ctx, bad); !errors.Is(err, muster.ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}

	// Delete restores defaults; deleting again is a no-op.
	if err := s.DeleteOverride(ctx, guildID, rank.RoleMember); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteOverride(ctx, guildID, rank.RoleMember); err != nil {
		t.Fatal(err)
	}
	grants, _ = s.GetOverrides(ctx, guildID, rank.RoleMember)
	if grants != nil {
		t.Fatal("expected nil overrides after delete")
	}
}

func TestInstanceCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	guildID := id.NewGuildID()
	maxAtt := 10

	inst := &event.Instance{
		ID:       id.NewInstanceID(),
		GuildID:  guildID,
		Kind:     event.KindEvent,
		Title:    "Weekly raid",
		StartsAt: time.Now().Add(24 * time.Hour),
		Requirements: roster.Requirements{
			MaxAttendees: &maxAtt,
			Slots:        []roster.SlotRequirement{{Slot: "tank", Min: 1}},
		},
	}
	if err := s.CreateInstance(ctx, inst); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetInstance(ctx, inst.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Weekly raid" || got.Requirements.MaxAttendees == nil {
		t.Fatal("instance round-trip mismatch")
	}

	// Stored requirements are isolated from caller mutation.
	inst.Requirements.Slots[0].Slot = "mutated"
	got, _ = s.GetInstance(ctx, inst.ID)
	if got.Requirements.Slots[0].Slot != "tank" {
		t.Fatal("requirements should be copied on write")
	}

	got.IsCanceled = true
	if err := s.UpdateInstance(ctx, got); err != nil {
		t.Fatal(err)
	}
	canceled := true
	list, _ := s.ListInstances(ctx, &event.ListFilter{GuildID: &guildID, IsCanceled: &canceled})
	if len(list) != 1 {
		t.Fatalf("expected 1 canceled instance, got %d", len(list))
	}

	if _, err := s.GetInstance(ctx, id.NewInstanceID()); !errors.Is(err, muster.ErrInstanceNotFound) {
		t.Fatalf("expected ErrInstanceNotFound, got %v", err)
	}
}

func TestEntryUpsertUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	guildID := id.NewGuildID()
	instID := id.NewInstanceID()

	first := &roster.Entry{
		ID:         id.NewEntryID(),
		InstanceID: instID,
		GuildID:    guildID,
		ActorID:    "user_1",
		Slot:       "tank",
		Status:     roster.StatusAttending,
	}
	if err := s.UpsertEntry(ctx, first); err != nil {
		t.Fatal(err)
	}

	// A second upsert for the same (instance, actor) under a new ID
	// replaces the row instead of adding one.
	second := &roster.Entry{
		ID:         id.NewEntryID(),
		InstanceID: instID,
		GuildID:    guildID,
		ActorID:    "user_1",
		Slot:       "healer",
		Status:     roster.StatusMaybe,
	}
	if err := s.UpsertEntry(ctx, second); err != nil {
		t.Fatal(err)
	}

	list, _ := s.ListEntries(ctx, &roster.ListFilter{InstanceID: &instID})
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}
	if list[0].Slot != "healer" {
		t.Fatalf("expected replacement entry, got slot %s", list[0].Slot)
	}

	got, err := s.GetEntryByActor(ctx, instID, "user_1")
	if err != nil || got == nil {
		t.Fatalf("actor lookup failed: %v", err)
	}
	got, err = s.GetEntryByActor(ctx, instID, "user_2")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for absent actor, got %v, %v", got, err)
	}

	// Occupying filter excludes declined entries.
	declined := &roster.Entry{
		ID:         id.NewEntryID(),
		InstanceID: instID,
		GuildID:    guildID,
		ActorID:    "user_2",
		Status:     roster.StatusDeclined,
	}
	if err := s.UpsertEntry(ctx, declined); err != nil {
		t.Fatal(err)
	}
	occupying, _ := s.ListEntries(ctx, &roster.ListFilter{InstanceID: &instID, Occupying: true})
	if len(occupying) != 1 {
		t.Fatalf("expected 1 occupying entry, got %d", len(occupying))
	}

	if err := s.DeleteEntriesByInstance(ctx, instID); err != nil {
		t.Fatal(err)
	}
	remaining, _ := s.ListEntries(ctx, &roster.ListFilter{InstanceID: &instID})
	if len(remaining) != 0 {
		t.Fatalf("expected empty roster, got %d", len(remaining))
	}
}

func TestDecisionLogPurge(t *testing.T) {
	ctx := context.Background()
	s := New()
	guildID := id.NewGuildID()

	old := &decisionlog.Entry{
		ID:        id.NewDecisionLogID(),
		GuildID:   guildID,
		ActorID:   "user_1",
		Decision:  "deny_no_perms",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	fresh := &decisionlog.Entry{
		ID:        id.NewDecisionLogID(),
		GuildID:   guildID,
		ActorID:   "user_1",
		Decision:  "allow",
		CreatedAt: time.Now(),
	}
	if err := s.CreateDecisionLog(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDecisionLog(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	purged, err := s.PurgeDecisionLogs(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged, got %d", purged)
	}

	list, _ := s.ListDecisionLogs(ctx, &decisionlog.QueryFilter{GuildID: &guildID})
	if len(list) != 1 || list[0].Decision != "allow" {
		t.Fatal("purge removed the wrong entries")
	}
}
