package muster_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/muster"
	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/rank"
	"github.com/xraph/muster/roster"
	"github.com/xraph/muster/store/memory"
)

func addInstance(t *testing.T, s *memory.Store, guildID id.GuildID, kind event.Kind, req roster.Requirements) *event.Instance {
	t.Helper()
	now := time.Now().UTC()
	inst := &event.Instance{
		ID:           id.NewInstanceID(),
		GuildID:      guildID,
		Kind:         kind,
		Title:        "night raid",
		StartsAt:     now.Add(24 * time.Hour),
		Requirements: req,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateInstance(context.Background(), inst); err != nil {
		t.Fatal(err)
	}
	return inst
}

func intPtr(n int) *int { return &n }

func mustSignup(t *testing.T, eng *muster.Engine, ctx context.Context, req *muster.SignupRequest) *muster.SignupResult {
	t.Helper()
	result, err := eng.Signup(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Allowed {
		t.Fatalf("expected admitted, got %s: %s", result.Decision, result.Reason)
	}
	return result
}

func TestSignupDefaults(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{})

	result := mustSignup(t, eng, guildCtx(guildID), &muster.SignupRequest{
		ActorID:    "member1",
		InstanceID: inst.ID,
	})
	if result.Entry.Status != roster.StatusAttending {
		t.Fatalf("expected default attending, got %s", result.Entry.Status)
	}
	if result.Counts.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Counts.Total)
	}
}

func TestSignupWithoutPermission(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "applicant", rank.RolePending)
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{})

	result, err := eng.Signup(guildCtx(guildID), &muster.SignupRequest{
		ActorID:    "applicant",
		InstanceID: inst.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected denied for pending member")
	}
	if result.Decision != muster.DecisionDenyNoPerms {
		t.Fatalf("expected deny_no_perms, got %s", result.Decision)
	}
	if result.Entry != nil {
		t.Fatal("expected no entry on denial")
	}
}

func TestSignupSlotCapacity(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	for _, u := range []string{"m1", "m2", "m3"} {
		addMember(t, s, guildID, u, rank.RoleMember)
	}
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{
		Slots: []roster.SlotRequirement{{Slot: "tank", Min: 1, Max: intPtr(2)}},
	})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID, Slot: "tank"})
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m2", InstanceID: inst.ID, Slot: "tank"})

	result, err := eng.Signup(ctx, &muster.SignupRequest{ActorID: "m3", InstanceID: inst.ID, Slot: "tank"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected third tank denied")
	}
	if result.Decision != muster.DecisionDenyCapacity {
		t.Fatalf("expected deny_capacity, got %s", result.Decision)
	}
	if result.Capacity == nil || result.Capacity.Scope != "slot" || result.Capacity.Limit != 2 || result.Capacity.Count != 2 {
		t.Fatalf("unexpected violation: %+v", result.Capacity)
	}
	if result.Counts.Total != 2 {
		t.Fatalf("expected occupancy unchanged at 2, got %d", result.Counts.Total)
	}

	// The unbounded rest of the roster still admits.
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m3", InstanceID: inst.ID, Slot: "healer"})
}

func TestSignupSelfExclusion(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "m1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{
		Slots: []roster.SlotRequirement{{Slot: "tank", Max: intPtr(1)}},
	})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID, Slot: "tank"})

	// The slot is full, but the occupant changing status must not block
	// on their own seat.
	result := mustSignup(t, eng, ctx, &muster.SignupRequest{
		ActorID:    "m1",
		InstanceID: inst.ID,
		Slot:       "tank",
		Status:     roster.StatusMaybe,
	})
	if result.Entry.Status != roster.StatusMaybe {
		t.Fatalf("expected maybe, got %s", result.Entry.Status)
	}
	if result.Counts.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Counts.Total)
	}
}

func TestSignupCombinedPool(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	for _, u := range []string{"m1", "m2", "m3", "m4"} {
		addMember(t, s, guildID, u, rank.RoleMember)
	}
	// The cannon slot's own max would forbid a second cannon crew, but
	// pooled slots are governed by the shared maximum alone.
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{
		Slots: []roster.SlotRequirement{{Slot: "cannon", Max: intPtr(1)}},
		Pools: []roster.CombinedPool{{Slots: []roster.Slot{"cannon", "ballista"}, Max: 3}},
	})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID, Slot: "cannon"})
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m2", InstanceID: inst.ID, Slot: "cannon"})
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m3", InstanceID: inst.ID, Slot: "ballista"})

	result, err := eng.Signup(ctx, &muster.SignupRequest{ActorID: "m4", InstanceID: inst.ID, Slot: "ballista"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected fourth pooled signup denied")
	}
	if result.Capacity == nil || result.Capacity.Scope != "pool" || result.Capacity.Limit != 3 {
		t.Fatalf("unexpected violation: %+v", result.Capacity)
	}
}

func TestSignupMaxAttendees(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	for _, u := range []string{"m1", "m2", "m3"} {
		addMember(t, s, guildID, u, rank.RoleMember)
	}
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{
		MaxAttendees: intPtr(2),
	})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID})
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m2", InstanceID: inst.ID, Status: roster.StatusMaybe})

	// Tentative entries occupy capacity too.
	result, err := eng.Signup(ctx, &muster.SignupRequest{ActorID: "m3", InstanceID: inst.ID})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected third attendee denied")
	}
	if result.Capacity == nil || result.Capacity.Scope != "instance" {
		t.Fatalf("unexpected violation: %+v", result.Capacity)
	}
}

func TestSignupUpsert(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "m1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{})

	ctx := guildCtx(guildID)
	first := mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID, Slot: "tank"})
	second := mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID, Slot: "healer"})

	if second.Entry.ID != first.Entry.ID {
		t.Fatal("expected the entry to move, not duplicate")
	}
	if second.Counts.Total != 1 {
		t.Fatalf("expected total 1 after slot move, got %d", second.Counts.Total)
	}
	if second.Counts.BySlot["tank"] != 0 || second.Counts.BySlot["healer"] != 1 {
		t.Fatalf("expected seat to follow the move, got %+v", second.Counts.BySlot)
	}
}

func TestSignupEventVocabulary(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "m1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{})

	_, err := eng.Signup(guildCtx(guildID), &muster.SignupRequest{
		ActorID:    "m1",
		InstanceID: inst.ID,
		Status:     roster.StatusSignedUp,
	})
	if !errors.Is(err, muster.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for siege status on event, got %v", err)
	}
}

func TestSignupSiegeVocabulary(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "officer1", rank.RoleOfficer)
	inst := addInstance(t, s, guildID, event.KindSiege, roster.Requirements{})

	ctx := guildCtx(guildID)

	// The track is entered at signed_up only: confirmed and checked_in
	// exist solely as transitions, so a fresh signup cannot claim them
	// and skip the timestamps those transitions stamp.
	for _, status := range []roster.Status{
		roster.StatusConfirmed,
		roster.StatusCheckedIn,
		roster.StatusAttending,
		roster.StatusDeclined,
	} {
		_, err := eng.Signup(ctx, &muster.SignupRequest{
			ActorID:    "officer1",
			InstanceID: inst.ID,
			Status:     status,
		})
		if !errors.Is(err, muster.ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus for %q on a siege signup, got %v", status, err)
		}
	}

	// An existing signed_up entry cannot be promoted through Signup
	// either; only Confirm advances it.
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "officer1", InstanceID: inst.ID})
	_, err := eng.Signup(ctx, &muster.SignupRequest{
		ActorID:    "officer1",
		InstanceID: inst.ID,
		Status:     roster.StatusConfirmed,
	})
	if !errors.Is(err, muster.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus promoting via signup, got %v", err)
	}
}

func TestSignupCanceledInstance(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "m1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{})

	ctx := guildCtx(guildID)
	inst.IsCanceled = true
	if err := s.UpdateInstance(ctx, inst); err != nil {
		t.Fatal(err)
	}

	_, err := eng.Signup(ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID})
	if !errors.Is(err, muster.ErrInstanceCanceled) {
		t.Fatalf("expected ErrInstanceCanceled, got %v", err)
	}
}

func TestWithdrawDeletesEntry(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "m1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID})

	// Withdrawing removes the row outright and is idempotent.
	for i := 0; i < 2; i++ {
		result, err := eng.Withdraw(ctx, inst.ID, "m1")
		if err != nil {
			t.Fatal(err)
		}
		if result.Counts.Total != 0 {
			t.Fatalf("expected seat freed, got total %d", result.Counts.Total)
		}
		if result.Entry != nil {
			t.Fatalf("expected no entry after withdraw, got %+v", result.Entry)
		}
	}

	entries, err := s.ListEntries(ctx, &roster.ListFilter{InstanceID: &inst.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected an empty roster after withdraw, got %d entries", len(entries))
	}

	// Withdrawing without ever signing up is a harmless no-op.
	result, err := eng.Withdraw(ctx, inst.ID, "never-signed-up")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry != nil {
		t.Fatal("expected no entry for an actor who never signed up")
	}
}

func TestSiegeFlow(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "officer1", rank.RoleOfficer)
	addMember(t, s, guildID, "member1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindSiege, roster.Requirements{})

	ctx := guildCtx(guildID)

	result := mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "member1", InstanceID: inst.ID})
	if result.Entry.Status != roster.StatusSignedUp {
		t.Fatalf("expected default signed_up, got %s", result.Entry.Status)
	}

	result, err := eng.Confirm(ctx, inst.ID, "member1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry.Status != roster.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", result.Entry.Status)
	}
	if result.Entry.ConfirmedAt == nil {
		t.Fatal("expected confirmation timestamp")
	}

	// Confirming again is a no-op, not an error.
	result, err = eng.Confirm(ctx, inst.ID, "member1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry.Status != roster.StatusConfirmed {
		t.Fatalf("expected still confirmed, got %s", result.Entry.Status)
	}

	// Delegated check-in: the officer outranks the member and holds
	// siege_checkin_any.
	result, err = eng.CheckIn(ctx, inst.ID, "member1", "officer1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry.Status != roster.StatusCheckedIn {
		t.Fatalf("expected checked_in, got %s", result.Entry.Status)
	}
	if result.Entry.CheckedInAt == nil {
		t.Fatal("expected check-in timestamp")
	}
}

func TestSiegeCheckInRequiresPermission(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)
	addMember(t, s, guildID, "member2", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindSiege, roster.Requirements{})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "member2", InstanceID: inst.ID})

	// Members hold no check-in grant, even for themselves.
	result, err := eng.CheckIn(ctx, inst.ID, "member2", "member1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected denied without siege_checkin_any")
	}
	if result.Decision != muster.DecisionDenyNoPerms {
		t.Fatalf("expected deny_no_perms, got %s", result.Decision)
	}
}

func TestSiegeForwardOnly(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "officer1", rank.RoleOfficer)
	inst := addInstance(t, s, guildID, event.KindSiege, roster.Requirements{})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "officer1", InstanceID: inst.ID})

	if _, err := eng.Confirm(ctx, inst.ID, "officer1"); err != nil {
		t.Fatal(err)
	}

	// Dropping back to signed_up is not a move the track allows.
	_, err := eng.Signup(ctx, &muster.SignupRequest{
		ActorID:    "officer1",
		InstanceID: inst.ID,
		Status:     roster.StatusSignedUp,
	})
	if !errors.Is(err, muster.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// Withdrawing is the one exit, and re-signing starts the track over.
	if _, err := eng.Withdraw(ctx, inst.ID, "officer1"); err != nil {
		t.Fatal(err)
	}
	result := mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "officer1", InstanceID: inst.ID})
	if result.Entry.Status != roster.StatusSignedUp {
		t.Fatalf("expected fresh signed_up, got %s", result.Entry.Status)
	}
	if result.Entry.ConfirmedAt != nil {
		t.Fatal("expected confirmation cleared after withdraw")
	}
}

func TestSiegeCheckInSkipsConfirm(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "officer1", rank.RoleOfficer)
	inst := addInstance(t, s, guildID, event.KindSiege, roster.Requirements{})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "officer1", InstanceID: inst.ID})

	// signed_up → checked_in is forward, the confirmed stage is optional.
	result, err := eng.CheckIn(ctx, inst.ID, "officer1", "officer1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry.Status != roster.StatusCheckedIn {
		t.Fatalf("expected checked_in, got %s", result.Entry.Status)
	}
}

func TestConfirmAfterWithdrawRejected(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindSiege, roster.Requirements{})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "member1", InstanceID: inst.ID})
	if _, err := eng.Withdraw(ctx, inst.ID, "member1"); err != nil {
		t.Fatal(err)
	}

	_, err := eng.Confirm(ctx, inst.ID, "member1")
	if !errors.Is(err, muster.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound after withdraw, got %v", err)
	}
}

func TestConfirmOnEventRejected(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "m1", rank.RoleMember)
	inst := addInstance(t, s, guildID, event.KindEvent, roster.Requirements{})

	ctx := guildCtx(guildID)
	mustSignup(t, eng, ctx, &muster.SignupRequest{ActorID: "m1", InstanceID: inst.ID})

	_, err := eng.Confirm(ctx, inst.ID, "m1")
	if !errors.Is(err, muster.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus on non-siege, got %v", err)
	}
}
