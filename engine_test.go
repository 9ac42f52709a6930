package muster_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/muster"
	"github.com/xraph/muster/cache"
	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/decisionlog"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/override"
	"github.com/xraph/muster/rank"
	"github.com/xraph/muster/store/memory"
)

func newTestEngine(t *testing.T, opts ...muster.Option) (*muster.Engine, *memory.Store) {
	t.Helper()
	s := memory.New()
	eng, err := muster.NewEngine(append([]muster.Option{muster.WithStore(s)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return eng, s
}

func addMember(t *testing.T, s *memory.Store, guildID id.GuildID, userID string, role rank.Role) {
	t.Helper()
	now := time.Now().UTC()
	m := &membership.Membership{
		ID:        id.NewMembershipID(),
		GuildID:   guildID,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if role != rank.RolePending {
		m.ApprovedAt = &now
	}
	if err := s.CreateMembership(context.Background(), m); err != nil {
		t.Fatal(err)
	}
}

func guildCtx(guildID id.GuildID) context.Context {
	return muster.WithGuild(context.Background(), "app1", guildID.String())
}

func TestNewEngine_RequiresStore(t *testing.T) {
	_, err := muster.NewEngine()
	if err == nil {
		t.Fatal("expected error when store is nil")
	}
}

func TestAuthorize_RequiresGuildScope(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.Authorize(context.Background(), &muster.AuthorizeRequest{
		ActorID:       "u1",
		AnyPermission: catalog.EventsCreate,
	})
	if !errors.Is(err, muster.ErrNoGuildScope) {
		t.Fatalf("expected ErrNoGuildScope, got %v", err)
	}
}

func TestAuthorize_NoMembership(t *testing.T) {
	eng, _ := newTestEngine(t)
	guildID := id.NewGuildID()

	result, err := eng.Authorize(guildCtx(guildID), &muster.AuthorizeRequest{
		ActorID:       "stranger",
		AnyPermission: catalog.EventsSignup,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected denied for non-member")
	}
	if result.Decision != muster.DecisionDenyNoMembership {
		t.Fatalf("expected deny_no_membership, got %s", result.Decision)
	}
}

func TestAuthorize_AnyGrant(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "officer1", rank.RoleOfficer)

	// Officer edits someone else's character via the any-scoped grant.
	result, err := eng.Authorize(guildCtx(guildID), &muster.AuthorizeRequest{
		ActorID:       "officer1",
		AnyPermission: catalog.CharactersEditAny,
		OwnPermission: catalog.CharactersEditOwn,
		OwnerID:       "member1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Allowed {
		t.Fatalf("expected allowed via any grant, got %s: %s", result.Decision, result.Reason)
	}
	if result.Decision != muster.DecisionAllow {
		t.Fatalf("expected decision allow, got %s", result.Decision)
	}
}

func TestAuthorize_OwnGrant(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)

	ctx := guildCtx(guildID)

	// Own resource — the own-scoped grant suffices.
	result, err := eng.Authorize(ctx, &muster.AuthorizeRequest{
		ActorID:       "member1",
		AnyPermission: catalog.CharactersEditAny,
		OwnPermission: catalog.CharactersEditOwn,
		OwnerID:       "member1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Allowed {
		t.Fatalf("expected allowed on own resource, got %s: %s", result.Decision, result.Reason)
	}

	// Someone else's resource — members hold no any-scoped edit.
	result, err = eng.Authorize(ctx, &muster.AuthorizeRequest{
		ActorID:       "member1",
		AnyPermission: catalog.CharactersEditAny,
		OwnPermission: catalog.CharactersEditOwn,
		OwnerID:       "member2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected denied on another member's resource")
	}
	if result.Decision != muster.DecisionDenyNotOwner {
		t.Fatalf("expected deny_not_owner, got %s", result.Decision)
	}
}

func TestAuthorize_NoPerms(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "trial1", rank.RoleTrial)

	// Trials hold neither ship-edit permission.
	result, err := eng.Authorize(guildCtx(guildID), &muster.AuthorizeRequest{
		ActorID:       "trial1",
		AnyPermission: catalog.ShipsEditAny,
		OwnPermission: catalog.ShipsEditOwn,
		OwnerID:       "trial1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected denied without either grant")
	}
	if result.Decision != muster.DecisionDenyNoPerms {
		t.Fatalf("expected deny_no_perms, got %s", result.Decision)
	}
}

func TestAuthorize_UnknownPermissionDenied(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "admin1", rank.RoleAdmin)

	// Even admins never hold an id outside the catalog.
	result, err := eng.Authorize(guildCtx(guildID), &muster.AuthorizeRequest{
		ActorID:       "admin1",
		AnyPermission: "fleet_teleport",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected denied for unknown permission id")
	}
}

func TestAuthorize_OverridesFlipGrants(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)

	ctx := guildCtx(guildID)

	if err := s.SetOverride(ctx, &override.Override{
		ID:      id.NewOverrideID(),
		GuildID: guildID,
		Role:    rank.RoleMember,
		Grants: catalog.Overrides{
			catalog.EventsCreate: true,  // force on
			catalog.EventsSignup: false, // force off
		},
	}); err != nil {
		t.Fatal(err)
	}

	allowed, err := eng.Can(ctx, "member1", catalog.EventsCreate)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Fatal("expected events_create forced on by override")
	}

	allowed, err = eng.Can(ctx, "member1", catalog.EventsSignup)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Fatal("expected events_signup forced off by override")
	}

	// Untouched grants fall through to the defaults.
	allowed, err = eng.Can(ctx, "member1", catalog.CharactersEditOwn)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Fatal("expected untouched default grant to survive the patch")
	}
}

func TestHierarchyCap(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "admin1", rank.RoleAdmin)
	addMember(t, s, guildID, "officer1", rank.RoleOfficer)
	addMember(t, s, guildID, "officer2", rank.RoleOfficer)

	ctx := guildCtx(guildID)

	// Officer holds characters_edit_any, but the target outranks them.
	result, err := eng.Authorize(ctx, &muster.AuthorizeRequest{
		ActorID:       "officer1",
		AnyPermission: catalog.CharactersEditAny,
		TargetUserID:  "admin1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected denied against higher rank")
	}
	if result.Decision != muster.DecisionDenyHierarchy {
		t.Fatalf("expected deny_hierarchy, got %s", result.Decision)
	}

	// Equal rank is also capped: strictly greater only.
	result, err = eng.Authorize(ctx, &muster.AuthorizeRequest{
		ActorID:       "officer1",
		AnyPermission: catalog.CharactersEditAny,
		TargetUserID:  "officer2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Decision != muster.DecisionDenyHierarchy {
		t.Fatalf("expected deny_hierarchy for equal rank, got %s", result.Decision)
	}

	// Admin over officer passes.
	result, err = eng.Authorize(ctx, &muster.AuthorizeRequest{
		ActorID:       "admin1",
		AnyPermission: catalog.CharactersEditAny,
		TargetUserID:  "officer1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Allowed {
		t.Fatalf("expected allowed over lower rank, got %s: %s", result.Decision, result.Reason)
	}

	// Self-targeted actions skip the cap entirely.
	result, err = eng.Authorize(ctx, &muster.AuthorizeRequest{
		ActorID:       "officer1",
		AnyPermission: catalog.CharactersEditAny,
		TargetUserID:  "officer1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Allowed {
		t.Fatalf("expected allowed on self, got %s: %s", result.Decision, result.Reason)
	}
}

func TestHierarchyCap_UnknownTarget(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "admin1", rank.RoleAdmin)

	result, err := eng.Authorize(guildCtx(guildID), &muster.AuthorizeRequest{
		ActorID:       "admin1",
		AnyPermission: catalog.MembersRemove,
		TargetUserID:  "ghost",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Fatal("expected denied for unknown target")
	}
	if result.Decision != muster.DecisionDenyUnknownTarget {
		t.Fatalf("expected deny_unknown_target, got %s", result.Decision)
	}
}

func TestEnforce(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)

	ctx := guildCtx(guildID)

	if err := eng.Enforce(ctx, &muster.AuthorizeRequest{
		ActorID:       "member1",
		AnyPermission: catalog.EventsSignup,
	}); err != nil {
		t.Fatalf("expected no error for allowed check, got %v", err)
	}

	err := eng.Enforce(ctx, &muster.AuthorizeRequest{
		ActorID:       "member1",
		AnyPermission: catalog.GuildDelete,
	})
	if !errors.Is(err, muster.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestCanAllCanAny(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)

	ctx := guildCtx(guildID)

	ok, err := eng.CanAll(ctx, "member1", []string{catalog.EventsSignup, catalog.SiegeSignup})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected CanAll true when every grant is held")
	}

	ok, err = eng.CanAll(ctx, "member1", []string{catalog.EventsSignup, catalog.GuildDelete})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected CanAll false when one grant is missing")
	}

	ok, err = eng.CanAny(ctx, "member1", []string{catalog.GuildDelete, catalog.EventsSignup})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected CanAny true when one grant is held")
	}

	// Vacuous truth: the empty conjunction holds, the empty disjunction fails.
	ok, err = eng.CanAll(ctx, "member1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected CanAll true on empty list")
	}

	ok, err = eng.CanAny(ctx, "member1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected CanAny false on empty list")
	}
}

func TestGrantsFor(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "trial1", rank.RoleTrial)

	ctx := guildCtx(guildID)

	grants, err := eng.GrantsFor(ctx, "trial1")
	if err != nil {
		t.Fatal(err)
	}
	if len(grants) != len(catalog.Grants(rank.RoleTrial)) {
		t.Fatalf("expected %d default grants, got %d", len(catalog.Grants(rank.RoleTrial)), len(grants))
	}

	if err := s.SetOverride(ctx, &override.Override{
		ID:      id.NewOverrideID(),
		GuildID: guildID,
		Role:    rank.RoleTrial,
		Grants:  catalog.Overrides{catalog.EventsSignup: false},
	}); err != nil {
		t.Fatal(err)
	}

	grants, err = eng.GrantsFor(ctx, "trial1")
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range grants {
		if g == catalog.EventsSignup {
			t.Fatal("expected events_signup removed by override")
		}
	}

	// Non-members hold nothing.
	grants, err = eng.GrantsFor(ctx, "stranger")
	if err != nil {
		t.Fatal(err)
	}
	if grants != nil {
		t.Fatalf("expected nil grants for non-member, got %v", grants)
	}
}

func TestDecisionLogWrittenOnDeny(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "trial1", rank.RoleTrial)

	ctx := guildCtx(guildID)

	// One allow, one deny. Default config logs denies only.
	if _, err := eng.Authorize(ctx, &muster.AuthorizeRequest{
		ActorID:       "trial1",
		AnyPermission: catalog.EventsSignup,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Authorize(ctx, &muster.AuthorizeRequest{
		ActorID:       "trial1",
		AnyPermission: catalog.GuildDelete,
	}); err != nil {
		t.Fatal(err)
	}

	logs, err := s.ListDecisionLogs(ctx, &decisionlog.QueryFilter{GuildID: &guildID})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 logged decision, got %d", len(logs))
	}
	if logs[0].Decision != string(muster.DecisionDenyNoPerms) {
		t.Fatalf("expected deny_no_perms in log, got %s", logs[0].Decision)
	}
	if logs[0].PermissionID != catalog.GuildDelete {
		t.Fatalf("expected guild_delete in log, got %s", logs[0].PermissionID)
	}
}

func TestAuthorizeCacheInvalidation(t *testing.T) {
	eng, s := newTestEngine(t, muster.WithCache(cache.NewMemory()))
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)

	ctx := guildCtx(guildID)

	allowed, err := eng.Can(ctx, "member1", catalog.EventsSignup)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Fatal("expected allowed before override")
	}

	// Force the grant off. The cached allow survives until invalidation.
	if err := s.SetOverride(ctx, &override.Override{
		ID:      id.NewOverrideID(),
		GuildID: guildID,
		Role:    rank.RoleMember,
		Grants:  catalog.Overrides{catalog.EventsSignup: false},
	}); err != nil {
		t.Fatal(err)
	}

	allowed, err = eng.Can(ctx, "member1", catalog.EventsSignup)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Fatal("expected stale cached allow before invalidation")
	}

	eng.InvalidateGuild(ctx, guildID)

	allowed, err = eng.Can(ctx, "member1", catalog.EventsSignup)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Fatal("expected denied after invalidation")
	}
}

func TestAuthorizeEvalTime(t *testing.T) {
	eng, s := newTestEngine(t)
	guildID := id.NewGuildID()
	addMember(t, s, guildID, "member1", rank.RoleMember)

	result, err := eng.Authorize(guildCtx(guildID), &muster.AuthorizeRequest{
		ActorID:       "member1",
		AnyPermission: catalog.EventsSignup,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.EvalTimeNs <= 0 {
		t.Fatal("expected positive eval time")
	}
}
