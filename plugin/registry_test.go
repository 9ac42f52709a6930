package plugin

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/rank"
	"github.com/xraph/muster/roster"
)

// testPlugin implements Plugin + MembershipCreated + AfterAuthorize + EntryUpserted.
type testPlugin struct {
	membershipCreatedCalled bool
	afterAuthorizeCalled    bool
	entryUpsertedCalled     bool
}

func (t *testPlugin) Name() string { return "test-plugin" }

func (t *testPlugin) OnMembershipCreated(_ context.Context, _ *membership.Membership) error {
	t.membershipCreatedCalled = true
	return nil
}

func (t *testPlugin) OnAfterAuthorize(_ context.Context, _, _ any) error {
	t.afterAuthorizeCalled = true
	return nil
}

func (t *testPlugin) OnEntryUpserted(_ context.Context, _ *roster.Entry) error {
	t.entryUpsertedCalled = true
	return nil
}

// minimalPlugin only implements Plugin (no hooks).
type minimalPlugin struct{}

func (m *minimalPlugin) Name() string { return "minimal" }

// failingPlugin returns an error from its hook; errors must be swallowed.
type failingPlugin struct{ called bool }

func (f *failingPlugin) Name() string { return "failing" }

func (f *failingPlugin) OnEntryWithdrawn(_ context.Context, _ *roster.Entry) error {
	f.called = true
	return errors.New("hook failure")
}

func TestRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	tp := &testPlugin{}
	reg.Register(tp)
	reg.Register(&minimalPlugin{})

	if len(reg.Plugins()) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(reg.Plugins()))
	}

	// Should dispatch MembershipCreated to testPlugin only.
	reg.EmitMembershipCreated(ctx, &membership.Membership{
		ID:     id.NewMembershipID(),
		UserID: "user_1",
		Role:   rank.RoleMember,
	})
	if !tp.membershipCreatedCalled {
		t.Fatal("OnMembershipCreated was not called")
	}

	// Should dispatch AfterAuthorize.
	reg.EmitAfterAuthorize(ctx, nil, nil)
	if !tp.afterAuthorizeCalled {
		t.Fatal("OnAfterAuthorize was not called")
	}

	// Should dispatch EntryUpserted.
	reg.EmitEntryUpserted(ctx, &roster.Entry{ID: id.NewEntryID(), ActorID: "user_1"})
	if !tp.entryUpsertedCalled {
		t.Fatal("OnEntryUpserted was not called")
	}

	// Should not panic on hooks with no listeners.
	reg.EmitBeforeAuthorize(ctx, nil)
	reg.EmitMembershipDeleted(ctx, id.NewMembershipID())
	reg.EmitShutdown(ctx)
}

func TestRegistrySwallowsHookErrors(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	fp := &failingPlugin{}
	reg.Register(fp)

	// Must not panic or propagate the error.
	reg.EmitEntryWithdrawn(ctx, &roster.Entry{ID: id.NewEntryID()})
	if !fp.called {
		t.Fatal("OnEntryWithdrawn was not called")
	}
}
