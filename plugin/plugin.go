// Package plugin defines the plugin system for Muster.
// Plugins are notified of lifecycle events (decision made, member
// approved, roster entry upserted, etc.) and can react — logging,
// metrics, notifications, tracing.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/override"
	"github.com/xraph/muster/roster"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Authorization lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeAuthorize is called before an authorization decision is evaluated.
// The req parameter is *muster.AuthorizeRequest (passed as any to avoid import cycle).
type BeforeAuthorize interface {
	OnBeforeAuthorize(ctx context.Context, req any) error
}

// AfterAuthorize is called after an authorization decision completes.
// The req parameter is *muster.AuthorizeRequest; result is *muster.AuthzResult.
type AfterAuthorize interface {
	OnAfterAuthorize(ctx context.Context, req, result any) error
}

// ──────────────────────────────────────────────────
// Membership lifecycle hooks
// ──────────────────────────────────────────────────

// MembershipCreated is called after a membership is created.
type MembershipCreated interface {
	OnMembershipCreated(ctx context.Context, m *membership.Membership) error
}

// MembershipUpdated is called after a membership changes (role change,
// approval).
type MembershipUpdated interface {
	OnMembershipUpdated(ctx context.Context, m *membership.Membership) error
}

// MembershipDeleted is called after a membership is removed.
type MembershipDeleted interface {
	OnMembershipDeleted(ctx context.Context, memID id.MembershipID) error
}

// ──────────────────────────────────────────────────
// Override lifecycle hooks
// ──────────────────────────────────────────────────

// OverrideSet is called after a guild's override patch is created or replaced.
type OverrideSet interface {
	OnOverrideSet(ctx context.Context, o *override.Override) error
}

// OverrideDeleted is called after a guild's override patch is removed.
type OverrideDeleted interface {
	OnOverrideDeleted(ctx context.Context, guildID id.GuildID, role string) error
}

// ──────────────────────────────────────────────────
// Instance lifecycle hooks
// ──────────────────────────────────────────────────

// InstanceCreated is called after an event or siege instance is created.
type InstanceCreated interface {
	OnInstanceCreated(ctx context.Context, inst *event.Instance) error
}

// InstanceUpdated is called after an instance is updated or canceled.
type InstanceUpdated interface {
	OnInstanceUpdated(ctx context.Context, inst *event.Instance) error
}

// InstanceDeleted is called after an instance is deleted.
type InstanceDeleted interface {
	OnInstanceDeleted(ctx context.Context, instID id.InstanceID) error
}

// ──────────────────────────────────────────────────
// Roster lifecycle hooks
// ──────────────────────────────────────────────────

// EntryUpserted is called after a roster entry is created, moved, or advanced.
type EntryUpserted interface {
	OnEntryUpserted(ctx context.Context, e *roster.Entry) error
}

// EntryWithdrawn is called after an actor withdraws from an instance.
type EntryWithdrawn interface {
	OnEntryWithdrawn(ctx context.Context, e *roster.Entry) error
}

// EntryDeleted is called after a roster entry is deleted outright.
type EntryDeleted interface {
	OnEntryDeleted(ctx context.Context, entryID id.EntryID) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
