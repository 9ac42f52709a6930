package plugin

import (
	"context"
	"log/slog"

	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/override"
	"github.com/xraph/muster/roster"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeAuthorizeEntry struct {
	name string
	hook BeforeAuthorize
}
type afterAuthorizeEntry struct {
	name string
	hook AfterAuthorize
}
type membershipCreatedEntry struct {
	name string
	hook MembershipCreated
}
type membershipUpdatedEntry struct {
	name string
	hook MembershipUpdated
}
type membershipDeletedEntry struct {
	name string
	hook MembershipDeleted
}
type overrideSetEntry struct {
	name string
	hook OverrideSet
}
type overrideDeletedEntry struct {
	name string
	hook OverrideDeleted
}
type instanceCreatedEntry struct {
	name string
	hook InstanceCreated
}
type instanceUpdatedEntry struct {
	name string
	hook InstanceUpdated
}
type instanceDeletedEntry struct {
	name string
	hook InstanceDeleted
}
type entryUpsertedEntry struct {
	name string
	hook EntryUpserted
}
type entryWithdrawnEntry struct {
	name string
	hook EntryWithdrawn
}
type entryDeletedEntry struct {
	name string
	hook EntryDeleted
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeAuthorize   []beforeAuthorizeEntry
	afterAuthorize    []afterAuthorizeEntry
	membershipCreated []membershipCreatedEntry
	membershipUpdated []membershipUpdatedEntry
	membershipDeleted []membershipDeletedEntry
	overrideSet       []overrideSetEntry
	overrideDeleted   []overrideDeletedEntry
	instanceCreated   []instanceCreatedEntry
	instanceUpdated   []instanceUpdatedEntry
	instanceDeleted   []instanceDeletedEntry
	entryUpserted     []entryUpsertedEntry
	entryWithdrawn    []entryWithdrawnEntry
	entryDeleted      []entryDeletedEntry
	shutdown          []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeAuthorize); ok {
		r.beforeAuthorize = append(r.beforeAuthorize, beforeAuthorizeEntry{name, h})
	}
	if h, ok := p.(AfterAuthorize); ok {
		r.afterAuthorize = append(r.afterAuthorize, afterAuthorizeEntry{name, h})
	}
	if h, ok := p.(MembershipCreated); ok {
		r.membershipCreated = append(r.membershipCreated, membershipCreatedEntry{name, h})
	}
	if h, ok := p.(MembershipUpdated); ok {
		r.membershipUpdated = append(r.membershipUpdated, membershipUpdatedEntry{name, h})
	}
	if h, ok := p.(MembershipDeleted); ok {
		r.membershipDeleted = append(r.membershipDeleted, membershipDeletedEntry{name, h})
	}
	if h, ok := p.(OverrideSet); ok {
		r.overrideSet = append(r.overrideSet, overrideSetEntry{name, h})
	}
	if h, ok := p.(OverrideDeleted); ok {
		r.overrideDeleted = append(r.overrideDeleted, overrideDeletedEntry{name, h})
	}
	if h, ok := p.(InstanceCreated); ok {
		r.instanceCreated = append(r.instanceCreated, instanceCreatedEntry{name, h})
	}
	if h, ok := p.(InstanceUpdated); ok {
		r.instanceUpdated = append(r.instanceUpdated, instanceUpdatedEntry{name, h})
	}
	if h, ok := p.(InstanceDeleted); ok {
		r.instanceDeleted = append(r.instanceDeleted, instanceDeletedEntry{name, h})
	}
	if h, ok := p.(EntryUpserted); ok {
		r.entryUpserted = append(r.entryUpserted, entryUpsertedEntry{name, h})
	}
	if h, ok := p.(EntryWithdrawn); ok {
		r.entryWithdrawn = append(r.entryWithdrawn, entryWithdrawnEntry{name, h})
	}
	if h, ok := p.(EntryDeleted); ok {
		r.entryDeleted = append(r.entryDeleted, entryDeletedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Authorization event emitters
// ──────────────────────────────────────────────────

// EmitBeforeAuthorize notifies all plugins that implement BeforeAuthorize.
func (r *Registry) EmitBeforeAuthorize(ctx context.Context, req any) {
	for _, e := range r.beforeAuthorize {
		if err := e.hook.OnBeforeAuthorize(ctx, req); err != nil {
			r.logHookError("OnBeforeAuthorize", e.name, err)
		}
	}
}

// EmitAfterAuthorize notifies all plugins that implement AfterAuthorize.
func (r *Registry) EmitAfterAuthorize(ctx context.Context, req, result any) {
	for _, e := range r.afterAuthorize {
		if err := e.hook.OnAfterAuthorize(ctx, req, result); err != nil {
			r.logHookError("OnAfterAuthorize", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Membership event emitters
// ──────────────────────────────────────────────────

// EmitMembershipCreated notifies all plugins that implement MembershipCreated.
func (r *Registry) EmitMembershipCreated(ctx context.Context, m *membership.Membership) {
	for _, e := range r.membershipCreated {
		if err := e.hook.OnMembershipCreated(ctx, m); err != nil {
			r.logHookError("OnMembershipCreated", e.name, err)
		}
	}
}

// EmitMembershipUpdated notifies all plugins that implement MembershipUpdated.
func (r *Registry) EmitMembershipUpdated(ctx context.Context, m *membership.Membership) {
	for _, e := range r.membershipUpdated {
		if err := e.hook.OnMembershipUpdated(ctx, m); err != nil {
			r.logHookError("OnMembershipUpdated", e.name, err)
		}
	}
}

// EmitMembershipDeleted notifies all plugins that implement MembershipDeleted.
func (r *Registry) EmitMembershipDeleted(ctx context.Context, memID id.MembershipID) {
	for _, e := range r.membershipDeleted {
		if err := e.hook.OnMembershipDeleted(ctx, memID); err != nil {
			r.logHookError("OnMembershipDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Override event emitters
// ──────────────────────────────────────────────────

// EmitOverrideSet notifies all plugins that implement OverrideSet.
func (r *Registry) EmitOverrideSet(ctx context.Context, o *override.Override) {
	for _, e := range r.overrideSet {
		if err := e.hook.OnOverrideSet(ctx, o); err != nil {
			r.logHookError("OnOverrideSet", e.name, err)
		}
	}
}

// EmitOverrideDeleted notifies all plugins that implement OverrideDeleted.
func (r *Registry) EmitOverrideDeleted(ctx context.Context, guildID id.GuildID, role string) {
	for _, e := range r.overrideDeleted {
		if err := e.hook.OnOverrideDeleted(ctx, guildID, role); err != nil {
			r.logHookError("OnOverrideDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Instance event emitters
// ──────────────────────────────────────────────────

// EmitInstanceCreated notifies all plugins that implement InstanceCreated.
func (r *Registry) EmitInstanceCreated(ctx context.Context, inst *event.Instance) {
	for _, e := range r.instanceCreated {
		if err := e.hook.OnInstanceCreated(ctx, inst); err != nil {
			r.logHookError("OnInstanceCreated", e.name, err)
		}
	}
}

// EmitInstanceUpdated notifies all plugins that implement InstanceUpdated.
func (r *Registry) EmitInstanceUpdated(ctx context.Context, inst *event.Instance) {
	for _, e := range r.instanceUpdated {
		if err := e.hook.OnInstanceUpdated(ctx, inst); err != nil {
			r.logHookError("OnInstanceUpdated", e.name, err)
		}
	}
}

// EmitInstanceDeleted notifies all plugins that implement InstanceDeleted.
func (r *Registry) EmitInstanceDeleted(ctx context.Context, instID id.InstanceID) {
	for _, e := range r.instanceDeleted {
		if err := e.hook.OnInstanceDeleted(ctx, instID); err != nil {
			r.logHookError("OnInstanceDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Roster event emitters
// ──────────────────────────────────────────────────

// EmitEntryUpserted notifies all plugins that implement EntryUpserted.
func (r *Registry) EmitEntryUpserted(ctx context.Context, en *roster.Entry) {
	for _, e := range r.entryUpserted {
		if err := e.hook.OnEntryUpserted(ctx, en); err != nil {
			r.logHookError("OnEntryUpserted", e.name, err)
		}
	}
}

// EmitEntryWithdrawn notifies all plugins that implement EntryWithdrawn.
func (r *Registry) EmitEntryWithdrawn(ctx context.Context, en *roster.Entry) {
	for _, e := range r.entryWithdrawn {
		if err := e.hook.OnEntryWithdrawn(ctx, en); err != nil {
			r.logHookError("OnEntryWithdrawn", e.name, err)
		}
	}
}

// EmitEntryDeleted notifies all plugins that implement EntryDeleted.
func (r *Registry) EmitEntryDeleted(ctx context.Context, entryID id.EntryID) {
	for _, e := range r.entryDeleted {
		if err := e.hook.OnEntryDeleted(ctx, entryID); err != nil {
			r.logHookError("OnEntryDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Shutdown emitter
// ──────────────────────────────────────────────────

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the pipeline.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
