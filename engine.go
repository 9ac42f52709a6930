package muster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/decisionlog"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/plugin"
	"github.com/xraph/muster/store"
)

// Engine is the central coordination engine. It resolves permissions
// against the catalog and per-guild overrides, evaluates the ownership
// gate and hierarchy cap, admits roster signups against capacity, and
// fires extension hooks.
type Engine struct {
	store   store.Store
	cache   Cache
	plugins *plugin.Registry
	logger  *slog.Logger
	config  Config
	now     func() time.Time
}

// NewEngine creates a new Muster engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
		config: DefaultConfig(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("muster: store is required")
	}
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown and notifies plugins.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// guildFromScope resolves the guild ID from the request context.
func (e *Engine) guildFromScope(ctx context.Context) (guildScope, id.GuildID, error) {
	scope := scopeFromContext(ctx)
	if scope.guildID == "" {
		return scope, id.Nil, ErrNoGuildScope
	}
	guildID, err := id.ParseGuildID(scope.guildID)
	if err != nil {
		return scope, id.Nil, fmt.Errorf("%w: %w", ErrNoGuildScope, err)
	}
	return scope, guildID, nil
}

// Authorize evaluates an authorization request. This is the hot path.
//
// Denials are decision values, not errors: the error return is reserved
// for infrastructure failures (store unreachable, missing scope).
func (e *Engine) Authorize(ctx context.Context, req *AuthorizeRequest) (*AuthzResult, error) {
	start := time.Now()
	scope, guildID, err := e.guildFromScope(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Cache hit?
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, scope.guildID, req); ok {
			cached.EvalTimeNs = time.Since(start).Nanoseconds()
			return cached, nil
		}
	}

	// 1b. Extension hook: before authorize.
	if e.plugins != nil {
		e.plugins.EmitBeforeAuthorize(ctx, req)
	}

	result, err := e.decide(ctx, guildID, req)
	if err != nil {
		return nil, err
	}
	result.EvalTimeNs = time.Since(start).Nanoseconds()

	// 4. Cache the result.
	if e.cache != nil {
		e.cache.Set(ctx, scope.guildID, req, result)
	}

	// 5. Audit trail.
	e.logDecision(ctx, scope, guildID, req, result)

	// 6. Extension hook: after authorize.
	if e.plugins != nil {
		e.plugins.EmitAfterAuthorize(ctx, req, result)
	}

	return result, nil
}

// decide runs the resolver, gate, and hierarchy cap in order, stopping
// at the first deny.
func (e *Engine) decide(ctx context.Context, guildID id.GuildID, req *AuthorizeRequest) (*AuthzResult, error) {
	// 2. Resolve the actor's membership and the guild's override patch.
	actor, err := e.store.GetMembershipByUser(ctx, guildID, req.ActorID)
	if err != nil {
		return nil, fmt.Errorf("muster resolve actor: %w", err)
	}
	if actor == nil {
		return &AuthzResult{
			Decision: DecisionDenyNoMembership,
			Reason:   "actor is not a guild member",
		}, nil
	}

	overrides, err := e.store.GetOverrides(ctx, guildID, actor.Role)
	if err != nil {
		return nil, fmt.Errorf("muster resolve overrides: %w", err)
	}

	// 3. Ownership gate, then the hierarchy cap on delegated allows.
	result := gateDecision(actor.Role, overrides, req)
	if !result.Allowed {
		return result, nil
	}

	if e.config.hierarchyCapEnabled() && req.TargetUserID != "" && req.TargetUserID != req.ActorID {
		target, err := e.store.GetMembershipByUser(ctx, guildID, req.TargetUserID)
		if err != nil {
			return nil, fmt.Errorf("muster resolve target: %w", err)
		}
		if capped := hierarchyCap(actor, target, req.TargetUserID); capped != nil {
			return capped, nil
		}
	}

	return result, nil
}

// Enforce returns an error if the authorization decision is denied.
func (e *Engine) Enforce(ctx context.Context, req *AuthorizeRequest) error {
	result, err := e.Authorize(ctx, req)
	if err != nil {
		return fmt.Errorf("muster authorize: %w", err)
	}
	if !result.Allowed {
		return fmt.Errorf("%w: %s — %s", ErrAccessDenied, result.Decision, result.Reason)
	}
	return nil
}

// Can is a shorthand for a single-permission check without ownership.
func (e *Engine) Can(ctx context.Context, actorID, permissionID string) (bool, error) {
	result, err := e.Authorize(ctx, &AuthorizeRequest{
		ActorID:       actorID,
		AnyPermission: permissionID,
	})
	if err != nil {
		return false, err
	}
	return result.Allowed, nil
}

// CanAll reports whether the actor holds every listed permission.
// An empty list is vacuously true.
func (e *Engine) CanAll(ctx context.Context, actorID string, permissionIDs []string) (bool, error) {
	mem, overrides, err := e.resolveGrants(ctx, actorID)
	if err != nil {
		return false, err
	}
	if mem == nil {
		return len(permissionIDs) == 0, nil
	}
	return catalog.ResolveAll(mem.Role, permissionIDs, overrides), nil
}

// CanAny reports whether the actor holds at least one listed permission.
// An empty list is false.
func (e *Engine) CanAny(ctx context.Context, actorID string, permissionIDs []string) (bool, error) {
	mem, overrides, err := e.resolveGrants(ctx, actorID)
	if err != nil {
		return false, err
	}
	if mem == nil {
		return false, nil
	}
	return catalog.ResolveAny(mem.Role, permissionIDs, overrides), nil
}

// GrantsFor returns every permission id the actor effectively holds in
// the scoped guild, defaults and overrides combined.
func (e *Engine) GrantsFor(ctx context.Context, actorID string) ([]string, error) {
	mem, overrides, err := e.resolveGrants(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if mem == nil {
		return nil, nil
	}

	var out []string
	for _, pid := range catalog.IDs() {
		if catalog.Resolve(mem.Role, pid, overrides) {
			out = append(out, pid)
		}
	}
	return out, nil
}

// resolveGrants loads the actor's membership and the override patch for
// their role. A nil membership means the actor is not a member.
func (e *Engine) resolveGrants(ctx context.Context, actorID string) (*membership.Membership, catalog.Overrides, error) {
	_, guildID, err := e.guildFromScope(ctx)
	if err != nil {
		return nil, nil, err
	}

	mem, err := e.store.GetMembershipByUser(ctx, guildID, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("muster resolve actor: %w", err)
	}
	if mem == nil {
		return nil, nil, nil
	}

	overrides, err := e.store.GetOverrides(ctx, guildID, mem.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("muster resolve overrides: %w", err)
	}
	return mem, overrides, nil
}

// InvalidateGuild drops every cached decision for a guild. Called after
// override changes, which can flip any cached result.
func (e *Engine) InvalidateGuild(ctx context.Context, guildID id.GuildID) {
	if e.cache != nil {
		e.cache.InvalidateGuild(ctx, guildID.String())
	}
}

// InvalidateActor drops cached decisions for one actor in a guild.
// Called after role changes and membership removal.
func (e *Engine) InvalidateActor(ctx context.Context, guildID id.GuildID, actorID string) {
	if e.cache != nil {
		e.cache.InvalidateActor(ctx, guildID.String(), actorID)
	}
}

// logDecision records the decision in the audit log. Log failures are
// logged and swallowed — auditing must not block the pipeline.
func (e *Engine) logDecision(ctx context.Context, scope guildScope, guildID id.GuildID, req *AuthorizeRequest, result *AuthzResult) {
	if !e.config.decisionLogEnabled() {
		return
	}
	if result.Allowed && !e.config.DecisionLogAllows {
		return
	}

	permID := req.AnyPermission
	if permID == "" {
		permID = req.OwnPermission
	}

	entry := &decisionlog.Entry{
		ID:           id.NewDecisionLogID(),
		AppID:        scope.appID,
		GuildID:      guildID,
		ActorID:      req.ActorID,
		PermissionID: permID,
		TargetID:     req.TargetUserID,
		Decision:     string(result.Decision),
		Reason:       result.Reason,
		EvalTimeNs:   result.EvalTimeNs,
		Metadata:     req.Metadata,
		CreatedAt:    e.now().UTC(),
	}
	if err := e.store.CreateDecisionLog(ctx, entry); err != nil {
		e.logger.Warn("decision log write failed",
			slog.String("guild_id", guildID.String()),
			slog.String("actor_id", req.ActorID),
			slog.String("error", err.Error()),
		)
	}
}
