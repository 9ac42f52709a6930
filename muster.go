// Package muster provides guild authorization and capacity-constrained
// signups for Go.
//
// Muster combines a fixed five-role hierarchy (see the rank package), a
// static permission catalog with per-guild overrides (catalog and
// override), an ownership gate for own/any permission pairs, and a
// capacity admission layer for event and siege rosters. It is
// guild-scoped by default via forge.Scope and integrates with the Forge
// ecosystem for audit logging and extensions.
//
//	eng, err := muster.NewEngine(
//	    muster.WithStore(memStore),
//	)
//	result, err := eng.Authorize(ctx, &muster.AuthorizeRequest{
//	    ActorID:       "user_123",
//	    AnyPermission: catalog.CharactersEditAny,
//	    OwnPermission: catalog.CharactersEditOwn,
//	    OwnerID:       "user_456",
//	    TargetUserID:  "user_456",
//	})
package muster

// AuthorizeRequest is the input to an authorization decision.
//
// For operations with an own/any permission pair, set both permission
// fields plus OwnerID; for plain operations set only AnyPermission.
// TargetUserID names the member the action is aimed at, when there is
// one — it activates the hierarchy cap for any-scoped access.
type AuthorizeRequest struct {
	// ActorID is the user requesting the action.
	ActorID string `json:"actor_id"`

	// AnyPermission grants the action on every member's resources.
	AnyPermission string `json:"any_permission,omitempty"`

	// OwnPermission grants the action only on the actor's own resources.
	OwnPermission string `json:"own_permission,omitempty"`

	// OwnerID is the owner of the resource being acted on. Compared
	// against ActorID when access is granted through OwnPermission.
	OwnerID string `json:"owner_id,omitempty"`

	// TargetUserID is the guild member the action affects, if any.
	TargetUserID string `json:"target_user_id,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// AuthzResult is the outcome of an authorization decision.
type AuthzResult struct {
	Allowed    bool     `json:"allowed"`
	Decision   Decision `json:"decision"`
	Reason     string   `json:"reason,omitempty"`
	EvalTimeNs int64    `json:"eval_time_ns"`
}

// Decision is the authorization outcome. Every deny carries a code so
// callers and audit logs can tell the failure modes apart without
// parsing reason strings.
type Decision string

const (
	// DecisionAllow means the request is permitted.
	DecisionAllow Decision = "allow"

	// DecisionDenyNoMembership means the actor holds no membership in
	// the guild.
	DecisionDenyNoMembership Decision = "deny_no_membership"

	// DecisionDenyNoPerms means the actor's role grants neither the any
	// nor the own permission.
	DecisionDenyNoPerms Decision = "deny_no_perms"

	// DecisionDenyNotOwner means only the own permission is granted and
	// the actor is not the resource owner.
	DecisionDenyNotOwner Decision = "deny_not_owner"

	// DecisionDenyHierarchy means the actor's rank does not strictly
	// exceed the target member's rank.
	DecisionDenyHierarchy Decision = "deny_hierarchy"

	// DecisionDenyUnknownTarget means the target user holds no
	// membership, so the hierarchy cap cannot be evaluated.
	DecisionDenyUnknownTarget Decision = "deny_unknown_target"

	// DecisionDenyCapacity means authorization passed but the roster
	// admission check rejected the signup.
	DecisionDenyCapacity Decision = "deny_capacity"
)
