package api

import (
	"github.com/xraph/muster/roster"
)

// ──────────────────────────────────────────────────
// Authorization requests
// ──────────────────────────────────────────────────

// CheckRequest is the request body for an authorization check.
type CheckRequest struct {
	AppID         string         `json:"app_id,omitempty" description:"Application scope"`
	GuildID       string         `json:"guild_id" description:"Guild the decision is scoped to"`
	ActorID       string         `json:"actor_id" description:"User requesting the action"`
	AnyPermission string         `json:"any_permission,omitempty" description:"Permission granting the action on any member's resources"`
	OwnPermission string         `json:"own_permission,omitempty" description:"Permission granting the action on the actor's own resources"`
	OwnerID       string         `json:"owner_id,omitempty" description:"Owner of the resource being acted on"`
	TargetUserID  string         `json:"target_user_id,omitempty" description:"Guild member the action affects"`
	Metadata      map[string]any `json:"metadata,omitempty" description:"Additional decision context"`
}

// BatchCheckRequest contains multiple checks.
type BatchCheckRequest struct {
	Checks []CheckRequest `json:"checks" description:"List of authorization checks"`
}

// GetGrantsRequest holds parameters for listing an actor's effective grants.
type GetGrantsRequest struct {
	ActorID string `path:"actorId" description:"Actor identifier"`
	GuildID string `query:"guild_id" description:"Guild scope"`
	AppID   string `query:"app_id" description:"Application scope"`
}

// ──────────────────────────────────────────────────
// Catalog requests
// ──────────────────────────────────────────────────

// ListPermissionsRequest holds query parameters for the permission catalog.
type ListPermissionsRequest struct {
	Category string `query:"category" description:"Filter by category"`
}

// GetRoleGrantsRequest is the path parameter for a role's default grants.
type GetRoleGrantsRequest struct {
	Role string `path:"role" description:"Role name"`
}

// ──────────────────────────────────────────────────
// Membership requests
// ──────────────────────────────────────────────────

// CreateMembershipRequest is the body for creating a membership.
type CreateMembershipRequest struct {
	AppID     string         `json:"app_id,omitempty" description:"Application scope"`
	GuildID   string         `json:"guild_id" description:"Guild to join"`
	UserID    string         `json:"user_id" description:"User joining the guild"`
	Role      string         `json:"role,omitempty" description:"Initial role (default: pending)"`
	IsCreator bool           `json:"is_creator,omitempty" description:"Guild creator flag (implies admin)"`
	InvitedBy string         `json:"invited_by,omitempty" description:"User who invited this member"`
	Metadata  map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// UpdateMembershipRequest is the body for changing a member's role.
type UpdateMembershipRequest struct {
	ActorID  string         `json:"actor_id" description:"User performing the change"`
	Role     string         `json:"role,omitempty" description:"New role"`
	Metadata map[string]any `json:"metadata,omitempty" description:"Custom metadata"`
}

// ApproveMembershipRequest is the body for approving a pending member.
type ApproveMembershipRequest struct {
	ActorID string `json:"actor_id" description:"User performing the approval"`
	Role    string `json:"role,omitempty" description:"Role granted on approval (default: trial)"`
}

// GetMembershipRequest is the path parameter for getting a membership.
type GetMembershipRequest struct {
	MembershipID string `path:"membershipId" description:"Membership ID"`
}

// DeleteMembershipRequest holds parameters for removing a membership.
type DeleteMembershipRequest struct {
	MembershipID string `path:"membershipId" description:"Membership ID"`
	ActorID      string `query:"actor_id" description:"User performing the removal"`
}

// ListMembershipsRequest holds query parameters for listing memberships.
type ListMembershipsRequest struct {
	GuildID  string `query:"guild_id" description:"Filter by guild"`
	UserID   string `query:"user_id" description:"Filter by user"`
	Role     string `query:"role" description:"Filter by role"`
	Approved string `query:"approved" description:"Filter by approval status (true/false)"`
	Limit    int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Override requests
// ──────────────────────────────────────────────────

// SetOverrideRequest is the body for setting a role's override patch.
type SetOverrideRequest struct {
	ActorID string          `json:"actor_id" description:"User performing the change"`
	AppID   string          `json:"app_id,omitempty" description:"Application scope"`
	Grants  map[string]bool `json:"grants" description:"Forced-on and forced-off permission ids"`
}

// OverrideRoleRequest holds path parameters for one role's override patch.
type OverrideRoleRequest struct {
	GuildID string `path:"guildId" description:"Guild ID"`
	Role    string `path:"role" description:"Role name"`
}

// DeleteOverrideRequest holds parameters for removing an override patch.
type DeleteOverrideRequest struct {
	GuildID string `path:"guildId" description:"Guild ID"`
	Role    string `path:"role" description:"Role name"`
	ActorID string `query:"actor_id" description:"User performing the removal"`
}

// ListOverridesRequest holds parameters for listing a guild's overrides.
type ListOverridesRequest struct {
	GuildID string `path:"guildId" description:"Guild ID"`
	Limit   int    `query:"limit" description:"Maximum results"`
	Offset  int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Instance requests
// ──────────────────────────────────────────────────

// CreateInstanceRequest is the body for creating an event or siege instance.
type CreateInstanceRequest struct {
	AppID        string              `json:"app_id,omitempty" description:"Application scope"`
	GuildID      string              `json:"guild_id" description:"Guild hosting the instance"`
	ActorID      string              `json:"actor_id" description:"User creating the instance"`
	Kind         string              `json:"kind" description:"Instance kind (event or siege)"`
	Title        string              `json:"title" description:"Display title"`
	Description  string              `json:"description,omitempty" description:"Longer description"`
	StartsAt     string              `json:"starts_at" description:"Start time (RFC3339)"`
	EndsAt       string              `json:"ends_at,omitempty" description:"End time (RFC3339)"`
	Requirements roster.Requirements `json:"requirements,omitempty" description:"Capacity requirements"`
	Metadata     map[string]any      `json:"metadata,omitempty" description:"Custom metadata"`
}

// UpdateInstanceRequest is the body for updating an instance.
type UpdateInstanceRequest struct {
	ActorID      string               `json:"actor_id" description:"User performing the update"`
	Title        string               `json:"title,omitempty" description:"Display title"`
	Description  string               `json:"description,omitempty" description:"Longer description"`
	StartsAt     string               `json:"starts_at,omitempty" description:"Start time (RFC3339)"`
	EndsAt       string               `json:"ends_at,omitempty" description:"End time (RFC3339)"`
	Requirements *roster.Requirements `json:"requirements,omitempty" description:"Capacity requirements"`
	Metadata     map[string]any       `json:"metadata,omitempty" description:"Custom metadata"`
}

// CancelInstanceRequest is the body for canceling an instance.
type CancelInstanceRequest struct {
	ActorID string `json:"actor_id" description:"User performing the cancellation"`
}

// GetInstanceRequest is the path parameter for getting an instance.
type GetInstanceRequest struct {
	InstanceID string `path:"instanceId" description:"Instance ID"`
}

// DeleteInstanceRequest holds parameters for deleting an instance.
type DeleteInstanceRequest struct {
	InstanceID string `path:"instanceId" description:"Instance ID"`
	ActorID    string `query:"actor_id" description:"User performing the deletion"`
}

// ListInstancesRequest holds query parameters for listing instances.
type ListInstancesRequest struct {
	GuildID      string `query:"guild_id" description:"Filter by guild"`
	Kind         string `query:"kind" description:"Filter by kind (event/siege)"`
	Canceled     string `query:"canceled" description:"Filter by canceled status (true/false)"`
	StartsAfter  string `query:"starts_after" description:"Starting after timestamp (RFC3339)"`
	StartsBefore string `query:"starts_before" description:"Starting before timestamp (RFC3339)"`
	Search       string `query:"search" description:"Search by title"`
	Limit        int    `query:"limit" description:"Maximum results"`
	Offset       int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Roster requests
// ──────────────────────────────────────────────────

// SignupRequest is the body for creating or moving a roster entry.
type SignupRequest struct {
	ActorID     string `json:"actor_id" description:"Member signing up"`
	CharacterID string `json:"character_id,omitempty" description:"Character pinned to the signup"`
	Slot        string `json:"slot,omitempty" description:"Requested roster slot"`
	Status      string `json:"status,omitempty" description:"Requested status (defaults by kind)"`
	Note        string `json:"note,omitempty" description:"Free-form note"`
}

// WithdrawRequest is the body for withdrawing from an instance.
type WithdrawRequest struct {
	ActorID string `json:"actor_id" description:"Member withdrawing"`
}

// ConfirmRequest is the body for confirming a siege signup.
type ConfirmRequest struct {
	ActorID string `json:"actor_id" description:"Member confirming their own signup"`
}

// CheckInRequest is the body for checking in a siege attendee.
type CheckInRequest struct {
	ActorID       string `json:"actor_id" description:"Member performing the check-in"`
	TargetActorID string `json:"target_actor_id,omitempty" description:"Attendee being checked in (default: self)"`
}

// ListEntriesRequest holds query parameters for listing roster entries.
type ListEntriesRequest struct {
	InstanceID string `path:"instanceId" description:"Instance ID"`
	Slot       string `query:"slot" description:"Filter by slot"`
	Status     string `query:"status" description:"Filter by status"`
	Occupying  bool   `query:"occupying" description:"Only capacity-occupying entries"`
	Limit      int    `query:"limit" description:"Maximum results"`
	Offset     int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Decision log requests
// ──────────────────────────────────────────────────

// ListDecisionLogsRequest holds query parameters for querying decision logs.
type ListDecisionLogsRequest struct {
	GuildID      string `query:"guild_id" description:"Filter by guild"`
	ActorID      string `query:"actor_id" description:"Filter by actor"`
	PermissionID string `query:"permission_id" description:"Filter by permission"`
	Decision     string `query:"decision" description:"Filter by decision code"`
	After        string `query:"after" description:"After timestamp (RFC3339)"`
	Before       string `query:"before" description:"Before timestamp (RFC3339)"`
	Limit        int    `query:"limit" description:"Maximum results"`
	Offset       int    `query:"offset" description:"Results to skip"`
}
