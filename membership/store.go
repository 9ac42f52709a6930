package membership

import (
	"context"

	"github.com/xraph/muster/id"
	"github.com/xraph/muster/rank"
)

// Store defines persistence operations for guild memberships.
type Store interface {
	// CreateMembership persists a new membership.
	CreateMembership(ctx context.Context, m *Membership) error

	// GetMembership retrieves a membership by ID.
	GetMembership(ctx context.Context, memID id.MembershipID) (*Membership, error)

	// GetMembershipByUser retrieves the membership of a user in a guild.
	// Returns (nil, nil) when the user holds no membership — callers
	// treat absence as a decision input, not a failure.
	GetMembershipByUser(ctx context.Context, guildID id.GuildID, userID string) (*Membership, error)

	// UpdateMembership persists changes to an existing membership.
	UpdateMembership(ctx context.Context, m *Membership) error

	// DeleteMembership removes a membership by ID.
	DeleteMembership(ctx context.Context, memID id.MembershipID) error

	// ListMemberships returns memberships matching the filter.
	ListMemberships(ctx context.Context, filter *ListFilter) ([]*Membership, error)

	// CountMemberships returns the number of memberships matching the filter.
	CountMemberships(ctx context.Context, filter *ListFilter) (int64, error)

	// CountByRole returns the number of guild members holding a role.
	CountByRole(ctx context.Context, guildID id.GuildID, role rank.Role) (int64, error)

	// DeleteMembershipsByGuild removes all memberships for a guild.
	DeleteMembershipsByGuild(ctx context.Context, guildID id.GuildID) error
}
