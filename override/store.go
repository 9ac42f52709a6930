package override

import (
	"context"

	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/rank"
)

// Store defines persistence operations for permission overrides.
//
// A guild holds at most one override row per role; SetOverride upserts
// on (guild, role). Implementations must reject patches that fail
// catalog.ValidateOverrides.
type Store interface {
	// SetOverride creates or replaces the override patch for a role in a guild.
	SetOverride(ctx context.Context, o *Override) error

	// GetOverride retrieves an override by ID.
	GetOverride(ctx context.Context, ovrID id.OverrideID) (*Override, error)

	// GetOverrides returns the override patch for a role in a guild, or
	// nil when the guild has none — the caller then resolves against the
	// catalog defaults alone.
	GetOverrides(ctx context.Context, guildID id.GuildID, role rank.Role) (catalog.Overrides, error)

	// ListOverrides returns overrides matching the filter.
	ListOverrides(ctx context.Context, filter *ListFilter) ([]*Override, error)

	// DeleteOverride removes the override patch for a role in a guild,
	// restoring catalog defaults. Deleting an absent patch is a no-op.
	DeleteOverride(ctx context.Context, guildID id.GuildID, role rank.Role) error

	// DeleteOverridesByGuild removes all override patches for a guild.
	DeleteOverridesByGuild(ctx context.Context, guildID id.GuildID) error
}
