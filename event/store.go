package event

import (
	"context"

	"github.com/xraph/muster/id"
)

// Store defines persistence operations for event and siege instances.
type Store interface {
	// CreateInstance persists a new instance.
	CreateInstance(ctx context.Context, inst *Instance) error

	// GetInstance retrieves an instance by ID.
	GetInstance(ctx context.Context, instID id.InstanceID) (*Instance, error)

	// UpdateInstance persists changes to an existing instance.
	UpdateInstance(ctx context.Context, inst *Instance) error

	// DeleteInstance removes an instance by ID.
	DeleteInstance(ctx context.Context, instID id.InstanceID) error

	// ListInstances returns instances matching the filter.
	ListInstances(ctx context.Context, filter *ListFilter) ([]*Instance, error)

	// CountInstances returns the number of instances matching the filter.
	CountInstances(ctx context.Context, filter *ListFilter) (int64, error)

	// DeleteInstancesByGuild removes all instances for a guild.
	DeleteInstancesByGuild(ctx context.Context, guildID id.GuildID) error
}
