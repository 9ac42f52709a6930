package roster

import (
	"context"

	"github.com/xraph/muster/id"
)

// Store defines persistence operations for roster entries.
//
// An actor holds at most one entry per instance; UpsertEntry enforces
// the (instance, actor) uniqueness by replacing the existing row.
type Store interface {
	// UpsertEntry creates the actor's entry on an instance or replaces
	// the existing one, preserving the original entry ID and CreatedAt.
	UpsertEntry(ctx context.Context, e *Entry) error

	// GetEntry retrieves an entry by ID.
	GetEntry(ctx context.Context, entryID id.EntryID) (*Entry, error)

	// GetEntryByActor retrieves the actor's entry on an instance.
	// Returns (nil, nil) when the actor has no entry.
	GetEntryByActor(ctx context.Context, instID id.InstanceID, actorID string) (*Entry, error)

	// ListEntries returns entries matching the filter.
	ListEntries(ctx context.Context, filter *ListFilter) ([]*Entry, error)

	// CountEntries returns the number of entries matching the filter.
	CountEntries(ctx context.Context, filter *ListFilter) (int64, error)

	// DeleteEntry removes an entry by ID.
	DeleteEntry(ctx context.Context, entryID id.EntryID) error

	// DeleteEntriesByInstance removes all entries for an instance.
	DeleteEntriesByInstance(ctx context.Context, instID id.InstanceID) error

	// DeleteEntriesByGuild removes all entries for a guild.
	DeleteEntriesByGuild(ctx context.Context, guildID id.GuildID) error
}
