package muster

import "context"

// Cache provides caching for authorization decisions. Capacity
// admissions are never cached — occupancy changes with every signup.
type Cache interface {
	// Get returns a cached authorization result, if available.
	Get(ctx context.Context, guildID string, req *AuthorizeRequest) (*AuthzResult, bool)

	// Set stores an authorization result in the cache.
	Set(ctx context.Context, guildID string, req *AuthorizeRequest, result *AuthzResult)

	// InvalidateGuild removes all cached results for a guild. Called on
	// override changes, which can flip any decision in the guild.
	InvalidateGuild(ctx context.Context, guildID string)

	// InvalidateActor removes all cached results for one actor in a
	// guild. Called on role changes and membership removal.
	InvalidateActor(ctx context.Context, guildID, actorID string)
}
