package muster

import (
	"context"

	"github.com/xraph/forge"
)

type guildScope struct {
	appID   string
	guildID string
}

// scopeFromContext extracts guild scope from forge.Scope or standalone context.
// Falls back to the explicit guild if Forge scope is not set (standalone mode).
func scopeFromContext(ctx context.Context) guildScope {
	s, ok := forge.ScopeFrom(ctx)
	if ok {
		return guildScope{
			appID:   s.AppID(),
			guildID: s.OrgID(),
		}
	}
	return guildScope{
		appID:   appIDFromContext(ctx),
		guildID: guildIDFromContext(ctx),
	}
}
