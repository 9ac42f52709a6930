// Package middleware provides HTTP authorization middleware for Muster.
package middleware

import (
	"encoding/json"
	"strings"

	"github.com/xraph/forge"

	"github.com/xraph/muster"
	"github.com/xraph/muster/catalog"
)

// Require enforces a single permission. It resolves the actor from the
// request context (Authsome user > anonymous) and checks whether the
// actor holds the permission in the guild scoped on the context.
func Require(eng *muster.Engine, permissionID string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actorID := resolveActor(ctx)

			err := eng.Enforce(ctx.Context(), &muster.AuthorizeRequest{
				ActorID:       actorID,
				AnyPermission: permissionID,
			})
			if err != nil {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireAny allows the request if the actor holds ANY of the permissions.
// Entries may be category globs ("siege_*"), which expand against the
// permission catalog.
func RequireAny(eng *muster.Engine, permissionIDs ...string) forge.Middleware {
	expanded := expandPatterns(permissionIDs)
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actorID := resolveActor(ctx)

			ok, err := eng.CanAny(ctx.Context(), actorID, expanded)
			if err != nil || !ok {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireAll allows the request only if the actor holds ALL permissions.
// Entries may be category globs ("siege_*"), which expand against the
// permission catalog.
func RequireAll(eng *muster.Engine, permissionIDs ...string) forge.Middleware {
	expanded := expandPatterns(permissionIDs)
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actorID := resolveActor(ctx)

			ok, err := eng.CanAll(ctx.Context(), actorID, expanded)
			if err != nil || !ok {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireOwn enforces an own/any permission pair against a resource
// owner taken from a path parameter. A handler mounted with
// RequireOwn(eng, "characters_edit_any", "characters_edit_own", "userId")
// admits actors who may edit anyone's characters, plus owners editing
// their own.
func RequireOwn(eng *muster.Engine, anyPermission, ownPermission, ownerParam string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actorID := resolveActor(ctx)

			err := eng.Enforce(ctx.Context(), &muster.AuthorizeRequest{
				ActorID:       actorID,
				AnyPermission: anyPermission,
				OwnPermission: ownPermission,
				OwnerID:       ctx.Param(ownerParam),
			})
			if err != nil {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// expandPatterns resolves glob entries against the catalog. Exact ids pass
// through untouched so callers can name permissions the catalog does not
// know about (they fail closed downstream).
func expandPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	seen := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		if !strings.ContainsRune(p, '*') {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				out = append(out, p)
			}
			continue
		}
		for _, id := range catalog.IDs() {
			if muster.MatchPermission(p, id) {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// resolveActor extracts the acting user from context.
// Priority: Forge user ID (from Authsome) → anonymous.
func resolveActor(ctx forge.Context) string {
	if userID := forge.UserIDFromContext(ctx.Context()); userID != "" {
		return userID
	}
	return "anonymous"
}

func denyResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "access denied"})
}
