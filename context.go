package muster

import "context"

type contextKey int

const (
	ctxKeyAppID contextKey = iota
	ctxKeyGuildID
)

// WithGuild returns a context with the given app and guild IDs.
// Use this for standalone mode (without Forge).
func WithGuild(ctx context.Context, appID, guildID string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyAppID, appID)
	ctx = context.WithValue(ctx, ctxKeyGuildID, guildID)
	return ctx
}

func appIDFromContext(ctx context.Context) string {
	v, ok := ctx.Value(ctxKeyAppID).(string)
	if !ok {
		return ""
	}
	return v
}

func guildIDFromContext(ctx context.Context) string {
	v, ok := ctx.Value(ctxKeyGuildID).(string)
	if !ok {
		return ""
	}
	return v
}
