package api

import (
	"context"
)

type keyType string

const (
	moderatorKey keyType = "moderator"
)

// ctxWithModerator records who passed the moderation check
func ctxWithModerator(ctx context.Context, moderator string) context.Context {
	return context.WithValue(ctx, moderatorKey, moderator)
}

// ctxGetModerator returns the moderator recorded by authMiddleware, if any
func ctxGetModerator(ctx context.Context) string {
	moderator, _ := ctx.Value(moderatorKey).(string)
	return moderator
}
