// Package usercontext carries the authenticated user through request
// contexts. Authentication itself happens at the gateway; services only see
// the resolved ID.
package usercontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ctxKey struct{}

// WithUserID returns a context carrying the caller's user ID.
func WithUserID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID extracts the caller's user ID, if present.
func UserID(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(ctxKey{}).(snowflake.ID)
	return id, ok
}
