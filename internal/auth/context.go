package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	orgIDKey  contextKey = "orgID"
	userIDKey contextKey = "userID"
)

// ContextWithIdentity returns a new context carrying the authenticated user
// and the tenant scope under which catalog uniqueness is enforced.
func ContextWithIdentity(ctx context.Context, userID, orgID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, orgIDKey, orgID)
}

// OrgIDFromContext retrieves the authenticated tenant scope from the context, if any.
func OrgIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(orgIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// UserIDFromContext retrieves the authenticated user from the context, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
