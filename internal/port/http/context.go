package httpserver

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
)

// ContextKey is the private key type for values the auth middleware stores.
type ContextKey string

const (
	UserCtxKey  = ContextKey("user")
	AdminCtxKey = ContextKey("admin")
)

func withUser(ctx context.Context, key ContextKey, user *entity.User) context.Context {
	return context.WithValue(ctx, key, user)
}

// UserFromContext returns the user authenticated by an access token.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*entity.User)
	return user, ok && user != nil
}

// AdminFromContext returns the admin authenticated by an admin token.
func AdminFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(AdminCtxKey).(*entity.User)
	return user, ok && user != nil
}
