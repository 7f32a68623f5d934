package api

import (
	"context"

	"hiring-platform/internal/common/auth"
	"hiring-platform/internal/models"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUser
	ctxKeyClaims
)

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

func withPrincipal(ctx context.Context, user *models.User, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUser, user)
	return context.WithValue(ctx, ctxKeyClaims, claims)
}

// currentUser is only valid behind the authenticate middleware.
func currentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxKeyUser).(*models.User)
	return user
}

func currentClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ctxKeyClaims).(*auth.Claims)
	return claims
}
