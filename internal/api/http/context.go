package http

import (
	"context"

	"volunteer-hub-backend/internal/domain"
)

type callerKey struct{}

func withCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the identity the auth middleware attached.
func CallerFromContext(ctx context.Context) (domain.Caller, error) {
	caller, ok := ctx.Value(callerKey{}).(domain.Caller)
	if !ok || caller.AccountID == "" {
		return domain.Caller{}, domain.ErrUnauthorized
	}
	return caller, nil
}
