package grpc

import (
	"context"

	"github.com/naosproject/go-jwt-middleware/core"
)

// GetClaims returns the claims the interceptor stored in ctx.
//
//	claims, err := jwtgrpc.GetClaims[*validator.ValidatedClaims](ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "failed to get claims")
//	}
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// MustGetClaims is GetClaims for handlers behind a credentials-required
// interceptor. It panics when no claims are present.
func MustGetClaims[T any](ctx context.Context) T {
	claims, err := core.GetClaims[T](ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims reports whether the call was authenticated.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
