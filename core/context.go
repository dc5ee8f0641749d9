package core

import (
	"context"
	"fmt"
)

// claimsKey is the context key authenticated claims are stored under.
type claimsKey struct{}

// GetClaims returns the claims stored by SetClaims as a T.
//
// It returns ErrClaimsNotFound when the request was not authenticated, and a
// *ValidationError with ErrorCodeClaimsNotFound when the stored claims are of
// another type.
//
//	claims, err := core.GetClaims[*validator.ValidatedClaims](ctx)
func GetClaims[T any](ctx context.Context) (T, error) {
	var zero T

	val := ctx.Value(claimsKey{})
	if val == nil {
		return zero, ErrClaimsNotFound
	}

	claims, ok := val.(T)
	if !ok {
		return zero, NewValidationError(
			ErrorCodeClaimsNotFound,
			fmt.Sprintf("claims are %T, not %T", val, zero),
			nil,
		)
	}
	return claims, nil
}

// SetClaims returns a copy of ctx carrying claims. Nil claims leave ctx
// unauthenticated.
func SetClaims(ctx context.Context, claims any) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, claimsKey{}, claims)
}

// HasClaims reports whether ctx carries authenticated claims.
func HasClaims(ctx context.Context) bool {
	return ctx.Value(claimsKey{}) != nil
}
