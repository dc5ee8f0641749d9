// Package core provides framework-agnostic JWT validation logic that can be used
// across different transport layers (HTTP, gRPC, etc.).
package core

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Validator turns a raw token into claims. *validator.Validator implements it.
type Validator interface {
	ValidateToken(ctx context.Context, token string) (any, error)
}

// Logger is satisfied by *slog.Logger and by the logger adapters of the
// jwtmiddleware package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Core checks tokens on behalf of a transport adapter.
type Core struct {
	validator           Validator
	credentialsOptional bool
	logger              Logger
}

// CheckToken validates a raw token and returns its claims.
//
// An empty or all-whitespace token is a missing token: it yields (nil, nil)
// when credentials are optional and ErrJWTMissing otherwise. Validator errors
// that carry an ErrorCode come back as *ValidationError and match
// ErrJWTInvalid.
func (c *Core) CheckToken(ctx context.Context, token string) (any, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		if c.credentialsOptional {
			c.logger.Debug("No token provided, but credentials are optional")
			return nil, nil
		}
		c.logger.Warn("No token provided and credentials are required")
		return nil, ErrJWTMissing
	}

	start := time.Now()
	claims, err := c.validator.ValidateToken(ctx, token)
	duration := time.Since(start)

	if err != nil {
		err = wrapValidatorError(err)

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			c.logger.Warn("Token rejected", "code", validationErr.Code, "error", err, "duration", duration)
		} else {
			c.logger.Error("Token validation failed", "error", err, "duration", duration)
		}
		return nil, err
	}

	c.logger.Debug("Token validated successfully", "duration", duration)
	return claims, nil
}
