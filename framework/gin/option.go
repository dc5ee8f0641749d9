package jwtgin

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Option configures the gin adapter.
type Option func(*ginMiddlewareConfig) error

var (
	ErrErrorHandlerNil = errors.New("error handler cannot be nil")
	ErrContextKeyEmpty = errors.New("context key cannot be empty")
)

// WithErrorHandler renders authentication failures through the gin context
// instead of the JWTMiddleware's own error handler. The handler should write a
// response; the request is aborted either way.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *ginMiddlewareConfig) error {
		if handler == nil {
			return ErrErrorHandlerNil
		}
		config.errorHandler = handler
		return nil
	}
}

// WithContextKey sets the gin context key claims are stored under.
func WithContextKey(key string) Option {
	return func(config *ginMiddlewareConfig) error {
		if key == "" {
			return ErrContextKeyEmpty
		}
		config.contextKey = key
		return nil
	}
}
