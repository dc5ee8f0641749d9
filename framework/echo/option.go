package jwtecho

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// Option configures the echo adapter.
type Option func(*echoMiddlewareConfig) error

var (
	ErrErrorHandlerNil = errors.New("error handler cannot be nil")
	ErrContextKeyEmpty = errors.New("context key cannot be empty")
)

// WithErrorHandler renders authentication failures through the echo context.
// A non-nil return is handed to echo's HTTPErrorHandler.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoMiddlewareConfig) error {
		if handler == nil {
			return ErrErrorHandlerNil
		}
		config.errorHandler = handler
		return nil
	}
}

// WithContextKey sets the echo context key claims are stored under.
func WithContextKey(key string) Option {
	return func(config *echoMiddlewareConfig) error {
		if key == "" {
			return ErrContextKeyEmpty
		}
		config.contextKey = key
		return nil
	}
}
