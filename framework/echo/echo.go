package jwtecho

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtmiddleware "github.com/naosproject/go-jwt-middleware"
	"github.com/naosproject/go-jwt-middleware/validator"
)

// DefaultClaimsKey is the echo context key validated claims are stored under.
const DefaultClaimsKey = "jwt"

var ErrMiddlewareNil = errors.New("jwt middleware cannot be nil")

type echoMiddlewareConfig struct {
	errorHandler func(echo.Context, error) error
	contextKey   string
}

// NewEchoMiddleware adapts a configured JWTMiddleware to echo. On success the
// validated claims are stored in the echo context and the request context.
func NewEchoMiddleware(m *jwtmiddleware.JWTMiddleware, opts ...Option) (echo.MiddlewareFunc, error) {
	if m == nil {
		return nil, ErrMiddlewareNil
	}

	config := &echoMiddlewareConfig{
		contextKey: DefaultClaimsKey,
	}
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var nextErr, handlerErr error
			inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				if claims, err := jwtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context()); err == nil {
					c.Set(config.contextKey, claims)
				}
				nextErr = next(c)
			})

			var errorHandler jwtmiddleware.ErrorHandler
			if config.errorHandler != nil {
				errorHandler = func(_ http.ResponseWriter, _ *http.Request, err error) {
					handlerErr = config.errorHandler(c, err)
				}
			}

			m.CheckJWTWithErrorHandler(inner, errorHandler).ServeHTTP(c.Response(), c.Request())

			if handlerErr != nil {
				return handlerErr
			}
			return nextErr
		}
	}, nil
}

// GetClaims returns the claims stored under contextKey, or under
// DefaultClaimsKey when contextKey is empty.
func GetClaims(c echo.Context, contextKey string) (*validator.ValidatedClaims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	validatedClaims, ok := c.Get(contextKey).(*validator.ValidatedClaims)
	return validatedClaims, ok
}
