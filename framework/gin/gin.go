package jwtgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtmiddleware "github.com/naosproject/go-jwt-middleware"
	"github.com/naosproject/go-jwt-middleware/validator"
)

// DefaultClaimsKey is the gin context key validated claims are stored under.
const DefaultClaimsKey = "jwt"

var (
	ErrMissingClaims = errors.New("no JWT claims found in context")
	ErrInvalidClaims = errors.New("invalid JWT claims type")
	ErrMiddlewareNil = errors.New("jwt middleware cannot be nil")
)

type ginMiddlewareConfig struct {
	errorHandler func(*gin.Context, error)
	contextKey   string
}

// NewGinMiddleware adapts a configured JWTMiddleware to gin. Requests that
// fail authentication are aborted; on success the validated claims are
// available through GetClaims and through jwtmiddleware.GetClaims on the
// request context.
func NewGinMiddleware(m *jwtmiddleware.JWTMiddleware, opts ...Option) (gin.HandlerFunc, error) {
	if m == nil {
		return nil, ErrMiddlewareNil
	}

	config := &ginMiddlewareConfig{
		contextKey: DefaultClaimsKey,
	}
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			if claims, err := jwtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context()); err == nil {
				c.Set(config.contextKey, claims)
			}
			c.Next()
		})

		var errorHandler jwtmiddleware.ErrorHandler
		if config.errorHandler != nil {
			errorHandler = func(_ http.ResponseWriter, _ *http.Request, err error) {
				config.errorHandler(c, err)
			}
		}

		m.CheckJWTWithErrorHandler(next, errorHandler).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}, nil
}

// GetClaims returns the claims stored by the middleware under contextKey, or
// under DefaultClaimsKey when contextKey is empty.
func GetClaims(c *gin.Context, contextKey string) (*validator.ValidatedClaims, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return validatedClaims, nil
}
