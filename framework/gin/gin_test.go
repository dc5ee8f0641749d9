package jwtgin

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtmiddleware "github.com/naosproject/go-jwt-middleware"
	"github.com/naosproject/go-jwt-middleware/internal/testissuer"
	"github.com/naosproject/go-jwt-middleware/trust"
	"github.com/naosproject/go-jwt-middleware/validator"
)

const (
	issuerURL = "https://issuer1"
	clientID  = "app1"
	subject   = "1234567890"
)

var secret = []byte("secret-key-for-issuer-one-long-enough")

func newJWTMiddleware(t *testing.T) *jwtmiddleware.JWTMiddleware {
	t.Helper()
	cfg, err := trust.New(
		trust.WithAllowedClients(clientID),
		trust.WithIssuer(issuerURL, secret),
	)
	require.NoError(t, err)

	m, err := jwtmiddleware.New(jwtmiddleware.WithTrustConfiguration(cfg))
	require.NoError(t, err)
	return m
}

func newRouter(t *testing.T, key string, opts ...Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler, err := NewGinMiddleware(newJWTMiddleware(t), opts...)
	require.NoError(t, err)

	router := gin.New()
	router.Use(handler)
	router.GET("/api/test", func(c *gin.Context) {
		claims, err := GetClaims(c, key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		fromRequest := jwtmiddleware.MustGetClaims[*validator.ValidatedClaims](c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"sub": claims.RegisteredClaims.Subject, "same": fromRequest == claims})
	})
	return router
}

func TestNewGinMiddleware(t *testing.T) {
	issuer := testissuer.New(issuerURL, secret)
	validToken := issuer.Sign(t, issuer.Claims(clientID, subject, time.Now().Add(time.Hour)))
	expiredToken := issuer.Sign(t, issuer.Claims(clientID, subject, time.Now().Add(-time.Hour)))

	customHandler := WithErrorHandler(func(c *gin.Context, err error) {
		c.JSON(http.StatusTeapot, gin.H{"missing": errors.Is(err, jwtmiddleware.ErrJWTMissing)})
	})

	testCases := []struct {
		name       string
		token      string
		key        string
		opts       []Option
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			token:      validToken,
			wantStatus: http.StatusOK,
			wantBody:   `{"same":true,"sub":"1234567890"}`,
		},
		{
			name:       "custom context key",
			token:      validToken,
			key:        "user",
			opts:       []Option{WithContextKey("user")},
			wantStatus: http.StatusOK,
			wantBody:   `{"same":true,"sub":"1234567890"}`,
		},
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"unauthorized"}`,
		},
		{
			name:       "expired token",
			token:      expiredToken,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"unauthorized"}`,
		},
		{
			name:       "custom error handler sees missing token",
			opts:       []Option{customHandler},
			wantStatus: http.StatusTeapot,
			wantBody:   `{"missing":true}`,
		},
		{
			name:       "custom error handler sees rejection",
			token:      expiredToken,
			opts:       []Option{customHandler},
			wantStatus: http.StatusTeapot,
			wantBody:   `{"missing":false}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			router := newRouter(t, testCase.key, testCase.opts...)

			r := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			if testCase.token != "" {
				r.Header.Set("Authorization", "Bearer "+testCase.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, testCase.wantStatus, w.Code)
			assert.JSONEq(t, testCase.wantBody, w.Body.String())
		})
	}
}

func TestNewGinMiddleware_Errors(t *testing.T) {
	_, err := NewGinMiddleware(nil)
	assert.ErrorIs(t, err, ErrMiddlewareNil)

	_, err = NewGinMiddleware(newJWTMiddleware(t), WithContextKey(""))
	assert.ErrorIs(t, err, ErrContextKeyEmpty)

	_, err = NewGinMiddleware(newJWTMiddleware(t), WithErrorHandler(nil))
	assert.ErrorIs(t, err, ErrErrorHandlerNil)
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetClaims(c, "")
	assert.ErrorIs(t, err, ErrMissingClaims)

	c.Set(DefaultClaimsKey, "not claims")
	_, err = GetClaims(c, "")
	assert.ErrorIs(t, err, ErrInvalidClaims)

	want := &validator.ValidatedClaims{}
	c.Set(DefaultClaimsKey, want)
	got, err := GetClaims(c, "")
	require.NoError(t, err)
	assert.Same(t, want, got)
}
