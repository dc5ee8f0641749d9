package jwtmiddleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/naosproject/go-jwt-middleware/core"
	"github.com/naosproject/go-jwt-middleware/trust"
	"github.com/naosproject/go-jwt-middleware/validator"
)

// JWTMiddleware authenticates HTTP requests with bearer tokens.
type JWTMiddleware struct {
	core                *core.Core
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              Tracer

	// Used during construction only.
	validator           TokenValidator
	trust               *trust.Configuration
	credentialsOptional bool
}

// ExclusionURLHandler is a function that takes in a http.Request and returns
// true if the request should be excluded from JWT validation.
type ExclusionURLHandler func(r *http.Request) bool

// Outcome labels used for metrics and span attributes.
const (
	outcomeAuthenticated = "authenticated"
	outcomeAnonymous     = "anonymous"
	outcomeMissing       = "missing"
	outcomeRejected      = "rejected"
)

// New constructs a new JWTMiddleware instance with the supplied options.
// Either WithValidator or WithTrustConfiguration is required.
//
// Example:
//
//	cfg, err := trust.LoadFile("settings.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	middleware, err := jwtmiddleware.New(
//	    jwtmiddleware.WithTrustConfiguration(cfg),
//	    jwtmiddleware.WithExclusionUrls([]string{"/healthz"}),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(opts ...Option) (*JWTMiddleware, error) {
	m := &JWTMiddleware{
		validateOnOptions:   true,
		credentialsOptional: false,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := m.applyDefaults(); err != nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", err)
	}

	coreOpts := []core.Option{
		core.WithValidator(m.validator),
		core.WithCredentialsOptional(m.credentialsOptional),
	}
	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(m.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}
	m.core = c

	return m, nil
}

// applyDefaults derives what was not set explicitly, preferring the trust
// configuration over the package defaults.
func (m *JWTMiddleware) applyDefaults() error {
	if m.validator == nil {
		if m.trust == nil {
			return ErrValidatorNil
		}
		v, err := validator.New(m.trust)
		if err != nil {
			return err
		}
		m.validator = v
	}

	if m.tokenExtractor == nil {
		if m.trust != nil {
			m.tokenExtractor = PriorityTokenExtractor(m.trust.AuthorizationPriority(), m.trust.AuthorizationKey())
		} else {
			m.tokenExtractor = AuthHeaderTokenExtractor
		}
	}
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.metrics == nil {
		m.metrics = NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = NoopTracer{}
	}
	return nil
}

// GetClaims retrieves claims from the context with type safety using generics.
//
// Example:
//
//	claims, err := jwtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(claims.RegisteredClaims.Subject)
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// MustGetClaims retrieves claims from the context or panics.
// Use only when you are certain claims exist (e.g., after middleware has run).
func MustGetClaims[T any](ctx context.Context) T {
	claims, err := core.GetClaims[T](ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}

// CheckJWT is the main JWTMiddleware function which performs the main logic. It
// is passed a http.Handler which will be called if the JWT passes validation.
func (m *JWTMiddleware) CheckJWT(next http.Handler) http.Handler {
	return m.CheckJWTWithErrorHandler(next, m.errorHandler)
}

// CheckJWTWithErrorHandler behaves like CheckJWT but reports failures to
// errorHandler instead of the one configured with WithErrorHandler. Framework
// adapters use it to render errors through their own context types.
func (m *JWTMiddleware) CheckJWTWithErrorHandler(next http.Handler, errorHandler ErrorHandler) http.Handler {
	if errorHandler == nil {
		errorHandler = m.errorHandler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
			if m.logger != nil {
				m.logger.Debug("skipping JWT validation for excluded URL",
					"method", r.Method,
					"path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			if m.logger != nil {
				m.logger.Debug("skipping JWT validation for OPTIONS request")
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := m.tracer.Start(r.Context(), "jwtmiddleware.CheckJWT")
		defer span.End()

		start := time.Now()
		outcome := outcomeRejected
		defer func() {
			span.SetAttribute("jwt.outcome", outcome)
			tags := map[string]string{"outcome": outcome}
			m.metrics.IncCounter(MetricValidationTotal, tags)
			m.metrics.ObserveHistogram(MetricValidationDuration, time.Since(start).Seconds(), tags)
		}()

		token, err := m.tokenExtractor(r)
		if err != nil {
			// A token was supplied but could not be read; never a missing token.
			if m.logger != nil {
				m.logger.Warn("failed to extract token from request",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			outcome = outcomeRejected
			errorHandler(w, r, &invalidError{details: fmt.Errorf("error extracting token: %w", err)})
			return
		}

		claims, err := m.core.CheckToken(ctx, token)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("JWT validation failed",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			if errors.Is(err, ErrJWTMissing) {
				outcome = outcomeMissing
				errorHandler(w, r, err)
				return
			}
			outcome = outcomeRejected
			errorHandler(w, r, &invalidError{details: err})
			return
		}

		if claims == nil {
			outcome = outcomeAnonymous
			if m.logger != nil {
				m.logger.Debug("no credentials provided, continuing without claims (credentials optional)")
			}
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		outcome = outcomeAuthenticated
		next.ServeHTTP(w, r.WithContext(core.SetClaims(ctx, claims)))
	})
}
