package jwtmiddleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/naosproject/go-jwt-middleware/trust"
)

// Option configures the JWTMiddleware.
// Returns error for validation failures.
type Option func(*JWTMiddleware) error

// TokenValidator defines the interface for token validation.
// This interface is satisfied by *validator.Validator.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (any, error)
}

// WithValidator sets the validator used to check tokens.
// Required unless WithTrustConfiguration is used.
//
// Example:
//
//	v, err := validator.New(cfg, validator.WithAllowedClockSkew(30*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	middleware, err := jwtmiddleware.New(
//	    jwtmiddleware.WithValidator(v),
//	)
func WithValidator(v TokenValidator) Option {
	return func(m *JWTMiddleware) error {
		if v == nil {
			return ErrValidatorNil
		}
		m.validator = v
		return nil
	}
}

// WithTrustConfiguration builds the middleware from a trust configuration.
//
// When no validator is set, a default *validator.Validator is built from cfg.
// When no token extractor is set, tokens are read from the request sources
// in cfg's authorization priority, using its authorization key.
func WithTrustConfiguration(cfg *trust.Configuration) Option {
	return func(m *JWTMiddleware) error {
		if cfg == nil {
			return ErrTrustConfigurationNil
		}
		m.trust = cfg
		return nil
	}
}

// WithCredentialsOptional sets whether credentials are optional.
// If set to true, an empty token will be considered valid.
//
// Default: false (credentials required)
func WithCredentialsOptional(value bool) Option {
	return func(m *JWTMiddleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests should have their JWT validated.
//
// Default: true (OPTIONS requests are validated)
func WithValidateOnOptions(value bool) Option {
	return func(m *JWTMiddleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when errors occur during JWT validation.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *JWTMiddleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the JWT from the request.
//
// Default: PriorityTokenExtractor for the trust configuration, or
// AuthHeaderTokenExtractor.
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *JWTMiddleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithExclusionUrls lets requests through without authentication when their
// path, or their full URL, equals one of exclusions.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *JWTMiddleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		excluded := make(map[string]struct{}, len(exclusions))
		for _, exclusion := range exclusions {
			excluded[exclusion] = struct{}{}
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			if _, ok := excluded[r.URL.Path]; ok {
				return true
			}
			_, ok := excluded[r.URL.String()]
			return ok
		}
		return nil
	}
}

// WithLogger sets an optional logger for the middleware.
// The logger will be used throughout the validation flow in both middleware and core.
//
// The logger interface is compatible with log/slog.Logger; NewLogrusLogger,
// NewZapLogger and NewZerologLogger adapt the other common loggers.
func WithLogger(logger Logger) Option {
	return func(m *JWTMiddleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics records one counter increment and one duration observation per
// checked request, labelled with the outcome.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *JWTMiddleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer wraps every checked request in a span.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *JWTMiddleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrValidatorNil          = errors.New("validator cannot be nil (use WithValidator or WithTrustConfiguration)")
	ErrTrustConfigurationNil = errors.New("trust configuration cannot be nil")
	ErrErrorHandlerNil       = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil     = errors.New("tokenExtractor cannot be nil")
	ErrExclusionUrlsEmpty    = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil             = errors.New("logger cannot be nil")
	ErrMetricsNil            = errors.New("metrics cannot be nil")
	ErrTracerNil             = errors.New("tracer cannot be nil")
)
