package grpc

import (
	"errors"

	"github.com/naosproject/go-jwt-middleware/core"
	"github.com/naosproject/go-jwt-middleware/trust"
	"github.com/naosproject/go-jwt-middleware/validator"
)

// Option configures the JWT interceptor.
type Option func(*JWTInterceptor) error

// Logger is the slog-shaped logger shared with core.
type Logger = core.Logger

var (
	ErrValidatorRequired     = errors.New("validator is required, use WithValidator, WithTrustConfiguration or WithCore")
	ErrValidatorNil          = errors.New("validator cannot be nil")
	ErrTrustConfigurationNil = errors.New("trust configuration cannot be nil")
	ErrCoreNil               = errors.New("core cannot be nil")
	ErrCoreConflict          = errors.New("WithCore cannot be combined with validator, credentials or logger options")
	ErrLoggerNil             = errors.New("logger cannot be nil")
	ErrTokenExtractorNil     = errors.New("token extractor cannot be nil")
	ErrErrorHandlerNil       = errors.New("error handler cannot be nil")
)

// coreBuilder accumulates the options used to build a core.Core when none is
// supplied through WithCore.
type coreBuilder struct {
	validator           core.Validator
	credentialsOptional *bool
	logger              Logger
}

func (i *JWTInterceptor) builder() *coreBuilder {
	if i.coreBuilder == nil {
		i.coreBuilder = &coreBuilder{}
	}
	return i.coreBuilder
}

func (b *coreBuilder) build() (*core.Core, error) {
	if b.validator == nil {
		return nil, ErrValidatorRequired
	}

	opts := []core.Option{core.WithValidator(b.validator)}
	if b.credentialsOptional != nil {
		opts = append(opts, core.WithCredentialsOptional(*b.credentialsOptional))
	}
	if b.logger != nil {
		opts = append(opts, core.WithLogger(b.logger))
	}
	return core.New(opts...)
}

// WithValidator sets the token validator, typically a *validator.Validator.
//
//	interceptor, err := jwtgrpc.New(
//	    jwtgrpc.WithValidator(v),
//	    jwtgrpc.WithLogger(slog.Default()),
//	)
func WithValidator(v core.Validator) Option {
	return func(i *JWTInterceptor) error {
		if v == nil {
			return ErrValidatorNil
		}
		i.builder().validator = v
		return nil
	}
}

// WithTrustConfiguration builds the validator from cfg. Unless a token
// extractor is set explicitly, tokens are looked up in the order of the
// configured authorization priority, see PriorityTokenExtractor.
func WithTrustConfiguration(cfg *trust.Configuration) Option {
	return func(i *JWTInterceptor) error {
		if cfg == nil {
			return ErrTrustConfigurationNil
		}
		v, err := validator.New(cfg)
		if err != nil {
			return err
		}
		i.builder().validator = v
		i.trust = cfg
		return nil
	}
}

// WithCore uses an already constructed core. It cannot be combined with
// WithValidator, WithTrustConfiguration, WithCredentialsOptional or the core
// side of WithLogger.
func WithCore(c *core.Core) Option {
	return func(i *JWTInterceptor) error {
		if c == nil {
			return ErrCoreNil
		}
		i.core = c
		return nil
	}
}

// WithCredentialsOptional lets calls without a token through without claims.
// Default: false.
func WithCredentialsOptional(optional bool) Option {
	return func(i *JWTInterceptor) error {
		i.builder().credentialsOptional = &optional
		return nil
	}
}

// WithLogger sets the logger used by the interceptor and by the core it builds.
func WithLogger(logger Logger) Option {
	return func(i *JWTInterceptor) error {
		if logger == nil {
			return ErrLoggerNil
		}
		i.builder().logger = logger
		i.logger = logger
		return nil
	}
}

// WithTokenExtractor replaces MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *JWTInterceptor) error {
		if extractor == nil {
			return ErrTokenExtractorNil
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *JWTInterceptor) error {
		if handler == nil {
			return ErrErrorHandlerNil
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods skips validation for full method names such as
// "/grpc.health.v1.Health/Check".
func WithExcludedMethods(methods ...string) Option {
	return func(i *JWTInterceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
