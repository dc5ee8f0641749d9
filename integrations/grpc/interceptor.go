package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/naosproject/go-jwt-middleware/core"
	"github.com/naosproject/go-jwt-middleware/trust"
)

// JWTInterceptor authenticates gRPC calls with bearer tokens.
type JWTInterceptor struct {
	core            *core.Core
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger

	// Used during construction only.
	coreBuilder *coreBuilder
	trust       *trust.Configuration
}

// New creates a gRPC JWT interceptor. One of WithValidator,
// WithTrustConfiguration or WithCore is required.
func New(opts ...Option) (*JWTInterceptor, error) {
	interceptor := &JWTInterceptor{
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	switch {
	case interceptor.core != nil && interceptor.coreBuilder != nil:
		if interceptor.coreBuilder.validator != nil || interceptor.coreBuilder.credentialsOptional != nil {
			return nil, ErrCoreConflict
		}
	case interceptor.coreBuilder != nil:
		c, err := interceptor.coreBuilder.build()
		if err != nil {
			return nil, err
		}
		interceptor.core = c
	case interceptor.core == nil:
		return nil, ErrValidatorRequired
	}

	if interceptor.tokenExtractor == nil {
		interceptor.tokenExtractor = MetadataTokenExtractor
		if interceptor.trust != nil {
			interceptor.tokenExtractor = PriorityTokenExtractor(
				interceptor.trust.AuthorizationPriority(),
				interceptor.trust.AuthorizationKey(),
			)
		}
	}
	interceptor.trust = nil
	interceptor.coreBuilder = nil

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that validates
// the caller's token and stores its claims in the handler context.
func (i *JWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excluded(info.FullMethod) {
			return handler(ctx, req)
		}

		validatedCtx, err := i.validateRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(validatedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// validates the caller's token once, when the stream is opened.
func (i *JWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excluded(info.FullMethod) {
			return handler(srv, ss)
		}

		validatedCtx, err := i.validateRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: validatedCtx})
	}
}

func (i *JWTInterceptor) excluded(method string) bool {
	if !i.excludedMethods[method] {
		return false
	}
	if i.logger != nil {
		i.logger.Debug("skipping JWT validation for excluded method", "method", method)
	}
	return true
}

func (i *JWTInterceptor) validateRequest(ctx context.Context, method string) (context.Context, error) {
	token, err := i.tokenExtractor(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("failed to extract token from gRPC metadata",
				"error", err,
				"method", method)
		}
		return ctx, i.errorHandler(err)
	}

	claims, err := i.core.CheckToken(ctx, token)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("JWT validation failed",
				"error", err,
				"method", method)
		}
		return ctx, i.errorHandler(err)
	}

	if claims == nil {
		if i.logger != nil {
			i.logger.Debug("no credentials provided, continuing without claims (credentials optional)",
				"method", method)
		}
		return ctx, nil
	}
	return core.SetClaims(ctx, claims), nil
}

// wrappedServerStream carries the authenticated context into stream handlers.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
