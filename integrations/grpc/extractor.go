package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/naosproject/go-jwt-middleware/trust"
)

// TokenExtractor extracts JWT tokens from gRPC metadata. An empty token and a
// nil error mean no credentials were sent.
type TokenExtractor func(ctx context.Context) (string, error)

var (
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")
	ErrInvalidAuthFormat   = errors.New("invalid authorization metadata format, expected: Bearer <token>")
	ErrUnsupportedScheme   = errors.New("unsupported authorization scheme, expected: Bearer")
)

// MetadataTokenExtractor reads "Bearer <token>" from the "authorization"
// metadata entry. gRPC lowercases incoming metadata keys.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	value, err := singleValue(ctx, "authorization")
	if value == "" || err != nil {
		return "", err
	}

	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", ErrInvalidAuthFormat
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", ErrUnsupportedScheme
	}
	return parts[1], nil
}

// MetadataKeyTokenExtractor reads a bare token from the named metadata entry,
// the gRPC counterpart of a query string or form field.
func MetadataKeyTokenExtractor(key string) TokenExtractor {
	key = strings.ToLower(key)
	return func(ctx context.Context) (string, error) {
		return singleValue(ctx, key)
	}
}

// MultiTokenExtractor returns the first token found by extractors, in order.
// An extractor error ends the search.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(ctx context.Context) (string, error) {
		for _, extractor := range extractors {
			token, err := extractor(ctx)
			if err != nil {
				return "", err
			}
			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}

// PriorityTokenExtractor checks metadata in the order of priority. Header
// reads the authorization entry, QueryString and Form both read the entry
// named by key since gRPC has neither.
func PriorityTokenExtractor(priority []trust.AuthorizationSource, key string) TokenExtractor {
	var (
		extractors []TokenExtractor
		header     bool
		keyed      bool
	)
	for _, source := range priority {
		switch source {
		case trust.Header:
			if !header {
				extractors = append(extractors, MetadataTokenExtractor)
				header = true
			}
		case trust.QueryString, trust.Form:
			if !keyed && key != "" {
				extractors = append(extractors, MetadataKeyTokenExtractor(key))
				keyed = true
			}
		}
	}
	return MultiTokenExtractor(extractors...)
}

func singleValue(ctx context.Context, key string) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil
	}
	values := md.Get(key)
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return values[0], nil
	default:
		return "", ErrMultipleAuthHeaders
	}
}
