package validator

import (
	"errors"
	"strings"
)

var (
	// ErrExcessiveTokenDots is returned when a token contains too many dots,
	// which could indicate a malicious attempt to exploit CVE-2025-27144.
	ErrExcessiveTokenDots = errors.New("token contains excessive dots (possible DoS attack)")

	// ErrTokenTooLarge is returned for tokens over maxTokenSize bytes.
	ErrTokenTooLarge = errors.New("token exceeds maximum size (1MB)")
)

const (
	// maxTokenDots is the maximum number of dots allowed in a raw token.
	// Valid formats:
	// - JWS compact: header.payload.signature (2 dots)
	// - JWE compact: header.key.iv.ciphertext.tag (4 dots)
	maxTokenDots = 4

	// maxTokenSize rejects suspiciously large tokens before any decoding.
	maxTokenSize = 1024 * 1024

	// jwsSegments is the number of segments in a compact JWS.
	jwsSegments = 3
)

// validateTokenFormat rejects obviously malicious inputs before they reach
// the JOSE parsers.
func validateTokenFormat(tokenString string) error {
	if len(tokenString) > maxTokenSize {
		return ErrTokenTooLarge
	}
	if strings.Count(tokenString, ".") > maxTokenDots {
		return ErrExcessiveTokenDots
	}
	return nil
}

// validateCompactJWS checks the inner token is header.payload.signature
// with no empty header or payload segment.
func validateCompactJWS(tokenString string) error {
	segments := strings.Split(tokenString, ".")
	if len(segments) != jwsSegments {
		return errors.New("compact JWS format must have three parts")
	}
	if segments[0] == "" || segments[1] == "" {
		return errors.New("compact JWS header and payload cannot be empty")
	}
	return nil
}
