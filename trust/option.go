package trust

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Option configures a Configuration.
// Options return errors to enable validation during construction.
type Option func(*Configuration) error

// New builds a Configuration from the supplied options.
//
// Example:
//
//	cfg, err := trust.New(
//	    trust.WithAllowedClients("app1"),
//	    trust.WithBase64URLIssuer("https://issuer1", "c2VjcmV0LWtleS1mb3ItaXNzdWVyLW9uZQ"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Configuration, error) {
	c := &Configuration{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if len(c.authorizationPriority) == 0 {
		c.authorizationPriority = []AuthorizationSource{Header}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Configuration) validate() error {
	for _, src := range c.authorizationPriority {
		if (src == QueryString || src == Form) && c.authorizationKey == "" {
			return newConfigError(
				"authorizationKey",
				fmt.Errorf("required when %s is in the authorization priority", src),
			)
		}
	}
	return nil
}

// WithAllowedClients adds client identifiers (audiences) tokens may be addressed to.
func WithAllowedClients(clients ...string) Option {
	return func(c *Configuration) error {
		for i, client := range clients {
			if client == "" {
				return newConfigError(fmt.Sprintf("allowedClients[%d]", i), errors.New("cannot be empty"))
			}
			if !slices.Contains(c.allowedClients, client) {
				c.allowedClients = append(c.allowedClients, client)
			}
		}
		return nil
	}
}

// WithIssuer appends a trusted issuer with its raw shared secret.
// Issuers are tried in the order they are added; duplicate URLs are allowed.
func WithIssuer(issuerURL string, secret []byte) Option {
	return func(c *Configuration) error {
		field := fmt.Sprintf("allowedServers[%d]", len(c.allowedIssuers))
		if err := validateIssuerURL(issuerURL); err != nil {
			return newConfigError(field+".issuer", err)
		}
		if len(secret) == 0 {
			return newConfigError(field+".secret", errors.New("cannot be empty"))
		}
		c.allowedIssuers = append(c.allowedIssuers, Issuer{
			URL:    issuerURL,
			Secret: slices.Clone(secret),
		})
		return nil
	}
}

// WithBase64URLIssuer appends a trusted issuer whose secret is base64url encoded.
// Both padded and unpadded encodings are accepted.
func WithBase64URLIssuer(issuerURL, encodedSecret string) Option {
	return func(c *Configuration) error {
		secret, err := DecodeSecret(encodedSecret)
		if err != nil {
			field := fmt.Sprintf("allowedServers[%d].secret", len(c.allowedIssuers))
			return newConfigError(field, err)
		}
		return WithIssuer(issuerURL, secret)(c)
	}
}

// WithEnvelopeKey sets the key used to unwrap encrypted tokens.
// Only one envelope key may be configured.
func WithEnvelopeKey(key *EnvelopeKey) Option {
	return func(c *Configuration) error {
		if key == nil || key.PrivateKey == nil {
			return newConfigError("envelopeKey", errors.New("private key is required"))
		}
		if c.envelopeKey != nil {
			return newConfigError(
				"envelopeKey",
				errors.New("relativeFileCertificate and storeCertificate are mutually exclusive"),
			)
		}
		copied := *key
		c.envelopeKey = &copied
		return nil
	}
}

// WithAuthorizationKey sets the query-string / form field name carrying the token.
func WithAuthorizationKey(key string) Option {
	return func(c *Configuration) error {
		c.authorizationKey = strings.TrimSpace(key)
		return nil
	}
}

// WithAuthorizationPriority sets the order in which token sources are checked.
// Default: Header only.
func WithAuthorizationPriority(sources ...AuthorizationSource) Option {
	return func(c *Configuration) error {
		seen := make(map[AuthorizationSource]bool, len(sources))
		priority := make([]AuthorizationSource, 0, len(sources))
		for i, src := range sources {
			if src < Header || src > Form {
				return newConfigError(fmt.Sprintf("authorizationPriority[%d]", i), fmt.Errorf("unknown source %s", src))
			}
			if seen[src] {
				return newConfigError(fmt.Sprintf("authorizationPriority[%d]", i), fmt.Errorf("duplicate source %s", src))
			}
			seen[src] = true
			priority = append(priority, src)
		}
		c.authorizationPriority = priority
		return nil
	}
}

// DecodeSecret decodes a base64url secret, with or without padding.
func DecodeSecret(encoded string) ([]byte, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(encoded), "=")
	if trimmed == "" {
		return nil, errors.New("cannot be empty")
	}
	secret, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("not valid base64url: %w", err)
	}
	return secret, nil
}

func validateIssuerURL(issuerURL string) error {
	if issuerURL == "" {
		return errors.New("cannot be empty")
	}
	if _, err := url.Parse(issuerURL); err != nil {
		return fmt.Errorf("invalid issuer URL: %w", err)
	}
	return nil
}
