// Package trust describes whom a relying party trusts: the clients (audiences)
// tokens may be addressed to, the issuers allowed to sign them together with
// their shared secrets, and the optional certificate-bound key used to unwrap
// encrypted token envelopes.
//
// A Configuration is built once at startup, either programmatically with New
// or from a settings document with Load / LoadFile, and is read-only afterwards.
// It is safe to share a single Configuration between any number of goroutines.
package trust

import (
	"crypto"
	"crypto/x509"
	"fmt"
	"slices"
	"strings"
)

// AuthorizationSource is a place in an HTTP request a bearer token can be read from.
type AuthorizationSource int

const (
	// Header reads the token from the "Authorization: Bearer <token>" header.
	Header AuthorizationSource = iota
	// QueryString reads the token from the query parameter named by the authorization key.
	QueryString
	// Form reads the token from the form field named by the authorization key.
	Form
)

// String returns the settings-document spelling of the source.
func (s AuthorizationSource) String() string {
	switch s {
	case Header:
		return "header"
	case QueryString:
		return "queryString"
	case Form:
		return "form"
	default:
		return fmt.Sprintf("AuthorizationSource(%d)", int(s))
	}
}

// ParseAuthorizationSource parses a source name, ignoring case.
// "query" and "formField" are accepted as aliases.
func ParseAuthorizationSource(name string) (AuthorizationSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "header":
		return Header, nil
	case "querystring", "query":
		return QueryString, nil
	case "form", "formfield":
		return Form, nil
	}
	return 0, fmt.Errorf("unknown authorization source %q", name)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *AuthorizationSource) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthorizationSource(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Issuer is a trusted token issuer bound to the symmetric secret it signs with.
type Issuer struct {
	URL    string
	Secret []byte
}

// CertificateSource tells where an envelope key was loaded from.
type CertificateSource int

const (
	// FileCertificate is a certificate file resolved relative to a base directory.
	FileCertificate CertificateSource = iota + 1
	// StoreCertificate is a certificate looked up in a CertificateStore.
	StoreCertificate
)

func (s CertificateSource) String() string {
	switch s {
	case FileCertificate:
		return "file"
	case StoreCertificate:
		return "store"
	default:
		return "unknown"
	}
}

// EnvelopeKey is the resolved private key used to decrypt token envelopes.
type EnvelopeKey struct {
	Source      CertificateSource
	Locator     string
	Certificate *x509.Certificate
	PrivateKey  crypto.PrivateKey
}

// Configuration is an immutable trust configuration.
type Configuration struct {
	allowedClients        []string
	allowedIssuers        []Issuer
	envelopeKey           *EnvelopeKey
	authorizationKey      string
	authorizationPriority []AuthorizationSource
}

// AllowedClients returns a copy of the allowed client identifiers.
func (c *Configuration) AllowedClients() []string {
	return slices.Clone(c.allowedClients)
}

// AllowsAnyClient reports whether at least one of the audiences is an allowed client.
func (c *Configuration) AllowsAnyClient(audiences []string) bool {
	for _, aud := range audiences {
		if slices.Contains(c.allowedClients, aud) {
			return true
		}
	}
	return false
}

// Issuers returns a copy of the allowed issuers in configuration order.
func (c *Configuration) Issuers() []Issuer {
	out := make([]Issuer, len(c.allowedIssuers))
	for i, iss := range c.allowedIssuers {
		out[i] = Issuer{URL: iss.URL, Secret: slices.Clone(iss.Secret)}
	}
	return out
}

// IssuersFor returns the configured issuers whose URL equals issuerURL, in
// configuration order. The returned secrets must not be modified.
func (c *Configuration) IssuersFor(issuerURL string) []Issuer {
	var matched []Issuer
	for _, iss := range c.allowedIssuers {
		if iss.URL == issuerURL {
			matched = append(matched, iss)
		}
	}
	return matched
}

// EnvelopeKey returns the envelope key, or nil when tokens are not encrypted.
func (c *Configuration) EnvelopeKey() *EnvelopeKey {
	if c.envelopeKey == nil {
		return nil
	}
	key := *c.envelopeKey
	return &key
}

// AuthorizationKey is the query-string or form field name carrying the token.
func (c *Configuration) AuthorizationKey() string {
	return c.authorizationKey
}

// AuthorizationPriority returns the order in which request sources are checked.
func (c *Configuration) AuthorizationPriority() []AuthorizationSource {
	return slices.Clone(c.authorizationPriority)
}
