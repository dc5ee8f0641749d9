package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"
)

// Claim is a single named attribute of an authenticated identity.
type Claim struct {
	Type  string
	Value string
}

// ValidatedClaims is the identity of an authenticated token. It is what the
// middleware stores in the request context.
type ValidatedClaims struct {
	RegisteredClaims RegisteredClaims

	// Claims is the full claim set, flattened: array values become one
	// claim per element, objects are kept as compact JSON.
	Claims []Claim

	// Payload is the decoded token payload. Numbers are json.Number.
	Payload map[string]any
}

// RegisteredClaims represents public claim
// values (as specified in RFC 7519).
type RegisteredClaims struct {
	Issuer    string   `json:"iss,omitempty"`
	Subject   string   `json:"sub,omitempty"`
	Audience  []string `json:"aud,omitempty"`
	Expiry    int64    `json:"exp,omitempty"`
	NotBefore int64    `json:"nbf,omitempty"`
	IssuedAt  int64    `json:"iat,omitempty"`
	ID        string   `json:"jti,omitempty"`
}

// FindAll returns every value of the given claim type.
func (c *ValidatedClaims) FindAll(claimType string) []string {
	var values []string
	for _, claim := range c.Claims {
		if claim.Type == claimType {
			values = append(values, claim.Value)
		}
	}
	return values
}

// FindFirst returns the first value of the given claim type.
func (c *ValidatedClaims) FindFirst(claimType string) (string, bool) {
	for _, claim := range c.Claims {
		if claim.Type == claimType {
			return claim.Value, true
		}
	}
	return "", false
}

// HasClaim reports whether the identity carries the exact claim.
func (c *ValidatedClaims) HasClaim(claimType, value string) bool {
	return slices.Contains(c.Claims, Claim{Type: claimType, Value: value})
}

func numericDateToUnixTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func decodePayload(payload []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var claims map[string]any
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("could not decode the token payload: %w", err)
	}
	if claims == nil {
		return nil, fmt.Errorf("token payload is not a JSON object")
	}
	return claims, nil
}

// flattenClaims turns the payload into a claim list ordered by claim type.
func flattenClaims(payload map[string]any) []Claim {
	types := make([]string, 0, len(payload))
	for k := range payload {
		types = append(types, k)
	}
	sort.Strings(types)

	var claims []Claim
	for _, typ := range types {
		claims = appendClaimValues(claims, typ, payload[typ])
	}
	return claims
}

func appendClaimValues(claims []Claim, typ string, value any) []Claim {
	switch v := value.(type) {
	case nil:
		return claims
	case string:
		return append(claims, Claim{Type: typ, Value: v})
	case json.Number:
		return append(claims, Claim{Type: typ, Value: v.String()})
	case bool:
		return append(claims, Claim{Type: typ, Value: fmt.Sprint(v)})
	case []any:
		for _, elem := range v {
			claims = appendClaimValues(claims, typ, elem)
		}
		return claims
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return claims
		}
		return append(claims, Claim{Type: typ, Value: string(raw)})
	}
}
