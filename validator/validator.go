package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/naosproject/go-jwt-middleware/trust"
)

// Signature algorithms
const (
	HS256 = SignatureAlgorithm("HS256") // HMAC using SHA-256
	HS384 = SignatureAlgorithm("HS384") // HMAC using SHA-384
	HS512 = SignatureAlgorithm("HS512") // HMAC using SHA-512
)

// SignatureAlgorithm is a signature algorithm.
type SignatureAlgorithm string

var supportedAlgorithms = map[SignatureAlgorithm]jwa.SignatureAlgorithm{
	HS256: jwa.HS256,
	HS384: jwa.HS384,
	HS512: jwa.HS512,
}

// Validator validates tokens against a trust configuration. It holds no
// mutable state and is safe for concurrent use.
type Validator struct {
	trust            *trust.Configuration        // Required.
	envelope         *envelope                   // Internal, set when the configuration has an envelope key.
	algorithms       map[SignatureAlgorithm]bool // Optional.
	allowedClockSkew time.Duration               // Optional.
	now              func() time.Time            // Optional.
}

// New sets up a new Validator for the given trust configuration.
// A nil configuration is a programming error and is reported as such.
func New(cfg *trust.Configuration, opts ...Option) (*Validator, error) {
	if cfg == nil {
		return nil, errors.New("trust configuration is required but was nil")
	}

	v := &Validator{
		trust: cfg,
		algorithms: map[SignatureAlgorithm]bool{
			HS256: true,
			HS384: true,
			HS512: true,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid validator option: %w", err)
		}
	}

	if key := cfg.EnvelopeKey(); key != nil {
		env, err := newEnvelope(key)
		if err != nil {
			return nil, err
		}
		v.envelope = env
	}

	return v, nil
}

// Validate decides whether rawToken authenticates a caller.
//
// The token is unwrapped from its envelope when one is configured, parsed,
// matched to the configured issuers by its iss claim, verified against each
// matching issuer secret in order, then checked for an allowed audience and
// an unexpired lifetime.
func (v *Validator) Validate(_ context.Context, rawToken string) Outcome {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return Rejected(ReasonMissingToken, errors.New("token is empty"))
	}

	if err := validateTokenFormat(rawToken); err != nil {
		return Rejected(ReasonMalformedToken, err)
	}

	signed := rawToken
	if v.envelope != nil {
		inner, err := v.envelope.unwrap(rawToken)
		if err != nil {
			return Rejected(ReasonMalformedToken, err)
		}
		signed = strings.TrimSpace(inner)
	}

	unverified, err := parseUnverified(signed)
	if err != nil {
		return Rejected(ReasonMalformedToken, err)
	}

	issuer := unverified.token.Issuer()
	candidates := v.trust.IssuersFor(issuer)
	if len(candidates) == 0 {
		return Rejected(ReasonNoMatchingIssuer, fmt.Errorf("issuer %q is not allowed", issuer))
	}

	alg := SignatureAlgorithm(unverified.algorithm.String())
	if !v.algorithms[alg] {
		return Rejected(ReasonSignatureInvalid, fmt.Errorf("unexpected signing algorithm %q", alg))
	}

	payload, err := verifySignature(signed, unverified.algorithm, candidates)
	if err != nil {
		return Rejected(ReasonSignatureInvalid, err)
	}

	audience := unverified.token.Audience()
	if !v.trust.AllowsAnyClient(audience) {
		return Rejected(ReasonNoMatchingIssuer, fmt.Errorf("audience %q is not an allowed client", audience))
	}

	if err := v.validateLifetime(unverified.token); err != nil {
		return Rejected(ReasonExpired, err)
	}

	claims, err := newValidatedClaims(unverified.token, payload)
	if err != nil {
		return Rejected(ReasonMalformedToken, err)
	}

	return Authenticated(claims)
}

// ValidateToken validates the passed in token and returns *ValidatedClaims,
// or a *RejectionError describing why the token was refused.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (any, error) {
	outcome := v.Validate(ctx, tokenString)
	if !outcome.IsAuthenticated() {
		return nil, outcome.Error()
	}
	return outcome.Claims, nil
}

// Protect would turn an identity back into a token. The Validator is a
// relying party and never issues tokens: Protect always returns a
// ReasonUnsupportedOperation rejection.
func (v *Validator) Protect(*ValidatedClaims) Outcome {
	return Rejected(ReasonUnsupportedOperation, ErrUnsupportedOperation)
}

type unverifiedToken struct {
	token     jwt.Token
	algorithm jwa.SignatureAlgorithm
}

// parseUnverified reads the header and claims without trusting the signature.
func parseUnverified(signed string) (*unverifiedToken, error) {
	if err := validateCompactJWS(signed); err != nil {
		return nil, err
	}

	msg, err := jws.Parse([]byte(signed))
	if err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}
	sigs := msg.Signatures()
	if len(sigs) != 1 {
		return nil, fmt.Errorf("expected exactly one signature, got %d", len(sigs))
	}

	token, err := jwt.ParseInsecure([]byte(signed))
	if err != nil {
		return nil, fmt.Errorf("could not parse the token claims: %w", err)
	}

	return &unverifiedToken{
		token:     token,
		algorithm: sigs[0].ProtectedHeaders().Algorithm(),
	}, nil
}

// verifySignature tries every candidate secret in order and returns the
// verified payload of the first one that matches.
func verifySignature(signed string, alg jwa.SignatureAlgorithm, candidates []trust.Issuer) ([]byte, error) {
	var errs []error
	for _, candidate := range candidates {
		payload, err := jws.Verify([]byte(signed), jws.WithKey(alg, candidate.Secret))
		if err == nil {
			return payload, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("no secret of issuer %q verified the signature: %w", candidates[0].URL, errors.Join(errs...))
}

// validateLifetime requires an exp claim strictly after now, and an nbf
// claim (when present) not after now, both within the allowed clock skew.
func (v *Validator) validateLifetime(token jwt.Token) error {
	now := v.now()

	expiry := token.Expiration()
	if expiry.IsZero() {
		return errors.New("token has no expiration time")
	}
	if !now.Add(-v.allowedClockSkew).Before(expiry) {
		return fmt.Errorf("token expired at %s", expiry.UTC().Format(time.RFC3339))
	}

	if nbf := token.NotBefore(); !nbf.IsZero() && now.Add(v.allowedClockSkew).Before(nbf) {
		return fmt.Errorf("token not valid before %s", nbf.UTC().Format(time.RFC3339))
	}

	return nil
}

func newValidatedClaims(token jwt.Token, payload []byte) (*ValidatedClaims, error) {
	decoded, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}

	return &ValidatedClaims{
		RegisteredClaims: RegisteredClaims{
			Issuer:    token.Issuer(),
			Subject:   token.Subject(),
			Audience:  token.Audience(),
			ID:        token.JwtID(),
			Expiry:    numericDateToUnixTime(token.Expiration()),
			NotBefore: numericDateToUnixTime(token.NotBefore()),
			IssuedAt:  numericDateToUnixTime(token.IssuedAt()),
		},
		Claims:  flattenClaims(decoded),
		Payload: decoded,
	}, nil
}
