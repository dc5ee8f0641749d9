/*
Package validator decides whether a bearer token authenticates a caller,
using the lestrrat-go/jwx v2 library.

A Validator is built once from a trust.Configuration and is then shared by
every request. Validation is a pure function of the token, the configuration
and the current time: no I/O, no mutation, safe for concurrent use.

# Validation steps

 1. An empty token is rejected with ReasonMissingToken.
 2. When the configuration has an envelope key the token is decrypted as a
    compact JWE (RSA-OAEP, RSA-OAEP-256 and RSA1_5 for RSA keys, ECDH-ES
    variants for EC keys). Failure is ReasonMalformedToken.
 3. The inner token must be a compact JWS with a JSON payload, else
    ReasonMalformedToken.
 4. Configured issuers whose URL equals the iss claim are selected, and their
    secrets are tried in configuration order with HMAC verification.
 5. No issuer URL match is ReasonNoMatchingIssuer; a match whose secrets all
    fail is ReasonSignatureInvalid.
 6. An aud claim without an allowed client is ReasonNoMatchingIssuer.
 7. A missing or past exp (exp equal to now counts as past) or a future nbf is
    ReasonExpired.

# Basic Usage

	cfg, err := trust.LoadFile("settings.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(cfg,
	    validator.WithAlgorithms(validator.HS256),
	    validator.WithAllowedClockSkew(30*time.Second),
	)
	if err != nil {
	    log.Fatal(err)
	}

	outcome := v.Validate(ctx, tokenString)
	if !outcome.IsAuthenticated() {
	    log.Printf("rejected: %s (%v)", outcome.Reason, outcome.Err)
	    return
	}
	fmt.Println(outcome.Claims.RegisteredClaims.Subject)

ValidateToken offers the same check with the (claims, error) signature the
middleware packages expect. Rejection reasons are meant for logs only; the
transports answer every rejection with a generic unauthorized response.

Protect, the inverse operation, is deliberately unsupported and always returns
a ReasonUnsupportedOperation rejection.
*/
package validator
