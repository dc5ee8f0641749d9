package validator

import (
	"errors"
	"fmt"
)

// Reason is why a token was rejected.
type Reason int

const (
	// ReasonNone means the token was not rejected.
	ReasonNone Reason = iota
	// ReasonMissingToken means no token was supplied.
	ReasonMissingToken
	// ReasonMalformedToken means the envelope could not be unwrapped or
	// the inner token is not a structurally valid JWS.
	ReasonMalformedToken
	// ReasonUnsupportedOperation means token issuance was requested.
	ReasonUnsupportedOperation
	// ReasonNoMatchingIssuer means no configured issuer or client matches the token.
	ReasonNoMatchingIssuer
	// ReasonSignatureInvalid means the issuer matched but no secret verified the signature.
	ReasonSignatureInvalid
	// ReasonExpired means the token is outside its lifetime.
	ReasonExpired
)

// Sentinel errors, one per Reason. A *RejectionError matches its reason's sentinel with errors.Is.
var (
	ErrMissingToken         = errors.New("token missing")
	ErrMalformedToken       = errors.New("token malformed")
	ErrUnsupportedOperation = errors.New("operation not supported: validator can only validate tokens")
	ErrNoMatchingIssuer     = errors.New("no matching issuer")
	ErrSignatureInvalid     = errors.New("signature invalid")
	ErrExpired              = errors.New("token expired")
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case ReasonMissingToken:
		return "MissingToken"
	case ReasonMalformedToken:
		return "MalformedToken"
	case ReasonUnsupportedOperation:
		return "UnsupportedOperation"
	case ReasonNoMatchingIssuer:
		return "NoMatchingIssuer"
	case ReasonSignatureInvalid:
		return "SignatureInvalid"
	case ReasonExpired:
		return "Expired"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Code returns the machine-readable error code for the reason, as used by
// the core package's ValidationError.
func (r Reason) Code() string {
	switch r {
	case ReasonMissingToken:
		return "token_missing"
	case ReasonMalformedToken:
		return "token_malformed"
	case ReasonUnsupportedOperation:
		return "unsupported_operation"
	case ReasonNoMatchingIssuer:
		return "no_matching_issuer"
	case ReasonSignatureInvalid:
		return "invalid_signature"
	case ReasonExpired:
		return "token_expired"
	default:
		return ""
	}
}

func (r Reason) sentinel() error {
	switch r {
	case ReasonMissingToken:
		return ErrMissingToken
	case ReasonMalformedToken:
		return ErrMalformedToken
	case ReasonUnsupportedOperation:
		return ErrUnsupportedOperation
	case ReasonNoMatchingIssuer:
		return ErrNoMatchingIssuer
	case ReasonSignatureInvalid:
		return ErrSignatureInvalid
	case ReasonExpired:
		return ErrExpired
	default:
		return nil
	}
}

// Outcome is the result of validating a token: either authenticated, with
// Claims set, or rejected, with Reason set. Err carries internal detail for
// logging and must never be shown to the caller of an API.
type Outcome struct {
	Claims *ValidatedClaims
	Reason Reason
	Err    error
}

// Authenticated builds a successful outcome.
func Authenticated(claims *ValidatedClaims) Outcome {
	return Outcome{Claims: claims}
}

// Rejected builds a rejected outcome.
func Rejected(reason Reason, details error) Outcome {
	return Outcome{Reason: reason, Err: details}
}

// IsAuthenticated reports whether the token was accepted.
func (o Outcome) IsAuthenticated() bool {
	return o.Reason == ReasonNone && o.Claims != nil
}

// Error returns the rejection as an error, or nil when authenticated.
func (o Outcome) Error() error {
	if o.IsAuthenticated() {
		return nil
	}
	return &RejectionError{Reason: o.Reason, Details: o.Err}
}

// RejectionError is a rejected Outcome in error form.
type RejectionError struct {
	Reason  Reason
	Details error
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	msg := fmt.Sprintf("token rejected (%s)", e.Reason.Code())
	if e.Details != nil {
		msg += ": " + e.Details.Error()
	}
	return msg
}

// Unwrap returns the underlying detail error.
func (e *RejectionError) Unwrap() error {
	return e.Details
}

// Is matches the sentinel error of the rejection reason.
func (e *RejectionError) Is(target error) bool {
	sentinel := e.Reason.sentinel()
	return sentinel != nil && target == sentinel
}

// ErrorCode returns the reason's machine-readable code.
func (e *RejectionError) ErrorCode() string {
	return e.Reason.Code()
}
