package core

import "errors"

// Sentinel errors for JWT validation.
var (
	// ErrJWTMissing is returned when the JWT is missing from the request.
	ErrJWTMissing = errors.New("jwt missing")

	// ErrJWTInvalid is returned when the JWT is invalid.
	// This is typically wrapped with more specific validation errors.
	ErrJWTInvalid = errors.New("jwt invalid")

	// ErrClaimsNotFound is returned when claims cannot be retrieved from context.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

// ValidationError wraps JWT validation errors with additional context.
// It provides structured error information that can be used for
// logging, metrics, and returning appropriate error responses.
type ValidationError struct {
	// Code is a machine-readable error code (e.g., "token_expired", "invalid_signature")
	Code string

	// Message is a human-readable error message
	Message string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrJWTInvalid.
func (e *ValidationError) Is(target error) bool {
	return target == ErrJWTInvalid
}

// Common error codes
const (
	ErrorCodeTokenMissing         = "token_missing"
	ErrorCodeTokenMalformed       = "token_malformed"
	ErrorCodeTokenExpired         = "token_expired"
	ErrorCodeInvalidSignature     = "invalid_signature"
	ErrorCodeNoMatchingIssuer     = "no_matching_issuer"
	ErrorCodeUnsupportedOperation = "unsupported_operation"
	ErrorCodeConfigInvalid        = "config_invalid"
	ErrorCodeValidatorNotSet      = "validator_not_set"
	ErrorCodeClaimsNotFound       = "claims_not_found"
)

var errorMessages = map[string]string{
	ErrorCodeTokenMissing:         "token is missing",
	ErrorCodeTokenMalformed:       "token is malformed",
	ErrorCodeTokenExpired:         "token is expired",
	ErrorCodeInvalidSignature:     "token signature is invalid",
	ErrorCodeNoMatchingIssuer:     "token issuer or audience is not trusted",
	ErrorCodeUnsupportedOperation: "operation is not supported",
	ErrorCodeConfigInvalid:        "configuration is invalid",
}

// NewValidationError creates a new ValidationError with the given code and message.
func NewValidationError(code, message string, details error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// coder is implemented by validator and configuration errors.
type coder interface {
	ErrorCode() string
}

// wrapValidatorError turns an error exposing ErrorCode into a *ValidationError.
// Other errors, and errors that already are a *ValidationError, pass through.
func wrapValidatorError(err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return err
	}

	var c coder
	if !errors.As(err, &c) || c.ErrorCode() == "" {
		return err
	}

	code := c.ErrorCode()
	message, ok := errorMessages[code]
	if !ok {
		message = "token validation failed"
	}
	return NewValidationError(code, message, err)
}
