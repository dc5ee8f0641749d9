package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/naosproject/go-jwt-middleware/core"
)

// ErrorHandler converts validation errors to gRPC status errors.
type ErrorHandler func(error) error

// Status messages returned to callers. Rejections never reveal which check
// failed; the reason is only logged.
const (
	msgUnauthenticated = "unauthorized"
	msgInternal        = "unable to verify token"
)

// DefaultErrorHandler maps authentication failures to gRPC status errors:
//   - malformed authorization metadata becomes codes.InvalidArgument
//   - a missing or rejected token becomes codes.Unauthenticated
//   - anything else, such as a broken trust configuration, becomes codes.Internal
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrMultipleAuthHeaders) ||
		errors.Is(err, ErrInvalidAuthFormat) ||
		errors.Is(err, ErrUnsupportedScheme) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if errors.Is(err, core.ErrJWTMissing) {
		return status.Error(codes.Unauthenticated, msgUnauthenticated)
	}

	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		return mapValidationError(validationErr)
	}

	return status.Error(codes.Internal, msgInternal)
}

func mapValidationError(err *core.ValidationError) error {
	switch err.Code {
	case core.ErrorCodeConfigInvalid, core.ErrorCodeValidatorNotSet, core.ErrorCodeUnsupportedOperation:
		return status.Error(codes.Internal, msgInternal)
	default:
		return status.Error(codes.Unauthenticated, msgUnauthenticated)
	}
}
