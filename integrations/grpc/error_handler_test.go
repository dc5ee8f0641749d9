package grpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/naosproject/go-jwt-middleware/core"
)

func TestDefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name        string
		err         error
		wantCode    codes.Code
		wantMessage string
	}{
		{"nil", nil, codes.OK, ""},
		{"missing token", core.ErrJWTMissing, codes.Unauthenticated, "unauthorized"},
		{"expired", core.NewValidationError(core.ErrorCodeTokenExpired, "token is expired", nil), codes.Unauthenticated, "unauthorized"},
		{"signature", core.NewValidationError(core.ErrorCodeInvalidSignature, "token signature is invalid", nil), codes.Unauthenticated, "unauthorized"},
		{"no matching issuer", core.NewValidationError(core.ErrorCodeNoMatchingIssuer, "no issuer", nil), codes.Unauthenticated, "unauthorized"},
		{"malformed", core.NewValidationError(core.ErrorCodeTokenMalformed, "token is malformed", nil), codes.Unauthenticated, "unauthorized"},
		{"wrapped rejection", fmt.Errorf("checking: %w", core.NewValidationError(core.ErrorCodeTokenExpired, "token is expired", nil)), codes.Unauthenticated, "unauthorized"},
		{"config invalid", core.NewValidationError(core.ErrorCodeConfigInvalid, "bad config", nil), codes.Internal, "unable to verify token"},
		{"unsupported operation", core.NewValidationError(core.ErrorCodeUnsupportedOperation, "nope", nil), codes.Internal, "unable to verify token"},
		{"malformed metadata", ErrInvalidAuthFormat, codes.InvalidArgument, ErrInvalidAuthFormat.Error()},
		{"multiple entries", ErrMultipleAuthHeaders, codes.InvalidArgument, ErrMultipleAuthHeaders.Error()},
		{"unsupported scheme", ErrUnsupportedScheme, codes.InvalidArgument, ErrUnsupportedScheme.Error()},
		{"unknown", errors.New("boom"), codes.Internal, "unable to verify token"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := DefaultErrorHandler(testCase.err)
			if testCase.wantCode == codes.OK {
				assert.NoError(t, err)
				return
			}
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, testCase.wantCode, st.Code())
			assert.Equal(t, testCase.wantMessage, st.Message())
		})
	}
}
