package trust

import "errors"

// ErrInvalidConfiguration is matched by every error returned while building a
// Configuration. Such errors are fatal at startup.
var ErrInvalidConfiguration = errors.New("invalid trust configuration")

// ErrorCodeConfigInvalid is the machine-readable code carried by ConfigError.
const ErrorCodeConfigInvalid = "config_invalid"

// ConfigError describes why a trust configuration could not be built.
type ConfigError struct {
	// Field is the settings field at fault, e.g. "allowedServers[1].secret".
	Field string

	// Details contains the underlying error.
	Details error
}

func newConfigError(field string, details error) *ConfigError {
	return &ConfigError{Field: field, Details: details}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := ErrInvalidConfiguration.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Details != nil {
		msg += ": " + e.Details.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrInvalidConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// ErrorCode returns ErrorCodeConfigInvalid.
func (e *ConfigError) ErrorCode() string {
	return ErrorCodeConfigInvalid
}
