package core

import "errors"

// Option configures a Core. Options return errors so that bad settings fail
// construction instead of the first request.
type Option func(*Core) error

var (
	ErrValidatorNil = errors.New("validator cannot be nil")
	ErrLoggerNil    = errors.New("logger cannot be nil")
)

// New creates a Core. WithValidator is required.
//
//	c, err := core.New(
//	    core.WithValidator(v),
//	    core.WithLogger(slog.Default()),
//	)
func New(opts ...Option) (*Core, error) {
	c := &Core{logger: nopLogger{}}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.validator == nil {
		return nil, NewValidationError(
			ErrorCodeValidatorNotSet,
			"validator is required but not set (use WithValidator option)",
			nil,
		)
	}
	return c, nil
}

// WithValidator sets the validator; *validator.Validator satisfies it.
func WithValidator(v Validator) Option {
	return func(c *Core) error {
		if v == nil {
			return ErrValidatorNil
		}
		c.validator = v
		return nil
	}
}

// WithCredentialsOptional lets requests without a token through as
// anonymous. A token that is present is still validated and its rejection
// still fails the request. Default: false.
func WithCredentialsOptional(optional bool) Option {
	return func(c *Core) error {
		c.credentialsOptional = optional
		return nil
	}
}

// WithLogger sets the logger rejections and validator failures are reported to.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return ErrLoggerNil
		}
		c.logger = logger
		return nil
	}
}
