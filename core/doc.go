/*
Package core provides framework-agnostic token checking that the HTTP
middleware, the gin and echo adapters and the gRPC interceptors all share.

Core sits between a transport adapter, which extracts the raw token from a
request, and the validator, which decides whether that token authenticates the
caller. It owns the credentials-optional rule, logging, and the translation of
validator rejections into *ValidationError values with stable codes.

# Basic Usage

	cfg, err := trust.LoadFile("settings.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	val, err := validator.New(cfg)
	if err != nil {
	    log.Fatal(err)
	}

	c, err := core.New(
	    core.WithValidator(val),
	    core.WithLogger(slog.Default()),
	)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := c.CheckToken(ctx, tokenString)

# Context Helpers

	ctx = core.SetClaims(ctx, claims)

	claims, err := core.GetClaims[*validator.ValidatedClaims](ctx)
	if err != nil {
	    // Claims not found
	}

# Error Codes

A rejected token yields a *ValidationError matching ErrJWTInvalid. Its Code is
one of token_missing, token_malformed, no_matching_issuer, invalid_signature,
token_expired or unsupported_operation. Codes are for logs and metrics; they
are not meant to be returned to the client.

	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
	    switch validationErr.Code {
	    case core.ErrorCodeTokenExpired:
	    case core.ErrorCodeInvalidSignature:
	    }
	}
*/
package core
