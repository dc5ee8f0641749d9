/*
Package jwtmiddleware provides net/http middleware that authenticates requests
with JWT bearer tokens issued by a fixed set of trusted issuers.

Tokens are HMAC signed by one of the issuers in a trust configuration, must be
addressed to one of its allowed clients, and may be wrapped in an encryption
envelope that is opened with a certificate-bound private key. The middleware
extracts the token, hands it to the framework-agnostic core, and either calls
the next handler with the validated claims in the request context or answers
with a uniform 401.

# Quick Start

	cfg, err := trust.LoadFile("settings.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	middleware, err := jwtmiddleware.New(
	    jwtmiddleware.WithTrustConfiguration(cfg),
	    jwtmiddleware.WithExclusionUrls([]string{"/healthz"}),
	)
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/api/", middleware.CheckJWT(apiHandler))

A settings document looks like this:

	allowedClients: [app1]
	allowedServers:
	  - issuer: https://issuer1
	    secret: c2VjcmV0LWtleS1mb3ItaXNzdWVyLW9uZQ
	relativeFileCertificate:
	  filePath: certs/envelope.pfx
	  password: ${ENVELOPE_PASSWORD}
	authorizationKey: access_token
	authorizationPriority: [Header, QueryString]

# Accessing Claims

	claims, err := jwtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context())
	if err != nil {
	    http.Error(w, "unauthorized", http.StatusUnauthorized)
	    return
	}
	role, _ := claims.FindFirst("role")

MustGetClaims panics when no claims are present and HasClaims reports whether
the request was authenticated, which is useful with WithCredentialsOptional.

# Token Extraction

By default tokens are looked up in the order given by the trust
configuration's authorization priority: the Authorization header
("Bearer <token>"), the query string, then the form body, the latter two
under the configured authorization key. WithTokenExtractor replaces this
with any TokenExtractor, for example CookieTokenExtractor or a
MultiTokenExtractor chain.

# Error Handling

DefaultErrorHandler never reveals why a token was rejected. Missing, malformed,
expired, mis-addressed and badly signed tokens all get:

	HTTP/1.1 401 Unauthorized
	WWW-Authenticate: Bearer
	Content-Type: application/json

	{"message":"unauthorized"}

Anything else, such as a failing validator, gets a 500. The rejection reason
is logged through the configured Logger and is available to a custom
ErrorHandler through errors.As with *core.ValidationError.

# Observability

WithLogger accepts a *slog.Logger or one of NewLogrusLogger, NewZapLogger and
NewZerologLogger. WithMetrics and WithTracer record every check:

	reg := prometheus.NewRegistry()
	middleware, err := jwtmiddleware.New(
	    jwtmiddleware.WithTrustConfiguration(cfg),
	    jwtmiddleware.WithMetrics(jwtmiddleware.NewPrometheusMetrics(reg)),
	    jwtmiddleware.WithTracer(jwtmiddleware.NewOpenTelemetryTracer(otel.Tracer("api"))),
	)

The counter jwt_validation_total and the histogram
jwt_validation_duration_seconds carry an outcome label: authenticated,
anonymous, missing or rejected. The span "jwtmiddleware.CheckJWT" carries the
same value in its jwt.outcome attribute.

# Frameworks

The framework/gin and framework/echo packages adapt a JWTMiddleware to those
routers, and integrations/grpc provides unary and stream interceptors built on
the same core.
*/
package jwtmiddleware
