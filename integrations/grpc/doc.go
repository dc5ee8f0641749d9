// Package grpc provides gRPC server interceptors that authenticate calls with
// JWT bearer tokens from a trust configuration.
//
// Tokens are read from the "authorization" metadata entry ("Bearer <token>")
// and, when the trust configuration names an authorization key, from a
// metadata entry with that name. Validated claims are stored in the handler
// context:
//
//	cfg, err := trust.LoadFile("settings.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	interceptor, err := jwtgrpc.New(
//	    jwtgrpc.WithTrustConfiguration(cfg),
//	    jwtgrpc.WithExcludedMethods(healthpb.Health_Check_FullMethodName),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// Inside a handler:
//
//	claims, err := jwtgrpc.GetClaims[*validator.ValidatedClaims](ctx)
//
// # Status codes
//
// DefaultErrorHandler returns codes.Unauthenticated with the message
// "unauthorized" for every missing or rejected token, whatever the reason.
// Malformed authorization metadata gives codes.InvalidArgument and a broken
// trust configuration gives codes.Internal.
package grpc
