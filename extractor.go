package jwtmiddleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/naosproject/go-jwt-middleware/trust"
)

// TokenExtractor is a function that takes a request as input and returns
// either a token or an error. An error should only be returned if an attempt
// to specify a token was found, but the information was somehow incorrectly
// formed. In the case where a token is simply not present, this should not
// be treated as an error. An empty string should be returned in that case.
type TokenExtractor func(r *http.Request) (string, error)

// ErrMalformedAuthHeader is returned when the Authorization header is not "Bearer <token>".
var ErrMalformedAuthHeader = errors.New("authorization header format must be Bearer {token}")

// AuthHeaderTokenExtractor is a TokenExtractor that takes a request
// and extracts the token from the Authorization header.
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil // No error, just no JWT.
	}

	authHeaderParts := strings.Fields(authHeader)
	if len(authHeaderParts) != 2 || !strings.EqualFold(authHeaderParts[0], "bearer") {
		return "", ErrMalformedAuthHeader
	}

	return authHeaderParts[1], nil
}

// CookieTokenExtractor builds a TokenExtractor that takes a request and
// extracts the token from the cookie using the passed in cookieName.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			return "", nil // No cookie, then no JWT, so no error.
		}

		return cookie.Value, nil
	}
}

// ParameterTokenExtractor returns a TokenExtractor that extracts
// the token from the specified query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(param), nil
	}
}

// FormTokenExtractor returns a TokenExtractor that extracts the token from the
// named field of a url-encoded or multipart request body. Query parameters are
// not consulted.
func FormTokenExtractor(field string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		if r.Body == nil || r.Body == http.NoBody {
			return "", nil
		}
		return r.PostFormValue(field), nil
	}
}

// MultiTokenExtractor returns a TokenExtractor that runs multiple TokenExtractors
// and takes the one that does not return an empty token. If a TokenExtractor
// returns an error that error is immediately returned.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			token, err := ex(r)
			if err != nil {
				return "", err
			}

			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}

// PriorityTokenExtractor returns a TokenExtractor that reads the token from
// each source in priority order and returns the first non-empty one. key names
// the query parameter and form field.
func PriorityTokenExtractor(priority []trust.AuthorizationSource, key string) TokenExtractor {
	extractors := make([]TokenExtractor, 0, len(priority))
	for _, src := range priority {
		switch src {
		case trust.Header:
			extractors = append(extractors, AuthHeaderTokenExtractor)
		case trust.QueryString:
			extractors = append(extractors, ParameterTokenExtractor(key))
		case trust.Form:
			extractors = append(extractors, FormTokenExtractor(key))
		}
	}
	return MultiTokenExtractor(extractors...)
}
