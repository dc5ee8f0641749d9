package validator

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwe"

	"github.com/naosproject/go-jwt-middleware/trust"
)

// envelope unwraps JWE-encrypted tokens with a certificate private key.
type envelope struct {
	options []jwe.DecryptOption
}

func newEnvelope(key *trust.EnvelopeKey) (*envelope, error) {
	var algs []jwa.KeyEncryptionAlgorithm

	switch key.PrivateKey.(type) {
	case *rsa.PrivateKey:
		algs = []jwa.KeyEncryptionAlgorithm{jwa.RSA_OAEP, jwa.RSA_OAEP_256, jwa.RSA1_5}
	case *ecdsa.PrivateKey:
		algs = []jwa.KeyEncryptionAlgorithm{jwa.ECDH_ES, jwa.ECDH_ES_A128KW, jwa.ECDH_ES_A192KW, jwa.ECDH_ES_A256KW}
	default:
		return nil, fmt.Errorf("unsupported envelope key type %T", key.PrivateKey)
	}

	options := make([]jwe.DecryptOption, 0, len(algs))
	for _, alg := range algs {
		options = append(options, jwe.WithKey(alg, key.PrivateKey))
	}

	return &envelope{options: options}, nil
}

// unwrap decrypts the compact JWE and returns the inner token.
func (e *envelope) unwrap(rawToken string) (string, error) {
	inner, err := jwe.Decrypt([]byte(rawToken), e.options...)
	if err != nil {
		return "", fmt.Errorf("could not decrypt the token envelope: %w", err)
	}
	if len(inner) == 0 {
		return "", errors.New("token envelope is empty")
	}
	return string(inner), nil
}
