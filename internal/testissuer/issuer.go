// Package testissuer mints tokens for tests: HMAC-signed JWTs for a fixed
// issuer, optionally wrapped in a JWE envelope for a certificate key, so
// validation can be exercised end to end without a real issuer.
package testissuer

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwe"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// Issuer signs tokens for URL with Secret.
type Issuer struct {
	URL       string
	Secret    []byte
	Algorithm jwa.SignatureAlgorithm
}

// New returns an HS256 issuer.
func New(url string, secret []byte) *Issuer {
	return &Issuer{URL: url, Secret: secret, Algorithm: jwa.HS256}
}

// EncodedSecret returns the secret in unpadded base64url, the settings-document form.
func (i *Issuer) EncodedSecret() string {
	return base64.RawURLEncoding.EncodeToString(i.Secret)
}

// Claims returns a claim set with iss set to the issuer URL, aud, sub and exp.
func (i *Issuer) Claims(audience, subject string, expiry time.Time) map[string]any {
	return map[string]any{
		"iss": i.URL,
		"aud": audience,
		"sub": subject,
		"exp": expiry.Unix(),
	}
}

// Sign serializes claims and signs them, failing the test on error.
func (i *Issuer) Sign(t testing.TB, claims map[string]any) string {
	t.Helper()
	return Sign(t, i.Algorithm, i.Secret, claims)
}

// Sign produces a compact JWS over the JSON encoding of claims.
func Sign(t testing.TB, alg jwa.SignatureAlgorithm, secret []byte, claims map[string]any) string {
	t.Helper()

	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}

	hdrs := jws.NewHeaders()
	if err := hdrs.Set(jws.TypeKey, "JWT"); err != nil {
		t.Fatalf("set typ header: %v", err)
	}

	signed, err := jws.Sign(payload, jws.WithKey(alg, secret, jws.WithProtectedHeaders(hdrs)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

// Wrap encrypts token into a compact JWE for the given public key.
func Wrap(t testing.TB, token string, alg jwa.KeyEncryptionAlgorithm, pub crypto.PublicKey) string {
	t.Helper()

	encrypted, err := jwe.Encrypt(
		[]byte(token),
		jwe.WithKey(alg, pub),
		jwe.WithContentEncryption(jwa.A256GCM),
	)
	if err != nil {
		t.Fatalf("encrypt token: %v", err)
	}
	return string(encrypted)
}

// Certificate is a self-signed RSA certificate with its key.
type Certificate struct {
	Cert *x509.Certificate
	Key  *rsa.PrivateKey
}

// NewCertificate generates a self-signed RSA certificate for commonName.
func NewCertificate(t testing.TB, commonName string) *Certificate {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return &Certificate{Cert: selfSign(t, commonName, &key.PublicKey, key), Key: key}
}

// ECCertificate is a self-signed P-256 certificate with its key.
type ECCertificate struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// NewECCertificate generates a self-signed P-256 certificate for commonName.
func NewECCertificate(t testing.TB, commonName string) *ECCertificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return &ECCertificate{Cert: selfSign(t, commonName, &key.PublicKey, key), Key: key}
}

func selfSign(t testing.TB, commonName string, pub crypto.PublicKey, key crypto.Signer) *x509.Certificate {
	t.Helper()

	template := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	return cert
}

// PEM returns the certificate followed by its PKCS#1 private key.
func (c *Certificate) PEM() []byte {
	out := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.Cert.Raw})
	out = append(out, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(c.Key),
	})...)
	return out
}
