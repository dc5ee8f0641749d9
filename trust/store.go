package trust

import (
	"crypto"
	"crypto/sha1" //nolint:gosec // certificate thumbprints are SHA-1 by convention
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultStoreRoot is the directory DirectoryStore uses when Root is empty.
const DefaultStoreRoot = "/etc/jwt-middleware/certstores"

// StoreQuery identifies a certificate inside a named store.
// Exactly one of Thumbprint or Subject must be set.
type StoreQuery struct {
	StoreName  string
	Thumbprint string
	Subject    string
}

func (q StoreQuery) String() string {
	if q.Thumbprint != "" {
		return q.StoreName + "/thumbprint=" + q.Thumbprint
	}
	return q.StoreName + "/subject=" + q.Subject
}

func (q StoreQuery) validate() error {
	if q.StoreName == "" {
		return errors.New("store name cannot be empty")
	}
	if (q.Thumbprint == "") == (q.Subject == "") {
		return errors.New("exactly one of thumbprint or subject is required")
	}
	return nil
}

// CertificateStore finds a certificate and its private key.
// Implementations must return an error unless exactly one certificate matches.
type CertificateStore interface {
	Find(q StoreQuery) (*x509.Certificate, crypto.PrivateKey, error)
}

// ResolveStoreCertificate looks q up in store and returns the envelope key.
func ResolveStoreCertificate(store CertificateStore, q StoreQuery) (*EnvelopeKey, error) {
	if store == nil {
		return nil, errors.New("certificate store is nil")
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	cert, key, err := store.Find(q)
	if err != nil {
		return nil, err
	}
	return &EnvelopeKey{
		Source:      StoreCertificate,
		Locator:     q.String(),
		Certificate: cert,
		PrivateKey:  key,
	}, nil
}

// DirectoryStore is a CertificateStore backed by the filesystem. Each store
// name is a subdirectory of Root holding PEM files (certificate plus key) or
// PKCS#12 files. PKCS#12 files in a store must not be password protected
// unless Password is set.
type DirectoryStore struct {
	Root     string
	Password string
}

// Find implements CertificateStore.
func (s DirectoryStore) Find(q StoreQuery) (*x509.Certificate, crypto.PrivateKey, error) {
	root := s.Root
	if root == "" {
		root = DefaultStoreRoot
	}
	dir := filepath.Join(root, filepath.Clean("/"+q.StoreName))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open certificate store %q: %w", q.StoreName, err)
	}

	var (
		foundCert *x509.Certificate
		foundKey  crypto.PrivateKey
		matches   int
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		cert, key, err := ParseKeyMaterial(filepath.Ext(path), data, s.Password)
		if err != nil {
			// Not every file in a store has to carry a private key.
			continue
		}
		if q.matches(cert) {
			foundCert, foundKey = cert, key
			matches++
		}
	}

	switch matches {
	case 0:
		return nil, nil, fmt.Errorf("no certificate with private key matches %s", q)
	case 1:
		return foundCert, foundKey, nil
	default:
		return nil, nil, fmt.Errorf("%d certificates match %s", matches, q)
	}
}

func (q StoreQuery) matches(cert *x509.Certificate) bool {
	if q.Thumbprint != "" {
		return Thumbprint(cert) == normalizeThumbprint(q.Thumbprint)
	}
	return strings.EqualFold(cert.Subject.CommonName, q.Subject) ||
		strings.EqualFold(cert.Subject.String(), q.Subject)
}

// Thumbprint returns the upper-case hex SHA-1 digest of the certificate.
func Thumbprint(cert *x509.Certificate) string {
	sum := sha1.Sum(cert.Raw) //nolint:gosec
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func normalizeThumbprint(s string) string {
	return strings.ToUpper(strings.NewReplacer(" ", "", ":", "", "\u200e", "").Replace(s))
}
