package trust

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// ResolveFileCertificate loads the certificate and private key at path.
// Relative paths are resolved against baseDir. Files ending in .pfx or .p12
// are decoded as PKCS#12 with password; anything else is read as PEM.
func ResolveFileCertificate(baseDir, path, password string) (*EnvelopeKey, error) {
	if path == "" {
		return nil, errors.New("file path cannot be empty")
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDir, resolved)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read certificate file: %w", err)
	}

	cert, key, err := ParseKeyMaterial(filepath.Ext(resolved), data, password)
	if err != nil {
		return nil, fmt.Errorf("certificate file %s: %w", resolved, err)
	}

	return &EnvelopeKey{
		Source:      FileCertificate,
		Locator:     resolved,
		Certificate: cert,
		PrivateKey:  key,
	}, nil
}

// ParseKeyMaterial decodes a certificate with its private key. ext selects the
// format: ".pfx" / ".p12" for PKCS#12, anything else for PEM.
func ParseKeyMaterial(ext string, data []byte, password string) (*x509.Certificate, crypto.PrivateKey, error) {
	switch strings.ToLower(ext) {
	case ".pfx", ".p12":
		key, cert, err := pkcs12.Decode(data, password)
		if err != nil {
			return nil, nil, fmt.Errorf("decode pkcs12: %w", err)
		}
		if err := checkKeyMatchesCertificate(cert, key); err != nil {
			return nil, nil, err
		}
		return cert, key, nil
	default:
		return parsePEM(data)
	}
}

func parsePEM(data []byte) (*x509.Certificate, crypto.PrivateKey, error) {
	var (
		cert *x509.Certificate
		key  crypto.PrivateKey
	)

	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}

		switch block.Type {
		case "CERTIFICATE":
			if cert != nil {
				continue // leaf first, chain certificates are ignored
			}
			parsed, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("parse certificate: %w", err)
			}
			cert = parsed
		case "RSA PRIVATE KEY":
			parsed, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("parse PKCS#1 private key: %w", err)
			}
			key = parsed
		case "EC PRIVATE KEY":
			parsed, err := x509.ParseECPrivateKey(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("parse EC private key: %w", err)
			}
			key = parsed
		case "PRIVATE KEY":
			parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, nil, fmt.Errorf("parse PKCS#8 private key: %w", err)
			}
			key = parsed
		}
	}

	if cert == nil {
		return nil, nil, errors.New("no certificate found")
	}
	if key == nil {
		return nil, nil, errors.New("no private key found")
	}
	if err := checkKeyMatchesCertificate(cert, key); err != nil {
		return nil, nil, err
	}

	return cert, key, nil
}

func checkKeyMatchesCertificate(cert *x509.Certificate, key crypto.PrivateKey) error {
	type publicKeyer interface {
		Public() crypto.PublicKey
	}
	type equaler interface {
		Equal(crypto.PublicKey) bool
	}

	switch key.(type) {
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
	default:
		return fmt.Errorf("unsupported private key type %T", key)
	}

	pub, ok := key.(publicKeyer)
	if !ok {
		return fmt.Errorf("unsupported private key type %T", key)
	}
	certPub, ok := cert.PublicKey.(equaler)
	if !ok || !certPub.Equal(pub.Public()) {
		return errors.New("private key does not match certificate")
	}
	return nil
}
