package trust

import (
	"crypto"
	"crypto/x509"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naosproject/go-jwt-middleware/internal/testissuer"
)

func newTestStore(t *testing.T) DirectoryStore {
	t.Helper()

	root := t.TempDir()
	my := filepath.Join(root, "My")
	require.NoError(t, os.MkdirAll(my, 0o755))

	copyFixture(t, "envelope.pfx", my, "envelope.pfx")
	other := testissuer.NewCertificate(t, "other.example.com")
	require.NoError(t, os.WriteFile(filepath.Join(my, "other.pem"), other.PEM(), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(my, "README"), []byte("not a certificate"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(my, "nested"), 0o755))

	return DirectoryStore{Root: root, Password: fixturePassword}
}

func TestDirectoryStore_Find(t *testing.T) {
	store := newTestStore(t)

	testCases := []struct {
		name          string
		query         StoreQuery
		expectedCN    string
		expectedError string
	}{
		{
			name:       "by thumbprint",
			query:      StoreQuery{StoreName: "My", Thumbprint: fixtureThumbprint},
			expectedCN: fixtureCommonName,
		},
		{
			name:       "by lower-case thumbprint with spaces",
			query:      StoreQuery{StoreName: "My", Thumbprint: strings.ToLower(strings.ReplaceAll(fixtureThumbprint, ":", " "))},
			expectedCN: fixtureCommonName,
		},
		{
			name:       "by copied thumbprint with a left-to-right mark",
			query:      StoreQuery{StoreName: "My", Thumbprint: "\u200e" + strings.ReplaceAll(fixtureThumbprint, ":", "")},
			expectedCN: fixtureCommonName,
		},
		{
			name:       "by common name",
			query:      StoreQuery{StoreName: "My", Subject: "OTHER.example.com"},
			expectedCN: "other.example.com",
		},
		{
			name:          "unknown thumbprint",
			query:         StoreQuery{StoreName: "My", Thumbprint: "00"},
			expectedError: "no certificate with private key matches My/thumbprint=00",
		},
		{
			name:          "unknown store",
			query:         StoreQuery{StoreName: "Root", Subject: fixtureCommonName},
			expectedError: `open certificate store "Root"`,
		},
		{
			name:       "store name is confined to the root",
			query:      StoreQuery{StoreName: "../../My", Subject: "other.example.com"},
			expectedCN: "other.example.com",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			cert, key, err := store.Find(testCase.query)

			if testCase.expectedError != "" {
				assert.ErrorContains(t, err, testCase.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expectedCN, cert.Subject.CommonName)
			assert.NotNil(t, key)
		})
	}

	t.Run("by full distinguished name", func(t *testing.T) {
		fixture, _, err := store.Find(StoreQuery{StoreName: "My", Thumbprint: fixtureThumbprint})
		require.NoError(t, err)

		cert, _, err := store.Find(StoreQuery{StoreName: "My", Subject: fixture.Subject.String()})
		require.NoError(t, err)
		assert.Equal(t, fixture.Raw, cert.Raw)
	})

	t.Run("ambiguous subject", func(t *testing.T) {
		copyFixture(t, "envelope.pem", filepath.Join(store.Root, "My"), "envelope-copy.pem")

		_, _, err := store.Find(StoreQuery{StoreName: "My", Subject: fixtureCommonName})
		assert.EqualError(t, err, "2 certificates match My/subject="+fixtureCommonName)
	})
}

type stubStore struct {
	cert  *x509.Certificate
	key   crypto.PrivateKey
	err   error
	query StoreQuery
}

func (s *stubStore) Find(q StoreQuery) (*x509.Certificate, crypto.PrivateKey, error) {
	s.query = q
	return s.cert, s.key, s.err
}

func TestResolveStoreCertificate(t *testing.T) {
	cert := testissuer.NewCertificate(t, "store")

	t.Run("it builds a store envelope key", func(t *testing.T) {
		store := &stubStore{cert: cert.Cert, key: cert.Key}

		key, err := ResolveStoreCertificate(store, StoreQuery{StoreName: "My", Subject: "store"})
		require.NoError(t, err)
		assert.Equal(t, StoreCertificate, key.Source)
		assert.Equal(t, "My/subject=store", key.Locator)
		assert.Equal(t, "My", store.query.StoreName)
	})

	t.Run("it validates the query before asking the store", func(t *testing.T) {
		store := &stubStore{}

		_, err := ResolveStoreCertificate(store, StoreQuery{StoreName: "My", Subject: "a", Thumbprint: "b"})
		assert.EqualError(t, err, "exactly one of thumbprint or subject is required")

		_, err = ResolveStoreCertificate(store, StoreQuery{Subject: "a"})
		assert.EqualError(t, err, "store name cannot be empty")

		assert.Empty(t, store.query.StoreName)
	})

	t.Run("it surfaces store errors", func(t *testing.T) {
		_, err := ResolveStoreCertificate(&stubStore{err: assert.AnError}, StoreQuery{StoreName: "My", Subject: "a"})
		assert.ErrorIs(t, err, assert.AnError)

		_, err = ResolveStoreCertificate(nil, StoreQuery{StoreName: "My", Subject: "a"})
		assert.EqualError(t, err, "certificate store is nil")
	})
}
