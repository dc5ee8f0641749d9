package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naosproject/go-jwt-middleware/internal/testissuer"
)

func TestAuthorizationSource(t *testing.T) {
	testCases := []struct {
		input    string
		expected AuthorizationSource
	}{
		{"header", Header},
		{"Header", Header},
		{"queryString", QueryString},
		{"query", QueryString},
		{"form", Form},
		{"formField", Form},
		{" FORM ", Form},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			src, err := ParseAuthorizationSource(testCase.input)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, src)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := ParseAuthorizationSource("cookie")
		assert.EqualError(t, err, `unknown authorization source "cookie"`)
	})

	t.Run("text unmarshaling", func(t *testing.T) {
		var src AuthorizationSource
		require.NoError(t, src.UnmarshalText([]byte("queryString")))
		assert.Equal(t, QueryString, src)
		assert.Error(t, src.UnmarshalText([]byte("body")))
	})

	t.Run("string round trip", func(t *testing.T) {
		for _, src := range []AuthorizationSource{Header, QueryString, Form} {
			parsed, err := ParseAuthorizationSource(src.String())
			require.NoError(t, err)
			assert.Equal(t, src, parsed)
		}
		assert.Equal(t, "AuthorizationSource(7)", AuthorizationSource(7).String())
	})
}

func TestConfiguration_Accessors(t *testing.T) {
	cfg, err := New(
		WithAllowedClients("app1", "app2", "app1"),
		WithIssuer("https://issuer1", []byte("first")),
		WithIssuer("https://issuer2", []byte("other")),
		WithIssuer("https://issuer1", []byte("second")),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"app1", "app2"}, cfg.AllowedClients())
	assert.True(t, cfg.AllowsAnyClient([]string{"nope", "app2"}))
	assert.False(t, cfg.AllowsAnyClient([]string{"app3"}))
	assert.False(t, cfg.AllowsAnyClient(nil))

	matched := cfg.IssuersFor("https://issuer1")
	require.Len(t, matched, 2)
	assert.Equal(t, []byte("first"), matched[0].Secret)
	assert.Equal(t, []byte("second"), matched[1].Secret)
	assert.Empty(t, cfg.IssuersFor("https://issuer3"))

	assert.Nil(t, cfg.EnvelopeKey())
	assert.Equal(t, []AuthorizationSource{Header}, cfg.AuthorizationPriority())

	t.Run("returned slices are copies", func(t *testing.T) {
		clients := cfg.AllowedClients()
		clients[0] = "mutated"

		issuers := cfg.Issuers()
		issuers[0].Secret[0] = 'X'

		priority := cfg.AuthorizationPriority()
		priority[0] = Form

		assert.Equal(t, []string{"app1", "app2"}, cfg.AllowedClients())
		assert.Equal(t, []byte("first"), cfg.Issuers()[0].Secret)
		assert.Equal(t, []AuthorizationSource{Header}, cfg.AuthorizationPriority())
	})
}

func TestConfiguration_EnvelopeKeyIsCopied(t *testing.T) {
	cert := testissuer.NewCertificate(t, "envelope.example.com")
	key := &EnvelopeKey{Source: FileCertificate, Locator: "envelope.pem", Certificate: cert.Cert, PrivateKey: cert.Key}

	cfg, err := New(WithEnvelopeKey(key))
	require.NoError(t, err)

	key.Locator = "changed by the caller"
	returned := cfg.EnvelopeKey()
	require.NotNil(t, returned)
	returned.Locator = "changed through the accessor"
	returned.PrivateKey = nil

	got := cfg.EnvelopeKey()
	assert.Equal(t, "envelope.pem", got.Locator)
	assert.Same(t, cert.Key, got.PrivateKey)
}

func TestCertificateSource_String(t *testing.T) {
	assert.Equal(t, "file", FileCertificate.String())
	assert.Equal(t, "store", StoreCertificate.String())
	assert.Equal(t, "unknown", CertificateSource(0).String())
}
