package trust

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naosproject/go-jwt-middleware/internal/testissuer"
)

func TestLoad(t *testing.T) {
	storeCert := testissuer.NewCertificate(t, "store")

	testCases := []struct {
		name          string
		settings      string
		opts          []LoadOption
		expectedError string
		check         func(t *testing.T, cfg *Configuration)
	}{
		{
			name: "clients and issuers",
			settings: `
allowedClients: [app1, app2]
allowedServers:
  - issuer: https://issuer1
    secret: c2VjcmV0LWtleS1mb3ItaXNzdWVyLW9uZQ
  - issuer: https://issuer1
    secret: c2Vjb25kLXNlY3JldA==
`,
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, []string{"app1", "app2"}, cfg.AllowedClients())
				issuers := cfg.IssuersFor("https://issuer1")
				require.Len(t, issuers, 2)
				assert.Equal(t, []byte("secret-key-for-issuer-one"), issuers[0].Secret)
				assert.Equal(t, []byte("second-secret"), issuers[1].Secret)
				assert.Nil(t, cfg.EnvelopeKey())
				assert.Equal(t, []AuthorizationSource{Header}, cfg.AuthorizationPriority())
			},
		},
		{
			name: "JSON document",
			settings: `{
  "allowedClients": ["app1"],
  "allowedServers": [{"issuer": "https://issuer1", "secret": "c2VjcmV0"}],
  "authorizationKey": "access_token",
  "authorizationPriority": ["query", "header"]
}`,
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "access_token", cfg.AuthorizationKey())
				assert.Equal(t, []AuthorizationSource{QueryString, Header}, cfg.AuthorizationPriority())
			},
		},
		{
			name:     "empty document",
			settings: "",
			check: func(t *testing.T, cfg *Configuration) {
				assert.Empty(t, cfg.AllowedClients())
				assert.Empty(t, cfg.Issuers())
			},
		},
		{
			name: "relative file certificate",
			settings: `
relativeFileCertificate:
  filePath: envelope.pfx
  password: changeit
`,
			opts: []LoadOption{WithBaseDir("testdata")},
			check: func(t *testing.T, cfg *Configuration) {
				require.NotNil(t, cfg.EnvelopeKey())
				assert.Equal(t, FileCertificate, cfg.EnvelopeKey().Source)
				assert.Equal(t, filepath.Join("testdata", "envelope.pfx"), cfg.EnvelopeKey().Locator)
			},
		},
		{
			name: "store certificate",
			settings: `
storeCertificate:
  storeName: My
  subject: store
`,
			opts: []LoadOption{WithCertificateStore(&stubStore{cert: storeCert.Cert, key: storeCert.Key})},
			check: func(t *testing.T, cfg *Configuration) {
				require.NotNil(t, cfg.EnvelopeKey())
				assert.Equal(t, StoreCertificate, cfg.EnvelopeKey().Source)
				assert.Equal(t, "My/subject=store", cfg.EnvelopeKey().Locator)
			},
		},
		{
			name:     "programmatic options apply after the document",
			settings: `allowedClients: [app1]`,
			opts:     []LoadOption{WithOptions(WithAllowedClients("app2"))},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, []string{"app1", "app2"}, cfg.AllowedClients())
			},
		},
		{
			name: "both certificate sources",
			settings: `
relativeFileCertificate:
  filePath: envelope.pem
storeCertificate:
  storeName: My
  subject: store
`,
			opts:          []LoadOption{WithBaseDir("testdata")},
			expectedError: "invalid trust configuration: relativeFileCertificate: relativeFileCertificate and storeCertificate are mutually exclusive",
		},
		{
			name: "missing certificate file",
			settings: `
relativeFileCertificate:
  filePath: missing.pem
`,
			opts:          []LoadOption{WithBaseDir("testdata")},
			expectedError: "invalid trust configuration: relativeFileCertificate: read certificate file",
		},
		{
			name: "store query with both selectors",
			settings: `
storeCertificate:
  storeName: My
  subject: store
  thumbprint: EFEA
`,
			opts:          []LoadOption{WithCertificateStore(&stubStore{})},
			expectedError: "invalid trust configuration: storeCertificate: exactly one of thumbprint or subject is required",
		},
		{
			name: "secret that is not base64url",
			settings: `
allowedServers:
  - issuer: https://issuer1
    secret: "not base64!"
`,
			expectedError: "invalid trust configuration: allowedServers[0].secret: not valid base64url",
		},
		{
			name:          "unknown authorization source",
			settings:      `authorizationPriority: [header, cookie]`,
			expectedError: `invalid trust configuration: authorizationPriority[1]: unknown authorization source "cookie"`,
		},
		{
			name:          "form source without a key",
			settings:      `authorizationPriority: [formField]`,
			expectedError: "invalid trust configuration: authorizationKey: required when form is in the authorization priority",
		},
		{
			name:          "unknown field",
			settings:      `allowedIssuers: []`,
			expectedError: "invalid trust configuration: decode settings: yaml: unmarshal errors:\n  line 1: field allowedIssuers not found in type trust.Settings",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			cfg, err := Load(strings.NewReader(testCase.settings), testCase.opts...)

			if testCase.expectedError != "" {
				assert.ErrorContains(t, err, testCase.expectedError)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}

			require.NoError(t, err)
			testCase.check(t, cfg)
		})
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("ISSUER_ONE_SECRET", "c2VjcmV0LWtleS1mb3ItaXNzdWVyLW9uZQ")

	settings := `
allowedServers:
  - issuer: https://issuer1
    secret: ${ISSUER_ONE_SECRET}
`

	cfg, err := Load(strings.NewReader(settings))
	require.NoError(t, err)
	assert.Equal(t, []byte("secret-key-for-issuer-one"), cfg.Issuers()[0].Secret)

	_, err = Load(strings.NewReader(settings), WithoutEnvExpansion())
	assert.ErrorContains(t, err, "allowedServers[0].secret: not valid base64url")
}

func TestLoad_EnvExpansionKeepsBareDollar(t *testing.T) {
	t.Setenv("HOME", "/root")
	t.Setenv("CLIENT", "app2")

	settings := `
allowedClients: ["app$1", "client-$HOME-x", "${CLIENT}", "${UNSET_CLIENT_VARIABLE}x"]
`

	cfg, err := Load(strings.NewReader(settings))
	require.NoError(t, err)
	assert.Equal(t, []string{"app$1", "client-$HOME-x", "app2", "x"}, cfg.AllowedClients())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, "envelope.pem", dir, "envelope.pem")

	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
allowedClients: [app1]
allowedServers:
  - issuer: https://issuer1
    secret: c2VjcmV0
relativeFileCertificate:
  filePath: envelope.pem
`), 0o600))

	t.Run("certificate paths are relative to the settings file", func(t *testing.T) {
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.EnvelopeKey())
		assert.Equal(t, filepath.Join(dir, "envelope.pem"), cfg.EnvelopeKey().Locator)
		assert.Equal(t, fixtureCommonName, cfg.EnvelopeKey().Certificate.Subject.CommonName)
	})

	t.Run("missing settings file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
		assert.ErrorContains(t, err, "invalid trust configuration: read settings")
	})
}

func TestBuild(t *testing.T) {
	cfg, err := Build(&Settings{
		AllowedClients: []string{"app1"},
		AllowedServers: []ServerSettings{{Issuer: "https://issuer1", Secret: "c2VjcmV0"}},
	})
	require.NoError(t, err)
	assert.Len(t, cfg.IssuersFor("https://issuer1"), 1)

	_, err = Build(nil)
	assert.EqualError(t, err, "invalid trust configuration: settings are nil")
}
