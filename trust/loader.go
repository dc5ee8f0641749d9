package trust

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Settings is the settings document a Configuration is loaded from.
// JSON documents are accepted as well, being valid YAML.
type Settings struct {
	AllowedClients          []string                  `yaml:"allowedClients"`
	AllowedServers          []ServerSettings          `yaml:"allowedServers"`
	RelativeFileCertificate *FileCertificateSettings  `yaml:"relativeFileCertificate,omitempty"`
	StoreCertificate        *StoreCertificateSettings `yaml:"storeCertificate,omitempty"`
	AuthorizationKey        string                    `yaml:"authorizationKey,omitempty"`
	AuthorizationPriority   []string                  `yaml:"authorizationPriority,omitempty"`
}

// ServerSettings is an allowed issuer and its base64url encoded secret.
type ServerSettings struct {
	Issuer string `yaml:"issuer"`
	Secret string `yaml:"secret"`
}

// FileCertificateSettings points at a certificate file relative to the base directory.
type FileCertificateSettings struct {
	FilePath string `yaml:"filePath"`
	Password string `yaml:"password,omitempty"`
}

// StoreCertificateSettings identifies a certificate in a CertificateStore.
type StoreCertificateSettings struct {
	StoreName  string `yaml:"storeName"`
	Thumbprint string `yaml:"thumbprint,omitempty"`
	Subject    string `yaml:"subject,omitempty"`
}

// LoadOption configures how settings are turned into a Configuration.
type LoadOption func(*loadConfig)

type loadConfig struct {
	baseDir   string
	store     CertificateStore
	expandEnv bool
	extraOpts []Option
}

// WithBaseDir sets the directory relative certificate paths are resolved against.
// LoadFile defaults to the settings file's directory, Load to the working directory.
func WithBaseDir(dir string) LoadOption {
	return func(c *loadConfig) {
		c.baseDir = dir
	}
}

// WithCertificateStore sets the store used for storeCertificate lookups.
// Default: DirectoryStore rooted at DefaultStoreRoot.
func WithCertificateStore(store CertificateStore) LoadOption {
	return func(c *loadConfig) {
		c.store = store
	}
}

// WithoutEnvExpansion disables ${VAR} expansion in the settings document.
func WithoutEnvExpansion() LoadOption {
	return func(c *loadConfig) {
		c.expandEnv = false
	}
}

// WithOptions appends programmatic options applied after the settings.
func WithOptions(opts ...Option) LoadOption {
	return func(c *loadConfig) {
		c.extraOpts = append(c.extraOpts, opts...)
	}
}

// LoadFile reads the settings document at path and builds a Configuration.
func LoadFile(path string, opts ...LoadOption) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newConfigError("", fmt.Errorf("read settings: %w", err))
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, newConfigError("", err)
	}
	return Load(bytes.NewReader(data), append([]LoadOption{WithBaseDir(dir)}, opts...)...)
}

// Load decodes a settings document from r and builds a Configuration.
func Load(r io.Reader, opts ...LoadOption) (*Configuration, error) {
	cfg := newLoadConfig(opts)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newConfigError("", fmt.Errorf("read settings: %w", err))
	}
	if cfg.expandEnv {
		data = expandEnv(data)
	}

	var settings Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, newConfigError("", fmt.Errorf("decode settings: %w", err))
	}

	return build(&settings, cfg)
}

// Build turns already decoded settings into a Configuration.
func Build(settings *Settings, opts ...LoadOption) (*Configuration, error) {
	if settings == nil {
		return nil, newConfigError("", errors.New("settings are nil"))
	}
	return build(settings, newLoadConfig(opts))
}

func newLoadConfig(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{
		baseDir:   ".",
		store:     DirectoryStore{},
		expandEnv: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func build(s *Settings, cfg *loadConfig) (*Configuration, error) {
	opts := []Option{WithAllowedClients(s.AllowedClients...)}

	for _, server := range s.AllowedServers {
		opts = append(opts, WithBase64URLIssuer(server.Issuer, server.Secret))
	}

	if s.RelativeFileCertificate != nil && s.StoreCertificate != nil {
		return nil, newConfigError(
			"relativeFileCertificate",
			errors.New("relativeFileCertificate and storeCertificate are mutually exclusive"),
		)
	}

	if fc := s.RelativeFileCertificate; fc != nil {
		key, err := ResolveFileCertificate(cfg.baseDir, fc.FilePath, fc.Password)
		if err != nil {
			return nil, newConfigError("relativeFileCertificate", err)
		}
		opts = append(opts, WithEnvelopeKey(key))
	}

	if sc := s.StoreCertificate; sc != nil {
		key, err := ResolveStoreCertificate(cfg.store, StoreQuery{
			StoreName:  sc.StoreName,
			Thumbprint: sc.Thumbprint,
			Subject:    sc.Subject,
		})
		if err != nil {
			return nil, newConfigError("storeCertificate", err)
		}
		opts = append(opts, WithEnvelopeKey(key))
	}

	priority := make([]AuthorizationSource, 0, len(s.AuthorizationPriority))
	for i, name := range s.AuthorizationPriority {
		src, err := ParseAuthorizationSource(name)
		if err != nil {
			return nil, newConfigError(fmt.Sprintf("authorizationPriority[%d]", i), err)
		}
		priority = append(priority, src)
	}

	opts = append(opts,
		WithAuthorizationKey(s.AuthorizationKey),
		WithAuthorizationPriority(priority...),
	)
	opts = append(opts, cfg.extraOpts...)

	return New(opts...)
}

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with the environment value. A bare $
// is kept as is, secrets and passwords may contain one.
func expandEnv(data []byte) []byte {
	return envReference.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}
