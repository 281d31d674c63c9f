// Package config provides configuration loading and management for the
// synchronization service.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/confsync/confsync/internal/git"
	"github.com/confsync/confsync/internal/telemetry"
)

const (
	// EnvPrefix is the prefix for environment variables consumed by the
	// service.
	EnvPrefix = "CONFSYNC"

	// DefaultListenAddress is used when server.address is not configured.
	DefaultListenAddress = ":8080"

	// DefaultBranch is used when a namespace repository does not name a
	// branch.
	DefaultBranch = "main"

	// EnvGitToken is the environment variable consulted for a git access
	// token when a namespace has no tokenFile configured.
	EnvGitToken = "CONFSYNC_GIT_TOKEN"
)

// ErrUnknownNamespace is returned by RepositoryForNamespace when the
// requested namespace is not present in the configuration.
var ErrUnknownNamespace = errors.New("namespace is not configured")

// Provider identifies the git hosting provider for a namespace repository.
// It selects the default username sent alongside a token when the auth
// block does not name one.
type Provider string

const (
	// ProviderGitHub authenticates tokens with the "x-access-token" user.
	ProviderGitHub Provider = "github"

	// ProviderGitLab authenticates tokens with the "oauth2" user.
	ProviderGitLab Provider = "gitlab"

	// ProviderGeneric authenticates tokens with the "git" user.
	ProviderGeneric Provider = "generic"
)

// UnmarshalYAML parses a provider name case-insensitively. An empty value
// selects the generic provider.
func (p *Provider) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	switch Provider(strings.ToLower(raw)) {
	case "", ProviderGeneric:
		*p = ProviderGeneric
	case ProviderGitHub:
		*p = ProviderGitHub
	case ProviderGitLab:
		*p = ProviderGitLab
	default:
		return fmt.Errorf("unknown git provider %q", raw)
	}

	return nil
}

// DefaultUsername returns the username the provider expects alongside a
// token credential.
func (p Provider) DefaultUsername() string {
	switch p {
	case ProviderGitHub:
		return "x-access-token"
	case ProviderGitLab:
		return "oauth2"
	default:
		return "git"
	}
}

func (p Provider) valid() bool {
	switch p {
	case "", ProviderGeneric, ProviderGitHub, ProviderGitLab:
		return true
	default:
		return false
	}
}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Server     ServerConfig      `yaml:"server,omitempty"`
	Registry   RegistryConfig    `yaml:"registry"`
	Status     StatusConfig      `yaml:"status"`
	Git        GitConfig         `yaml:"git,omitempty"`
	Namespaces []NamespaceConfig `yaml:"namespaces"`
	Telemetry  *telemetry.Config `yaml:"telemetry,omitempty"`
}

// ServerConfig defines the HTTP server settings
type ServerConfig struct {
	// Address is the listen address in host:port form
	// Defaults to ":8080" if not specified
	Address string `yaml:"address,omitempty"`
}

// ListenAddress returns the configured listen address, using ":8080" if not
// specified.
func (s ServerConfig) ListenAddress() string {
	if s.Address == "" {
		return DefaultListenAddress
	}
	return s.Address
}

// RegistryConfig defines where the application registry keeps its state
type RegistryConfig struct {
	// Path is the directory holding registered application configurations
	Path string `yaml:"path"`
}

// StatusConfig defines where synchronization status is persisted
type StatusConfig struct {
	// Path is the file the status store writes namespace records to
	Path string `yaml:"path"`
}

// GitConfig defines git clone behavior shared by all namespaces
type GitConfig struct {
	// WorkDir is the directory clones are created under
	// Defaults to the system temporary directory
	WorkDir string `yaml:"workDir,omitempty"`

	// MaxCloneFiles caps the number of files a clone may materialize
	MaxCloneFiles int64 `yaml:"maxCloneFiles,omitempty"`

	// MaxCloneSizeBytes caps the total bytes a clone may materialize
	MaxCloneSizeBytes int64 `yaml:"maxCloneSizeBytes,omitempty"`
}

// NamespaceConfig binds a namespace name to the repository it synchronizes
// against
type NamespaceConfig struct {
	// Name is the identifier for this namespace
	Name string `yaml:"name"`

	// Repository describes the remote git repository
	Repository RepositoryConfig `yaml:"repository"`
}

// RepositoryConfig defines the remote repository for a namespace
type RepositoryConfig struct {
	// URL is the git repository URL (HTTP/HTTPS or a local path)
	URL string `yaml:"url"`

	// Branch is the git branch to synchronize against
	// Defaults to "main" if not specified
	Branch string `yaml:"branch,omitempty"`

	// PathPrefix is the directory inside the repository that holds
	// configuration files, empty for the repository root
	PathPrefix string `yaml:"pathPrefix,omitempty"`

	// Provider selects the default token username (github, gitlab, generic)
	Provider Provider `yaml:"provider,omitempty"`

	// Auth carries the credentials for the repository
	Auth *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig defines token credentials for a namespace repository
type AuthConfig struct {
	// Username overrides the provider default username
	Username string `yaml:"username,omitempty"`

	// Token is an inline access token
	// Prefer TokenFile or the CONFSYNC_GIT_TOKEN environment variable
	Token string `yaml:"token,omitempty"`

	// TokenFile is the path to a file containing the access token
	// The file content has leading/trailing whitespace trimmed
	TokenFile string `yaml:"tokenFile,omitempty"`
}

// resolveToken returns the access token using the following priority:
// 1. Read from TokenFile if specified
// 2. Read from the CONFSYNC_GIT_TOKEN environment variable
// 3. The inline Token value
//
// An empty result means anonymous access.
func (a *AuthConfig) resolveToken() (string, error) {
	if a != nil && a.TokenFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		data, err := os.ReadFile(filepath.Clean(a.TokenFile))
		if err != nil {
			return "", fmt.Errorf("failed to read token from file %s: %w", a.TokenFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if envToken := os.Getenv(EnvGitToken); envToken != "" {
		return envToken, nil
	}

	if a != nil {
		return a.Token, nil
	}
	return "", nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	// As of now, this is required because there's no other options to load
	// configuration. Once we add more options, we can remove this check.
	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	// Read the entire file into memory
	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML content
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate the config
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// RepositoryForNamespace resolves the remote repository configuration for a
// namespace, including its access credentials. It returns
// ErrUnknownNamespace when the namespace is not configured.
func (c *Config) RepositoryForNamespace(name string) (git.RemoteConfig, error) {
	for i := range c.Namespaces {
		ns := &c.Namespaces[i]
		if ns.Name != name {
			continue
		}

		remote := git.RemoteConfig{
			URL:        ns.Repository.URL,
			Branch:     ns.Repository.Branch,
			PathPrefix: ns.Repository.PathPrefix,
		}
		if remote.Branch == "" {
			remote.Branch = DefaultBranch
		}

		token, err := ns.Repository.Auth.resolveToken()
		if err != nil {
			return git.RemoteConfig{}, err
		}
		if token != "" {
			username := ""
			if ns.Repository.Auth != nil {
				username = ns.Repository.Auth.Username
			}
			if username == "" {
				username = ns.Repository.Provider.DefaultUsername()
			}
			remote.Auth = &git.BasicAuth{Username: username, Token: token}
		}

		return remote, nil
	}

	return git.RemoteConfig{}, fmt.Errorf("namespace %q: %w", name, ErrUnknownNamespace)
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.Registry.Path == "" {
		return fmt.Errorf("registry.path is required")
	}
	if c.Status.Path == "" {
		return fmt.Errorf("status.path is required")
	}
	if c.Git.MaxCloneFiles < 0 {
		return fmt.Errorf("git.maxCloneFiles cannot be negative")
	}
	if c.Git.MaxCloneSizeBytes < 0 {
		return fmt.Errorf("git.maxCloneSizeBytes cannot be negative")
	}

	// Validate at least one namespace is configured
	if len(c.Namespaces) == 0 {
		return fmt.Errorf("at least one namespace must be configured")
	}

	// Validate each namespace configuration
	namespaceNames := make(map[string]bool)
	for i, ns := range c.Namespaces {
		// Validate namespace name
		if ns.Name == "" {
			return fmt.Errorf("namespace[%d]: name is required", i)
		}

		// Check for duplicate namespace names
		if namespaceNames[ns.Name] {
			return fmt.Errorf("namespace[%d]: duplicate namespace name '%s'", i, ns.Name)
		}
		namespaceNames[ns.Name] = true

		// Validate namespace-specific configuration
		if err := validateNamespaceConfig(&ns, i); err != nil {
			return err
		}
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return nil
}

// validateNamespaceConfig validates a single namespace configuration
func validateNamespaceConfig(ns *NamespaceConfig, index int) error {
	prefix := fmt.Sprintf("namespace[%d] (%s)", index, ns.Name)

	if ns.Repository.URL == "" {
		return fmt.Errorf("%s: repository.url is required", prefix)
	}
	if ns.Repository.PathPrefix != "" && !filepath.IsLocal(ns.Repository.PathPrefix) {
		return fmt.Errorf("%s: repository.pathPrefix must stay inside the repository", prefix)
	}
	if !ns.Repository.Provider.valid() {
		return fmt.Errorf("%s: unknown git provider %q", prefix, ns.Repository.Provider)
	}

	return nil
}
