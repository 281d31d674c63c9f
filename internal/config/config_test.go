package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/smithy-go/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/confsync/confsync/internal/git"
	"github.com/confsync/confsync/internal/telemetry"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name             string
		yamlContent      string
		skipFileCreation bool
		wantConfig       *Config
		wantErr          bool
	}{
		{
			name: "full_config",
			yamlContent: `server:
  address: ":9090"
registry:
  path: /var/lib/confsync/registry
status:
  path: /var/lib/confsync/status.json
git:
  workDir: /var/lib/confsync/work
  maxCloneFiles: 20000
  maxCloneSizeBytes: 536870912
namespaces:
  - name: production
    repository:
      url: https://github.com/example/configs.git
      branch: release
      pathPrefix: apps/production
      provider: GitHub
      auth:
        tokenFile: /etc/confsync/token
  - name: staging
    repository:
      url: https://gitlab.com/example/configs.git
      provider: gitlab
telemetry:
  enabled: false`,
			wantConfig: &Config{
				Server: ServerConfig{
					Address: ":9090",
				},
				Registry: RegistryConfig{
					Path: "/var/lib/confsync/registry",
				},
				Status: StatusConfig{
					Path: "/var/lib/confsync/status.json",
				},
				Git: GitConfig{
					WorkDir:           "/var/lib/confsync/work",
					MaxCloneFiles:     20000,
					MaxCloneSizeBytes: 536870912,
				},
				Namespaces: []NamespaceConfig{
					{
						Name: "production",
						Repository: RepositoryConfig{
							URL:        "https://github.com/example/configs.git",
							Branch:     "release",
							PathPrefix: "apps/production",
							Provider:   ProviderGitHub,
							Auth: &AuthConfig{
								TokenFile: "/etc/confsync/token",
							},
						},
					},
					{
						Name: "staging",
						Repository: RepositoryConfig{
							URL:      "https://gitlab.com/example/configs.git",
							Provider: ProviderGitLab,
						},
					},
				},
				Telemetry: &telemetry.Config{
					Enabled: false,
				},
			},
			wantErr: false,
		},
		{
			name: "minimal_config",
			yamlContent: `registry:
  path: /data/registry
status:
  path: /data/status.json
namespaces:
  - name: default
    repository:
      url: https://example.com/configs.git`,
			wantConfig: &Config{
				Registry: RegistryConfig{
					Path: "/data/registry",
				},
				Status: StatusConfig{
					Path: "/data/status.json",
				},
				Namespaces: []NamespaceConfig{
					{
						Name: "default",
						Repository: RepositoryConfig{
							URL: "https://example.com/configs.git",
						},
					},
				},
			},
			wantErr: false,
		},
		{
			name:        "invalid_yaml",
			yamlContent: `namespaces: [invalid yaml`,
			wantConfig:  nil,
			wantErr:     true,
		},
		{
			name: "validation_failure",
			yamlContent: `registry:
  path: /data/registry
status:
  path: /data/status.json
namespaces: []`,
			wantConfig: nil,
			wantErr:    true,
		},
		{
			name:             "file_not_found",
			yamlContent:      "",
			skipFileCreation: true,
			wantConfig:       nil,
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")

			if tt.skipFileCreation {
				configPath = filepath.Join(tmpDir, "non-existent.yaml")
			} else {
				err := os.WriteFile(configPath, []byte(tt.yamlContent), 0600)
				require.NoError(t, err)
			}

			config, err := LoadConfig(WithConfigPath(configPath))

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, config)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validNamespace := func(name string) NamespaceConfig {
		return NamespaceConfig{
			Name: name,
			Repository: RepositoryConfig{
				URL: "https://example.com/" + name + ".git",
			},
		}
	}
	base := func(namespaces ...NamespaceConfig) *Config {
		return &Config{
			Registry:   RegistryConfig{Path: "/data/registry"},
			Status:     StatusConfig{Path: "/data/status.json"},
			Namespaces: namespaces,
		}
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{
			name:   "valid",
			config: base(validNamespace("production")),
		},
		{
			name: "missing_registry_path",
			config: &Config{
				Status:     StatusConfig{Path: "/data/status.json"},
				Namespaces: []NamespaceConfig{validNamespace("production")},
			},
			wantErr: "registry.path is required",
		},
		{
			name: "missing_status_path",
			config: &Config{
				Registry:   RegistryConfig{Path: "/data/registry"},
				Namespaces: []NamespaceConfig{validNamespace("production")},
			},
			wantErr: "status.path is required",
		},
		{
			name:    "no_namespaces",
			config:  base(),
			wantErr: "at least one namespace must be configured",
		},
		{
			name:    "missing_namespace_name",
			config:  base(validNamespace("")),
			wantErr: "name is required",
		},
		{
			name:    "duplicate_namespace_names",
			config:  base(validNamespace("production"), validNamespace("production")),
			wantErr: "duplicate namespace name 'production'",
		},
		{
			name: "missing_repository_url",
			config: base(NamespaceConfig{
				Name: "production",
			}),
			wantErr: "repository.url is required",
		},
		{
			name: "path_prefix_traversal",
			config: base(NamespaceConfig{
				Name: "production",
				Repository: RepositoryConfig{
					URL:        "https://example.com/configs.git",
					PathPrefix: "../outside",
				},
			}),
			wantErr: "repository.pathPrefix must stay inside the repository",
		},
		{
			name: "unknown_provider",
			config: base(NamespaceConfig{
				Name: "production",
				Repository: RepositoryConfig{
					URL:      "https://example.com/configs.git",
					Provider: Provider("bitbucket"),
				},
			}),
			wantErr: "unknown git provider",
		},
		{
			name: "negative_clone_file_limit",
			config: &Config{
				Registry:   RegistryConfig{Path: "/data/registry"},
				Status:     StatusConfig{Path: "/data/status.json"},
				Git:        GitConfig{MaxCloneFiles: -1},
				Namespaces: []NamespaceConfig{validNamespace("production")},
			},
			wantErr: "git.maxCloneFiles cannot be negative",
		},
		{
			name: "negative_clone_size_limit",
			config: &Config{
				Registry:   RegistryConfig{Path: "/data/registry"},
				Status:     StatusConfig{Path: "/data/status.json"},
				Git:        GitConfig{MaxCloneSizeBytes: -1},
				Namespaces: []NamespaceConfig{validNamespace("production")},
			},
			wantErr: "git.maxCloneSizeBytes cannot be negative",
		},
		{
			name: "invalid_telemetry",
			config: &Config{
				Registry:   RegistryConfig{Path: "/data/registry"},
				Status:     StatusConfig{Path: "/data/status.json"},
				Namespaces: []NamespaceConfig{validNamespace("production")},
				Telemetry: &telemetry.Config{
					Enabled: true,
					Tracing: &telemetry.TracingConfig{
						Enabled:  true,
						Sampling: ptr.Float64(2.0),
					},
				},
			},
			wantErr: "telemetry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.validate()

			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestListenAddress(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		config   ServerConfig
		expected string
	}{
		{
			name:     "with_address",
			config:   ServerConfig{Address: "127.0.0.1:9000"},
			expected: "127.0.0.1:9000",
		},
		{
			name:     "without_address",
			config:   ServerConfig{},
			expected: ":8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.config.ListenAddress())
		})
	}
}

func TestProviderUnmarshalYAML(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		yaml     string
		expected Provider
		wantErr  bool
	}{
		{
			name:     "github_mixed_case",
			yaml:     `provider: GitHub`,
			expected: ProviderGitHub,
		},
		{
			name:     "gitlab_lowercase",
			yaml:     `provider: gitlab`,
			expected: ProviderGitLab,
		},
		{
			name:     "generic",
			yaml:     `provider: generic`,
			expected: ProviderGeneric,
		},
		{
			name:     "empty_defaults_to_generic",
			yaml:     `provider: ""`,
			expected: ProviderGeneric,
		},
		{
			name:    "unknown_provider",
			yaml:    `provider: bitbucket`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var cfg RepositoryConfig
			err := yaml.Unmarshal([]byte(tt.yaml), &cfg)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Provider)
		})
	}
}

func TestProviderDefaultUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		provider Provider
		expected string
	}{
		{provider: ProviderGitHub, expected: "x-access-token"},
		{provider: ProviderGitLab, expected: "oauth2"},
		{provider: ProviderGeneric, expected: "git"},
		{provider: Provider(""), expected: "git"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.provider.DefaultUsername())
		})
	}
}

func TestWithConfigPath(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		cfg := &loaderConfig{}
		err := WithConfigPath("")(cfg)
		require.Error(t, err)
	})

	t.Run("non-existent path", func(t *testing.T) {
		t.Parallel()
		cfg := &loaderConfig{}
		err := WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to evaluate symlinks")
	})

	t.Run("absolute path", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0600))

		cfg := &loaderConfig{}
		err := WithConfigPath(configPath)(cfg)
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.path)
	})

	t.Run("symlink resolves to target", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		target := filepath.Join(tmpDir, "real.yaml")
		require.NoError(t, os.WriteFile(target, []byte("{}"), 0600))
		link := filepath.Join(tmpDir, "link.yaml")
		require.NoError(t, os.Symlink(target, link))

		cfg := &loaderConfig{}
		err := WithConfigPath(link)(cfg)
		require.NoError(t, err)

		resolved, err := filepath.EvalSymlinks(target)
		require.NoError(t, err)
		assert.Equal(t, resolved, cfg.path)
	})
}

func TestResolveToken(t *testing.T) {
	// Subtests mutate CONFSYNC_GIT_TOKEN via t.Setenv, so neither this test
	// nor its subtests run in parallel.
	writeTokenFile := func(t *testing.T, content string) string {
		t.Helper()
		tokenFile := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenFile, []byte(content), 0600))
		return tokenFile
	}

	t.Run("token from file", func(t *testing.T) {
		auth := &AuthConfig{TokenFile: writeTokenFile(t, "  file-token\n")}
		token, err := auth.resolveToken()
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("file takes precedence over environment", func(t *testing.T) {
		t.Setenv(EnvGitToken, "env-token")
		auth := &AuthConfig{TokenFile: writeTokenFile(t, "file-token"), Token: "inline-token"}
		token, err := auth.resolveToken()
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("environment takes precedence over inline", func(t *testing.T) {
		t.Setenv(EnvGitToken, "env-token")
		auth := &AuthConfig{Token: "inline-token"}
		token, err := auth.resolveToken()
		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("inline token", func(t *testing.T) {
		t.Setenv(EnvGitToken, "")
		auth := &AuthConfig{Token: "inline-token"}
		token, err := auth.resolveToken()
		require.NoError(t, err)
		assert.Equal(t, "inline-token", token)
	})

	t.Run("nil auth uses environment", func(t *testing.T) {
		t.Setenv(EnvGitToken, "env-token")
		var auth *AuthConfig
		token, err := auth.resolveToken()
		require.NoError(t, err)
		assert.Equal(t, "env-token", token)
	})

	t.Run("nil auth without environment", func(t *testing.T) {
		t.Setenv(EnvGitToken, "")
		var auth *AuthConfig
		token, err := auth.resolveToken()
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("token file not found", func(t *testing.T) {
		auth := &AuthConfig{TokenFile: "/nonexistent/token"}
		_, err := auth.resolveToken()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read token from file")
	})
}

func TestRepositoryForNamespace(t *testing.T) {
	// Token resolution consults CONFSYNC_GIT_TOKEN, so keep env control via
	// t.Setenv and avoid parallel subtests.
	cfg := &Config{
		Registry: RegistryConfig{Path: "/data/registry"},
		Status:   StatusConfig{Path: "/data/status.json"},
		Namespaces: []NamespaceConfig{
			{
				Name: "anonymous",
				Repository: RepositoryConfig{
					URL:        "https://example.com/configs.git",
					PathPrefix: "apps",
				},
			},
			{
				Name: "github",
				Repository: RepositoryConfig{
					URL:      "https://github.com/example/configs.git",
					Branch:   "release",
					Provider: ProviderGitHub,
					Auth:     &AuthConfig{Token: "gh-token"},
				},
			},
			{
				Name: "custom-user",
				Repository: RepositoryConfig{
					URL:      "https://gitlab.com/example/configs.git",
					Provider: ProviderGitLab,
					Auth:     &AuthConfig{Username: "deploy", Token: "gl-token"},
				},
			},
		},
	}

	t.Run("unknown namespace", func(t *testing.T) {
		_, err := cfg.RepositoryForNamespace("ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownNamespace)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("anonymous with defaults", func(t *testing.T) {
		t.Setenv(EnvGitToken, "")
		remote, err := cfg.RepositoryForNamespace("anonymous")
		require.NoError(t, err)
		assert.Equal(t, git.RemoteConfig{
			URL:        "https://example.com/configs.git",
			Branch:     "main",
			PathPrefix: "apps",
		}, remote)
	})

	t.Run("provider default username", func(t *testing.T) {
		t.Setenv(EnvGitToken, "")
		remote, err := cfg.RepositoryForNamespace("github")
		require.NoError(t, err)
		assert.Equal(t, "release", remote.Branch)
		require.NotNil(t, remote.Auth)
		assert.Equal(t, "x-access-token", remote.Auth.Username)
		assert.Equal(t, "gh-token", remote.Auth.Token)
	})

	t.Run("explicit username wins", func(t *testing.T) {
		t.Setenv(EnvGitToken, "")
		remote, err := cfg.RepositoryForNamespace("custom-user")
		require.NoError(t, err)
		require.NotNil(t, remote.Auth)
		assert.Equal(t, "deploy", remote.Auth.Username)
		assert.Equal(t, "gl-token", remote.Auth.Token)
	})

	t.Run("environment token for anonymous namespace", func(t *testing.T) {
		t.Setenv(EnvGitToken, "ambient-token")
		remote, err := cfg.RepositoryForNamespace("anonymous")
		require.NoError(t, err)
		require.NotNil(t, remote.Auth)
		assert.Equal(t, "git", remote.Auth.Username)
		assert.Equal(t, "ambient-token", remote.Auth.Token)
	})
}
