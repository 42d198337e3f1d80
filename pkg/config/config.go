package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the tool configuration stored in the user's home
// directory. The GitHub token may alternatively come from the GITHUB_TOKEN
// environment variable, which takes precedence.
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
}

// GitHubConfig holds GitHub-specific settings.
type GitHubConfig struct {
	Token string `yaml:"token,omitempty"`
	// Organization is the default owner used when the desired-state document
	// does not name one.
	Organization string `yaml:"organization,omitempty"`
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".reposync", "config.yaml"), nil
}

// Load reads the configuration file. A missing file is not an error: the
// zero config is returned so environment variables can still apply.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// LoadFromFile reads the configuration from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to the default path, creating the directory
// when needed. The file is written with owner-only permissions since it may
// contain a token.
func (c *Config) Save() error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
