package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://transferatu.heroku.com"
	MinRetries     = 0
	MaxRetries     = 10
)

// Config represents the main application configuration
type Config struct {
	BindAddress string       `toml:"bind_address"`
	Loglevel    string       `toml:"loglevel"`
	Port        int          `toml:"port"`
	Users       []User       `toml:"users"`
	Client      ClientConfig `toml:"client"`
}

// User is a credential pair accepted by the fake server
type User struct {
	Name     string `toml:"name"`
	Password string `toml:"password"`
}

// ClientConfig holds settings for talking to a transferatu instance
type ClientConfig struct {
	URL        string `toml:"url"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	MaxRetries int    `toml:"max_retries"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		BindAddress: "0.0.0.0",
		Loglevel:    "info",
		Port:        5000,
		Client: ClientConfig{
			URL:        DefaultBaseURL,
			MaxRetries: 3,
		},
	}
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "xfrtuc")

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads configuration from a TOML file
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration can run the fake server. Every
// problem found is reported, not just the first one.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Port < 0 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("port must be between 0 and 65535"))
	}
	if _, err := logrus.ParseLevel(c.Loglevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("loglevel must be one of: panic, fatal, error, warn, info, debug, trace"))
	}
	if len(c.Users) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one [[users]] entry is required"))
	}

	seen := make(map[string]bool, len(c.Users))
	for i, u := range c.Users {
		if u.Name == "" {
			result = multierror.Append(result, fmt.Errorf("users[%d].name is required", i))
		}
		if u.Password == "" {
			result = multierror.Append(result, fmt.Errorf("users[%d].password is required", i))
		}
		if u.Name != "" && seen[u.Name] {
			result = multierror.Append(result, fmt.Errorf("users[%d].name %q is duplicated", i, u.Name))
		}
		seen[u.Name] = true
	}

	return result.ErrorOrNil()
}

// ValidateClient checks the [client] section used by the client commands
func (c *Config) ValidateClient() error {
	var result *multierror.Error

	if c.Client.URL == "" {
		result = multierror.Append(result, fmt.Errorf("client.url is required"))
	} else if _, err := url.ParseRequestURI(c.Client.URL); err != nil {
		result = multierror.Append(result, fmt.Errorf("client.url is invalid: %v", err))
	}
	if c.Client.Username == "" {
		result = multierror.Append(result, fmt.Errorf("client.username is required"))
	}
	if c.Client.Password == "" {
		result = multierror.Append(result, fmt.Errorf("client.password is required"))
	}
	if c.Client.MaxRetries < MinRetries || c.Client.MaxRetries > MaxRetries {
		result = multierror.Append(result, fmt.Errorf("client.max_retries must be between %d and %d", MinRetries, MaxRetries))
	}

	return result.ErrorOrNil()
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}
