package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BindAddress != "0.0.0.0" {
		t.Errorf("expected BindAddress to be '0.0.0.0', got '%s'", cfg.BindAddress)
	}
	if cfg.Port != 5000 {
		t.Errorf("expected Port to be 5000, got %d", cfg.Port)
	}
	if cfg.Loglevel != "info" {
		t.Errorf("expected Loglevel to be 'info', got '%s'", cfg.Loglevel)
	}
	if len(cfg.Users) != 0 {
		t.Errorf("expected no users, got %d", len(cfg.Users))
	}
	if cfg.Client.URL != DefaultBaseURL {
		t.Errorf("expected Client.URL to be '%s', got '%s'", DefaultBaseURL, cfg.Client.URL)
	}
	if cfg.Client.MaxRetries != 3 {
		t.Errorf("expected Client.MaxRetries to be 3, got %d", cfg.Client.MaxRetries)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with 'config.toml', got '%s'", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != "xfrtuc" {
		t.Errorf("expected config directory 'xfrtuc', got '%s'", filepath.Dir(path))
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
bind_address = "127.0.0.1"
port = 8080
loglevel = "debug"

[[users]]
name = "vivian"
password = "hunter2"

[[users]]
name = "reginald"
password = "swordfish"

[client]
url = "http://localhost:8080"
username = "vivian"
password = "hunter2"
max_retries = 5
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.BindAddress != "127.0.0.1" {
		t.Errorf("expected BindAddress '127.0.0.1', got '%s'", cfg.BindAddress)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected Port 8080, got %d", cfg.Port)
	}
	if cfg.Loglevel != "debug" {
		t.Errorf("expected Loglevel 'debug', got '%s'", cfg.Loglevel)
	}
	if len(cfg.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(cfg.Users))
	}
	if cfg.Users[0].Name != "vivian" || cfg.Users[0].Password != "hunter2" {
		t.Errorf("unexpected first user: %+v", cfg.Users[0])
	}
	if cfg.Users[1].Name != "reginald" {
		t.Errorf("expected second user 'reginald', got '%s'", cfg.Users[1].Name)
	}
	if cfg.Client.URL != "http://localhost:8080" {
		t.Errorf("expected Client.URL 'http://localhost:8080', got '%s'", cfg.Client.URL)
	}
	if cfg.Client.MaxRetries != 5 {
		t.Errorf("expected Client.MaxRetries 5, got %d", cfg.Client.MaxRetries)
	}
	if cfg.Address() != "127.0.0.1:8080" {
		t.Errorf("expected Address '127.0.0.1:8080', got '%s'", cfg.Address())
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[[users]]
name = "vivian"
password = "hunter2"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Port != 5000 {
		t.Errorf("expected default Port 5000, got %d", cfg.Port)
	}
	if cfg.Client.URL != DefaultBaseURL {
		t.Errorf("expected default Client.URL, got '%s'", cfg.Client.URL)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	invalidContent := `
[[users]
name = "test
`
	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Users = []User{{Name: "vivian", Password: "hunter2"}}
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:   "port zero picks a free port",
			mutate: func(c *Config) { c.Port = 0 },
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: []string{"port must be between 0 and 65535"},
		},
		{
			name:    "bad loglevel",
			mutate:  func(c *Config) { c.Loglevel = "loud" },
			wantErr: []string{"loglevel must be one of"},
		},
		{
			name:    "no users",
			mutate:  func(c *Config) { c.Users = nil },
			wantErr: []string{"at least one [[users]] entry is required"},
		},
		{
			name:    "user without password",
			mutate:  func(c *Config) { c.Users = []User{{Name: "vivian"}} },
			wantErr: []string{"users[0].password is required"},
		},
		{
			name: "duplicate user",
			mutate: func(c *Config) {
				c.Users = append(c.Users, User{Name: "vivian", Password: "other"})
			},
			wantErr: []string{`users[1].name "vivian" is duplicated`},
		},
		{
			name: "reports every problem",
			mutate: func(c *Config) {
				c.Port = -1
				c.Loglevel = "loud"
				c.Users = []User{{}}
			},
			wantErr: []string{
				"port must be between",
				"loglevel must be one of",
				"users[0].name is required",
				"users[0].password is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected errors %v, got nil", tt.wantErr)
			}
			for _, msg := range tt.wantErr {
				if !strings.Contains(err.Error(), msg) {
					t.Errorf("expected error containing '%s', got '%s'", msg, err.Error())
				}
			}
		})
	}
}

func TestConfigValidateClient(t *testing.T) {
	tests := []struct {
		name    string
		client  ClientConfig
		wantErr string
	}{
		{
			name:   "valid client",
			client: ClientConfig{URL: "http://localhost:5000", Username: "u", Password: "p", MaxRetries: 3},
		},
		{
			name:    "missing url",
			client:  ClientConfig{Username: "u", Password: "p"},
			wantErr: "client.url is required",
		},
		{
			name:    "invalid url",
			client:  ClientConfig{URL: "not a url", Username: "u", Password: "p"},
			wantErr: "client.url is invalid",
		},
		{
			name:    "missing username",
			client:  ClientConfig{URL: "http://localhost", Password: "p"},
			wantErr: "client.username is required",
		},
		{
			name:    "missing password",
			client:  ClientConfig{URL: "http://localhost", Username: "u"},
			wantErr: "client.password is required",
		},
		{
			name:    "too many retries",
			client:  ClientConfig{URL: "http://localhost", Username: "u", Password: "p", MaxRetries: 11},
			wantErr: "client.max_retries must be between 0 and 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Client: tt.client}
			err := cfg.ValidateClient()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing '%s', got '%v'", tt.wantErr, err)
			}
		})
	}
}
