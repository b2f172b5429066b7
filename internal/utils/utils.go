package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultUsername is used by generate-config when no username is given.
const DefaultUsername = "xfrtuc"

const configTemplate = `# Optional bind address for the fake server, default "0.0.0.0"
bind_address = "0.0.0.0"

# Optional TCP port, default 5000. Use 0 to let the OS pick one.
port = 5000

# Optional log level, default "info". At "debug" every request is logged.
loglevel = "info"

# Required for serve. Credentials the fake server accepts over HTTP Basic auth.
# Repeat the block to accept more than one user.
[[users]]
name = "{{USERNAME}}"
password = "{{PASSWORD}}"

# Used by the groups, transfers and schedules commands.
[client]
# Optional, default "https://transferatu.heroku.com". Point it at the fake for local testing.
url = "http://127.0.0.1:5000"
username = "{{USERNAME}}"
password = "{{PASSWORD}}"

# Optional number of retries for GET and DELETE requests, default 3, max 10.
max_retries = 3
`

// RenderConfig fills the config template with a single user's credentials.
func RenderConfig(username, password string) string {
	return strings.NewReplacer(
		"{{USERNAME}}", username,
		"{{PASSWORD}}", password,
	).Replace(configTemplate)
}

// GenerateConfig writes a config file whose server and client sections
// share one user with a freshly generated password.
func GenerateConfig(configPath, username string) error {
	fmt.Printf("Generating config %s\n", configPath)

	if username == "" {
		username = DefaultUsername
	}
	config := RenderConfig(username, uuid.NewString())

	// Check if config file already exists and back it up
	if _, err := os.Stat(configPath); err == nil {
		backupPath := configPath + ".bak"
		fmt.Printf("Backing up config %s\n", configPath)
		if err := os.Rename(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file holds credentials
	fmt.Printf("Writing %s\n", configPath)
	if err := os.WriteFile(configPath, []byte(config), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
