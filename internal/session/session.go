// ABOUTME: Persisted session cache for the docmatch CLI
// ABOUTME: Stores username, role, credits, and session cookie in the XDG config directory

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Cache holds the locally cached session state. The cache is a hint: the
// server remains authoritative and Refresh-style calls overwrite it. It is
// cleared wholesale on logout.
type Cache struct {
	configDir string

	Username string `json:"username"`
	Role     string `json:"role"`
	Credits  int    `json:"credits"`
	Cookie   string `json:"cookie"`
}

// New creates a cache bound to the given config directory
func New(configDir string) *Cache {
	return &Cache{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docmatch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "docmatch")
}

// sessionFile returns the path to the session JSON
func (c *Cache) sessionFile() string {
	return filepath.Join(c.configDir, "session.json")
}

// Load reads the cached session from disk. A missing or corrupt file
// yields an empty (logged-out) cache rather than an error.
func (c *Cache) Load() error {
	data, err := os.ReadFile(c.sessionFile())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var stored Cache
	if err := json.Unmarshal(data, &stored); err != nil {
		// Invalid JSON, start fresh
		return nil
	}

	c.Username = stored.Username
	c.Role = stored.Role
	c.Credits = stored.Credits
	c.Cookie = stored.Cookie
	return nil
}

// Save writes the session to disk
func (c *Cache) Save() error {
	if err := os.MkdirAll(c.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.sessionFile(), data, 0600)
}

// Clear zeroes the cached state and removes the file
func (c *Cache) Clear() error {
	c.Username = ""
	c.Role = ""
	c.Credits = 0
	c.Cookie = ""

	err := os.Remove(c.sessionFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// LoggedIn reports whether a session is cached
func (c *Cache) LoggedIn() bool {
	return c.Username != ""
}

// IsAdmin reports whether the cached role is admin
func (c *Cache) IsAdmin() bool {
	return c.Role == "admin"
}
