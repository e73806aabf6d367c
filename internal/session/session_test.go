// ABOUTME: Tests for the persisted session cache
// ABOUTME: Exercises save/load roundtrips and corrupt or missing session files

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad_Roundtrip(t *testing.T) {
	dir := t.TempDir()

	c := New(dir)
	c.Username = "alice"
	c.Role = "admin"
	c.Credits = 17
	c.Cookie = "session=abc123"
	if err := c.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := New(dir)
	if err := loaded.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Username != "alice" {
		t.Errorf("expected username alice, got %q", loaded.Username)
	}
	if loaded.Role != "admin" {
		t.Errorf("expected role admin, got %q", loaded.Role)
	}
	if loaded.Credits != 17 {
		t.Errorf("expected 17 credits, got %d", loaded.Credits)
	}
	if loaded.Cookie != "session=abc123" {
		t.Errorf("expected cookie preserved, got %q", loaded.Cookie)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	c := New(t.TempDir())
	if err := c.Load(); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if c.LoggedIn() {
		t.Error("expected logged-out cache for missing file")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("not json{"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New(dir)
	if err := c.Load(); err != nil {
		t.Fatalf("corrupt file should not error: %v", err)
	}
	if c.LoggedIn() {
		t.Error("expected logged-out cache for corrupt file")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()

	c := New(dir)
	c.Username = "alice"
	c.Cookie = "session=abc"
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if c.LoggedIn() {
		t.Error("expected cache zeroed after clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Error("expected session file removed")
	}

	// Clearing again with no file remaining is fine.
	if err := c.Clear(); err != nil {
		t.Errorf("second clear should not error: %v", err)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg-test", "docmatch") {
		t.Errorf("unexpected config dir %q", got)
	}
}

func TestIsAdmin(t *testing.T) {
	c := New(t.TempDir())
	if c.IsAdmin() {
		t.Error("empty cache should not be admin")
	}
	c.Role = "user"
	if c.IsAdmin() {
		t.Error("user role should not be admin")
	}
	c.Role = "admin"
	if !c.IsAdmin() {
		t.Error("admin role should be admin")
	}
}
