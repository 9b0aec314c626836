package paths

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"
)

func TestUserHomeDir_NoSudo(t *testing.T) {
	t.Setenv("SUDO_USER", "")

	got, err := UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}

	expected, _ := os.UserHomeDir()
	if got != expected {
		t.Errorf("UserHomeDir() = %q, want %q", got, expected)
	}
}

func TestUserHomeDir_WithSudoUser(t *testing.T) {
	currentUser, err := user.Current()
	if err != nil {
		t.Skip("Cannot get current user")
	}
	t.Setenv("SUDO_USER", currentUser.Username)

	got, err := UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}
	if currentUser.Username != "root" && got != currentUser.HomeDir {
		t.Errorf("UserHomeDir() = %q, want %q", got, currentUser.HomeDir)
	}
}

func TestDir_Default(t *testing.T) {
	t.Setenv(HomeEnv, "")
	t.Setenv("SUDO_USER", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", "jellyctl"); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestPaths_HomeOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv(HomeEnv, base)

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"config", ConfigPath, filepath.Join(base, "config.toml")},
		{"logs", LogDir, filepath.Join(base, "logs")},
		{"journal", JournalPath, filepath.Join(base, "journal.db")},
		{"lock", LockPath, filepath.Join(base, "jellyctl.lock")},
	}

	for _, tt := range tests {
		got, err := tt.fn()
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
		}
	}
}
