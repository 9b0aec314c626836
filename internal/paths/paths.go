// Package paths resolves jellyctl's on-disk locations.
//
// When running with sudo the original user's directories are used (via
// SUDO_USER) instead of root's. JELLYCTL_HOME overrides the base directory.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

// HomeEnv overrides the jellyctl directory when set.
const HomeEnv = "JELLYCTL_HOME"

// UserHomeDir returns the home directory of the actual user.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		if u, err := user.Lookup(sudoUser); err == nil {
			return u.HomeDir, nil
		}
	}
	return os.UserHomeDir()
}

// Dir returns the jellyctl directory, ~/.config/jellyctl by default.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jellyctl"), nil
}

func within(name ...string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, name...)...), nil
}

// ConfigPath returns the config file location.
func ConfigPath() (string, error) {
	return within("config.toml")
}

// LogDir returns the log directory.
func LogDir() (string, error) {
	return within("logs")
}

// JournalPath returns the operations journal database.
func JournalPath() (string, error) {
	return within("journal.db")
}

// LockPath returns the lock file guarding mutating commands.
func LockPath() (string, error) {
	return within("jellyctl.lock")
}
