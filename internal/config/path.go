package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns ~/.config/micmon/config.json (or a CWD fallback when
// the home directory cannot be determined).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "micmon", "config.json")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "micmon-config.json")
}
