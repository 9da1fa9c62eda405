package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the Klingate data directory.
// - Windows: %APPDATA%\klingate
// - Other OS: ~/.klingate
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "klingate")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingate"
	}
	return filepath.Join(home, ".klingate")
}

// DBPath returns the path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "klingate.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
