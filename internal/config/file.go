package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort     string `toml:"server_port"`
	DefaultRegion  string `toml:"default_region"`
	MaxRetries     *int   `toml:"max_retries"`
	TimeoutSeconds *int   `toml:"timeout_seconds"`
	ExhaustedCodes []int  `toml:"exhausted_codes"`
	GlobalBaseURL  string `toml:"global_base_url"`
	CNBaseURL      string `toml:"cn_base_url"`
	RateLimit      *int   `toml:"rate_limit"`
	DatabasePath   string `toml:"database_path"`
}

// ConfigPath returns the path to the config file (~/.klingate/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Ensure directory exists
	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Klingate Configuration
# server_port = ":8080"
# default_region = "global"      # or "cn"
# max_retries = 2
# timeout_seconds = 60
# rate_limit = 0                 # requests/minute per gateway key, 0 = unlimited

# Envelope codes that disable the offending key and rotate to another.
# These are service-assigned numbers; adjust only if the API changes them.
# exhausted_codes = [1004, 1005]

# Endpoint overrides, mainly for testing against a stub.
# global_base_url = "https://api.klingai.com"
# cn_base_url = "https://api-beijing.klingai.com"

# Kling credentials are read from the environment, not this file:
#   KLING_API_KEYS            JSON array of key records
#   KLING_ACCESS_KEY_1 ...    numbered access/secret pairs
#   KLING_ACCESS_KEY          single pair
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
