// Package config defines the crewchief configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < explicit config file <
// environment (CREWCHIEF_* and .env) < CLI flag overrides.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files or, with the EnvPrefix, in the environment. Variables not in
// this list are silently ignored during loading.
var WhitelistedVars = [8]string{
	"DB_PATH",
	"LLM_BASE_URL",
	"LLM_MODEL",
	"LLM_ENABLED",
	"LLM_TIMEOUT",
	"LLM_MAX_RETRIES",
	"LLM_LENIENT_REPAIR",
	"VERBOSE",
}

const (
	// AppDir is the per-user directory holding the database and global config.
	AppDir = ".crewchief"

	// EnvPrefix is prepended to every whitelisted name in the environment.
	EnvPrefix = "CREWCHIEF_"
)

// Config holds every configuration field for the crewchief CLI.
type Config struct {
	// Storage.
	DBPath string

	// LLM endpoint.
	LLMBaseURL string
	LLMModel   string
	LLMEnabled bool
	// LLMTimeout is in seconds.
	LLMTimeout       int
	LLMMaxRetries    int
	LLMLenientRepair bool

	// Runtime flags.
	Verbose bool

	// CLI-only flags (not loaded from config files).
	ConfigFile string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		DBPath:     filepath.Join(HomeDir(), "crewchief.db"),
		LLMBaseURL: "http://localhost:1234/v1",
		LLMModel:   "phi-3.5-mini",
		LLMEnabled: true,
		LLMTimeout: 30,
	}
}

// Timeout returns LLMTimeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.LLMTimeout) * time.Second
}

// HomeDir returns ~/.crewchief, or a relative .crewchief when the home
// directory cannot be determined.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppDir
	}
	return filepath.Join(home, AppDir)
}

// GlobalConfigPath returns the path of the per-user config file.
func GlobalConfigPath() string {
	return filepath.Join(HomeDir(), "config")
}
