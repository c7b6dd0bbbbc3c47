package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// envVars mirrors WhitelistedVars. Values stay strings so the environment
// goes through the same parsing as config files.
type envVars struct {
	DBPath           string `env:"DB_PATH"`
	LLMBaseURL       string `env:"LLM_BASE_URL"`
	LLMModel         string `env:"LLM_MODEL"`
	LLMEnabled       string `env:"LLM_ENABLED"`
	LLMTimeout       string `env:"LLM_TIMEOUT"`
	LLMMaxRetries    string `env:"LLM_MAX_RETRIES"`
	LLMLenientRepair string `env:"LLM_LENIENT_REPAIR"`
	Verbose          string `env:"VERBOSE"`
}

// LoadEnv reads CREWCHIEF_* variables from the process environment after
// loading dotenvPath into it. Variables already set in the environment win
// over the dotenv file. A missing dotenv file is not an error; an empty
// path skips it.
//
// The result uses WhitelistedVars names without the prefix and only holds
// variables that are set.
func LoadEnv(dotenvPath string) (map[string]string, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	var v envVars
	if err := env.ParseWithOptions(&v, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	out := make(map[string]string)
	for key, val := range map[string]string{
		"DB_PATH":            v.DBPath,
		"LLM_BASE_URL":       v.LLMBaseURL,
		"LLM_MODEL":          v.LLMModel,
		"LLM_ENABLED":        v.LLMEnabled,
		"LLM_TIMEOUT":        v.LLMTimeout,
		"LLM_MAX_RETRIES":    v.LLMMaxRetries,
		"LLM_LENIENT_REPAIR": v.LLMLenientRepair,
		"VERBOSE":            v.Verbose,
	} {
		if val != "" {
			out[key] = val
		}
	}
	return out, nil
}
