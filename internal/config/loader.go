package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Load builds the runtime configuration.
// The plugin directory comes from $WSL_SCRIPT_RUNNER_DIR or the executable's directory.
// Values from the process environment win over those in the plugin directory's .env file.
func Load() (*Config, error) {
	pluginDir, err := DefaultPluginDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(pluginDir, os.LookupEnv)
}

// DefaultPluginDir returns $WSL_SCRIPT_RUNNER_DIR, or the executable's directory when unset.
func DefaultPluginDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvPluginDir)); dir != "" {
		return filepath.Abs(dir)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// Fallback returns the built-in defaults rooted at DefaultPluginDir.
// It is used when Load fails so the settings file is still found.
func Fallback() *Config {
	cfg := Defaults()
	if dir, err := DefaultPluginDir(); err == nil {
		cfg.PluginDir = dir
	}
	return cfg
}

// LoadFrom builds the configuration for pluginDir using lookup for environment values.
func LoadFrom(pluginDir string, lookup func(string) (string, bool)) (*Config, error) {
	absDir, err := filepath.Abs(pluginDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plugin dir %q: %w", pluginDir, err)
	}

	cfg := Defaults()
	cfg.PluginDir = absDir

	fileEnv, err := readEnvFile(cfg.EnvPath())
	if err != nil {
		return nil, err
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v), true
		}
		v, ok := fileEnv[key]
		return strings.TrimSpace(v), ok
	}

	if v, ok := get(EnvWSL); ok && v != "" {
		cfg.WSLExecutable = v
	}
	if v, ok := get(EnvDistro); ok {
		cfg.Distro = v
	}
	if v, ok := get(EnvEditor); ok && v != "" {
		cfg.Editor = v
	}
	if v, ok := get(EnvExt); ok && v != "" {
		cfg.ScriptExt = v
	}
	if v, ok := get(EnvKeyword); ok && v != "" {
		cfg.ActionKeyword = v
	}
	if v, ok := get(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvLogFile); ok && v != "" {
		if !filepath.IsAbs(v) {
			v = filepath.Join(cfg.PluginDir, v)
		}
		cfg.LogFile = v
	}

	applyConfigDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// readEnvFile parses an optional .env file. A missing file yields no values.
func readEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return values, nil
}

func applyConfigDefaults(cfg *Config) {
	if !strings.HasPrefix(cfg.ScriptExt, ".") {
		cfg.ScriptExt = "." + cfg.ScriptExt
	}
}

func validate(cfg *Config) error {
	if strings.ContainsAny(cfg.ScriptExt, `/\'*? `) {
		return fmt.Errorf("script extension %q contains invalid characters", cfg.ScriptExt)
	}
	if strings.ContainsAny(cfg.ActionKeyword, " \t") {
		return fmt.Errorf("action keyword %q must be a single word", cfg.ActionKeyword)
	}
	return nil
}
