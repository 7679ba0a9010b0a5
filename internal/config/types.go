package config

import (
	"path/filepath"
	"runtime"
)

const (
	// SettingsFilename is the settings document kept in the plugin directory.
	SettingsFilename = "settings.yaml"
	// LegacySettingsFilename is read when SettingsFilename does not exist yet.
	LegacySettingsFilename = "settings.json"
	// EnvFilename holds optional environment overrides in the plugin directory.
	EnvFilename = ".env"

	// DefaultScriptsDir is resolved when no scripts directory has been configured.
	DefaultScriptsDir = "~/scripts"
)

// Environment variables read by Load.
const (
	EnvPluginDir = "WSL_SCRIPT_RUNNER_DIR"
	EnvWSL       = "WSL_SCRIPT_RUNNER_WSL"
	EnvDistro    = "WSL_SCRIPT_RUNNER_DISTRO"
	EnvEditor    = "WSL_SCRIPT_RUNNER_EDITOR"
	EnvExt       = "WSL_SCRIPT_RUNNER_EXT"
	EnvKeyword   = "WSL_SCRIPT_RUNNER_KEYWORD"
	EnvLogLevel  = "WSL_SCRIPT_RUNNER_LOG_LEVEL"
	EnvLogFile   = "WSL_SCRIPT_RUNNER_LOG_FILE"
)

// Config is the runtime configuration of one plugin invocation.
type Config struct {
	PluginDir     string
	WSLExecutable string
	Distro        string
	Editor        string
	ScriptExt     string
	ActionKeyword string
	LogLevel      string
	LogFile       string
}

// Defaults returns a Config with the built-in defaults.
func Defaults() *Config {
	wsl := "wsl"
	if runtime.GOOS == "windows" {
		wsl = "wsl.exe"
	}
	return &Config{
		PluginDir:     ".",
		WSLExecutable: wsl,
		Editor:        "code",
		ScriptExt:     ".sh",
		ActionKeyword: "wsl",
		LogLevel:      "warn",
	}
}

// SettingsPath returns the settings document path.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.PluginDir, SettingsFilename)
}

// LegacySettingsPath returns the path of a settings file written by older releases.
func (c *Config) LegacySettingsPath() string {
	return filepath.Join(c.PluginDir, LegacySettingsFilename)
}

// EnvPath returns the optional .env override file path.
func (c *Config) EnvPath() string {
	return filepath.Join(c.PluginDir, EnvFilename)
}
