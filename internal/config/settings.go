package config

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScriptsDirKey is the settings key holding the scripts directory.
const ScriptsDirKey = "scripts_dir"

// Settings is an immutable snapshot of the persisted settings record.
// Keys other than scripts_dir are carried through untouched.
type Settings struct {
	ScriptsDir string
	extra      map[string]any
}

// Configured reports whether a scripts directory has been set.
func (s Settings) Configured() bool {
	return strings.TrimSpace(s.ScriptsDir) != ""
}

// ScriptsDirOrDefault returns the configured directory or DefaultScriptsDir.
func (s Settings) ScriptsDirOrDefault() string {
	if s.Configured() {
		return strings.TrimSpace(s.ScriptsDir)
	}
	return DefaultScriptsDir
}

// WithScriptsDir returns a copy of s with the scripts directory replaced.
func (s Settings) WithScriptsDir(dir string) Settings {
	return Settings{
		ScriptsDir: strings.TrimSpace(dir),
		extra:      maps.Clone(s.extra),
	}
}

// ToMap returns the flat key-value record that is persisted.
func (s Settings) ToMap() map[string]any {
	m := make(map[string]any, len(s.extra)+1)
	maps.Copy(m, s.extra)
	if s.ScriptsDir != "" {
		m[ScriptsDirKey] = s.ScriptsDir
	}
	return m
}

// SettingsFromMap builds a snapshot from a decoded record.
// A non-string scripts_dir is kept as an unknown value and treated as unset.
func SettingsFromMap(m map[string]any) Settings {
	s := Settings{extra: make(map[string]any, len(m))}
	for k, v := range m {
		if k == ScriptsDirKey {
			if dir, ok := v.(string); ok {
				s.ScriptsDir = strings.TrimSpace(dir)
				continue
			}
		}
		s.extra[k] = v
	}
	return s
}

// Store reads and writes the settings document.
// Writes are not locked: concurrent writers race and the last one wins.
type Store struct {
	Path       string
	LegacyPath string
}

// NewStore creates a Store for the settings files of cfg.
func NewStore(cfg *Config) *Store {
	return &Store{
		Path:       cfg.SettingsPath(),
		LegacyPath: cfg.LegacySettingsPath(),
	}
}

// Load reads the settings document.
// A missing file yields empty settings and no error. An unreadable or malformed
// file yields empty settings and the error, so callers can log it and carry on.
func (st *Store) Load() (Settings, error) {
	data, path, err := st.read()
	if err != nil {
		return Settings{}, err
	}
	if data == nil {
		return Settings{}, nil
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return SettingsFromMap(m), nil
}

func (st *Store) read() ([]byte, string, error) {
	for _, path := range []string{st.Path, st.LegacyPath} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !os.IsNotExist(err) {
			return nil, path, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}
	return nil, "", nil
}

// Save writes s as an indented YAML document, creating the parent directory if needed.
// The document is written to a temporary file and renamed into place.
func (st *Store) Save(s Settings) error {
	if st.Path == "" {
		return fmt.Errorf("settings path is empty")
	}

	data, err := encodeSettings(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(st.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary settings file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmpPath, st.Path); err != nil {
		return fmt.Errorf("replace settings %s: %w", st.Path, err)
	}

	return nil
}

func encodeSettings(s Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.ToMap()); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return buf.Bytes(), nil
}
