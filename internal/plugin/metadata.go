package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MetadataFilename is the descriptor the launcher reads from the plugin directory.
	MetadataFilename = "plugin.json"

	// PluginID is stable across releases; the launcher keys settings and updates on it.
	PluginID = "5f1c6a0e-3b8d-4c52-9a41-7e2d9b6f0c13"

	languageExecutable = "executable"
)

// Metadata mirrors the launcher's plugin.json descriptor.
type Metadata struct {
	ID              string `json:"ID"`
	ActionKeyword   string `json:"ActionKeyword"`
	Name            string `json:"Name"`
	Description     string `json:"Description"`
	Author          string `json:"Author"`
	Version         string `json:"Version"`
	Language        string `json:"Language"`
	Website         string `json:"Website"`
	ExecuteFileName string `json:"ExecuteFileName"`
	IcoPath         string `json:"IcoPath"`
}

// Default returns the descriptor for this build.
func Default(version string) Metadata {
	return Metadata{
		ID:              PluginID,
		ActionKeyword:   "wsl",
		Name:            "WSL Script Runner",
		Description:     "Search and run shell scripts from a directory inside WSL",
		Author:          "renzocastillo",
		Version:         version,
		Language:        languageExecutable,
		Website:         "https://github.com/renzocastillo/WSLScriptRunner",
		ExecuteFileName: "wsl-script-runner.exe",
		IcoPath:         "Images/app.png",
	}
}

// Validate checks required fields.
func (m Metadata) Validate() error {
	if _, err := uuid.Parse(m.ID); err != nil {
		return fmt.Errorf("ID must be a UUID: %w", err)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("Name is required")
	}
	if strings.TrimSpace(m.Version) == "" {
		return fmt.Errorf("Version is required")
	}
	if strings.TrimSpace(m.ActionKeyword) == "" || strings.ContainsAny(m.ActionKeyword, " \t") {
		return fmt.Errorf("ActionKeyword must be a single word, got %q", m.ActionKeyword)
	}
	if m.Language != languageExecutable {
		return fmt.Errorf("unsupported Language %q (supported: %q)", m.Language, languageExecutable)
	}
	if m.ExecuteFileName == "" {
		return fmt.Errorf("ExecuteFileName is required")
	}
	if err := checkRelative("ExecuteFileName", m.ExecuteFileName); err != nil {
		return err
	}
	if m.IcoPath != "" {
		if err := checkRelative("IcoPath", m.IcoPath); err != nil {
			return err
		}
	}
	return nil
}

func checkRelative(field, p string) error {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return fmt.Errorf("%s must be relative to the plugin directory: %s", field, p)
	}
	if strings.Contains(p, "..") {
		return fmt.Errorf("%s contains path traversal: %s", field, p)
	}
	return nil
}

// Marshal returns the indented JSON form with a trailing newline.
func (m Metadata) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write validates m and writes it to path.
func (m Metadata) Write(path string) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Read loads and validates a descriptor.
func Read(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Metadata{}, fmt.Errorf("invalid metadata: %w", err)
	}
	return m, nil
}
