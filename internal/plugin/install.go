package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Install describes the files the launcher expects in a plugin directory.
type Install struct {
	Dir        string // Absolute plugin directory
	Metadata   Metadata
	Executable string // Absolute path to ExecuteFileName
	Icon       string // Absolute path to IcoPath, empty when unset
}

// LoadInstall reads plugin.json from dir and checks that the files it names
// are present inside dir.
func LoadInstall(dir string) (*Install, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plugin directory %q: %w", dir, err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plugin directory does not exist: %s", absDir)
		}
		return nil, fmt.Errorf("failed to stat plugin directory %s: %w", absDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("plugin directory is not a directory: %s", absDir)
	}

	meta, err := Read(filepath.Join(absDir, MetadataFilename))
	if err != nil {
		return nil, err
	}

	inst := &Install{
		Dir:        absDir,
		Metadata:   meta,
		Executable: filepath.Join(absDir, filepath.FromSlash(meta.ExecuteFileName)),
	}
	if err := checkContained(inst.Executable, absDir); err != nil {
		return nil, fmt.Errorf("ExecuteFileName: %w", err)
	}

	if meta.IcoPath != "" {
		inst.Icon = filepath.Join(absDir, filepath.FromSlash(meta.IcoPath))
		if err := checkContained(inst.Icon, absDir); err != nil {
			return nil, fmt.Errorf("IcoPath: %w", err)
		}
	}

	return inst, nil
}

// checkContained verifies path exists and, after resolving symlinks, stays under dir.
func checkContained(path, dir string) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("not found: %w", err)
	}
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve plugin directory symlink: %w", err)
	}
	if !strings.HasPrefix(resolved, resolvedDir+string(os.PathSeparator)) {
		return fmt.Errorf("%s is not under plugin directory %s", resolved, resolvedDir)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", resolved)
	}
	return nil
}
