// Package doctor checks that the plugin can reach WSL and find its scripts.
package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/renzocastillo/WSLScriptRunner/internal/config"
	"github.com/renzocastillo/WSLScriptRunner/internal/plugin"
	"github.com/renzocastillo/WSLScriptRunner/internal/scripts"
	"github.com/renzocastillo/WSLScriptRunner/internal/wsl"
)

// Result holds the outcome of a doctor run.
type Result struct {
	Valid               bool    `json:"valid"`
	SettingsFingerprint string  `json:"settings_fingerprint,omitempty"`
	ScriptsDir          string  `json:"scripts_dir,omitempty"`
	ScriptCount         int     `json:"script_count"`
	Errors              []Issue `json:"errors,omitempty"`
	Warnings            []Issue `json:"warnings,omitempty"`
}

// Issue describes a single error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Exit codes for the doctor command.
const (
	ExitValid    = 0
	ExitErrors   = 1
	ExitWarnings = 2
)

// ExitCode maps a result to the doctor command's exit status.
func (r *Result) ExitCode() int {
	switch {
	case len(r.Errors) > 0:
		return ExitErrors
	case len(r.Warnings) > 0:
		return ExitWarnings
	default:
		return ExitValid
	}
}

// Doctor checks the runtime environment of one plugin installation.
type Doctor struct {
	cfg         *config.Config
	settings    config.Settings
	settingsErr error
	runner      wsl.Runner
}

// New creates a Doctor over the loaded configuration and settings snapshot.
func New(cfg *config.Config, settings config.Settings, runner wsl.Runner) *Doctor {
	return &Doctor{cfg: cfg, settings: settings, runner: runner}
}

// WithSettingsError records the error returned while loading settings.
func (d *Doctor) WithSettingsError(err error) *Doctor {
	d.settingsErr = err
	return d
}

// Run performs every check and returns a result.
func (d *Doctor) Run(ctx context.Context) *Result {
	r := &Result{Valid: true}

	d.checkInstall(r)
	d.checkSettings(r)
	if d.checkWSL(ctx, r) {
		d.checkScriptsDir(ctx, r)
		d.checkEditor(ctx, r)
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

// checkInstall warns when the plugin directory is not laid out for the launcher.
// A build directory is not an install; this is never an error.
func (d *Doctor) checkInstall(r *Result) {
	if _, err := plugin.LoadInstall(d.cfg.PluginDir); err != nil {
		d.addWarning(r, "install", plugin.MetadataFilename, err.Error())
	}
}

func (d *Doctor) checkSettings(r *Result) {
	if d.settingsErr != nil {
		d.addError(r, "settings", d.cfg.SettingsPath(),
			fmt.Sprintf("settings file could not be read: %v", d.settingsErr))
	} else {
		r.SettingsFingerprint = d.settings.Fingerprint()
		d.checkSettingsDrift(r)
	}
	if !d.settings.Configured() {
		d.addError(r, "settings", config.ScriptsDirKey,
			fmt.Sprintf("scripts directory not configured; type '%s settings <path>' in the launcher", d.cfg.ActionKeyword))
	}
}

// checkSettingsDrift warns when the file on disk is not the canonical encoding
// of the loaded settings, which happens after hand edits. The next save rewrites it.
func (d *Doctor) checkSettingsDrift(r *Result) {
	path := d.cfg.SettingsPath()
	sum, err := config.ComputeBlake3Hash(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			d.addWarning(r, "settings", path, fmt.Sprintf("settings file could not be hashed: %v", err))
		}
		return
	}
	if sum != r.SettingsFingerprint {
		d.addWarning(r, "settings", path,
			fmt.Sprintf("file hash %s differs from settings fingerprint %s; it will be rewritten on the next save", short(sum), short(r.SettingsFingerprint)))
	}
}

func short(sum string) string {
	if len(sum) <= 16 {
		return sum
	}
	return sum[:16]
}

// checkWSL reports whether a trivial command succeeds inside WSL.
func (d *Doctor) checkWSL(ctx context.Context, r *Result) bool {
	if _, err := d.runner.Capture(ctx, "true"); err != nil {
		d.addError(r, "wsl", d.cfg.WSLExecutable, fmt.Sprintf("WSL is not reachable: %v", err))
		return false
	}
	return true
}

func (d *Doctor) checkScriptsDir(ctx context.Context, r *Result) {
	if !d.settings.Configured() {
		return
	}

	svc := scripts.NewService(d.runner, config.NewStore(d.cfg), d.settings, scripts.OptionsFromConfig(d.cfg))
	dir, ok := svc.ResolveScriptsDir(ctx)
	if !ok {
		d.addError(r, "scripts_dir", config.ScriptsDirKey,
			fmt.Sprintf("%q could not be expanded or created inside WSL", d.settings.ScriptsDir))
		return
	}
	r.ScriptsDir = dir

	names, err := svc.ListScripts(ctx, dir)
	if err != nil {
		d.addError(r, "scripts_dir", config.ScriptsDirKey, fmt.Sprintf("listing %s failed: %v", dir, err))
		return
	}
	r.ScriptCount = len(names)
	if len(names) == 0 {
		d.addWarning(r, "scripts_dir", config.ScriptsDirKey,
			fmt.Sprintf("no *%s scripts found in %s", d.cfg.ScriptExt, dir))
	}
}

func (d *Doctor) checkEditor(ctx context.Context, r *Result) {
	if _, err := d.runner.Capture(ctx, "command -v "+wsl.Quote(d.cfg.Editor)); err != nil {
		d.addWarning(r, "editor", "editor",
			fmt.Sprintf("%s not found in WSL; edit and open-directory actions will fail", d.cfg.Editor))
	}
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
