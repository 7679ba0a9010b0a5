package scripts

import (
	"context"
	"fmt"
	"strings"

	"github.com/renzocastillo/WSLScriptRunner/internal/protocol"
	"github.com/renzocastillo/WSLScriptRunner/internal/wsl"
)

// Query lists the scripts whose names contain text, or handles the settings directive.
// The result is never empty.
func (s *Service) Query(ctx context.Context, text string) []protocol.Result {
	text = strings.TrimSpace(text)

	if arg, ok := parseSettingsCommand(text); ok {
		return s.configureScriptsDir(arg)
	}

	if !s.settings.Configured() {
		return []protocol.Result{s.unconfiguredResult()}
	}

	dir, ok := s.ResolveScriptsDir(ctx)
	if !ok {
		r := errorResult("Error retrieving scripts directory", "Check settings or ensure WSL is running.")
		r.ContextData = contextError
		return []protocol.Result{r}
	}

	names, err := s.ListScripts(ctx, dir)
	if err != nil {
		s.logger.Warn("failed to list scripts", "dir", dir, "error", err)
		r := errorResult("Error reading scripts directory", "Check if WSL is running and the directory exists")
		r.ContextData = contextError
		return []protocol.Result{r}
	}

	matches := FilterScripts(names, text)
	if len(matches) == 0 {
		return []protocol.Result{noMatchesResult()}
	}

	results := make([]protocol.Result, 0, len(matches)+1)
	if text == "" {
		results = append(results, s.configureResult())
	}
	for _, name := range matches {
		results = append(results, scriptResult(name, dir))
	}
	return results
}

// ListScripts returns the script files directly inside dir, in the order find reports them.
func (s *Service) ListScripts(ctx context.Context, dir string) ([]string, error) {
	script := fmt.Sprintf("find %s -maxdepth 1 -name %s -type f -exec basename {} \\;",
		wsl.Quote(dir), wsl.Quote("*"+s.opts.ScriptExt))

	out, err := s.runner.Capture(ctx, script)
	if err != nil {
		return nil, err
	}
	return wsl.SplitLines(out), nil
}

// configureScriptsDir persists a new scripts directory from the settings directive.
func (s *Service) configureScriptsDir(dir string) []protocol.Result {
	if dir == "" {
		return []protocol.Result{s.settingsPromptResult()}
	}

	updated := s.settings.WithScriptsDir(dir)
	if err := s.store.Save(updated); err != nil {
		s.logger.Error("failed to save settings", "scripts_dir", dir, "error", err)
		return []protocol.Result{errorResult("Error saving settings", fmt.Sprintf("Error: %v", err))}
	}

	s.settings = updated
	s.logger.Info("scripts directory configured", "scripts_dir", dir, "fingerprint", updated.Fingerprint())
	return []protocol.Result{s.settingsSavedResult(dir)}
}
