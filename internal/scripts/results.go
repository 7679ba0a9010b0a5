package scripts

import (
	"fmt"

	"github.com/renzocastillo/WSLScriptRunner/internal/protocol"
)

const (
	// IconApp and IconError are relative to the plugin directory.
	IconApp   = "Images/app.png"
	IconError = "Images/error.png"

	// changeQueryMethod is handled by the host itself and rewrites the search box.
	changeQueryMethod = "Flow.Launcher.ChangeQuery"

	settingsCommand = "settings"
)

// Context data markers attached to rows that do not reference a script.
const (
	contextError        = "error"
	contextNoResults    = "no_results"
	contextUnconfigured = "unconfigured"
)

func errorResult(title, subtitle string) protocol.Result {
	return protocol.Result{
		Title:    title,
		SubTitle: subtitle,
		IcoPath:  IconError,
	}
}

// changeQuery builds an action that replaces the host's query with text and keeps the window open.
func changeQuery(text string) *protocol.Action {
	a := protocol.NewAction(changeQueryMethod, text, true)
	a.DontHideAfterAction = true
	return a
}

func (s *Service) settingsQuery(arg string) string {
	q := fmt.Sprintf("%s %s ", s.opts.ActionKeyword, settingsCommand)
	if arg != "" {
		q += arg
	}
	return q
}

func (s *Service) currentDirText() string {
	if s.settings.Configured() {
		return s.settings.ScriptsDir
	}
	return "not configured"
}

// configureResult offers to (re)configure the scripts directory.
func (s *Service) configureResult() protocol.Result {
	prefill := ""
	if s.settings.Configured() {
		prefill = s.settings.ScriptsDir
	}
	return protocol.Result{
		Title:         "Configure scripts directory",
		SubTitle:      "Current: " + s.currentDirText(),
		IcoPath:       IconApp,
		JSONRPCAction: changeQuery(s.settingsQuery(prefill)),
	}
}

func (s *Service) unconfiguredResult() protocol.Result {
	return protocol.Result{
		Title:         "Scripts directory not configured",
		SubTitle:      fmt.Sprintf("Type '%s<path>' to set it, e.g. %s~/scripts", s.settingsQuery(""), s.settingsQuery("")),
		IcoPath:       IconApp,
		JSONRPCAction: changeQuery(s.settingsQuery("")),
		ContextData:   contextUnconfigured,
	}
}

func (s *Service) settingsPromptResult() protocol.Result {
	return protocol.Result{
		Title:       "Set scripts directory",
		SubTitle:    fmt.Sprintf("Type a WSL path after '%s' (current: %s)", s.settingsQuery(""), s.currentDirText()),
		IcoPath:     IconApp,
		ContextData: contextUnconfigured,
	}
}

func (s *Service) settingsSavedResult(dir string) protocol.Result {
	return protocol.Result{
		Title:         "Scripts directory set",
		SubTitle:      "Scripts will be loaded from " + dir,
		IcoPath:       IconApp,
		JSONRPCAction: changeQuery(s.opts.ActionKeyword + " "),
	}
}

func scriptResult(name, dir string) protocol.Result {
	return protocol.Result{
		Title:         name,
		SubTitle:      "Run " + name,
		IcoPath:       IconApp,
		JSONRPCAction: protocol.NewAction(MethodRunScript, name),
		ContextData:   ScriptRef{Script: name, Path: joinScriptPath(dir, name)},
	}
}

func noMatchesResult() protocol.Result {
	return protocol.Result{
		Title:       "No matching scripts found",
		SubTitle:    "Try a different search term",
		IcoPath:     IconApp,
		ContextData: contextNoResults,
	}
}
