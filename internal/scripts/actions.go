package scripts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/renzocastillo/WSLScriptRunner/internal/protocol"
	"github.com/renzocastillo/WSLScriptRunner/internal/wsl"
)

// ContextMenu returns the secondary actions for a row.
// Rows that reference a script get edit and open-directory entries, in that order;
// anything else gets a single configure entry.
func (s *Service) ContextMenu(_ context.Context, data json.RawMessage) []protocol.Result {
	ref, ok := decodeScriptRef(data)
	if !ok {
		return []protocol.Result{s.configureResult()}
	}

	return []protocol.Result{
		{
			Title:         "Open script in editor",
			SubTitle:      "Edit " + ref.Script,
			IcoPath:       IconApp,
			JSONRPCAction: protocol.NewAction(MethodEditScript, ref.Path),
		},
		{
			Title:         "Open scripts directory",
			SubTitle:      s.settings.ScriptsDirOrDefault(),
			IcoPath:       IconApp,
			JSONRPCAction: protocol.NewAction(MethodOpenScriptsDir),
		},
	}
}

func decodeScriptRef(data json.RawMessage) (ScriptRef, bool) {
	if len(data) == 0 {
		return ScriptRef{}, false
	}
	var ref ScriptRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return ScriptRef{}, false
	}
	if strings.TrimSpace(ref.Path) == "" {
		return ScriptRef{}, false
	}
	return ref, true
}

// RunScript marks the script executable and launches it in an interactive WSL session
// that waits for Enter before closing. The session is not awaited.
func (s *Service) RunScript(ctx context.Context, name string) []protocol.Result {
	const title = "Error executing script"

	if !validScriptName(name) {
		return []protocol.Result{errorResult(title, fmt.Sprintf("Invalid script name %q", name))}
	}

	dir, ok := s.ResolveScriptsDir(ctx)
	if !ok {
		return []protocol.Result{errorResult(title, "Scripts directory is not accessible.")}
	}

	path := joinScriptPath(dir, name)
	if _, err := s.runner.Capture(ctx, "chmod +x "+wsl.Quote(path)); err != nil {
		s.logger.Warn("failed to mark script executable", "path", path, "error", err)
		return []protocol.Result{errorResult(title, fmt.Sprintf("Error: %v", err))}
	}

	session := wsl.Command{
		Script:      fmt.Sprintf("%s ; echo ; echo 'Press Enter to close...' ; read", wsl.Quote(path)),
		Dir:         dir,
		Interactive: true,
	}
	if err := s.runner.Spawn(ctx, session); err != nil {
		s.logger.Error("failed to launch script", "path", path, "error", err)
		return []protocol.Result{errorResult(title, fmt.Sprintf("Error: %v", err))}
	}

	s.logger.Info("launched script", "path", path)
	return nil
}

// EditScript opens path in the configured editor inside WSL.
func (s *Service) EditScript(ctx context.Context, path string) []protocol.Result {
	if strings.TrimSpace(path) == "" {
		return []protocol.Result{errorResult("Error opening editor", "No script path given")}
	}
	if err := s.openInEditor(ctx, path); err != nil {
		return []protocol.Result{errorResult("Error opening editor", s.editorHint())}
	}
	return nil
}

// OpenScriptsDir opens the resolved scripts directory in the configured editor.
func (s *Service) OpenScriptsDir(ctx context.Context) []protocol.Result {
	const title = "Error opening directory"

	dir, ok := s.ResolveScriptsDir(ctx)
	if !ok {
		return []protocol.Result{errorResult(title, "Scripts directory is not accessible")}
	}
	if err := s.openInEditor(ctx, dir); err != nil {
		return []protocol.Result{errorResult(title, s.editorHint())}
	}
	return nil
}

// OpenSettings writes the current settings so the file exists for manual editing.
func (s *Service) OpenSettings(_ context.Context) []protocol.Result {
	if err := s.store.Save(s.settings); err != nil {
		s.logger.Error("failed to save settings", "error", err)
		return []protocol.Result{errorResult("Error saving settings", fmt.Sprintf("Error: %v", err))}
	}
	return nil
}

func (s *Service) openInEditor(ctx context.Context, path string) error {
	err := s.runner.Spawn(ctx, wsl.Command{Script: s.opts.Editor + " " + wsl.Quote(path)})
	if err != nil {
		s.logger.Error("failed to launch editor", "editor", s.opts.Editor, "path", path, "error", err)
	}
	return err
}

func (s *Service) editorHint() string {
	return fmt.Sprintf("Make sure %s is installed in WSL", s.opts.Editor)
}
