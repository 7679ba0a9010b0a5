// Package scripts implements the launcher operations over a directory of shell
// scripts that lives inside WSL: listing and filtering them, running one in an
// interactive session, opening them in an editor, and configuring the directory.
//
// Every operation reports failures as result rows. None of them return errors
// to the dispatcher, so the host always receives a valid envelope.
package scripts

import (
	"context"
	"log/slog"

	"github.com/renzocastillo/WSLScriptRunner/internal/config"
	"github.com/renzocastillo/WSLScriptRunner/internal/dispatch"
	"github.com/renzocastillo/WSLScriptRunner/internal/log"
	"github.com/renzocastillo/WSLScriptRunner/internal/protocol"
	"github.com/renzocastillo/WSLScriptRunner/internal/wsl"
)

// Method names registered with the dispatcher.
const (
	MethodQuery          = "query"
	MethodContextMenu    = "context_menu"
	MethodRunScript      = "run_script"
	MethodEditScript     = "edit_script"
	MethodOpenScriptsDir = "open_scripts_dir"
	MethodOpenSettings   = "open_settings"
)

// SettingsSaver persists a settings snapshot.
type SettingsSaver interface {
	Save(config.Settings) error
}

// Options carries the runtime knobs the operations need.
type Options struct {
	Editor        string
	ScriptExt     string
	ActionKeyword string
}

// OptionsFromConfig extracts Options from the runtime configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Editor:        cfg.Editor,
		ScriptExt:     cfg.ScriptExt,
		ActionKeyword: cfg.ActionKeyword,
	}
}

func (o Options) withDefaults() Options {
	d := config.Defaults()
	if o.Editor == "" {
		o.Editor = d.Editor
	}
	if o.ScriptExt == "" {
		o.ScriptExt = d.ScriptExt
	}
	if o.ActionKeyword == "" {
		o.ActionKeyword = d.ActionKeyword
	}
	return o
}

// ScriptRef is the context data attached to each script row.
type ScriptRef struct {
	Script string `json:"script"`
	Path   string `json:"path"`
}

// Service performs the script directory operations for one invocation.
type Service struct {
	runner   wsl.Runner
	store    SettingsSaver
	settings config.Settings
	opts     Options
	logger   *slog.Logger
}

// NewService creates a Service over runner, starting from the settings snapshot.
func NewService(runner wsl.Runner, store SettingsSaver, settings config.Settings, opts Options) *Service {
	return &Service{
		runner:   runner,
		store:    store,
		settings: settings,
		opts:     opts.withDefaults(),
		logger:   log.WithComponent("scripts"),
	}
}

// Settings returns the snapshot the service currently operates on.
func (s *Service) Settings() config.Settings {
	return s.settings
}

// Register adds every operation to reg.
func (s *Service) Register(reg *dispatch.Registry) error {
	ops := []dispatch.Operation{
		{Name: MethodQuery, MinArgs: 0, MaxArgs: 1, Handler: func(ctx context.Context, p dispatch.Params) []protocol.Result {
			return s.Query(ctx, p.StringOr(0, ""))
		}},
		{Name: MethodContextMenu, MinArgs: 0, MaxArgs: 1, Handler: func(ctx context.Context, p dispatch.Params) []protocol.Result {
			return s.ContextMenu(ctx, p.Raw(0))
		}},
		{Name: MethodRunScript, MinArgs: 1, MaxArgs: 1, Handler: func(ctx context.Context, p dispatch.Params) []protocol.Result {
			return s.RunScript(ctx, p.StringOr(0, ""))
		}},
		{Name: MethodEditScript, MinArgs: 1, MaxArgs: 1, Handler: func(ctx context.Context, p dispatch.Params) []protocol.Result {
			return s.EditScript(ctx, p.StringOr(0, ""))
		}},
		{Name: MethodOpenScriptsDir, MinArgs: 0, MaxArgs: 0, Handler: func(ctx context.Context, _ dispatch.Params) []protocol.Result {
			return s.OpenScriptsDir(ctx)
		}},
		{Name: MethodOpenSettings, MinArgs: 0, MaxArgs: 0, Handler: func(ctx context.Context, _ dispatch.Params) []protocol.Result {
			return s.OpenSettings(ctx)
		}},
	}

	for _, op := range ops {
		if err := reg.Register(op); err != nil {
			return err
		}
	}
	return nil
}

// ResolveScriptsDir expands the configured directory inside WSL and makes sure it exists.
// It falls back to config.DefaultScriptsDir when nothing is configured.
// ok is false whenever the environment is unreachable or a command exits non-zero.
func (s *Service) ResolveScriptsDir(ctx context.Context) (dir string, ok bool) {
	configured := s.settings.ScriptsDirOrDefault()

	resolved, err := s.runner.Capture(ctx, "eval echo "+wsl.Quote(configured))
	if err != nil {
		s.logger.Warn("failed to expand scripts directory", "scripts_dir", configured, "error", err)
		return "", false
	}
	if resolved == "" {
		s.logger.Warn("scripts directory expanded to an empty path", "scripts_dir", configured)
		return "", false
	}

	if _, err := s.runner.Capture(ctx, "mkdir -p "+wsl.Quote(resolved)); err != nil {
		s.logger.Warn("failed to create scripts directory", "dir", resolved, "error", err)
		return "", false
	}

	s.logger.Debug("resolved scripts directory", "scripts_dir", configured, "dir", resolved)
	return resolved, true
}
