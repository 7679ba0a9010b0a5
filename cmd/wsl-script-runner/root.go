package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/renzocastillo/WSLScriptRunner/internal/config"
	"github.com/renzocastillo/WSLScriptRunner/internal/dispatch"
	"github.com/renzocastillo/WSLScriptRunner/internal/doctor"
	"github.com/renzocastillo/WSLScriptRunner/internal/log"
	"github.com/renzocastillo/WSLScriptRunner/internal/plugin"
	"github.com/renzocastillo/WSLScriptRunner/internal/scripts"
	"github.com/renzocastillo/WSLScriptRunner/internal/wsl"
)

// app carries the output streams and exit status across cobra handlers.
type app struct {
	stdout io.Writer
	stderr io.Writer
	code   int
}

func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "wsl-script-runner [request]",
		Short: "Flow Launcher plugin for running WSL shell scripts",
		Long: `wsl-script-runner answers one Flow Launcher request per process.

The request is a JSON object passed as the first argument, for example:
  wsl-script-runner '{"method":"query","parameters":["deploy"]}'

The response is written to stdout as a single JSON line. Diagnostics go to
stderr or to the file named by WSL_SCRIPT_RUNNER_LOG_FILE.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProtocol(cmd, args)
		},
	}

	root.AddCommand(a.metadataCommand(), a.doctorCommand(), a.versionCommand())
	return root
}

// setup loads the runtime configuration and starts logging.
// The config is never nil: when loading fails it is config.Fallback() and the
// load error is returned alongside it. The returned func closes the log file, if any.
func (a *app) setup() (*config.Config, func(), error) {
	cfg, loadErr := config.Load()
	if loadErr != nil {
		cfg = config.Fallback()
		loadErr = fmt.Errorf("failed to load config: %w", loadErr)
	}

	closer := func() {}
	var w io.Writer = a.stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fprintf(a.stderr, "Failed to open log file %s: %v\n", cfg.LogFile, err)
		} else {
			w = f
			closer = func() { _ = f.Close() }
		}
	}
	log.Setup(cfg.LogLevel, w)
	return cfg, closer, loadErr
}

// runProtocol answers one host request. Only malformed requests and unknown
// methods fail the process; a broken configuration falls back to defaults.
func (a *app) runProtocol(cmd *cobra.Command, args []string) error {
	cfg, closeLog, cfgErr := a.setup()
	defer closeLog()

	log.BindInvocation(uuid.NewString())
	if cfgErr != nil {
		log.Warn("invalid configuration, using defaults", "plugin_dir", cfg.PluginDir, "error", cfgErr)
	}
	log.Debug("handling request", "args", len(args))

	store := config.NewStore(cfg)
	settings, err := store.Load()
	if err != nil {
		log.Warn("failed to load settings, using defaults", "path", store.Path, "error", err)
	} else {
		log.Info("settings loaded", "path", store.Path, "fingerprint", settings.Fingerprint())
	}

	bridge := wsl.NewBridge(cfg.WSLExecutable, cfg.Distro)
	svc := scripts.NewService(bridge, store, settings, scripts.OptionsFromConfig(cfg))

	reg := dispatch.NewRegistry()
	if err := svc.Register(reg); err != nil {
		return fmt.Errorf("failed to register operations: %w", err)
	}

	disp := dispatch.New(reg, dispatch.WithErrorIcon(scripts.IconError))
	if err := disp.Serve(cmd.Context(), args, a.stdout); err != nil {
		log.Error("request rejected", "error", err)
		return err
	}
	return nil
}

func (a *app) metadataCommand() *cobra.Command {
	var (
		write bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Print or write the plugin.json descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := a.setup()
			defer closeLog()
			if err != nil {
				return err
			}

			m := plugin.Default(currentVersionInfo().Version)
			m.ActionKeyword = cfg.ActionKeyword

			if !write {
				if err := m.Validate(); err != nil {
					return fmt.Errorf("invalid metadata: %w", err)
				}
				data, err := m.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if path == "" {
				path = filepath.Join(cfg.PluginDir, plugin.MetadataFilename)
			}
			if err := m.Write(path); err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write plugin.json instead of printing it")
	cmd.Flags().StringVar(&path, "path", "", "Destination for --write (default: <plugin dir>/plugin.json)")
	return cmd
}

func (a *app) doctorCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check settings, WSL reachability and the scripts directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := a.setup()
			defer closeLog()
			if err != nil {
				return err
			}

			settings, loadErr := config.NewStore(cfg).Load()
			bridge := wsl.NewBridge(cfg.WSLExecutable, cfg.Distro)
			result := doctor.New(cfg, settings, bridge).WithSettingsError(loadErr).Run(cmd.Context())

			if jsonOut {
				out, err := doctor.FormatJSON(result)
				if err != nil {
					return fmt.Errorf("failed to render doctor JSON: %w", err)
				}
				fprintf(cmd.OutOrStdout(), "%s\n", out)
			} else {
				fprintf(cmd.OutOrStdout(), "%s", doctor.FormatHuman(result, doctor.NewDefaultTheme()))
			}

			a.code = result.ExitCode()
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the report as JSON")
	return cmd
}
