package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzocastillo/WSLScriptRunner/internal/config"
	"github.com/renzocastillo/WSLScriptRunner/internal/log"
	"github.com/renzocastillo/WSLScriptRunner/internal/plugin"
	"github.com/renzocastillo/WSLScriptRunner/internal/wsl"
	"github.com/renzocastillo/WSLScriptRunner/internal/wsl/mocks"
)

func TestMain(m *testing.M) {
	log.Setup("ERROR", nil)
	os.Exit(m.Run())
}

const listCommand = `find '/home/u/scripts' -maxdepth 1 -name '*.sh' -type f -exec basename {} \;`

var errExit = &wsl.ExitError{Code: 127, Stderr: "command not found"}

// installedConfig returns a config whose plugin directory is a complete install.
func installedConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.PluginDir = t.TempDir()

	m := plugin.Default("1.0.0")
	require.NoError(t, m.Write(filepath.Join(cfg.PluginDir, plugin.MetadataFilename)))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PluginDir, m.ExecuteFileName), []byte("bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.PluginDir, "Images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PluginDir, "Images", "app.png"), []byte("png"), 0o644))
	return cfg
}

func configured() config.Settings {
	return config.Settings{}.WithScriptsDir("~/scripts")
}

func expectHealthy(runner *mocks.MockRunner, listing string) {
	gomock.InOrder(
		runner.EXPECT().Capture(gomock.Any(), "true").Return("", nil),
		runner.EXPECT().Capture(gomock.Any(), "eval echo '~/scripts'").Return("/home/u/scripts", nil),
		runner.EXPECT().Capture(gomock.Any(), "mkdir -p '/home/u/scripts'").Return("", nil),
		runner.EXPECT().Capture(gomock.Any(), listCommand).Return(listing, nil),
		runner.EXPECT().Capture(gomock.Any(), "command -v 'code'").Return("/usr/bin/code", nil),
	)
}

func categories(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Category)
	}
	return out
}

func TestRun_Healthy(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	expectHealthy(runner, "a.sh\nb.sh")

	r := New(installedConfig(t), configured(), runner).Run(context.Background())

	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, "/home/u/scripts", r.ScriptsDir)
	assert.Equal(t, 2, r.ScriptCount)
	assert.Equal(t, ExitValid, r.ExitCode())
}

func TestRun_EmptyDirectoryWarns(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	expectHealthy(runner, "")

	r := New(installedConfig(t), configured(), runner).Run(context.Background())

	assert.True(t, r.Valid)
	assert.Equal(t, []string{"scripts_dir"}, categories(r.Warnings))
	assert.Equal(t, ExitWarnings, r.ExitCode())
}

func TestRun_NotInstalledWarns(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	expectHealthy(runner, "a.sh")

	cfg := config.Defaults()
	cfg.PluginDir = t.TempDir()
	r := New(cfg, configured(), runner).Run(context.Background())

	assert.True(t, r.Valid)
	assert.Equal(t, []string{"install"}, categories(r.Warnings))
}

func TestRun_Unconfigured(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	gomock.InOrder(
		runner.EXPECT().Capture(gomock.Any(), "true").Return("", nil),
		runner.EXPECT().Capture(gomock.Any(), "command -v 'code'").Return("/usr/bin/code", nil),
	)

	r := New(installedConfig(t), config.Settings{}, runner).Run(context.Background())

	assert.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, config.ScriptsDirKey, r.Errors[0].Field)
	assert.Contains(t, r.Errors[0].Message, "wsl settings <path>")
	assert.Equal(t, ExitErrors, r.ExitCode())
}

func TestRun_SettingsReadError(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	runner.EXPECT().Capture(gomock.Any(), "true").Return("", errExit)

	r := New(installedConfig(t), config.Settings{}, runner).
		WithSettingsError(errors.New("yaml: line 1: did not find expected key")).
		Run(context.Background())

	assert.Equal(t, []string{"settings", "settings", "wsl"}, categories(r.Errors))
	assert.Empty(t, r.SettingsFingerprint)
}

func TestRun_ReportsSettingsFingerprint(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	expectHealthy(runner, "a.sh")

	cfg := installedConfig(t)
	store := config.NewStore(cfg)
	require.NoError(t, store.Save(configured()))
	settings, err := store.Load()
	require.NoError(t, err)

	r := New(cfg, settings, runner).Run(context.Background())

	assert.Equal(t, configured().Fingerprint(), r.SettingsFingerprint)
	assert.Empty(t, r.Warnings, "a file written by Save matches its fingerprint")
	assert.Equal(t, ExitValid, r.ExitCode())
}

func TestRun_HandEditedSettingsWarns(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	expectHealthy(runner, "a.sh")

	cfg := installedConfig(t)
	require.NoError(t, os.WriteFile(cfg.SettingsPath(), []byte("scripts_dir: ~/scripts   # edited by hand\n"), 0o644))
	settings, err := config.NewStore(cfg).Load()
	require.NoError(t, err)

	r := New(cfg, settings, runner).Run(context.Background())

	assert.True(t, r.Valid)
	require.Equal(t, []string{"settings"}, categories(r.Warnings))
	assert.Equal(t, cfg.SettingsPath(), r.Warnings[0].Field)
	assert.Contains(t, r.Warnings[0].Message, "rewritten on the next save")
	assert.Equal(t, ExitWarnings, r.ExitCode())
}

func TestRun_WSLUnreachableSkipsRuntimeChecks(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	runner.EXPECT().Capture(gomock.Any(), "true").Return("", wsl.ErrUnavailable)

	r := New(installedConfig(t), configured(), runner).Run(context.Background())

	assert.False(t, r.Valid)
	assert.Equal(t, []string{"wsl"}, categories(r.Errors))
	assert.Empty(t, r.ScriptsDir)
}

func TestRun_ResolveAndListFailures(t *testing.T) {
	t.Run("resolve", func(t *testing.T) {
		runner := mocks.NewMockRunner(gomock.NewController(t))
		gomock.InOrder(
			runner.EXPECT().Capture(gomock.Any(), "true").Return("", nil),
			runner.EXPECT().Capture(gomock.Any(), "eval echo '~/scripts'").Return("", errExit),
			runner.EXPECT().Capture(gomock.Any(), "command -v 'code'").Return("", nil),
		)

		r := New(installedConfig(t), configured(), runner).Run(context.Background())
		assert.Equal(t, []string{"scripts_dir"}, categories(r.Errors))
	})

	t.Run("list", func(t *testing.T) {
		runner := mocks.NewMockRunner(gomock.NewController(t))
		gomock.InOrder(
			runner.EXPECT().Capture(gomock.Any(), "true").Return("", nil),
			runner.EXPECT().Capture(gomock.Any(), "eval echo '~/scripts'").Return("/home/u/scripts", nil),
			runner.EXPECT().Capture(gomock.Any(), "mkdir -p '/home/u/scripts'").Return("", nil),
			runner.EXPECT().Capture(gomock.Any(), listCommand).Return("", errExit),
			runner.EXPECT().Capture(gomock.Any(), "command -v 'code'").Return("", nil),
		)

		r := New(installedConfig(t), configured(), runner).Run(context.Background())
		assert.Equal(t, []string{"scripts_dir"}, categories(r.Errors))
		assert.Equal(t, "/home/u/scripts", r.ScriptsDir)
	})
}

func TestRun_MissingEditorWarns(t *testing.T) {
	runner := mocks.NewMockRunner(gomock.NewController(t))
	gomock.InOrder(
		runner.EXPECT().Capture(gomock.Any(), "true").Return("", nil),
		runner.EXPECT().Capture(gomock.Any(), "eval echo '~/scripts'").Return("/home/u/scripts", nil),
		runner.EXPECT().Capture(gomock.Any(), "mkdir -p '/home/u/scripts'").Return("", nil),
		runner.EXPECT().Capture(gomock.Any(), listCommand).Return("a.sh", nil),
		runner.EXPECT().Capture(gomock.Any(), "command -v 'code'").Return("", errExit),
	)

	r := New(installedConfig(t), configured(), runner).Run(context.Background())

	assert.True(t, r.Valid)
	assert.Equal(t, []string{"editor"}, categories(r.Warnings))
}

func TestFormatHuman(t *testing.T) {
	th := NewDefaultTheme()

	t.Run("valid", func(t *testing.T) {
		out := FormatHuman(&Result{Valid: true, ScriptsDir: "/home/u/scripts", ScriptCount: 3}, th)
		assert.Contains(t, out, "Setup valid.")
		assert.Contains(t, out, "/home/u/scripts")
		assert.Contains(t, out, "(3 found)")
	})

	t.Run("fingerprint", func(t *testing.T) {
		fp := configured().Fingerprint()
		out := FormatHuman(&Result{Valid: true, SettingsFingerprint: fp}, th)
		assert.Contains(t, out, "fingerprint "+fp[:16])
	})

	t.Run("warnings", func(t *testing.T) {
		out := FormatHuman(&Result{
			Valid:    true,
			Warnings: []Issue{{Category: "editor", Field: "editor", Message: "code not found"}},
		}, th)
		assert.Contains(t, out, "1 warning(s)")
		assert.Contains(t, out, "editor: code not found")
	})

	t.Run("errors", func(t *testing.T) {
		out := FormatHuman(&Result{
			Errors: []Issue{{Category: "wsl", Message: "WSL is not reachable"}},
		}, th)
		assert.Contains(t, out, "Setup invalid (1 error(s), 0 warning(s))")
		assert.Contains(t, out, "WSL is not reachable")
		assert.Equal(t, 2, strings.Count(out, "\n"))
	})
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(&Result{
		Valid:    false,
		Errors:   []Issue{{Category: "wsl", Message: "down"}},
		Warnings: nil,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, false, decoded["valid"])
	assert.NotContains(t, decoded, "warnings")
	assert.Len(t, decoded["errors"], 1)
	assert.NotContains(t, decoded, "settings_fingerprint")
}

func TestFormatJSON_IncludesFingerprint(t *testing.T) {
	fp := configured().Fingerprint()
	out, err := FormatJSON(&Result{Valid: true, SettingsFingerprint: fp})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, fp, decoded["settings_fingerprint"])
}
