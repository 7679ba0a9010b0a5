package wsl

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzocastillo/WSLScriptRunner/internal/log"
)

func TestMain(m *testing.M) {
	log.Setup("ERROR", nil) // Suppress logs in tests
	os.Exit(m.Run())
}

// fakeWSL mimics the bridge: it consumes -d/--cd and runs the rest locally.
const fakeWSL = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -d) shift 2 ;;
    --cd) cd "$2" || exit 1; shift 2 ;;
    *) break ;;
  esac
done
exec "$@"
`

func setupFakeBridge(t *testing.T) *Bridge {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake wsl bridge requires a POSIX shell")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}

	exe := filepath.Join(t.TempDir(), "wsl")
	if err := os.WriteFile(exe, []byte(fakeWSL), 0755); err != nil {
		t.Fatalf("failed to write fake wsl: %v", err)
	}
	return NewBridge(exe, "")
}

func TestBridge_Capture(t *testing.T) {
	b := setupFakeBridge(t)

	out, err := b.Capture(context.Background(), "printf '  a.sh\\nb.sh\\n\\n'")
	require.NoError(t, err)
	assert.Equal(t, "a.sh\nb.sh", out)
	assert.Equal(t, []string{"a.sh", "b.sh"}, SplitLines(out))
}

func TestBridge_Capture_NonZeroExit(t *testing.T) {
	b := setupFakeBridge(t)

	_, err := b.Capture(context.Background(), "echo 'no such dir' >&2; exit 3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, exitErr.Error(), "no such dir")
}

func TestBridge_Capture_MissingExecutable(t *testing.T) {
	b := NewBridge(filepath.Join(t.TempDir(), "does-not-exist"), "")

	_, err := b.Capture(context.Background(), "true")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestBridge_Spawn_Detached(t *testing.T) {
	b := setupFakeBridge(t)
	dir := t.TempDir()

	err := b.Spawn(context.Background(), Command{Script: "touch spawned.marker", Dir: dir})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, statErr := os.Stat(filepath.Join(dir, "spawned.marker"))
		return statErr == nil
	}, 5*time.Second, 20*time.Millisecond, "spawned command should run in Dir")
}

func TestBridge_Spawn_MissingExecutable(t *testing.T) {
	b := NewBridge(filepath.Join(t.TempDir(), "does-not-exist"), "")

	err := b.Spawn(context.Background(), Command{Script: "true"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestBridge_Spawn_CancelledContext(t *testing.T) {
	b := NewBridge("wsl", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Spawn(ctx, Command{Script: "true"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBridge_CommandArgs(t *testing.T) {
	tests := []struct {
		name   string
		distro string
		cmd    Command
		want   []string
	}{
		{
			name: "capture",
			cmd:  Command{Script: "echo hi"},
			want: []string{"bash", "-c", "echo hi"},
		},
		{
			name:   "distro",
			distro: "Ubuntu",
			cmd:    Command{Script: "echo hi"},
			want:   []string{"-d", "Ubuntu", "bash", "-c", "echo hi"},
		},
		{
			name: "interactive in dir",
			cmd:  Command{Script: "'/s/a.sh'", Dir: "/s", Interactive: true},
			want: []string{"--cd", "/s", "bash", "-ic", "'/s/a.sh'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBridge("wsl", tt.distro)
			assert.Equal(t, tt.want, b.commandArgs(tt.cmd))
		})
	}
}

func TestTruncateStderr(t *testing.T) {
	long := strings.Repeat("x", maxStderrBytes+10)
	assert.Len(t, truncateStderr(long), maxStderrBytes)
	assert.Equal(t, "short", truncateStderr("short"))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "wsl command exited with status 1", (&ExitError{Code: 1}).Error())
	assert.Equal(t, "wsl command exited with status 2: boom", (&ExitError{Code: 2, Stderr: "boom\n"}).Error())
}
