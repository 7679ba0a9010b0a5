// Package wsl issues commands to the Windows Subsystem for Linux through its bridge executable.
package wsl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/renzocastillo/WSLScriptRunner/internal/log"
)

//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks github.com/renzocastillo/WSLScriptRunner/internal/wsl Runner

const (
	// maxStderrBytes caps the amount of stderr kept for error messages.
	maxStderrBytes = 64 * 1024

	defaultShell = "bash"
)

// ErrUnavailable is matched by every failure to run a command in the environment,
// including non-zero exit statuses.
var ErrUnavailable = errors.New("wsl environment unavailable")

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("wsl command exited with status %d", e.Code)
	}
	return fmt.Sprintf("wsl command exited with status %d: %s", e.Code, msg)
}

// Is reports whether target is ErrUnavailable.
func (e *ExitError) Is(target error) bool {
	return target == ErrUnavailable
}

// Command describes a detached launch inside the environment.
type Command struct {
	// Script is the shell command string run by bash.
	Script string
	// Dir is the working directory inside the environment; empty keeps the default.
	Dir string
	// Interactive runs an interactive shell in its own console window.
	// Otherwise the process is started without a window.
	Interactive bool
}

// Runner runs shell commands inside the environment.
type Runner interface {
	// Capture runs script synchronously and returns its trimmed stdout.
	Capture(ctx context.Context, script string) (string, error)
	// Spawn starts cmd and returns without waiting for it to finish.
	Spawn(ctx context.Context, cmd Command) error
}

// Bridge is the Runner backed by the wsl executable.
type Bridge struct {
	Executable string
	Distro     string
	Shell      string
	logger     *slog.Logger
}

var _ Runner = (*Bridge)(nil)

// NewBridge creates a Runner that invokes executable, optionally targeting distro.
func NewBridge(executable, distro string) *Bridge {
	return &Bridge{
		Executable: executable,
		Distro:     strings.TrimSpace(distro),
		Shell:      defaultShell,
		logger:     log.WithComponent("wsl"),
	}
}

// Capture runs script with `bash -c` and waits for it.
func (b *Bridge) Capture(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, b.Executable, b.commandArgs(Command{Script: script})...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	hideWindow(cmd)

	b.logger.Debug("running wsl command", "script", script)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			b.logger.Warn("wsl command exited with non-zero status", "script", script, "exit_code", exitErr.ExitCode())
			return "", &ExitError{Code: exitErr.ExitCode(), Stderr: truncateStderr(stderr.String())}
		}
		b.logger.Error("failed to run wsl command", "script", script, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Spawn starts cmd detached. The launcher process does not wait for or track it.
func (b *Bridge) Spawn(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Don't use CommandContext - the spawned session must outlive this process.
	cmd := exec.Command(b.Executable, b.commandArgs(c)...)
	detach(cmd, c.Interactive)

	b.logger.Debug("spawning wsl command", "script", c.Script, "dir", c.Dir, "interactive", c.Interactive)

	if err := cmd.Start(); err != nil {
		b.logger.Error("failed to spawn wsl command", "script", c.Script, "error", err)
		return fmt.Errorf("%w: start process: %v", ErrUnavailable, err)
	}
	if err := cmd.Process.Release(); err != nil {
		b.logger.Warn("failed to release spawned process", "error", err)
	}

	return nil
}

// commandArgs builds `[-d distro] [--cd dir] bash -c|-ic script`.
func (b *Bridge) commandArgs(c Command) []string {
	var args []string
	if b.Distro != "" {
		args = append(args, "-d", b.Distro)
	}
	if c.Dir != "" {
		args = append(args, "--cd", c.Dir)
	}
	shell := b.Shell
	if shell == "" {
		shell = defaultShell
	}
	flag := "-c"
	if c.Interactive {
		flag = "-ic"
	}
	return append(args, shell, flag, c.Script)
}

// truncateStderr truncates stderr to maxStderrBytes.
func truncateStderr(s string) string {
	if len(s) > maxStderrBytes {
		return s[:maxStderrBytes]
	}
	return s
}
