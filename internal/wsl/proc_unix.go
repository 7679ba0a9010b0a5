//go:build unix

package wsl

import (
	"os/exec"
	"syscall"
)

func hideWindow(*exec.Cmd) {}

// detach starts the child in its own session so it survives the launcher exiting.
func detach(cmd *exec.Cmd, _ bool) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
