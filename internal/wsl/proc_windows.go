//go:build windows

package wsl

import (
	"os/exec"
	"syscall"
)

const (
	createNewConsole = 0x00000010
	createNoWindow   = 0x08000000
)

func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true, CreationFlags: createNoWindow}
}

func detach(cmd *exec.Cmd, interactive bool) {
	if interactive {
		cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewConsole}
		return
	}
	hideWindow(cmd)
}
