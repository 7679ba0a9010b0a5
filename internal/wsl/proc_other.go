//go:build !windows && !unix

package wsl

import "os/exec"

func hideWindow(*exec.Cmd) {}

func detach(*exec.Cmd, bool) {}
