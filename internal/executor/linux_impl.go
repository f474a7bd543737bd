//go:build linux
// +build linux

package executor

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own session so signals aimed at the
// watcher's process group (e.g., Ctrl-C in a terminal) do not reach sprites
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
