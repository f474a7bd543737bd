//go:build !linux
// +build !linux

package executor

import "os/exec"

// detach is a no-op outside Linux; Hyprland only runs there
func detach(cmd *exec.Cmd) {}
