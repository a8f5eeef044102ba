//go:build !windows

package process

import "os/exec"

func hideConsoleWindow(*exec.Cmd) {}
