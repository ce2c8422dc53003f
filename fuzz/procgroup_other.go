//go:build !unix

package fuzz

import (
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

// killGroup kills the process itself; there are no process groups to reach
// its descendants through.
func killGroup(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

func reapGroup(pid int) error { return nil }
