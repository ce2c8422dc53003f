//go:build unix

package fuzz

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
)

// setProcessGroup makes the subject the leader of a new process group.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killGroup sends SIGKILL to the process group led by pid. It returns
// os.ErrProcessDone when the group no longer exists.
func killGroup(pid int) error {
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}

// reapGroup kills whatever is left of the group led by pid after the
// leader exited.
func reapGroup(pid int) error {
	return killGroup(pid)
}
