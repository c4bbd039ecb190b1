//go:build !windows

package tactile

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

func defaultShell() []string {
	return []string{"sh", "-c"}
}

// setupProcessGroup configures the command to run in its own process group.
// This allows killing all child processes when the parent is terminated.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// killProcessGroup kills the process and all its children on Unix.
// It is installed as exec.Cmd.Cancel, so it returns nil or os.ErrProcessDone.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	// With Setpgid the group id equals the leader's pid.
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)

	// Also kill the main process directly as a fallback
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// reapProcessGroup kills whatever is left in the group after the leader has
// been waited for, e.g. background jobs started by a shell command.
// Call it only while a member is known to be alive: the kernel does not hand
// out a pid that is still in use as a group id, but once the group is empty
// the leader's pid may be reused and -pid would name someone else's group.
func reapProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
