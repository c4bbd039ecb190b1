//go:build windows

package tactile

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

func defaultShell() []string {
	return []string{"cmd", "/C"}
}

// setupProcessGroup hides the console window of the child.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}

// killProcessGroup kills the process tree with taskkill.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	killCmd := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(cmd.Process.Pid))
	killCmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := killCmd.Run(); err != nil {
		// Fall back to direct kill
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return err
		}
	}
	return nil
}

// reapProcessGroup is a no-op: once the leader is gone its pid may be reused,
// so taskkill /T is not safe here.
func reapProcessGroup(*exec.Cmd) {}
