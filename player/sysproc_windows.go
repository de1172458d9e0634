//go:build windows

package player

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// createNoWindow keeps mpv from opening a console next to the video window.
const createNoWindow = 0x08000000

func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNoWindow}
}

func terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
