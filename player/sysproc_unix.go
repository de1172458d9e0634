//go:build !windows

package player

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// detachedAttr starts mpv in its own process group so a terminal SIGINT reaches only zantaku.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminate kills mpv together with any helper it spawned, such as yt-dlp.
func terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err == nil {
		return nil
	}

	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
