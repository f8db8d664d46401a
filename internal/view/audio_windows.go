//go:build windows

package view

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

// TODO: kill the player's child processes too, not just the player.
func killPlayer(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	cmd.Process.Kill()
}
