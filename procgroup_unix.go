// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package cook

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// joinProcessGroup arranges for cmd to start in a process group: index 0
// creates a new group (Setpgid with no Pgid set — the kernel uses the
// child's own pid); a later index joins the existing group pgid explicitly.
// SelfReexecSpawner uses it to give each worker its own group; the
// pipeline steps a worker starts inherit that group, so a single killGroup
// call on the recipe's worker reaches every step of an in-flight pipeline.
// Grounded on distr1-distri's cmd/distri/{run,patch,build}.go SysProcAttr
// usage.
func joinProcessGroup(cmd *exec.Cmd, index, pgid int) {
	attr := &syscall.SysProcAttr{Setpgid: true}
	if index > 0 {
		attr.Pgid = pgid
	}
	cmd.SysProcAttr = attr
}

// killGroup sends SIGKILL to every process in pid's process group. Used by
// the failure handler (C8) to forcefully terminate a still-running worker
// and any pipeline children it has in flight.
func killGroup(pid int) error {
	err := unix.Kill(-pid, unix.SIGKILL)
	if err == unix.ESRCH {
		// Already gone; not an error for our purposes.
		return nil
	}
	return err
}
