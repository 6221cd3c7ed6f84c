// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package cook

import (
	"os"
	"os/exec"
)

// joinProcessGroup is a no-op on non-Unix targets: there is no
// process-group concept to opt a worker into, so worker
// termination (killGroup) falls back to killing each tracked process
// directly.
func joinProcessGroup(cmd *exec.Cmd, index, pgid int) {}

// killGroup kills pid directly; non-Unix targets have no process-group
// signal to fan the kill out to a pipeline's other steps.
func killGroup(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
