// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

package cook

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ResolveProgram resolves a step's argv[0] to an executable path: probe
// "util/<argv0>" relative to the current working directory first, then
// fall back to the ambient search path. Preserved verbatim per spec.md §9
// ("some recipes rely on this shadowing") — util/ always wins even when an
// ambient program of the same name exists.
func ResolveProgram(argv0 string) (string, error) {
	if local := filepath.Join("util", argv0); fileIsExecutable(local) {
		abs, err := filepath.Abs(local)
		if err != nil {
			return "", fmt.Errorf("resolving %q: %w", local, err)
		}
		return abs, nil
	}
	path, err := exec.LookPath(argv0)
	if err != nil {
		return "", &StepExecError{Argv0: argv0, Err: err}
	}
	return path, nil
}

func fileIsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
