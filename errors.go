// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

package cook

import "fmt"

// ArgumentError is raised by CLI argument parsing.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

// RecipeNotFoundError is raised when a named recipe has no entry in the
// cookbook's lookup.
type RecipeNotFoundError struct {
	Name string
}

func (e *RecipeNotFoundError) Error() string {
	return fmt.Sprintf("no such recipe: %q", e.Name)
}

// CycleError is raised by the cycle detector when a recipe's DependsOn
// chain loops back on itself, including the degenerate self-loop case.
type CycleError struct {
	// Path is the cycle, target-relative, e.g. [A B C A].
	Path []string
}

func (e *CycleError) Error() string {
	s := "circular dependency:"
	for i, name := range e.Path {
		if i > 0 {
			s += " ->"
		}
		s += " " + name
	}
	return s
}

// DanglingDependencyError is raised when a recipe's DependsOn entry points
// at a recipe the cookbook never resolved (a parser/linker invariant
// violation surfaced during analysis rather than at parse time).
type DanglingDependencyError struct {
	Recipe string
}

func (e *DanglingDependencyError) Error() string {
	return fmt.Sprintf("recipe %q has an unresolved dependency", e.Recipe)
}

// EmptyFrontierError is raised when the readiness analyzer finds no leaves
// under the target. Per spec.md §4.3 this indicates a graph the cycle
// detector should already have rejected; treat it as an internal bug.
type EmptyFrontierError struct {
	Target string
}

func (e *EmptyFrontierError) Error() string {
	return fmt.Sprintf("internal error: no leaves reachable from target %q", e.Target)
}

// WorkerSpawnError wraps a failure to start a worker process (the
// fork-equivalent failing). It is always fatal to the whole build.
type WorkerSpawnError struct {
	Recipe string
	Err    error
}

func (e *WorkerSpawnError) Error() string {
	return fmt.Sprintf("spawning worker for %q: %v", e.Recipe, e.Err)
}

func (e *WorkerSpawnError) Unwrap() error { return e.Err }

// TaskFileError wraps a failure to open a task's input or output
// redirection file.
type TaskFileError struct {
	Recipe string
	Path   string
	Err    error
}

func (e *TaskFileError) Error() string {
	return fmt.Sprintf("recipe %q: opening %q: %v", e.Recipe, e.Path, e.Err)
}

func (e *TaskFileError) Unwrap() error { return e.Err }

// StepExecError wraps a step whose program could not be resolved or whose
// process exited non-zero.
type StepExecError struct {
	Argv0 string
	Err   error
}

func (e *StepExecError) Error() string {
	return fmt.Sprintf("step %q: %v", e.Argv0, e.Err)
}

func (e *StepExecError) Unwrap() error { return e.Err }

// WorkerFailureError reports that a worker process exited non-zero or
// terminated abnormally, the trigger for the failure handler (C8).
type WorkerFailureError struct {
	Recipe string
	Err    error
}

func (e *WorkerFailureError) Error() string {
	return fmt.Sprintf("recipe %q failed: %v", e.Recipe, e.Err)
}

func (e *WorkerFailureError) Unwrap() error { return e.Err }
