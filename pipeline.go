// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

package cook

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// RunRecipe executes a recipe's tasks sequentially, in source order,
// entirely inside the calling (worker) process. The first failing task
// stops the recipe immediately — the caller (cmd/cook's worker
// entrypoint) is expected to turn a non-nil error into a non-zero process
// exit, which is how the parent scheduler (C7/C8) learns of the failure.
// Implements C6.
func RunRecipe(r *Recipe) error {
	for i := range r.Tasks {
		if err := runTask(r.Name, &r.Tasks[i]); err != nil {
			return fmt.Errorf("recipe %q, task %d: %w", r.Name, i, err)
		}
	}
	return nil
}

// runTask builds and runs one task's pipeline of steps, wiring redirection
// per spec.md §4.6.
func runTask(recipeName string, t *Task) error {
	if len(t.Steps) == 0 {
		return nil
	}

	var stdin *os.File
	if t.InputFile != "" {
		f, err := os.Open(t.InputFile)
		if err != nil {
			return &TaskFileError{Recipe: recipeName, Path: t.InputFile, Err: err}
		}
		defer f.Close()
		stdin = f
	} else {
		stdin = os.Stdin
	}

	var stdout *os.File
	if t.OutputFile != "" {
		f, err := os.OpenFile(t.OutputFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
		if err != nil {
			return &TaskFileError{Recipe: recipeName, Path: t.OutputFile, Err: err}
		}
		defer f.Close()
		stdout = f
	} else {
		stdout = os.Stdout
	}

	return runPipeline(t.Steps, stdin, stdout)
}

// runPipeline builds len(steps) child processes so that step i's stdout
// feeds step i+1's stdin through an os.Pipe, the first step's stdin is in,
// the last step's stdout is out, and stderr is always inherited. Every
// child is started as soon as it's wired, in order, and stays in the
// calling worker's process group, so killGroup on the worker reaches it;
// every pipe endpoint the parent holds is closed as soon as the child that
// owns it has started. After every child has been started, all are waited
// for concurrently — the task succeeds iff every one exits zero.
func runPipeline(steps []Step, in, out *os.File) error {
	cmds := make([]*exec.Cmd, len(steps))

	var stdin io.Reader = in
	for i, step := range steps {
		prog, err := ResolveProgram(step.Argv[0])
		if err != nil {
			return err
		}

		cmd := exec.Command(prog, step.Argv[1:]...)
		cmd.Stderr = os.Stderr
		cmd.Stdin = stdin

		var pipeReader *os.File
		var pipeWriter *os.File
		if i == len(steps)-1 {
			cmd.Stdout = out
		} else {
			pipeReader, pipeWriter, err = os.Pipe()
			if err != nil {
				return fmt.Errorf("creating pipe for step %d: %w", i, err)
			}
			cmd.Stdout = pipeWriter
		}

		if err := cmd.Start(); err != nil {
			if pipeReader != nil {
				pipeReader.Close()
			}
			if pipeWriter != nil {
				pipeWriter.Close()
			}
			return &StepExecError{Argv0: step.Argv[0], Err: err}
		}

		// The parent's copy of the write end is no longer needed once the
		// child producing into it has started; same for the read end once
		// the child consuming from it has started, which happens on the
		// next iteration.
		if pipeWriter != nil {
			pipeWriter.Close()
		}
		if c, ok := stdin.(*os.File); ok && c != in {
			c.Close()
		}

		cmds[i] = cmd
		stdin = pipeReader
	}

	var g errgroup.Group
	for _, cmd := range cmds {
		cmd := cmd
		g.Go(func() error {
			if err := cmd.Wait(); err != nil {
				return &StepExecError{Argv0: cmd.Args[0], Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}
