// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

package cook

import (
	"fmt"
	"log"
	"os"
	"os/exec"
)

// WorkerSpawner starts one worker process responsible for building a single
// recipe end to end (C6 runs inside it) and returns a handle the scheduler
// can wait on and, on failure, forcefully terminate. Implementations own
// the whole worker process tree (a recipe's pipeline steps are the
// worker's own children), so killGroup on the returned pid must reach all
// of them.
//
// cmd/cook supplies the real implementation (re-exec of the cook binary
// itself); tests supply fakes that start no process at all and return a
// made-up pid with a wait func that reports success or failure, keeping
// the scheduler itself decoupled from how a "worker process" is actually
// produced.
type WorkerSpawner func(r *Recipe) (pid int, wait func() error, err error)

// Engine drives one build invocation: cycle/readiness analysis followed by
// the bounded-parallel dispatch loop (C5/C7/C8).
type Engine struct {
	Cookbook *Cookbook
	Target   *Recipe
	MaxCooks int // concurrency bound N, >= 1
	Spawn    WorkerSpawner
	Verbose  bool
}

// workerHandle tracks one in-flight worker: the recipe it is building and
// enough to terminate it forcefully if some sibling worker fails.
type workerHandle struct {
	recipe *Recipe
	pid    int
}

// workerDone is posted by a worker's supervisor goroutine exactly once,
// when that worker's process has been reaped. This channel receive is the
// Go-idiomatic replacement for spec.md §5's signal-mask-and-wait
// primitive: the scheduler goroutine blocks here, and only here, so a
// recipe's dependents are never considered ready until the parent has
// synchronously observed that recipe's exit status (spec.md Testable
// Property P2).
type workerDone struct {
	recipe *Recipe
	err    error
}

// Run performs cycle detection (C2), computes the initial ready set (C3),
// then drives the scheduling loop (C4 <-> C5 <-> C7) until every recipe in
// the target's closure is Done, or aborts the whole build the first time a
// worker fails (C8). It implements spec.md §4.5, §4.7, §4.8 and §5; the
// task runner of §4.6 runs inside each worker (see RunRecipe).
func (e *Engine) Run() error {
	if e.MaxCooks < 1 {
		return &ArgumentError{Msg: fmt.Sprintf("invalid concurrency bound %d", e.MaxCooks)}
	}

	if _, err := DetectCycles(e.Target); err != nil {
		return err
	}

	var queue Queue
	leaves, err := InitialFrontier(e.Target)
	if err != nil {
		return err
	}
	for _, r := range leaves {
		r.State = Ready
		queue.Push(r)
	}

	completed := make(map[*Recipe]bool)
	inFlight := make(map[int]*workerHandle)
	doneCh := make(chan workerDone)
	active := 0

	dispatch := func(r *Recipe) error {
		pid, wait, err := e.Spawn(r)
		if err != nil {
			return &WorkerSpawnError{Recipe: r.Name, Err: err}
		}
		r.State = Running
		r.WorkerID = pid
		inFlight[pid] = &workerHandle{recipe: r, pid: pid}
		active++
		if e.Verbose {
			log.Printf("cook: dispatched %q (pid %d), %d active", r.Name, pid, active)
		}
		go func() {
			doneCh <- workerDone{recipe: r, err: wait()}
		}()
		return nil
	}

	abort := func(cause error) error {
		for _, h := range inFlight {
			_ = killGroup(h.pid)
			h.recipe.State = Cancelled
		}
		for range inFlight {
			<-doneCh // drain best-effort; statuses are ignored
		}
		return cause
	}

	for {
		for !queue.Empty() && active < e.MaxCooks {
			r := queue.PopFront()
			if err := dispatch(r); err != nil {
				return abort(err)
			}
		}

		if queue.Empty() && active == 0 {
			return nil
		}

		wd := <-doneCh // the single suspension point (spec.md §5)
		active--
		delete(inFlight, wd.recipe.WorkerID)

		if wd.err != nil {
			wd.recipe.State = Cancelled
			return abort(&WorkerFailureError{Recipe: wd.recipe.Name, Err: wd.err})
		}

		wd.recipe.State = Done
		completed[wd.recipe] = true
		if e.Verbose {
			log.Printf("cook: %q done, %d active, %d queued", wd.recipe.Name, active, queue.Len())
		}
		saturate(wd.recipe, e.Target, completed, &queue)
	}
}

// saturate implements §4.7's incremental readiness propagation: given a
// freshly completed recipe r, walk its dependents and enqueue any that just
// became ready (every DependsOn entry now in completed).
func saturate(r, target *Recipe, completed map[*Recipe]bool, queue *Queue) {
	queue.Remove(r) // defensive; normally r is not still queued (spec.md §9)

	var stack []*Recipe
	for _, d := range r.Dependents {
		if completed[d] {
			continue
		}
		if !ReachesTarget(d, target) {
			continue
		}
		stack = append(stack, d)
	}

	visited := make(map[*Recipe]bool)
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[x] {
			continue
		}
		visited[x] = true

		ready := true
		for _, dep := range x.DependsOn {
			if !completed[dep] {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}

		x.State = Ready
		queue.Push(x)
		for _, d := range x.Dependents {
			if !visited[d] {
				stack = append(stack, d)
			}
		}
	}
}

// SelfReexecSpawner returns a WorkerSpawner that builds one recipe by
// re-executing the running binary with the hidden "__build_one__"
// subcommand cmd/cook installs (Go has no fork(); self-re-exec is the
// Go-native stand-in — see SPEC_FULL.md's Teacher section). Each worker
// process joins its own process group so killGroup can reach any pipeline
// children it has spawned in turn.
func SelfReexecSpawner(exePath, cookbookPath string) WorkerSpawner {
	return func(r *Recipe) (int, func() error, error) {
		cmd := exec.Command(exePath, "__build_one__", "-f", cookbookPath, r.Name)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		joinProcessGroup(cmd, 0, 0)

		if err := cmd.Start(); err != nil {
			return 0, nil, err
		}
		return cmd.Process.Pid, cmd.Wait, nil
	}
}
