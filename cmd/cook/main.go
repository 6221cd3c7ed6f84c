// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/halstead/cook"
	"github.com/halstead/cook/internal/cookfile"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "__build_one__" {
		os.Exit(runBuildOne(os.Args[2:]))
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cook: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("cook", flag.ContinueOnError)
	file := fs.String("f", "cookbook.ckb", "cookbook to read")
	maxCooks := fs.Int("c", 1, "maximum concurrent cooks")
	verbose := fs.Bool("v", false, "log dispatch/completion events")
	if err := fs.Parse(args); err != nil {
		return &cook.ArgumentError{Msg: err.Error()}
	}

	positional := fs.Args()
	if len(positional) > 1 {
		return &cook.ArgumentError{Msg: "at most one recipe may be named"}
	}
	if *maxCooks < 1 {
		return &cook.ArgumentError{Msg: fmt.Sprintf("-c must be positive, got %d", *maxCooks)}
	}

	cb, err := openCookbook(*file)
	if err != nil {
		return err
	}

	var target *cook.Recipe
	if len(positional) == 1 {
		t, ok := cb.Lookup(positional[0])
		if !ok {
			return &cook.RecipeNotFoundError{Name: positional[0]}
		}
		target = t
	} else {
		target = cb.FirstRecipe()
		if target == nil {
			return &cook.ArgumentError{Msg: "cookbook has no recipes"}
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating own executable: %w", err)
	}

	engine := &cook.Engine{
		Cookbook: cb,
		Target:   target,
		MaxCooks: *maxCooks,
		Spawn:    cook.SelfReexecSpawner(exe, *file),
		Verbose:  *verbose,
	}
	return engine.Run()
}

// runBuildOne is the hidden worker entrypoint: build exactly one named
// recipe's tasks (C6) in this process and return its exit code. This is
// what cook.SelfReexecSpawner re-execs the binary into.
func runBuildOne(args []string) int {
	fs := flag.NewFlagSet("cook __build_one__", flag.ContinueOnError)
	file := fs.String("f", "cookbook.ckb", "cookbook to read")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "cook: %s\n", err)
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "cook: __build_one__ requires exactly one recipe name")
		return 1
	}

	cb, err := openCookbook(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cook: %s\n", err)
		return 1
	}

	r, ok := cb.Lookup(fs.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "cook: %s\n", (&cook.RecipeNotFoundError{Name: fs.Arg(0)}).Error())
		return 1
	}

	if err := cook.RunRecipe(r); err != nil {
		fmt.Fprintf(os.Stderr, "cook: %s\n", err)
		return 1
	}
	return 0
}

func openCookbook(path string) (*cook.Cookbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()
	return cookfile.Parse(f)
}
