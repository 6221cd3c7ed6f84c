// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

package cookfile

import (
	"strings"
	"testing"

	"github.com/halstead/cook"
)

func TestParseLinksDepsAndTasks(t *testing.T) {
	src := `
recipe web:
	deps: compile assets
	task:
		in: spec.json
		out: build/web.bin
		| protoc spec.json
		| gen web
	task:
		| echo done

recipe compile:
	task:
		| echo compiling

recipe assets:
	task:
		| echo bundling
`
	cb, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}

	web, ok := cb.Lookup("web")
	if !ok {
		t.Fatal("Lookup(web) not found")
	}
	compile, ok := cb.Lookup("compile")
	if !ok {
		t.Fatal("Lookup(compile) not found")
	}
	assets, ok := cb.Lookup("assets")
	if !ok {
		t.Fatal("Lookup(assets) not found")
	}

	if len(web.DependsOn) != 2 {
		t.Fatalf("web.DependsOn = %v, want 2 entries", web.DependsOn)
	}
	deps := map[*cook.Recipe]bool{web.DependsOn[0]: true, web.DependsOn[1]: true}
	if !deps[compile] || !deps[assets] {
		t.Fatalf("web.DependsOn = %v, want [compile, assets]", web.DependsOn)
	}
	if len(compile.Dependents) != 1 || compile.Dependents[0] != web {
		t.Fatalf("compile.Dependents = %v, want [web]", compile.Dependents)
	}

	if len(web.Tasks) != 2 {
		t.Fatalf("len(web.Tasks) = %d, want 2", len(web.Tasks))
	}
	first := web.Tasks[0]
	if first.InputFile != "spec.json" || first.OutputFile != "build/web.bin" {
		t.Fatalf("web.Tasks[0] in/out = %q/%q, want spec.json/build/web.bin", first.InputFile, first.OutputFile)
	}
	if len(first.Steps) != 2 {
		t.Fatalf("len(web.Tasks[0].Steps) = %d, want 2", len(first.Steps))
	}
	wantArgv0 := []string{"protoc", "spec.json"}
	for i, a := range wantArgv0 {
		if first.Steps[0].Argv[i] != a {
			t.Fatalf("web.Tasks[0].Steps[0].Argv = %v, want %v", first.Steps[0].Argv, wantArgv0)
		}
	}

	second := web.Tasks[1]
	if second.InputFile != "" || second.OutputFile != "" {
		t.Fatalf("web.Tasks[1] in/out = %q/%q, want both empty", second.InputFile, second.OutputFile)
	}
	if len(second.Steps) != 1 || second.Steps[0].Argv[0] != "echo" {
		t.Fatalf("web.Tasks[1].Steps = %v, want a single echo step", second.Steps)
	}
}

// TestParseDanglingDependencyBecomesNil covers the contract documented on
// Parse: a deps: name absent from the file is a nil DependsOn entry, not a
// parse error, so the engine's own cycle detector is the one that surfaces
// it as a *cook.DanglingDependencyError.
func TestParseDanglingDependencyBecomesNil(t *testing.T) {
	src := `
recipe web:
	deps: nonexistent
	task:
		| echo hi
`
	cb, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}
	web, ok := cb.Lookup("web")
	if !ok {
		t.Fatal("Lookup(web) not found")
	}
	if len(web.DependsOn) != 1 || web.DependsOn[0] != nil {
		t.Fatalf("web.DependsOn = %v, want [nil]", web.DependsOn)
	}

	if _, err := cook.DetectCycles(web); err == nil {
		t.Fatal("DetectCycles() = nil, want *cook.DanglingDependencyError")
	}
}

func TestParseDuplicateRecipeNameFails(t *testing.T) {
	src := `
recipe web:
	task:
		| echo one

recipe web:
	task:
		| echo two
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("Parse() = nil, want duplicate-recipe error")
	}
}

func TestParseTaskWithNoStepsFails(t *testing.T) {
	src := `
recipe web:
	task:
		in: spec.json
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("Parse() = nil, want error for a task with no pipeline steps")
	}
}

func TestParseUnknownTopLevelLineFails(t *testing.T) {
	src := `not a recipe line`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatal("Parse() = nil, want error for an unrecognized top-level line")
	}
}

func TestParseBackslashContinuation(t *testing.T) {
	src := "recipe web:\n\ttask:\n\t\t| echo \\\nhi\n"
	cb, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}
	web, ok := cb.Lookup("web")
	if !ok {
		t.Fatal("Lookup(web) not found")
	}
	argv := web.Tasks[0].Steps[0].Argv
	want := []string{"echo", "hi"}
	if len(argv) != len(want) || argv[0] != want[0] || argv[1] != want[1] {
		t.Fatalf("Argv = %v, want %v", argv, want)
	}
}
