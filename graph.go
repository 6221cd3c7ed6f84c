// Copyright 2026 The cook Authors
// SPDX-License-Identifier: Apache-2.0

package cook

// visitMark is the traversal-local "visited" bit used by DetectCycles and
// InitialFrontier. It is never stored on Recipe: per spec.md §9's redesign
// note, the overloaded three-meaning state field is replaced by disjoint
// variants, and a DFS/walk's visited bit is one of those variants — scoped
// to the single traversal that needs it, not persisted on the Recipe.
type visitMark int

const (
	unvisited visitMark = iota
	visiting
	visited
)

// DetectCycles performs a depth-first search from target across DependsOn
// and returns the total count of recipes reachable from it (the build's
// total work) on success. It returns *CycleError for a self-loop or a back
// edge, and *DanglingDependencyError if a DependsOn entry is unresolved
// (nil). Implements C2.
func DetectCycles(target *Recipe) (int, error) {
	marks := make(map[*Recipe]visitMark)
	count := 0
	var path []string

	var dfs func(r *Recipe) error
	dfs = func(r *Recipe) error {
		marks[r] = visiting
		path = append(path, r.Name)
		count++

		for _, dep := range r.DependsOn {
			if dep == nil {
				return &DanglingDependencyError{Recipe: r.Name}
			}
			if dep == r {
				return &CycleError{Path: []string{r.Name, r.Name}}
			}
			switch marks[dep] {
			case unvisited:
				if err := dfs(dep); err != nil {
					return err
				}
			case visiting:
				return &CycleError{Path: cyclePath(path, dep.Name)}
			case visited:
				// already fully explored via another path; fine.
			}
		}

		marks[r] = visited
		path = path[:len(path)-1]
		return nil
	}

	err := dfs(target)
	return count, err
}

// cyclePath trims path down to the back-edge's target and closes the loop,
// e.g. path=[A B C], closing="B" -> [B C B].
func cyclePath(path []string, closing string) []string {
	for i, name := range path {
		if name == closing {
			cycle := append([]string{}, path[i:]...)
			return append(cycle, closing)
		}
	}
	return append(append([]string{}, path...), closing)
}

// InitialFrontier walks the transitive DependsOn-closure from target
// (iterative, stack-based) and returns the leaves (recipes with no
// DependsOn) in discovery order — the initial contents of the ready queue.
// Non-leaves are left Pending; they become Ready only as their dependencies
// complete (see saturate in scheduler.go). Implements C3.
func InitialFrontier(target *Recipe) ([]*Recipe, error) {
	marks := make(map[*Recipe]visitMark)
	var leaves []*Recipe

	stack := []*Recipe{target}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if marks[r] == visited {
			continue
		}
		marks[r] = visited

		if len(r.DependsOn) == 0 {
			leaves = append(leaves, r)
			continue
		}
		for _, dep := range r.DependsOn {
			if dep == nil {
				return nil, &DanglingDependencyError{Recipe: r.Name}
			}
			if marks[dep] == unvisited {
				stack = append(stack, dep)
			}
		}
	}

	if len(leaves) == 0 {
		return nil, &EmptyFrontierError{Target: target.Name}
	}
	return leaves, nil
}

// ReachesTarget reports whether r is in the transitive closure of target,
// tested by walking r's Dependents chain looking for target. It is the
// helper spec.md §4.7 requires so saturate can ignore recipes the cookbook
// contains outside the target's own subtree.
func ReachesTarget(r, target *Recipe) bool {
	if r == target {
		return true
	}
	marks := make(map[*Recipe]bool)
	stack := []*Recipe{r}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if marks[cur] {
			continue
		}
		marks[cur] = true
		for _, dep := range cur.Dependents {
			if dep == target {
				return true
			}
			if !marks[dep] {
				stack = append(stack, dep)
			}
		}
	}
	return false
}
