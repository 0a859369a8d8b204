package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCircularDependency is matched by every [*CycleError].
var ErrCircularDependency = errors.New("circular dependency")

// Dependency is the input of [TopologicalSort]: a package and the names it
// depends on. Ranges are already resolved at this point.
type Dependency struct {
	Name    string
	Version string
	Deps    []string
}

// CycleError reports the packages that could not be ordered.
type CycleError struct {
	// Nodes lists every package left unordered, in input order. It includes
	// packages that only depend on a cycle without being part of one.
	Nodes []string
	// Path is one concrete cycle, first and last element equal.
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%v: %s", ErrCircularDependency, strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("%v among %s", ErrCircularDependency, strings.Join(e.Nodes, ", "))
}

// Is makes errors.Is(err, ErrCircularDependency) hold.
func (e *CycleError) Is(target error) bool {
	return target == ErrCircularDependency
}

// TopologicalSort orders nodes so that each appears after everything it
// depends on, using Kahn's algorithm.
//
// Nodes whose in-degree drops to zero at the same time are emitted in input
// order, so the result is a pure function of the input slice. Dependencies on
// names outside the input are ignored. If any node cannot be ordered the call
// returns a [*CycleError] and no partial order. Empty input yields an empty
// result.
func TopologicalSort(nodes []Dependency) ([]string, error) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if n.Name == "" {
			return nil, ErrInvalidNodeID
		}
		if _, dup := index[n.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.Name)
		}
		index[n.Name] = i
	}

	inDegree := make([]int, len(nodes))
	dependents := make([][]int, len(nodes))
	for i, n := range nodes {
		for _, dep := range n.Deps {
			j, ok := index[dep]
			if !ok {
				continue
			}
			inDegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	queue := make([]int, 0, len(nodes))
	for i := range nodes {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, nodes[i].Name)
		for _, k := range dependents[i] {
			inDegree[k]--
			if inDegree[k] == 0 {
				queue = append(queue, k)
			}
		}
	}

	if len(order) < len(nodes) {
		var stuck []string
		for i, n := range nodes {
			if inDegree[i] > 0 {
				stuck = append(stuck, n.Name)
			}
		}
		return nil, &CycleError{Nodes: stuck, Path: findCycle(nodes)}
	}
	return order, nil
}
