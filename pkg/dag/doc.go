// Package dag orders resolved packages for installation.
//
// # Overview
//
// Once every range has been resolved to an exact version, the resolver has a
// set of packages and, for each, the names it depends on. Installing them
// safely needs an order in which every package comes after its dependencies.
//
// [TopologicalSort] computes that order with Kahn's algorithm. Ready nodes are
// processed first-in first-out in input order, so the same input always gives
// the same output; reproducible installs depend on this.
//
//	order, err := dag.TopologicalSort([]dag.Dependency{
//	    {Name: "a"},
//	    {Name: "b", Deps: []string{"a"}},
//	})
//	// order == [a b]
//
// A cycle fails the whole call with a [*CycleError], which matches
// [ErrCircularDependency] under errors.Is. No partial order is returned.
//
// # Building graphs
//
// [DAG] is an insertion-ordered graph the resolver fills in as it discovers
// packages. [DAG.Sort] delegates to TopologicalSort and [DAG.FindCycle]
// returns a concrete cycle path for error messages. The render package draws
// a DAG as DOT or SVG.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. TopologicalSort is a pure
// function and may be called from any goroutine.
package dag
