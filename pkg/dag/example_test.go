package dag_test

import (
	"errors"
	"fmt"

	"github.com/home-lang/pantry-sub014/pkg/dag"
)

func ExampleTopologicalSort() {
	order, err := dag.TopologicalSort([]dag.Dependency{
		{Name: "app", Deps: []string{"router", "store"}},
		{Name: "router", Deps: []string{"core"}},
		{Name: "store", Deps: []string{"core"}},
		{Name: "core"},
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(order)
	// Output:
	// [core router store app]
}

func ExampleTopologicalSort_cycle() {
	_, err := dag.TopologicalSort([]dag.Dependency{
		{Name: "a", Deps: []string{"b"}},
		{Name: "b", Deps: []string{"a"}},
	})
	fmt.Println(errors.Is(err, dag.ErrCircularDependency))
	fmt.Println(err)
	// Output:
	// true
	// circular dependency: a -> b -> a
}

func ExampleDAG_Sort() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app", Version: "1.0.0"})
	_ = g.AddNode(dag.Node{ID: "lib", Version: "2.3.1"})
	_ = g.AddNode(dag.Node{ID: "core", Version: "0.4.0"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	order, _ := g.Sort()
	fmt.Println(order)
	fmt.Println("Sources:", dag.NodeIDs(g.Sources()))
	// Output:
	// [core lib app]
	// Sources: [app]
}
