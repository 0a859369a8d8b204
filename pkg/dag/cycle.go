package dag

import "slices"

func findCycle(nodes []Dependency) []string {
	const (
		white = iota
		gray
		black
	)

	deps := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		deps[n.Name] = n.Deps
	}

	color := make(map[string]int, len(nodes))
	var stack, cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range deps[id] {
			if _, known := deps[child]; !known {
				continue
			}
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(stack, child)
				cycle = append(slices.Clone(stack[start:]), child)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, n := range nodes {
		if color[n.Name] == white && dfs(n.Name) {
			return cycle
		}
	}
	return nil
}
