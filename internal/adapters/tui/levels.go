package tui

// levels assigns each module its dependency level: 0 for modules without
// upstream inside the plan, else one more than the deepest upstream.
// Upstream ids outside the plan are ignored. A cycle is cut where it is found.
func levels(modules []string, upstream map[string][]string) map[string]int {
	known := make(map[string]bool, len(modules))
	for _, m := range modules {
		known[m] = true
	}

	out := make(map[string]int, len(modules))
	visiting := make(map[string]bool)
	var visit func(id string) int
	visit = func(id string) int {
		if lvl, ok := out[id]; ok {
			return lvl
		}
		if visiting[id] {
			return -1
		}
		visiting[id] = true
		lvl := 0
		for _, up := range upstream[id] {
			if !known[up] {
				continue
			}
			lvl = max(lvl, visit(up)+1)
		}
		visiting[id] = false
		out[id] = lvl
		return lvl
	}
	for _, m := range modules {
		visit(m)
	}
	return out
}
