package schedule

// findDependencyCycle looks for a dependency path that leads from startID
// back to itself. It returns the path (first and last element equal) or nil.
// Unresolvable ids are skipped.
func findDependencyCycle(startID string, all []Task) []string {
	graph := make(map[string][]string, len(all))
	for _, t := range all {
		graph[t.ID] = t.Dependencies
	}

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var walk func(id string, path []string) []string
	walk = func(id string, path []string) []string {
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, dep := range graph[id] {
			if _, ok := graph[dep]; !ok {
				continue
			}
			if recStack[dep] {
				if dep != startID {
					// a cycle not passing through startID is not ours to report
					continue
				}
				return append(append([]string(nil), path...), dep)
			}
			if !visited[dep] {
				if cycle := walk(dep, path); cycle != nil {
					return cycle
				}
			}
		}

		recStack[id] = false
		return nil
	}

	return walk(startID, nil)
}

// hierarchyConflict returns the first dependency of t that is one of its
// ancestors or descendants. Such a dependency can never be satisfied because
// a parent's range always covers its children's.
func hierarchyConflict(t Task, all []Task) (string, bool) {
	for _, dep := range t.Dependencies {
		if isAncestor(dep, t.ID, all) || isAncestor(t.ID, dep, all) {
			return dep, true
		}
	}
	return "", false
}
