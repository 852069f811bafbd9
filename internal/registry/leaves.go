package registry

// ResolveToLeaves follows redirect_to chains breadth-first from mfa
// until every reached node is a terminal (no redirect, or absent from
// the registry — an absent entry is, by definition, not a further
// wrapper). Cycles (a wrapper that directly or transitively calls
// itself) are detected and reported via cycleDetected; resolution then
// terminates with whatever leaves were reached so far (spec.md §4.3,
// §4.10 "RegistryCycle"). The BFS frontier is bounded by r.Size(),
// matching spec.md's "maximum follow depth bounded by number of
// registry entries".
func (r *Registry) ResolveToLeaves(mfa MFA) (leaves map[MFA]bool, cycleDetected bool) {
	d, ok := r.entries[mfa]
	if !ok || d.Redirect == nil {
		return map[MFA]bool{mfa: true}, false
	}
	return r.resolveToLeaves(d.Redirect, map[MFA]bool{mfa: true})
}

// resolveToLeaves is the shared BFS worker: visited accumulates every
// MFA seen so far across the whole chase (seeded by the caller with
// the wrapper(s) already on the path), so a self- or mutually-
// recursive redirect chain is detected the moment it revisits a node.
func (r *Registry) resolveToLeaves(frontier []MFA, visited map[MFA]bool) (map[MFA]bool, bool) {
	leaves := map[MFA]bool{}
	cycle := false
	queue := append([]MFA(nil), frontier...)
	maxSteps := r.Size() + len(frontier) + 1

	for steps := 0; len(queue) > 0 && steps < maxSteps; steps++ {
		next := queue[0]
		queue = queue[1:]

		if visited[next] {
			cycle = true
			continue
		}
		visited[next] = true

		d, ok := r.entries[next]
		if !ok || d.Redirect == nil {
			// Invariant (spec.md §3 "A wrapper's resolved leaves do not
			// include the wrapper itself"): a redirect target is only a
			// leaf if it isn't itself back on the path we started from.
			leaves[next] = true
			continue
		}
		queue = append(queue, d.Redirect...)
	}

	if len(queue) > 0 {
		// Hit the step bound before the frontier drained: treat whatever
		// remains unresolved as part of the cycle/divergence report.
		cycle = true
	}

	return leaves, cycle
}
