// Package depgraph builds the module dependency graph and computes its
// strongly-connected components in reverse-topological order (spec.md
// §4.6). The iterative, explicit-call-stack Tarjan's algorithm is
// grounded directly on the retrieved pack's
// services/trace/graph-analytics.go CyclicDependencies, generalized
// here to return every SCC (not only genuine cycles) since the fixed-
// point driver needs trivial singleton SCCs too.
package depgraph

// Graph is a directed, possibly-cyclic module reference graph: nodes
// are module names, edges are "references at least one function of".
type Graph struct {
	nodes map[string]bool
	out   map[string]map[string]bool // adjacency: module -> modules it references
	in    map[string]map[string]bool // inverse index
}

// ModuleRef is one parsed module's name and the set of module names it
// references, the minimal input internal/ingest hands to Build after
// parsing every source file.
type ModuleRef struct {
	Name       string
	References []string
}

// Build inserts one node per module and one edge per unique reference,
// ignoring references to modules outside the input set (those resolve
// via the registry instead, per spec.md §4.10).
func Build(modules []ModuleRef) *Graph {
	g := &Graph{
		nodes: make(map[string]bool, len(modules)),
		out:   make(map[string]map[string]bool, len(modules)),
		in:    make(map[string]map[string]bool, len(modules)),
	}
	for _, m := range modules {
		g.nodes[m.Name] = true
	}
	for _, m := range modules {
		for _, ref := range m.References {
			if !g.nodes[ref] || ref == m.Name {
				continue
			}
			if g.out[m.Name] == nil {
				g.out[m.Name] = map[string]bool{}
			}
			g.out[m.Name][ref] = true
			if g.in[ref] == nil {
				g.in[ref] = map[string]bool{}
			}
			g.in[ref][m.Name] = true
		}
	}
	return g
}

// Modules returns every node name in the graph.
func (g *Graph) Modules() []string {
	out := make([]string, 0, len(g.nodes))
	for m := range g.nodes {
		out = append(out, m)
	}
	return out
}

// References returns the modules m directly depends on.
func (g *Graph) References(m string) []string {
	refs := g.out[m]
	out := make([]string, 0, len(refs))
	for r := range refs {
		out = append(out, r)
	}
	return out
}

// SCC is one strongly-connected component: the module names it
// contains, plus whether it is "trivial" (a singleton with no
// self-loop — analyzed once) or not (a self-looping singleton or a
// multi-node component — requires fixpoint iteration, spec.md §4.6).
type SCC struct {
	Modules []string
	Trivial bool
}

// selfLoop reports whether m has an edge to itself. Build drops every
// same-module reference, so for a graph Build produced this is always
// false and every singleton SCC is trivial; module-level recursion
// within one module is left to internal/infer's Partial cache.
func (g *Graph) selfLoop(m string) bool {
	return g.out[m] != nil && g.out[m][m]
}
