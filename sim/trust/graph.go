// Package trust models the social trust graph between resource owners.
//
// The graph is built once at startup from a population of principals and
// a set of symmetric friendship edges. Building runs one unweighted
// breadth-first traversal per principal, so every pair of principals
// carries a precomputed hop distance afterwards (O(V·(V+E)) total).
// Distances are plain hop counts: edges carry no weights, and the
// minimum distance between two principals does not depend on traversal
// order.
package trust

import (
	"errors"
	"fmt"
)

// Unreachable is the reserved distance for principal pairs with no
// connecting path. All real distances are non-negative, so the sentinel
// can never satisfy a security-level comparison.
const Unreachable = -1

// ErrInvalidGraph reports a graph that cannot be built: an empty
// population, or an edge referencing a principal outside the population.
// Fatal to startup; a partially built graph is never returned.
var ErrInvalidGraph = errors.New("invalid trust graph")

// Edge declares a symmetric friendship between two principals.
type Edge struct {
	A, B *Principal
}

// Graph is the immutable all-pairs trust distance structure over a
// population of principals.
type Graph struct {
	population []*Principal
}

// Build constructs the friendship adjacency from edges and computes hop
// distances from every principal to every other principal.
func Build(population []*Principal, edges []Edge) (*Graph, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrInvalidGraph)
	}
	members := make(map[*Principal]bool, len(population))
	for _, p := range population {
		if p == nil {
			return nil, fmt.Errorf("%w: nil principal in population", ErrInvalidGraph)
		}
		members[p] = true
	}
	for i, e := range edges {
		if !members[e.A] || !members[e.B] {
			return nil, fmt.Errorf("%w: edge %d references a principal outside the population", ErrInvalidGraph, i)
		}
	}

	for _, e := range edges {
		e.A.befriend(e.B)
	}
	for _, p := range population {
		p.distances = bfsFrom(p, len(population))
	}
	return &Graph{population: population}, nil
}

// Population returns the principals the graph was built over.
func (g *Graph) Population() []*Principal {
	return g.population
}

// Distance returns the hop distance between a and b, or Unreachable.
func (g *Graph) Distance(a, b *Principal) int {
	return a.DistanceTo(b)
}

// bfsFrom computes hop distances from src to every reachable principal.
// Principals absent from the returned map are unreachable from src.
func bfsFrom(src *Principal, sizeHint int) map[*Principal]int {
	dist := make(map[*Principal]int, sizeHint)
	dist[src] = 0
	queue := []*Principal{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, n := range u.neighbors {
			if _, seen := dist[n]; !seen {
				dist[n] = dist[u] + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}
