package trust

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makePopulation(names ...string) []*Principal {
	pop := make([]*Principal, len(names))
	for i, name := range names {
		pop[i] = NewPrincipal(i, name)
	}
	return pop
}

// chainGraph builds A-B-C-D-E (a 5-node chain).
func chainGraph(t *testing.T) (*Graph, []*Principal) {
	t.Helper()
	pop := makePopulation("A", "B", "C", "D", "E")
	edges := []Edge{
		{pop[0], pop[1]},
		{pop[1], pop[2]},
		{pop[2], pop[3]},
		{pop[3], pop[4]},
	}
	g, err := Build(pop, edges)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return g, pop
}

// bruteForceDistance enumerates all simple paths between src and dst and
// returns the minimum hop count, or Unreachable. Exponential, test-only.
func bruteForceDistance(src, dst *Principal) int {
	best := Unreachable
	var walk func(at *Principal, visited map[*Principal]bool, hops int)
	walk = func(at *Principal, visited map[*Principal]bool, hops int) {
		if at == dst {
			if best == Unreachable || hops < best {
				best = hops
			}
			return
		}
		visited[at] = true
		for _, n := range at.Neighbors() {
			if !visited[n] {
				walk(n, visited, hops+1)
			}
		}
		delete(visited, at)
	}
	walk(src, map[*Principal]bool{}, 0)
	return best
}

func TestBuild_ChainDistancesFromA(t *testing.T) {
	// GIVEN the 5-node chain A-B-C-D-E
	g, pop := chainGraph(t)

	// THEN distances from A are 0,1,2,3,4 in chain order
	for i, p := range pop {
		if got := g.Distance(pop[0], p); got != i {
			t.Errorf("distance(A,%s) = %d, want %d", p.Name(), got, i)
		}
	}

	// AND every pair matches brute-force path enumeration
	for _, a := range pop {
		for _, b := range pop {
			want := bruteForceDistance(a, b)
			if got := g.Distance(a, b); got != want {
				t.Errorf("distance(%s,%s) = %d, brute force says %d", a.Name(), b.Name(), got, want)
			}
		}
	}
}

func TestBuild_DistanceIsReflexiveAndSymmetric(t *testing.T) {
	pop := makePopulation("A", "B", "C", "D", "E", "F")
	edges := []Edge{
		{pop[0], pop[1]},
		{pop[1], pop[2]},
		{pop[0], pop[2]},
		{pop[3], pop[4]},
	}
	g, err := Build(pop, edges)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	for _, a := range pop {
		if got := g.Distance(a, a); got != 0 {
			t.Errorf("distance(%s,%s) = %d, want 0", a.Name(), a.Name(), got)
		}
		for _, b := range pop {
			if g.Distance(a, b) != g.Distance(b, a) {
				t.Errorf("distance(%s,%s) != distance(%s,%s)", a.Name(), b.Name(), b.Name(), a.Name())
			}
		}
	}
}

func TestBuild_DisconnectedPairsReportUnreachable(t *testing.T) {
	// GIVEN two components {A,B} and {C,D}, plus isolated E
	pop := makePopulation("A", "B", "C", "D", "E")
	edges := []Edge{
		{pop[0], pop[1]},
		{pop[2], pop[3]},
	}
	g, err := Build(pop, edges)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	cross := [][2]int{{0, 2}, {0, 3}, {1, 2}, {1, 3}, {0, 4}, {2, 4}}
	for _, pair := range cross {
		a, b := pop[pair[0]], pop[pair[1]]
		if got := g.Distance(a, b); got != Unreachable {
			t.Errorf("distance(%s,%s) = %d, want Unreachable", a.Name(), b.Name(), got)
		}
	}

	// Reachable pairs still carry finite distances.
	assert.Equal(t, 1, g.Distance(pop[0], pop[1]))
	assert.Equal(t, 1, g.Distance(pop[2], pop[3]))
}

func TestBuild_EmptyPopulation(t *testing.T) {
	_, err := Build(nil, nil)
	if !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("expected ErrInvalidGraph, got %v", err)
	}
}

func TestBuild_DanglingEdge(t *testing.T) {
	pop := makePopulation("A", "B")
	outsider := NewPrincipal(99, "X")
	_, err := Build(pop, []Edge{{pop[0], outsider}})
	if !errors.Is(err, ErrInvalidGraph) {
		t.Fatalf("expected ErrInvalidGraph, got %v", err)
	}
}

func TestBuild_DuplicateAndSelfEdgesCollapse(t *testing.T) {
	pop := makePopulation("A", "B")
	edges := []Edge{
		{pop[0], pop[1]},
		{pop[1], pop[0]},
		{pop[0], pop[0]},
	}
	g, err := Build(pop, edges)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	assert.Len(t, pop[0].Neighbors(), 1)
	assert.Len(t, pop[1].Neighbors(), 1)
	assert.Equal(t, 1, g.Distance(pop[0], pop[1]))
	assert.Equal(t, 0, g.Distance(pop[0], pop[0]))
}

func TestBuild_LargerRandomStructureAgainstBruteForce(t *testing.T) {
	// A fixed small mesh with a shortcut: BFS must find the 2-hop route
	// A-C-E rather than the 4-hop chain.
	pop := makePopulation("A", "B", "C", "D", "E")
	edges := []Edge{
		{pop[0], pop[1]},
		{pop[1], pop[2]},
		{pop[2], pop[3]},
		{pop[3], pop[4]},
		{pop[0], pop[2]},
		{pop[2], pop[4]},
	}
	g, err := Build(pop, edges)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	assert.Equal(t, 2, g.Distance(pop[0], pop[4]))
	for _, a := range pop {
		for _, b := range pop {
			want := bruteForceDistance(a, b)
			assert.Equal(t, want, g.Distance(a, b),
				fmt.Sprintf("distance(%s,%s)", a.Name(), b.Name()))
		}
	}
}
