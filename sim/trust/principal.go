package trust

// Principal is a resource owner participating in the social trust graph.
// Identity and friendships are fixed once the graph is built; credit and
// the workload counters mutate as the external engine delivers lifecycle
// events.
type Principal struct {
	id        int
	name      string
	neighbors []*Principal
	distances map[*Principal]int

	// Credit is the mutable social credit score, adjusted on workload
	// completion and consumed by credit-aware placement ranking.
	Credit int

	// Workload counters for end-of-run reporting.
	Submitted      int   // workloads submitted by this principal
	Processed      int   // workloads processed on this principal's hosts
	ProcessingTime int64 // cumulative processing ticks across finished workloads
}

// NewPrincipal creates a Principal with no friendships.
func NewPrincipal(id int, name string) *Principal {
	return &Principal{id: id, name: name}
}

// ID returns the principal's numeric identity.
func (p *Principal) ID() int {
	return p.id
}

// Name returns the principal's display name.
func (p *Principal) Name() string {
	return p.name
}

// Neighbors returns the principal's direct friends.
func (p *Principal) Neighbors() []*Principal {
	return p.neighbors
}

// befriend records a symmetric friendship between p and other.
// Duplicate edges are collapsed; self-edges are ignored (distance to
// self is always 0 regardless).
func (p *Principal) befriend(other *Principal) {
	if p == other {
		return
	}
	if !p.hasNeighbor(other) {
		p.neighbors = append(p.neighbors, other)
	}
	if !other.hasNeighbor(p) {
		other.neighbors = append(other.neighbors, p)
	}
}

func (p *Principal) hasNeighbor(other *Principal) bool {
	for _, n := range p.neighbors {
		if n == other {
			return true
		}
	}
	return false
}

// DistanceTo returns the hop distance from p to other, or Unreachable if
// no path exists. Valid only after the graph containing p has been built;
// before that every pair reports Unreachable.
func (p *Principal) DistanceTo(other *Principal) int {
	if p == other {
		return 0
	}
	if d, ok := p.distances[other]; ok {
		return d
	}
	return Unreachable
}
