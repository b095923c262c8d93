package sim

import (
	"fmt"
	"testing"

	"github.com/trustsim/trustsim/sim/trust"
)

// stubHost is a minimal Host implementation standing in for the
// external engine's host surface.
type stubHost struct {
	id          int
	owner       *trust.Principal
	active      bool
	util        float64
	freeUnits   int
	vms         []*VM
	migratingIn []*VM
}

func newStubHost(id int, owner *trust.Principal) *stubHost {
	return &stubHost{id: id, owner: owner, active: true, freeUnits: 8}
}

func (h *stubHost) ID() int                 { return h.id }
func (h *stubHost) Owner() *trust.Principal { return h.owner }
func (h *stubHost) IsActive() bool          { return h.active }
func (h *stubHost) CPUUtilization() float64 { return h.util }
func (h *stubHost) FreeCapacity() int       { return h.freeUnits }
func (h *stubHost) VMs() []*VM              { return h.vms }
func (h *stubHost) VMsMigratingIn() []*VM   { return h.migratingIn }
func (h *stubHost) IsSuitableFor(vm *VM) bool {
	return h.active && h.freeUnits >= vm.CapacityUnits()
}

// buildChain builds a trust graph over a chain of principals
// "P0"-"P1"-...-"Pn-1" and returns the population.
func buildChain(t *testing.T, n int) []*trust.Principal {
	t.Helper()
	pop := make([]*trust.Principal, n)
	for i := range pop {
		pop[i] = trust.NewPrincipal(i, fmt.Sprintf("P%d", i))
	}
	var edges []trust.Edge
	for i := 0; i+1 < n; i++ {
		edges = append(edges, trust.Edge{A: pop[i], B: pop[i+1]})
	}
	if _, err := trust.Build(pop, edges); err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return pop
}

// boundVM creates a VM already stamped with an owner and security level.
func boundVM(id, units int, owner *trust.Principal, securityLevel int) *VM {
	vm := NewVM(id, units)
	vm.BindOwner(owner, securityLevel)
	return vm
}
