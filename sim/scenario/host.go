package scenario

import (
	"github.com/trustsim/trustsim/sim"
	"github.com/trustsim/trustsim/sim/trust"
)

// Host is the scenario engine's concrete host. It implements the
// sim.Host query surface and owns the capacity arithmetic the decision
// core deliberately does not.
type Host struct {
	id            int
	owner         *trust.Principal
	active        bool
	capacityUnits int
	freeUnits     int

	vms         []*sim.VM
	migratingIn []*sim.VM

	// util is refreshed by the engine on each clock tick, so decisions
	// within one tick all see the same sample.
	util float64
}

// NewHost creates an active host with the given capacity.
func NewHost(id int, owner *trust.Principal, capacityUnits int) *Host {
	return &Host{
		id:            id,
		owner:         owner,
		active:        true,
		capacityUnits: capacityUnits,
		freeUnits:     capacityUnits,
	}
}

func (h *Host) ID() int                 { return h.id }
func (h *Host) Owner() *trust.Principal { return h.owner }
func (h *Host) IsActive() bool          { return h.active }
func (h *Host) CPUUtilization() float64 { return h.util }
func (h *Host) FreeCapacity() int       { return h.freeUnits }
func (h *Host) VMs() []*sim.VM          { return h.vms }
func (h *Host) VMsMigratingIn() []*sim.VM {
	return h.migratingIn
}

// IsSuitableFor reports whether the host can accept the VM right now.
// Capacity already promised to inbound migrations is counted as used.
func (h *Host) IsSuitableFor(vm *sim.VM) bool {
	reserved := 0
	for _, in := range h.migratingIn {
		reserved += in.CapacityUnits()
	}
	return h.active && h.freeUnits-reserved >= vm.CapacityUnits()
}

// SetActive switches the host in or out of placement.
func (h *Host) SetActive(active bool) {
	h.active = active
}

// CapacityUnits returns the host's total capacity.
func (h *Host) CapacityUnits() int {
	return h.capacityUnits
}

// installVM places a VM on the host, consuming capacity.
func (h *Host) installVM(vm *sim.VM) bool {
	if h.freeUnits < vm.CapacityUnits() {
		return false
	}
	h.freeUnits -= vm.CapacityUnits()
	h.vms = append(h.vms, vm)
	vm.SetHost(h)
	return true
}

// removeVM takes a VM off the host, releasing capacity.
func (h *Host) removeVM(vm *sim.VM) {
	for i, v := range h.vms {
		if v == vm {
			h.vms = append(h.vms[:i], h.vms[i+1:]...)
			h.freeUnits += vm.CapacityUnits()
			return
		}
	}
}

// expectMigration registers an inbound migration.
func (h *Host) expectMigration(vm *sim.VM) {
	h.migratingIn = append(h.migratingIn, vm)
}

// completeMigration clears the inbound registration.
func (h *Host) completeMigration(vm *sim.VM) {
	for i, v := range h.migratingIn {
		if v == vm {
			h.migratingIn = append(h.migratingIn[:i], h.migratingIn[i+1:]...)
			return
		}
	}
}

// refreshUtilization recomputes the utilization sample from busy VM
// capacity. Busy units are the capacity units workloads have reserved
// on resident VMs.
func (h *Host) refreshUtilization() {
	if h.capacityUnits == 0 {
		h.util = 0
		return
	}
	busy := 0
	for _, vm := range h.vms {
		busy += vm.CapacityUnits() - vm.FreeCapacity()
	}
	h.util = float64(busy) / float64(h.capacityUnits)
}
