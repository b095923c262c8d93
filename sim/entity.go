package sim

import "github.com/trustsim/trustsim/sim/trust"

// Host is the query surface the external engine exposes for each
// physical host. This core only reads from it; capacity arithmetic,
// activation, and VM residency are owned by the engine.
type Host interface {
	// ID identifies the host within one simulation run.
	ID() int
	// Owner returns the owning principal, or nil for an unowned host.
	Owner() *trust.Principal
	// IsActive reports whether the host participates in placement.
	IsActive() bool
	// CPUUtilization returns the CPU utilization fraction in [0,1]
	// as of the engine's latest sample.
	CPUUtilization() float64
	// FreeCapacity returns the number of free capacity units.
	FreeCapacity() int
	// IsSuitableFor is the engine's feasibility predicate: whether the
	// host can currently accept the VM at all (capacity, activation).
	IsSuitableFor(vm *VM) bool
	// VMs returns the VMs resident on the host.
	VMs() []*VM
	// VMsMigratingIn returns VMs with an inbound migration targeting
	// this host that has not finished yet.
	VMsMigratingIn() []*VM
}

// VM is a virtual machine. Ownership and the required security level
// are stamped exactly once, when the first workload binds to the VM,
// and are immutable afterwards.
type VM struct {
	id            int
	capacityUnits int
	freeUnits     int

	owner         *trust.Principal
	securityLevel int
	bound         bool

	host Host

	// InMigration is set by the engine while the VM is migrating out
	// of its current host.
	InMigration bool
}

// NewVM creates an unbound VM requiring capacityUnits host units.
func NewVM(id, capacityUnits int) *VM {
	return &VM{
		id:            id,
		capacityUnits: capacityUnits,
		freeUnits:     capacityUnits,
	}
}

// ID identifies the VM within one simulation run.
func (v *VM) ID() int {
	return v.id
}

// CapacityUnits returns the host capacity units the VM occupies.
func (v *VM) CapacityUnits() int {
	return v.capacityUnits
}

// FreeCapacity returns the VM capacity units not consumed by running
// workloads.
func (v *VM) FreeCapacity() int {
	return v.freeUnits
}

// Owner returns the owning principal, or nil before first bind.
func (v *VM) Owner() *trust.Principal {
	return v.owner
}

// SecurityLevel returns the security level stamped at first bind.
// Meaningless before Bound() reports true.
func (v *VM) SecurityLevel() int {
	return v.securityLevel
}

// Bound reports whether ownership has been stamped.
func (v *VM) Bound() bool {
	return v.bound
}

// BindOwner stamps the VM's owner and security level. Only the first
// call has any effect; the fields are immutable afterwards.
func (v *VM) BindOwner(owner *trust.Principal, securityLevel int) {
	if v.bound {
		return
	}
	v.owner = owner
	v.securityLevel = securityLevel
	v.bound = true
}

// Host returns the host the VM is placed on, or nil.
func (v *VM) Host() Host {
	return v.host
}

// SetHost records the VM's placement. Called by the engine when a
// placement decision or migration is applied.
func (v *VM) SetHost(h Host) {
	v.host = h
}

// Reserve consumes units of VM capacity for a starting workload.
// Returns false without side effects if the VM lacks the capacity.
func (v *VM) Reserve(units int) bool {
	if units > v.freeUnits {
		return false
	}
	v.freeUnits -= units
	return true
}

// Release returns units of VM capacity when a workload finishes.
func (v *VM) Release(units int) {
	v.freeUnits += units
	if v.freeUnits > v.capacityUnits {
		v.freeUnits = v.capacityUnits
	}
}

// VerifyHostSecurity reports whether the VM's owner tolerates the
// host's owner: trust distance must not exceed the VM's security
// level. A nil owner on either side bypasses the check.
func (v *VM) VerifyHostSecurity(h Host) bool {
	return trustAllows(v.owner, h.Owner(), v.securityLevel)
}

// Workload is a unit of work submitted by a principal. The owner is
// fixed at creation.
type Workload struct {
	id            int
	units         int
	owner         *trust.Principal
	securityLevel int

	vm *VM

	// StartTime is stamped by the accountant when the workload starts
	// running, and read back to compute the processing span at finish.
	StartTime int64
}

// NewWorkload creates a workload owned by owner (which may be nil),
// requiring units VM capacity units and tolerating hosts within
// securityLevel trust hops.
func NewWorkload(id, units int, owner *trust.Principal, securityLevel int) *Workload {
	return &Workload{
		id:            id,
		units:         units,
		owner:         owner,
		securityLevel: securityLevel,
	}
}

// ID identifies the workload within one simulation run.
func (w *Workload) ID() int {
	return w.id
}

// Units returns the required VM capacity units.
func (w *Workload) Units() int {
	return w.units
}

// Owner returns the owning principal, or nil.
func (w *Workload) Owner() *trust.Principal {
	return w.owner
}

// SecurityLevel returns the maximum tolerated trust distance to the
// hosting principal.
func (w *Workload) SecurityLevel() int {
	return w.securityLevel
}

// VM returns the VM the workload is bound to, or nil.
func (w *Workload) VM() *VM {
	return w.vm
}

// IsBoundToVM reports whether the workload has been mapped to a VM.
func (w *Workload) IsBoundToVM() bool {
	return w.vm != nil
}

func (w *Workload) setVM(vm *VM) {
	w.vm = vm
}

// VerifyHostSecurity reports whether the workload may run on a host:
// trust distance from the workload's owner to the host's owner must
// not exceed the workload's security level. A nil owner on either side
// bypasses the check.
func (w *Workload) VerifyHostSecurity(h Host) bool {
	return trustAllows(w.owner, h.Owner(), w.securityLevel)
}

// trustAllows implements the shared security check. The Unreachable
// sentinel is negative and would pass a "<=" comparison, so it is
// rejected explicitly.
func trustAllows(owner, hostOwner *trust.Principal, securityLevel int) bool {
	if owner == nil || hostOwner == nil {
		return true
	}
	d := owner.DistanceTo(hostOwner)
	return d != trust.Unreachable && d <= securityLevel
}
