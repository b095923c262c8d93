package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/trustsim/trustsim/sim/trust"
)

// Broker maps unbound workloads onto already-created VMs using
// trust-tier prioritization plus round-robin retry.
//
// The round-robin cursor is owned by the broker instance and persists
// across MapWorkload calls (reset only at construction), so fairness
// is approximated over the sequence of mapping calls rather than
// within a single call. One broker per simulation run; never share a
// broker between concurrent runs.
type Broker struct {
	cursor int
}

// NewBroker creates a broker with its cursor at the start of the ring.
func NewBroker() *Broker {
	return &Broker{}
}

// MapWorkload resolves an unbound workload to a created VM.
//
// Candidate VMs are partitioned into three tiers by trust distance d
// from the workload's owner to the owner of the VM's host:
//
//	(a) d == securityLevel
//	(b) 0 < d < securityLevel (reachable)
//	(c) d == 0
//
// concatenated in that priority order. The scan starts at the
// persisted cursor, wraps around, and tries at most len(candidates)
// positions; the first VM with free capacity >= the workload's units
// wins. Exhaustion reports ErrUnplaceable.
//
// A workload already bound to a VM maps to that VM unchanged.
func (b *Broker) MapWorkload(w *Workload, created []*VM) (*VM, error) {
	if w.IsBoundToVM() {
		return w.VM(), nil
	}

	candidates := b.tieredCandidates(w, created)
	maxTries := len(candidates)
	for i := 0; i < maxTries; i++ {
		var vm *VM
		if b.cursor >= len(candidates) {
			// The ring shrank since the last call; clamp to the end
			// rather than resetting, so earlier positions keep their
			// turn on the next call.
			vm = candidates[len(candidates)-1]
		} else {
			vm = candidates[b.cursor]
		}
		if vm.FreeCapacity() >= w.Units() {
			logrus.Tracef("broker: workload %d (units=%d) mapped to VM %d (free=%d)",
				w.ID(), w.Units(), vm.ID(), vm.FreeCapacity())
			return vm, nil
		}
		b.cursor = (b.cursor + 1) % len(candidates)
	}

	logrus.Debugf("broker: workload %d (units=%d) not mappable to any of %d candidate VMs",
		w.ID(), w.Units(), len(candidates))
	return nil, fmt.Errorf("workload %d: %w", w.ID(), ErrUnplaceable)
}

// Bind maps the workload to the VM and stamps the VM's owner and
// security level from the workload. Only the VM's first bind stamps;
// later binds attach the workload without touching ownership.
func (b *Broker) Bind(w *Workload, vm *VM) {
	vm.BindOwner(w.Owner(), w.SecurityLevel())
	w.setVM(vm)
}

// tieredCandidates builds the prioritized candidate ring. VMs without
// a placed host, or whose host owner is unreachable from the workload
// owner, belong to no tier. A nil workload owner bypasses trust
// tiering entirely: every placed VM is a candidate in creation order.
func (b *Broker) tieredCandidates(w *Workload, created []*VM) []*VM {
	if w.Owner() == nil {
		placed := make([]*VM, 0, len(created))
		for _, vm := range created {
			if vm.Host() != nil {
				placed = append(placed, vm)
			}
		}
		return placed
	}

	var exact, closer, self []*VM
	for _, vm := range created {
		h := vm.Host()
		if h == nil || h.Owner() == nil {
			continue
		}
		d := w.Owner().DistanceTo(h.Owner())
		switch {
		case d == trust.Unreachable:
		case d == w.SecurityLevel() && d != 0:
			exact = append(exact, vm)
		case d > 0 && d < w.SecurityLevel():
			closer = append(closer, vm)
		case d == 0:
			self = append(self, vm)
		}
	}
	candidates := make([]*VM, 0, len(exact)+len(closer)+len(self))
	candidates = append(candidates, exact...)
	candidates = append(candidates, closer...)
	candidates = append(candidates, self...)
	return candidates
}
