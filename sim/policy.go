package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// HostFilter is an injectable placement filter applied on top of the
// engine's feasibility predicate.
type HostFilter func(vm *VM, h Host) bool

// HostRanker picks the preferred host from a non-empty candidate list.
// Rankers must be deterministic: equal-score ties resolve to the
// earlier host in candidate-list order.
type HostRanker func(vm *VM, candidates []Host) Host

// PlacementPolicy selects a host for a VM from a candidate list.
// The nothing-fits case is a normal outcome reported as
// ErrNoHostAvailable, never a panic.
type PlacementPolicy interface {
	Name() string
	FindHost(vm *VM, candidates []Host) (Host, error)
}

// placementPolicy is the single policy implementation. Variants differ
// only in the injected filter and rankers; there is no subclassing.
type placementPolicy struct {
	name string
	// filter applies only when the VM has an owner. Nil disables
	// trust filtering entirely.
	filter HostFilter
	// rank orders candidates that passed feasibility and filter.
	rank HostRanker
	// fallbackRank orders candidates for unowned VMs, where the trust
	// filter cannot apply.
	fallbackRank HostRanker
}

func (p *placementPolicy) Name() string {
	return p.name
}

func (p *placementPolicy) FindHost(vm *VM, candidates []Host) (Host, error) {
	feasible := make([]Host, 0, len(candidates))
	for _, h := range candidates {
		if h.IsSuitableFor(vm) {
			feasible = append(feasible, h)
		}
	}

	ranker := p.rank
	if vm.Owner() == nil || p.filter == nil {
		ranker = p.fallbackRank
	} else {
		passing := feasible[:0]
		for _, h := range feasible {
			if p.filter(vm, h) {
				passing = append(passing, h)
			}
		}
		feasible = passing
	}

	if len(feasible) == 0 {
		logrus.Debugf("%s: no host available for VM %d", p.name, vm.ID())
		return nil, fmt.Errorf("%s: vm %d: %w", p.name, vm.ID(), ErrNoHostAvailable)
	}

	chosen := ranker(vm, feasible)
	logrus.Tracef("%s: VM %d -> host %d (candidates=%d)", p.name, vm.ID(), chosen.ID(), len(feasible))
	return chosen, nil
}

// TrustFilter admits hosts whose owner is within the VM's security
// level of the VM's owner. Hosts with a nil owner pass (the check is
// bypassed when either side is unowned).
func TrustFilter(vm *VM, h Host) bool {
	return vm.VerifyHostSecurity(h)
}

// RankMaxUtilization prefers the busiest host. Packing busy hosts is
// intentional: it provokes overload-migration scenarios.
func RankMaxUtilization(_ *VM, candidates []Host) Host {
	best := candidates[0]
	for _, h := range candidates[1:] {
		if h.CPUUtilization() > best.CPUUtilization() {
			best = h
		}
	}
	return best
}

// RankMinOwnerCredit prefers the host whose owner has the lowest
// social credit. Unowned hosts rank as credit 0. Equal-credit ties
// resolve to the earlier candidate.
func RankMinOwnerCredit(_ *VM, candidates []Host) Host {
	best := candidates[0]
	bestCredit := ownerCredit(best)
	for _, h := range candidates[1:] {
		if c := ownerCredit(h); c < bestCredit {
			best = h
			bestCredit = c
		}
	}
	return best
}

// RankFewestVMs prefers the host with the fewest placed VMs.
func RankFewestVMs(_ *VM, candidates []Host) Host {
	best := candidates[0]
	for _, h := range candidates[1:] {
		if len(h.VMs()) < len(best.VMs()) {
			best = h
		}
	}
	return best
}

func ownerCredit(h Host) int {
	if h.Owner() == nil {
		return 0
	}
	return h.Owner().Credit
}
