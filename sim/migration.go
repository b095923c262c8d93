package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// MigrationRequest asks the external engine to migrate a VM to a
// target host. Fire-and-forget: timing, bandwidth, and overhead are
// the engine's concern.
type MigrationRequest struct {
	VM     *VM
	Target Host
}

// VMSelectionPolicy chooses victim VMs to migrate off an overloaded
// host. Injectable: the engine or caller may supply its own strategy.
// Implementations must never return VMs already migrating out.
type VMSelectionPolicy interface {
	SelectVMs(h Host) []*VM
}

// FirstFitVMSelection picks the first resident VM that is not already
// migrating.
type FirstFitVMSelection struct{}

func (FirstFitVMSelection) SelectVMs(h Host) []*VM {
	for _, vm := range h.VMs() {
		if !vm.InMigration {
			return []*VM{vm}
		}
	}
	return nil
}

// SmallestVMSelection picks the non-migrating VM occupying the fewest
// capacity units, the cheapest to move.
type SmallestVMSelection struct{}

func (SmallestVMSelection) SelectVMs(h Host) []*VM {
	var best *VM
	for _, vm := range h.VMs() {
		if vm.InMigration {
			continue
		}
		if best == nil || vm.CapacityUnits() < best.CapacityUnits() {
			best = vm
		}
	}
	if best == nil {
		return nil
	}
	return []*VM{best}
}

// VM-selection policy names accepted by NewVMSelectionPolicy and the
// YAML policy bundle.
const (
	VMSelectionFirstFit = "first-fit"
	VMSelectionSmallest = "smallest"
)

// NewVMSelectionPolicy creates a VM-selection policy by name. An empty
// name defaults to first-fit. Panics on unrecognized names.
func NewVMSelectionPolicy(name string) VMSelectionPolicy {
	switch name {
	case "", VMSelectionFirstFit:
		return FirstFitVMSelection{}
	case VMSelectionSmallest:
		return SmallestVMSelection{}
	default:
		panic(fmt.Sprintf("unknown vm selection policy %q", name))
	}
}

// MigrationTrigger detects over- and under-utilized hosts from
// externally supplied utilization samples and issues migration
// requests. Thresholds may be mutated live between samples; invalid
// configurations are rejected and the prior values stay in effect.
type MigrationTrigger struct {
	under float64
	over  float64

	placement PlacementPolicy
	selection VMSelectionPolicy
}

// NewMigrationTrigger creates a trigger with the given thresholds.
// Fails with ErrInvalidThreshold unless 0 < under < over < 1.
func NewMigrationTrigger(placement PlacementPolicy, selection VMSelectionPolicy, under, over float64) (*MigrationTrigger, error) {
	if err := validateThresholds(under, over); err != nil {
		return nil, err
	}
	if placement == nil {
		return nil, errors.New("migration trigger requires a placement policy")
	}
	if selection == nil {
		selection = FirstFitVMSelection{}
	}
	return &MigrationTrigger{
		under:     under,
		over:      over,
		placement: placement,
		selection: selection,
	}, nil
}

// UnderUtilizationThreshold returns the current underload threshold.
func (t *MigrationTrigger) UnderUtilizationThreshold() float64 {
	return t.under
}

// OverUtilizationThreshold returns the current overload threshold.
func (t *MigrationTrigger) OverUtilizationThreshold() float64 {
	return t.over
}

// SetUnderUtilizationThreshold replaces the underload threshold.
// Rejected with ErrInvalidThreshold if the pair would become invalid;
// the prior value stays in effect.
func (t *MigrationTrigger) SetUnderUtilizationThreshold(under float64) error {
	if err := validateThresholds(under, t.over); err != nil {
		return err
	}
	t.under = under
	return nil
}

// SetOverUtilizationThreshold replaces the overload threshold.
// Rejected with ErrInvalidThreshold if the pair would become invalid;
// the prior value stays in effect.
func (t *MigrationTrigger) SetOverUtilizationThreshold(over float64) error {
	if err := validateThresholds(t.under, over); err != nil {
		return err
	}
	t.over = over
	return nil
}

func validateThresholds(under, over float64) error {
	if under <= 0 || under >= 1 {
		return fmt.Errorf("%w: under-utilization threshold %v outside (0,1)", ErrInvalidThreshold, under)
	}
	if over <= 0 || over >= 1 {
		return fmt.Errorf("%w: over-utilization threshold %v outside (0,1)", ErrInvalidThreshold, over)
	}
	if under >= over {
		return fmt.Errorf("%w: under %v >= over %v", ErrInvalidThreshold, under, over)
	}
	return nil
}

// Sample inspects every host's current utilization and returns the
// migration requests addressing overloaded and underloaded hosts.
// Utilization is whatever the engine's Host surface reports at call
// time; the trigger holds no history.
func (t *MigrationTrigger) Sample(hosts []Host) []MigrationRequest {
	var requests []MigrationRequest
	requests = append(requests, t.drainOverloaded(hosts)...)
	requests = append(requests, t.drainUnderloaded(hosts)...)
	return requests
}

// drainOverloaded picks victims from each overloaded host and asks the
// placement policy for a target among the other hosts.
func (t *MigrationTrigger) drainOverloaded(hosts []Host) []MigrationRequest {
	var requests []MigrationRequest
	for _, h := range hosts {
		if !h.IsActive() || h.CPUUtilization() <= t.over {
			continue
		}
		if !eligibleMigrationSource(h) {
			continue
		}
		for _, victim := range t.selection.SelectVMs(h) {
			target, err := t.placement.FindHost(victim, migrationTargets(hosts, h))
			if err != nil {
				logrus.Debugf("migration: no target for VM %d off overloaded host %d: %v",
					victim.ID(), h.ID(), err)
				continue
			}
			logrus.Infof("migration: host %d overloaded (%.2f > %.2f), VM %d -> host %d",
				h.ID(), h.CPUUtilization(), t.over, victim.ID(), target.ID())
			requests = append(requests, MigrationRequest{VM: victim, Target: target})
		}
	}
	return requests
}

// drainUnderloaded migrates every remaining VM off each underloaded
// host, so the engine can deactivate it.
func (t *MigrationTrigger) drainUnderloaded(hosts []Host) []MigrationRequest {
	var requests []MigrationRequest
	for _, h := range hosts {
		if !h.IsActive() || h.CPUUtilization() >= t.under {
			continue
		}
		if !eligibleMigrationSource(h) {
			continue
		}
		for _, vm := range h.VMs() {
			if vm.InMigration {
				continue
			}
			target, err := t.placement.FindHost(vm, migrationTargets(hosts, h))
			if err != nil {
				logrus.Debugf("migration: no target for VM %d off underloaded host %d: %v",
					vm.ID(), h.ID(), err)
				continue
			}
			logrus.Infof("migration: host %d underloaded (%.2f < %.2f), VM %d -> host %d",
				h.ID(), h.CPUUtilization(), t.under, vm.ID(), target.ID())
			requests = append(requests, MigrationRequest{VM: vm, Target: target})
		}
	}
	return requests
}

// eligibleMigrationSource applies the shared exclusion rule: a host is
// never chosen as a migration source while it has inbound migrations
// pending, nor while every resident VM is already migrating out. In
// both cases migration already addresses the host's condition and
// re-selecting it would duplicate work.
func eligibleMigrationSource(h Host) bool {
	if len(h.VMsMigratingIn()) > 0 {
		return false
	}
	for _, vm := range h.VMs() {
		if !vm.InMigration {
			return true
		}
	}
	return false
}

// migrationTargets returns the hosts eligible as migration targets:
// everything except the source and hosts already receiving inbound
// migrations.
func migrationTargets(hosts []Host, source Host) []Host {
	targets := make([]Host, 0, len(hosts)-1)
	for _, h := range hosts {
		if h == source || len(h.VMsMigratingIn()) > 0 {
			continue
		}
		targets = append(targets, h)
	}
	return targets
}
