// Package scenario is a minimal reference engine harness around the
// decision core. It advances a simulated clock with a deterministic
// event heap, fires the lifecycle callbacks the core subscribes to,
// applies placement and mapping decisions, and models migrations as a
// fixed tick delay. It exists so the decision library can be exercised
// end to end (tests, CLI demo); it is not a capacity or power
// simulator.
package scenario

import (
	"github.com/sirupsen/logrus"

	"github.com/trustsim/trustsim/sim"
	"github.com/trustsim/trustsim/sim/trust"
)

// EngineConfig holds the scenario engine's timing parameters, all in
// ticks.
type EngineConfig struct {
	Horizon        int64
	TickInterval   int64
	MigrationDelay int64
}

// Stats counts scenario outcomes for reporting and assertions.
type Stats struct {
	VMsPlaced          int
	VMPlacementsFailed int
	WorkloadsFinished  int
	WorkloadsDropped   int
	MigrationsStarted  int
	MigrationsFinished int
}

// Engine drives one simulation run. Everything executes on the caller's
// goroutine: events run to completion in deterministic order and all
// decision state (broker cursor, credit, thresholds) belongs to this
// engine instance.
type Engine struct {
	cfg EngineConfig

	graph      *trust.Graph
	policy     sim.PlacementPolicy
	trigger    *sim.MigrationTrigger
	broker     *sim.Broker
	accountant *sim.Accountant
	listeners  *sim.ListenerRegistry

	hosts      []*Host
	createdVMs []*sim.VM

	events      *EventHeap
	clock       int64
	nextEventID uint64

	stats Stats
}

// NewEngine creates an engine around the given decision components.
func NewEngine(cfg EngineConfig, graph *trust.Graph, policy sim.PlacementPolicy, trigger *sim.MigrationTrigger) *Engine {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 1
	}
	if cfg.MigrationDelay <= 0 {
		cfg.MigrationDelay = 1
	}
	return &Engine{
		cfg:        cfg,
		graph:      graph,
		policy:     policy,
		trigger:    trigger,
		broker:     sim.NewBroker(),
		accountant: sim.NewAccountant(),
		listeners:  sim.NewListenerRegistry(),
		events:     NewEventHeap(),
	}
}

// Listeners exposes the lifecycle subscription registry.
func (e *Engine) Listeners() *sim.ListenerRegistry {
	return e.listeners
}

// Trigger exposes the migration trigger, e.g. for live threshold
// adjustment from listeners.
func (e *Engine) Trigger() *sim.MigrationTrigger {
	return e.trigger
}

// Clock returns the current simulated time in ticks.
func (e *Engine) Clock() int64 {
	return e.clock
}

// Stats returns the scenario outcome counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Hosts returns the engine's hosts.
func (e *Engine) Hosts() []*Host {
	return e.hosts
}

// CreatedVMs returns the VMs successfully placed so far.
func (e *Engine) CreatedVMs() []*sim.VM {
	return e.createdVMs
}

// AddHost registers a host with the engine.
func (e *Engine) AddHost(h *Host) {
	e.hosts = append(e.hosts, h)
}

// ScheduleVMCreation enqueues a VM-created event.
func (e *Engine) ScheduleVMCreation(at int64, vm *sim.VM) {
	e.schedule(&VMCreatedEvent{BaseEvent: e.baseEvent(at, EventTypeVMCreated), VM: vm})
}

// ScheduleWorkload enqueues a workload submission with the given
// processing duration in ticks.
func (e *Engine) ScheduleWorkload(at int64, w *sim.Workload, duration int64) {
	e.schedule(&WorkloadSubmitEvent{
		BaseEvent: e.baseEvent(at, EventTypeWorkloadSubmit),
		Workload:  w,
		Duration:  duration,
	})
}

// Run processes events in deterministic order until the heap drains
// or the horizon passes, then returns the final stats.
func (e *Engine) Run() Stats {
	e.schedule(&ClockTickEvent{BaseEvent: e.baseEvent(e.cfg.TickInterval, EventTypeClockTick)})

	for e.events.Len() > 0 {
		ev := e.events.PopEvent()
		if ev.Timestamp() > e.cfg.Horizon {
			break
		}
		e.clock = ev.Timestamp()
		ev.Execute(e)
	}
	logrus.Infof("scenario: done at %d ticks: %+v", e.clock, e.stats)
	return e.stats
}

// RequestMigration is the fire-and-forget migration primitive: it
// marks the VM as migrating, reserves the target, and schedules the
// landing after the configured delay.
func (e *Engine) RequestMigration(vm *sim.VM, target sim.Host) {
	th, ok := target.(*Host)
	if !ok {
		logrus.Warnf("scenario: migration target for VM %d is not a scenario host", vm.ID())
		return
	}
	vm.InMigration = true
	th.expectMigration(vm)
	e.stats.MigrationsStarted++
	e.listeners.Dispatch(sim.EventMigrationStart, sim.EventInfo{Time: e.clock, VM: vm, Host: th})
	e.schedule(&MigrationFinishEvent{
		BaseEvent: e.baseEvent(e.clock+e.cfg.MigrationDelay, EventTypeMigrationFinish),
		VM:        vm,
		Target:    th,
	})
}

func (e *Engine) baseEvent(at int64, t EventType) BaseEvent {
	e.nextEventID++
	return BaseEvent{timestamp: at, eventID: e.nextEventID, eventType: t}
}

func (e *Engine) schedule(ev Event) {
	e.events.PushEvent(ev)
}

func (e *Engine) hostSurface() []sim.Host {
	hosts := make([]sim.Host, len(e.hosts))
	for i, h := range e.hosts {
		hosts[i] = h
	}
	return hosts
}

func (e *Engine) handleVMCreated(ev *VMCreatedEvent) {
	host, err := e.policy.FindHost(ev.VM, e.hostSurface())
	if err != nil {
		e.stats.VMPlacementsFailed++
		logrus.Debugf("scenario: VM %d not placed: %v", ev.VM.ID(), err)
		return
	}
	host.(*Host).installVM(ev.VM)
	e.createdVMs = append(e.createdVMs, ev.VM)
	e.stats.VMsPlaced++
	e.listeners.Dispatch(sim.EventVMCreated, sim.EventInfo{Time: e.clock, VM: ev.VM, Host: host})
}

func (e *Engine) handleWorkloadSubmit(ev *WorkloadSubmitEvent) {
	w := ev.Workload
	e.accountant.WorkloadSubmitted(w)

	vm, err := e.broker.MapWorkload(w, e.createdVMs)
	if err != nil {
		e.stats.WorkloadsDropped++
		logrus.Debugf("scenario: workload %d dropped: %v", w.ID(), err)
		return
	}
	e.broker.Bind(w, vm)
	if !vm.Reserve(w.Units()) {
		e.stats.WorkloadsDropped++
		logrus.Debugf("scenario: workload %d dropped: VM %d capacity raced away", w.ID(), vm.ID())
		return
	}
	e.accountant.WorkloadStarted(w, e.clock)
	e.listeners.Dispatch(sim.EventWorkloadStart, sim.EventInfo{Time: e.clock, Workload: w, VM: vm})
	e.schedule(&WorkloadFinishEvent{
		BaseEvent: e.baseEvent(e.clock+ev.Duration, EventTypeWorkloadFinish),
		Workload:  w,
	})
}

func (e *Engine) handleWorkloadFinish(ev *WorkloadFinishEvent) {
	w := ev.Workload
	vm := w.VM()
	vm.Release(w.Units())
	e.accountant.WorkloadFinished(w, vm.Host(), e.clock)
	e.stats.WorkloadsFinished++
	e.listeners.Dispatch(sim.EventWorkloadFinish, sim.EventInfo{Time: e.clock, Workload: w, VM: vm, Host: vm.Host()})
}

func (e *Engine) handleMigrationFinish(ev *MigrationFinishEvent) {
	vm, target := ev.VM, ev.Target
	source, _ := vm.Host().(*Host)
	if source != nil {
		source.removeVM(vm)
	}
	target.completeMigration(vm)
	if !target.installVM(vm) {
		// Target filled up while the VM was in flight; land it back on
		// the source rather than losing it.
		if source != nil {
			source.installVM(vm)
		}
		logrus.Warnf("scenario: VM %d bounced off host %d mid-migration", vm.ID(), target.ID())
	}
	vm.InMigration = false
	e.stats.MigrationsFinished++
	e.listeners.Dispatch(sim.EventMigrationFinish, sim.EventInfo{Time: e.clock, VM: vm, Host: vm.Host()})
}

func (e *Engine) handleClockTick(ev *ClockTickEvent) {
	for _, h := range e.hosts {
		h.refreshUtilization()
	}
	if e.trigger != nil {
		for _, req := range e.trigger.Sample(e.hostSurface()) {
			e.RequestMigration(req.VM, req.Target)
		}
	}
	e.listeners.Dispatch(sim.EventClockTick, sim.EventInfo{Time: e.clock})

	next := e.clock + e.cfg.TickInterval
	if next <= e.cfg.Horizon {
		e.schedule(&ClockTickEvent{BaseEvent: e.baseEvent(next, EventTypeClockTick)})
	}
}
