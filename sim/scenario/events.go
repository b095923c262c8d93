package scenario

import (
	"github.com/trustsim/trustsim/sim"
)

// EventType discriminates scenario events for deterministic ordering.
type EventType int

const (
	EventTypeVMCreated EventType = iota
	EventTypeWorkloadSubmit
	EventTypeWorkloadFinish
	EventTypeMigrationFinish
	EventTypeClockTick
)

// eventTypePriority orders same-timestamp events: infrastructure
// appears before work arrives, completions before the tick samples
// utilization.
var eventTypePriority = map[EventType]int{
	EventTypeVMCreated:       0,
	EventTypeMigrationFinish: 1,
	EventTypeWorkloadFinish:  2,
	EventTypeWorkloadSubmit:  3,
	EventTypeClockTick:       4,
}

// Event is a scenario engine event.
type Event interface {
	Timestamp() int64
	EventID() uint64
	Type() EventType
	Execute(e *Engine)
}

// BaseEvent provides common event fields. Event IDs are issued by the
// engine, monotonically, for deterministic tie-breaking.
type BaseEvent struct {
	timestamp int64
	eventID   uint64
	eventType EventType
}

func (e *BaseEvent) Timestamp() int64 { return e.timestamp }
func (e *BaseEvent) EventID() uint64  { return e.eventID }
func (e *BaseEvent) Type() EventType  { return e.eventType }

// VMCreatedEvent asks the placement policy for a host and installs the
// VM there.
type VMCreatedEvent struct {
	BaseEvent
	VM *sim.VM
}

func (e *VMCreatedEvent) Execute(eng *Engine) {
	eng.handleVMCreated(e)
}

// WorkloadSubmitEvent maps a workload onto a created VM through the
// broker and starts it.
type WorkloadSubmitEvent struct {
	BaseEvent
	Workload *sim.Workload
	// Duration is the workload's processing span in ticks.
	Duration int64
}

func (e *WorkloadSubmitEvent) Execute(eng *Engine) {
	eng.handleWorkloadSubmit(e)
}

// WorkloadFinishEvent completes a running workload.
type WorkloadFinishEvent struct {
	BaseEvent
	Workload *sim.Workload
}

func (e *WorkloadFinishEvent) Execute(eng *Engine) {
	eng.handleWorkloadFinish(e)
}

// MigrationFinishEvent lands a migrating VM on its target host.
type MigrationFinishEvent struct {
	BaseEvent
	VM     *sim.VM
	Target *Host
}

func (e *MigrationFinishEvent) Execute(eng *Engine) {
	eng.handleMigrationFinish(e)
}

// ClockTickEvent samples utilization into the migration trigger and
// schedules the next tick.
type ClockTickEvent struct {
	BaseEvent
}

func (e *ClockTickEvent) Execute(eng *Engine) {
	eng.handleClockTick(e)
}
