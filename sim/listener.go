package sim

// EventKind enumerates the lifecycle callbacks the external engine
// delivers to this core.
type EventKind int

const (
	EventVMCreated EventKind = iota
	EventWorkloadStart
	EventWorkloadFinish
	EventMigrationStart
	EventMigrationFinish
	EventClockTick
)

// EventInfo carries the entities involved in a lifecycle event.
// Fields irrelevant to the event kind are nil/zero.
type EventInfo struct {
	Time     int64
	VM       *VM
	Workload *Workload
	Host     Host
}

// ListenerFunc handles one lifecycle event. Listeners run
// synchronously inside the engine's dispatch and must not block.
type ListenerFunc func(EventInfo)

// Subscription is a handle for one registered listener.
type Subscription struct {
	registry *ListenerRegistry
	kind     EventKind
	id       int
	fn       ListenerFunc
	once     bool
	done     bool
}

// Cancel removes the subscription. Safe to call repeatedly, and safe
// to call from inside a dispatch of the same event kind.
func (s *Subscription) Cancel() {
	if s.done {
		return
	}
	s.done = true
	s.registry.remove(s)
}

// Active reports whether the subscription can still fire.
func (s *Subscription) Active() bool {
	return !s.done
}

// ListenerRegistry dispatches lifecycle events to subscribed
// listeners. Owned by a single execution context; no locking.
type ListenerRegistry struct {
	nextID int
	subs   map[EventKind][]*Subscription
}

// NewListenerRegistry creates an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{subs: make(map[EventKind][]*Subscription)}
}

// Subscribe registers fn for every event of the given kind until the
// returned handle is cancelled.
func (r *ListenerRegistry) Subscribe(kind EventKind, fn ListenerFunc) *Subscription {
	return r.add(kind, fn, false)
}

// SubscribeOnce registers fn for the next event of the given kind.
// The registry cancels the subscription itself before invoking fn, so
// a one-shot listener fires exactly once even if it re-dispatches.
func (r *ListenerRegistry) SubscribeOnce(kind EventKind, fn ListenerFunc) *Subscription {
	return r.add(kind, fn, true)
}

func (r *ListenerRegistry) add(kind EventKind, fn ListenerFunc, once bool) *Subscription {
	r.nextID++
	sub := &Subscription{
		registry: r,
		kind:     kind,
		id:       r.nextID,
		fn:       fn,
		once:     once,
	}
	r.subs[kind] = append(r.subs[kind], sub)
	return sub
}

func (r *ListenerRegistry) remove(sub *Subscription) {
	list := r.subs[sub.kind]
	for i, s := range list {
		if s == sub {
			r.subs[sub.kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Dispatch delivers the event to all active subscriptions in
// registration order. Listeners registered during dispatch see only
// later events; listeners cancelled during dispatch are skipped.
func (r *ListenerRegistry) Dispatch(kind EventKind, info EventInfo) {
	snapshot := append([]*Subscription(nil), r.subs[kind]...)
	for _, sub := range snapshot {
		if sub.done {
			continue
		}
		if sub.once {
			sub.Cancel()
		}
		sub.fn(info)
	}
}
