package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribe_DeliversEveryEvent(t *testing.T) {
	reg := NewListenerRegistry()
	var seen []int64
	reg.Subscribe(EventClockTick, func(info EventInfo) {
		seen = append(seen, info.Time)
	})

	reg.Dispatch(EventClockTick, EventInfo{Time: 1})
	reg.Dispatch(EventClockTick, EventInfo{Time: 2})
	reg.Dispatch(EventWorkloadStart, EventInfo{Time: 3}) // different kind

	assert.Equal(t, []int64{1, 2}, seen)
}

func TestSubscribeOnce_FiresExactlyOnce(t *testing.T) {
	reg := NewListenerRegistry()
	calls := 0
	sub := reg.SubscribeOnce(EventVMCreated, func(EventInfo) {
		calls++
	})

	reg.Dispatch(EventVMCreated, EventInfo{})
	reg.Dispatch(EventVMCreated, EventInfo{})

	assert.Equal(t, 1, calls)
	assert.False(t, sub.Active())
}

func TestSubscribeOnce_ReentrantDispatchCannotDoubleFire(t *testing.T) {
	// The registry cancels a one-shot subscription before invoking it,
	// so even a listener that re-dispatches its own event fires once.
	reg := NewListenerRegistry()
	calls := 0
	reg.SubscribeOnce(EventVMCreated, func(EventInfo) {
		calls++
		if calls == 1 {
			reg.Dispatch(EventVMCreated, EventInfo{})
		}
	})

	reg.Dispatch(EventVMCreated, EventInfo{})
	assert.Equal(t, 1, calls)
}

func TestCancel_RemovesSubscription(t *testing.T) {
	reg := NewListenerRegistry()
	calls := 0
	sub := reg.Subscribe(EventMigrationFinish, func(EventInfo) {
		calls++
	})

	reg.Dispatch(EventMigrationFinish, EventInfo{})
	sub.Cancel()
	sub.Cancel() // idempotent
	reg.Dispatch(EventMigrationFinish, EventInfo{})

	assert.Equal(t, 1, calls)
}

func TestCancel_DuringDispatchSkipsLaterListener(t *testing.T) {
	reg := NewListenerRegistry()
	var order []string

	var second *Subscription
	reg.Subscribe(EventClockTick, func(EventInfo) {
		order = append(order, "first")
		second.Cancel()
	})
	second = reg.Subscribe(EventClockTick, func(EventInfo) {
		order = append(order, "second")
	})

	reg.Dispatch(EventClockTick, EventInfo{})
	assert.Equal(t, []string{"first"}, order)
}
