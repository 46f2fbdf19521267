package event_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/pkg/event"
)

func TestFireCallsListenersInOrder(t *testing.T) {
	defer event.Flush()

	var got []int
	event.Listen("order.placed", func(p interface{}) { got = append(got, 1) })
	event.Listen("order.placed", func(p interface{}) { got = append(got, 2) })

	event.Fire("order.placed", nil)

	assert.Equal(t, []int{1, 2}, got)
}

func TestFirePassesPayload(t *testing.T) {
	defer event.Flush()

	type placed struct{ OrderID uint }

	var seen placed
	event.Listen("order.placed", func(p interface{}) { seen = p.(placed) })

	event.Fire("order.placed", placed{OrderID: 7})

	assert.EqualValues(t, 7, seen.OrderID)
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	defer event.Flush()
	event.Fire("never.registered", nil)
}

func TestFireAsyncReturnsBeforeListenersFinish(t *testing.T) {
	defer event.Flush()

	release := make(chan struct{})
	var calls atomic.Int32

	event.Listen("order.placed", func(p interface{}) {
		<-release
		calls.Add(1)
	})

	event.FireAsync("order.placed", nil)
	assert.EqualValues(t, 0, calls.Load(), "FireAsync must not block on listeners")

	close(release)
	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
