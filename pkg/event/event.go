// Package event provides a simple synchronous/async event dispatcher.
package event

import (
	"sync"

	"github.com/shashiranjanraj/vastra/pkg/workerpool"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}

	poolOnce sync.Once
	pool     *workerpool.Pool
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	handlers[event] = append(handlers[event], handler)
	mu.Unlock()
}

// listeners snapshots the handler list so a Listen during dispatch
// cannot race the iteration.
func listeners(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), handlers[event]...)
}

// Fire runs every listener for the event in order, waiting for each.
func Fire(event string, payload interface{}) {
	for _, h := range listeners(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners without waiting for
// them to complete. Handlers run on a shared bounded worker pool so a
// burst of events cannot spawn unbounded goroutines; if the pool's
// queue is full the handler runs on a fresh goroutine instead.
func FireAsync(event string, payload interface{}) {
	poolOnce.Do(func() { pool = workerpool.New(8) })

	for _, h := range listeners(event) {
		h := h
		if err := pool.Submit(func() { h(payload) }); err != nil {
			go h(payload)
		}
	}
}

// Flush drops every listener. Tests call it between cases.
func Flush() {
	mu.Lock()
	handlers = map[string][]Handler{}
	mu.Unlock()
}
