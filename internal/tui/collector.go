package tui

import (
	"sync"

	"github.com/oscimu/osciemu/internal/trace"
)

// traceCollector accumulates trace events emitted by a logger's onTrace
// sink, capped at maxTraceLines. Grounded on the teacher's
// cmd/galago/main.go traceCollector (mutex-guarded event slice).
type traceCollector struct {
	mu     sync.Mutex
	events []*trace.Event
}

func (tc *traceCollector) Add(e *trace.Event) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.events = append(tc.events, e)
	if len(tc.events) > maxTraceLines {
		tc.events = tc.events[len(tc.events)-maxTraceLines:]
	}
}

// Snapshot returns a copy of the accumulated events, newest last.
func (tc *traceCollector) Snapshot() []*trace.Event {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	out := make([]*trace.Event, len(tc.events))
	copy(out, tc.events)
	return out
}
