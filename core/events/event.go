package events

import (
	"sync"

	"dopchain/core/types"
)

// Event represents a structured state change emitted by the layer engine.
type Event interface {
	EventType() string
	Event() *types.Event
}

// Emitter broadcasts events to downstream subscribers (e.g. indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events. It
// is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Log is an append-only, ordered event recorder. Entries are copied on append
// and on read so recorded events cannot be mutated after emission.
type Log struct {
	mu      sync.RWMutex
	entries []*types.Event
}

// NewLog returns an empty event log.
func NewLog() *Log {
	return &Log{}
}

// Emit appends the rendered event to the log.
func (l *Log) Emit(evt Event) {
	if l == nil || evt == nil {
		return
	}
	rendered := evt.Event()
	if rendered == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, cloneEvent(rendered))
}

// Events returns a copy of all recorded events in emission order.
func (l *Log) Events() []*types.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*types.Event, len(l.entries))
	for i, entry := range l.entries {
		out[i] = cloneEvent(entry)
	}
	return out
}

// Len reports the number of recorded events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func cloneEvent(evt *types.Event) *types.Event {
	clone := &types.Event{Type: evt.Type, Attributes: make(map[string]string, len(evt.Attributes))}
	for k, v := range evt.Attributes {
		clone.Attributes[k] = v
	}
	return clone
}
