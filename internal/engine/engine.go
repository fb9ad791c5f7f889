// Package engine provides the execution model the monitor attaches to:
// a serialized loop, a typed event bus, and the engine's lifecycle state.
package engine

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Engine ties together the loop, the event bus, and the engine's
// identity and state. It is the attachment point for observers.
type Engine struct {
	// ID is the engine's identity, shared with remote workers to
	// attribute relayed events. Hyphen-delimited so observers can derive
	// a short display fragment.
	ID string

	Loop   *Loop
	Events *Bus
	Clock  Clock

	state State
}

// New creates an engine with a fresh random identity and a running loop.
func New() *Engine {
	return &Engine{
		ID:     randomID(),
		Loop:   NewLoop(),
		Events: &Bus{},
		Clock:  RealClock{},
	}
}

// State returns the current engine state. Loop-confined.
func (e *Engine) State() State {
	return e.state
}

// SetState transitions the engine to a new state. Loop-confined.
func (e *Engine) SetState(s State) {
	e.state = s
}

// Logf publishes a log event originating from this engine. Loop-confined.
func (e *Engine) Logf(level Severity, label, format string, args ...interface{}) {
	e.Events.PublishLog(LogEvent{
		Origin:  e.ID,
		Level:   level,
		Label:   label,
		Message: fmt.Sprintf(format, args...),
	})
}

// randomID produces a UUID-shaped random identity.
func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(b[0:4]),
		binary.BigEndian.Uint16(b[4:6]),
		binary.BigEndian.Uint16(b[6:8]),
		binary.BigEndian.Uint16(b[8:10]),
		b[10:16])
}
