// Package input exposes the live pointer as a pollable snapshot:
// screen coordinates plus per-button pressed state.
package input

import (
	"sync"

	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
)

// ButtonCount is how many pointer buttons are tracked per sample.
const ButtonCount = 5

// State is one snapshot of the pointer.
type State struct {
	X, Y    int
	Buttons [ButtonCount]bool
}

// Source answers the current pointer state. The live implementation is
// Monitor; recording tests substitute scripted sources.
type Source interface {
	State() State
}

// SourceFunc adapts a function literal to the Source interface.
type SourceFunc func() State

// State calls the underlying function.
func (f SourceFunc) State() State { return f() }

// Monitor tracks the live pointer. Position is polled from the OS on
// demand; button state is maintained from the global mouse hook, since
// the OS offers no polling query for it.
type Monitor struct {
	mu      sync.Mutex
	buttons [ButtonCount]bool
	done    chan bool
}

// StartMonitor registers the global mouse hook and begins tracking
// button transitions. The hook is process-wide, so only one monitor may
// be active at a time; Close releases it.
func StartMonitor() *Monitor {
	m := &Monitor{}

	hook.Register(hook.MouseDown, []string{}, func(e hook.Event) {
		m.setButton(e.Button, true)
	})
	hook.Register(hook.MouseUp, []string{}, func(e hook.Event) {
		m.setButton(e.Button, false)
	})

	evChan := hook.Start()
	m.done = hook.Process(evChan)

	return m
}

// setButton records a transition for a 1-based hook button number.
// Buttons beyond the tracked range are ignored.
func (m *Monitor) setButton(button uint16, down bool) {
	if button < 1 || button > ButtonCount {
		return
	}
	m.mu.Lock()
	m.buttons[button-1] = down
	m.mu.Unlock()
}

// State returns the current pointer position and button snapshot.
func (m *Monitor) State() State {
	x, y := robotgo.Location()

	m.mu.Lock()
	buttons := m.buttons
	m.mu.Unlock()

	return State{X: x, Y: y, Buttons: buttons}
}

// Close ends the global hook and waits for its event loop to drain.
func (m *Monitor) Close() {
	hook.End()
	<-m.done
}
