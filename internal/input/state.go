// Package input holds the simulator's two controller snapshots (primary
// and partner) and the two things that can update them: a polled gamepad
// source and inbound ControllerUpdate protocol commands.
package input

import (
	"fmt"
	"sync"
)

// Button indexes into a ControllerState's Buttons array.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonL1
	ButtonL2
	ButtonR1
	ButtonR2
	buttonCount
)

// Axis indexes into a ControllerState's Axes array.
type Axis int

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	axisCount
)

// Which selects a controller slot.
type Which int

const (
	Primary Which = iota
	Partner
	slotCount
)

// ControllerState is a snapshot of one controller's buttons and analog
// axes. Axis values are in [-1.0, 1.0].
type ControllerState struct {
	Connected bool
	Buttons   [buttonCount]bool
	Axes      [axisCount]float64
}

// GamepadSource abstracts the physical controller-polling backend (spec's
// "controller-input backend (gamepad library)", fixed by contract and
// explicitly out of scope for this simulator to implement). It is polled
// once per tasks_run.
type GamepadSource interface {
	// Poll returns the current snapshot for slot which, or a
	// disconnected state if no matching device is present.
	Poll(which Which) ControllerState
}

// State holds the primary and partner controller snapshots.
type State struct {
	mu   sync.Mutex
	slot [slotCount]ControllerState
}

// NewState returns a State with both slots disconnected.
func NewState() *State {
	return &State{}
}

// PollGamepads refreshes both slots from src. Called once per
// tasks_run.
func (s *State) PollGamepads(src GamepadSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot[Primary] = src.Poll(Primary)
	s.slot[Partner] = src.Poll(Partner)
}

// Update overwrites a controller slot wholesale, per an inbound
// ControllerUpdate protocol command. which comes off the wire, so an
// out-of-range slot is a protocol error, not a programming error: it is
// rejected rather than indexed into s.slot.
func (s *State) Update(which Which, cs ControllerState) error {
	if int(which) < 0 || int(which) >= slotCount {
		return fmt.Errorf("controller update: slot %d out of range", which)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot[which] = cs
	return nil
}

// Snapshot returns the current state of slot which, or a disconnected,
// zero-valued state if which is out of range.
func (s *State) Snapshot(which Which) ControllerState {
	if int(which) < 0 || int(which) >= slotCount {
		return ControllerState{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot[which]
}

// IsConnected reports whether slot which currently has a controller.
func (s *State) IsConnected(which Which) bool {
	return s.Snapshot(which).Connected
}

// Digital reports whether button btn is currently pressed on slot which.
func (s *State) Digital(which Which, btn Button) bool {
	cs := s.Snapshot(which)
	if int(btn) < 0 || int(btn) >= len(cs.Buttons) {
		return false
	}
	return cs.Buttons[btn]
}

// Analog returns the value of axis a on slot which, 0 if out of range.
func (s *State) Analog(which Which, a Axis) float64 {
	cs := s.Snapshot(which)
	if int(a) < 0 || int(a) >= len(cs.Axes) {
		return 0
	}
	return cs.Axes[a]
}
