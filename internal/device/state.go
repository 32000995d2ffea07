// Package device holds the simulator's aggregate device state: the
// display, controller inputs, competition mode, and the handful of
// inert fields the real SDK accepts but never reads back.
package device

import (
	"sync"
	"time"

	"github.com/vexide/vex-sdk-sim/internal/display"
	"github.com/vexide/vex-sdk-sim/internal/input"
)

// CompetitionMode mirrors the V5 competition switch's state. The four
// fields are independent rather than derived from one another, matching
// the original implementation this was restored from: ConfigureDevice and
// CompetitionMode protocol commands each set a subset of these fields, so
// collapsing them into a single enum would lose information a command
// that sets only one field needs to preserve in the others.
type CompetitionMode struct {
	Enabled       bool
	Connected     bool
	IsCompetition bool
	Autonomous    bool
}

// statusBits packs the four fields into the bit-field competition_status()
// returns: DISABLED=1, AUTONOMOUS=2, CONNECTED=4, SYSTEM=8. "SYSTEM" here
// is IsCompetition (the field name the SDK's own bit happens to call
// "system" in the vendor header this was distilled from).
func (c CompetitionMode) statusBits() uint32 {
	var bits uint32
	if !c.Enabled {
		bits |= 1
	}
	if c.Autonomous {
		bits |= 2
	}
	if c.Connected {
		bits |= 4
	}
	if c.IsCompetition {
		bits |= 8
	}
	return bits
}

// State is the simulator's full device state, shared by every host-
// function shim. It is not safe for concurrent use from two goroutines at
// once, matching spec.md §5's single-threaded dispatch model — the
// protocol driver's receive goroutine only ever touches it through the
// defined drain points (tasks_run, setup, condition-wait).
type State struct {
	Display *display.Display
	Inputs  *input.State

	mu sync.Mutex

	competition CompetitionMode

	programStart time.Time

	isExecuting bool

	batteryCapacity int32
	textMetrics     map[int]TextMetrics

	usbSerialAttached bool
	vexLinkPorts      map[int]bool
	adiPorts          [8]int16
}

// TextMetrics is the per-channel metrics payload set by SetTextMetrics.
// It is sink-only state: nothing in the SDK address table reads it back;
// it exists because the guest-side SDK library uses it for its own
// text-measurement code, not this simulator's rasterizer.
type TextMetrics struct {
	Width  int32
	Height int32
}

// New returns a freshly initialised State: display and inputs are set up,
// the competition switch is enabled but disconnected (spec.md §3's
// default: enabled=true, everything else false/driver), and
// program_start is captured as now.
func New() *State {
	return &State{
		Display:      display.New(),
		Inputs:       input.NewState(),
		competition:  CompetitionMode{Enabled: true},
		programStart: startTime(),
		textMetrics:  map[int]TextMetrics{},
		vexLinkPorts: map[int]bool{},
	}
}

// startTime exists so tests can override program_start; production code
// always calls it with no stand-in.
var startTime = time.Now

// ProgramStart returns the instant New() was called.
func (s *State) ProgramStart() time.Time {
	return s.programStart
}

// HighResTime returns microseconds elapsed since ProgramStart.
func (s *State) HighResTime() uint64 {
	return uint64(time.Since(s.programStart).Microseconds())
}

// CompetitionStatus returns the packed status bit-field competition_status
// reads.
func (s *State) CompetitionStatus() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.competition.statusBits()
}

// Competition returns a copy of the current competition-mode fields.
func (s *State) Competition() CompetitionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.competition
}

// SetCompetition overwrites the competition-mode fields wholesale, per an
// inbound CompetitionMode protocol command.
func (s *State) SetCompetition(c CompetitionMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.competition = c
}

// IsExecuting reports whether StartExecuting has been called. It never
// goes back to false: this is a one-way transition, matching the setup ->
// executing phase boundary in spec.md §4.6.
func (s *State) IsExecuting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isExecuting
}

// StartExecuting flips is_executing to true. It reports false if it was
// already true, so callers (the protocol driver) can surface the
// recoverable "second StartExecution" error spec.md §4.6 and §7 describe.
func (s *State) StartExecuting() (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isExecuting {
		return false
	}
	s.isExecuting = true
	return true
}

// SetBatteryCapacity records the battery_capacity value from a
// SetBatteryCapacity command. Sink-only: no SDK address reads it back.
func (s *State) SetBatteryCapacity(v int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batteryCapacity = v
}

// BatteryCapacity returns the last value SetBatteryCapacity recorded.
func (s *State) BatteryCapacity() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batteryCapacity
}

// SetTextMetrics records the metrics for channel from a SetTextMetrics
// command. Sink-only, restored from the original's SdkState.
func (s *State) SetTextMetrics(channel int, m TextMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textMetrics[channel] = m
}

// TextMetricsFor returns the metrics last recorded for channel.
func (s *State) TextMetricsFor(channel int) TextMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textMetrics[channel]
}

// SetUSBSerialAttached records a USD command's attach/detach report.
func (s *State) SetUSBSerialAttached(attached bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usbSerialAttached = attached
}

// USBSerialAttached reports the most recent USD attach/detach state.
func (s *State) USBSerialAttached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usbSerialAttached
}

// SetVEXLinkPort records a VEXLinkOpened/VEXLinkClosed command's effect on
// a port.
func (s *State) SetVEXLinkPort(port int, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vexLinkPorts[port] = open
}

// VEXLinkPortOpen reports whether port was last reported open.
func (s *State) VEXLinkPortOpen(port int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vexLinkPorts[port]
}

// SetAdiPorts overwrites all eight ADI port values wholesale, per an
// inbound AdiInput command.
func (s *State) SetAdiPorts(values [8]int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adiPorts = values
}

// AdiPort returns the value of ADI port idx, or 0 if out of range.
func (s *State) AdiPort(idx int) int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.adiPorts) {
		return 0
	}
	return s.adiPorts[idx]
}
