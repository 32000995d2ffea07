package protocol

import (
	"context"
	"fmt"
	"sync"
)

// ApplyFunc applies a decoded Command to the device state. A non-nil
// error is a protocol error (spec.md §7) — malformed or out-of-phase
// input — and is reported back as an Event.ProtocolError rather than
// aborting the driver.
type ApplyFunc func(Command) error

// ProtocolError wraps an error returned by ApplyFunc so callers can
// distinguish it, via errors.As, from the driver's own I/O errors.
type ProtocolError struct {
	Command Command
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: command %s rejected: %v", e.Command.Kind, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Driver owns the inbound command stream and outbound event stream, and
// implements spec.md §4.6's three consumption modes: setup (blocking loop
// until StartExecution), executing (non-blocking drain, called from
// tasks_run), and condition-wait (blocking receive against a predicate,
// with FIFO-fair deferral of non-matching commands).
type Driver struct {
	reader *Reader
	writer *Writer

	cmds chan Command
	errs chan error

	mu       sync.Mutex
	deferred []Command
}

// NewDriver starts a goroutine reading Commands from r and returns a
// Driver that writes Events to w. The read goroutine exits when r
// returns an error (including io.EOF).
func NewDriver(r *Reader, w *Writer) *Driver {
	d := &Driver{
		reader: r,
		writer: w,
		cmds:   make(chan Command),
		errs:   make(chan error, 1),
	}
	go d.readLoop()
	return d
}

func (d *Driver) readLoop() {
	for {
		cmd, err := d.reader.ReadCommand()
		if err != nil {
			d.errs <- err
			return
		}
		d.cmds <- cmd
	}
}

// next returns the next command from the channel, blocking until one
// arrives, ctx is cancelled, or the reader fails.
func (d *Driver) next(ctx context.Context) (Command, error) {
	select {
	case cmd := <-d.cmds:
		return cmd, nil
	case err := <-d.errs:
		return Command{}, err
	case <-ctx.Done():
		return Command{}, ctx.Err()
	}
}

// SendReady writes the initial Ready event.
func (d *Driver) SendReady() error {
	return d.writer.WriteEvent(Event{Kind: EventReady})
}

// Setup runs the setup-phase loop: it applies every received command
// until one of kind StartExecution is applied successfully, at which
// point Setup returns. A second Handshake mid-stream is a programming
// error (spec.md §9) and panics, matching spec.md's "Fatal in debug"
// rule for programming errors; all other apply failures are reported as
// ProtocolError events and the loop continues.
func (d *Driver) Setup(ctx context.Context, apply ApplyFunc) error {
	seenHandshake := false
	for {
		cmd, err := d.next(ctx)
		if err != nil {
			return err
		}

		if cmd.Kind == CommandHandshake {
			if seenHandshake {
				panic("protocol: Handshake received mid-stream")
			}
			seenHandshake = true
			continue
		}

		applyErr := apply(cmd)
		if cmd.Kind == CommandStartExecution && applyErr == nil {
			return nil
		}
		if applyErr != nil {
			d.reportError(cmd, applyErr)
		}
	}
}

// DrainExecuting applies every currently-available command, without
// blocking: first the deferred queue (oldest first), then anything
// already buffered on the channel. It never waits for a command that
// hasn't arrived yet, matching spec.md §4.6's executing-phase contract
// (tasks_run must never block).
func (d *Driver) DrainExecuting(apply ApplyFunc) {
	d.mu.Lock()
	deferred := d.deferred
	d.deferred = nil
	d.mu.Unlock()

	for _, cmd := range deferred {
		if err := apply(cmd); err != nil {
			d.reportError(cmd, err)
		}
	}

	for {
		select {
		case cmd := <-d.cmds:
			if err := apply(cmd); err != nil {
				d.reportError(cmd, err)
			}
		default:
			return
		}
	}
}

// ConditionWait blocks until a command satisfying predicate arrives,
// applies it, and returns it. Commands that don't satisfy predicate are
// pushed onto the deferred queue in arrival order for a later
// DrainExecuting call, never dropped (spec.md §8 invariant 7).
func (d *Driver) ConditionWait(ctx context.Context, predicate func(Command) bool, apply ApplyFunc) (Command, error) {
	for {
		cmd, err := d.next(ctx)
		if err != nil {
			return Command{}, err
		}

		if predicate(cmd) {
			if err := apply(cmd); err != nil {
				d.reportError(cmd, err)
			}
			return cmd, nil
		}

		d.mu.Lock()
		d.deferred = append(d.deferred, cmd)
		d.mu.Unlock()
	}
}

func (d *Driver) reportError(cmd Command, err error) {
	_ = d.writer.WriteEvent(Event{
		Kind:    EventProtocolError,
		Message: (&ProtocolError{Command: cmd, Err: err}).Error(),
	})
}

// ReportExit writes the best-effort Exited event. Callers invoke this
// immediately before terminating the process via system_exit_request.
func (d *Driver) ReportExit() error {
	return d.writer.WriteEvent(Event{Kind: EventExited})
}
