package sdk

import (
	"fmt"

	"github.com/vexide/vex-sdk-sim/internal/device"
	"github.com/vexide/vex-sdk-sim/internal/input"
	"github.com/vexide/vex-sdk-sim/internal/protocol"
)

// ApplyCommand applies a decoded protocol.Command to dev, the glue
// between the protocol driver's command vocabulary (spec.md §4.6) and
// device.State's setters. It is the ApplyFunc passed to Driver.Setup,
// DrainExecuting, and ConditionWait.
func ApplyCommand(dev *device.State, cmd protocol.Command) error {
	switch cmd.Kind {
	case protocol.CommandHandshake:
		// Driver.Setup consumes the opening Handshake itself without
		// calling ApplyFunc; one that reaches here arrived mid-stream,
		// which is a programming error.
		panic("sdk: Handshake received mid-stream")

	case protocol.CommandTouch:
		// Touch events have no SDK-visible getter in spec.md's address
		// table; accepted and ignored, same as USD/VEXLink/AdiInput being
		// inert where no address exposes them.
		return nil

	case protocol.CommandControllerUpdate:
		return dev.Inputs.Update(input.Which(cmd.Which), controllerStateFromCommand(cmd))

	case protocol.CommandUSD:
		dev.SetUSBSerialAttached(cmd.Attached)
		return nil

	case protocol.CommandVEXLinkOpened:
		dev.SetVEXLinkPort(cmd.Port, true)
		return nil

	case protocol.CommandVEXLinkClosed:
		dev.SetVEXLinkPort(cmd.Port, false)
		return nil

	case protocol.CommandCompetitionMode, protocol.CommandConfigureDevice:
		dev.SetCompetition(mergeCompetition(dev.Competition(), cmd))
		return nil

	case protocol.CommandAdiInput:
		dev.SetAdiPorts(cmd.AdiValues)
		return nil

	case protocol.CommandStartExecution:
		if !dev.StartExecuting() {
			return fmt.Errorf("StartExecution received while already executing")
		}
		return nil

	case protocol.CommandSetBatteryCapacity:
		dev.SetBatteryCapacity(cmd.Capacity)
		return nil

	case protocol.CommandSetTextMetrics:
		dev.SetTextMetrics(cmd.Channel, device.TextMetrics{Width: cmd.Width, Height: cmd.Height})
		return nil

	default:
		return fmt.Errorf("unknown command kind %q", cmd.Kind)
	}
}

// mergeCompetition applies only the fields cmd actually sets, leaving the
// rest of cur unchanged, matching CompetitionMode/ConfigureDevice's
// independent-field semantics (SPEC_FULL.md §3).
func mergeCompetition(cur device.CompetitionMode, cmd protocol.Command) device.CompetitionMode {
	if cmd.Enabled != nil {
		cur.Enabled = *cmd.Enabled
	}
	if cmd.Connected != nil {
		cur.Connected = *cmd.Connected
	}
	if cmd.IsCompetition != nil {
		cur.IsCompetition = *cmd.IsCompetition
	}
	if cmd.Autonomous != nil {
		cur.Autonomous = *cmd.Autonomous
	}
	return cur
}

func controllerStateFromCommand(cmd protocol.Command) input.ControllerState {
	var cs input.ControllerState
	cs.Connected = true

	buttonNames := map[string]input.Button{
		"A": input.ButtonA, "B": input.ButtonB, "X": input.ButtonX, "Y": input.ButtonY,
		"Up": input.ButtonUp, "Down": input.ButtonDown, "Left": input.ButtonLeft, "Right": input.ButtonRight,
		"L1": input.ButtonL1, "L2": input.ButtonL2, "R1": input.ButtonR1, "R2": input.ButtonR2,
	}
	for name, pressed := range cmd.Buttons {
		if b, ok := buttonNames[name]; ok {
			cs.Buttons[b] = pressed
		}
	}

	axisNames := map[string]input.Axis{
		"LeftX": input.AxisLeftX, "LeftY": input.AxisLeftY,
		"RightX": input.AxisRightX, "RightY": input.AxisRightY,
	}
	for name, v := range cmd.Axes {
		if a, ok := axisNames[name]; ok {
			cs.Axes[a] = v
		}
	}

	return cs
}
