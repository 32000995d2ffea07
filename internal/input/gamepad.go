package input

import "github.com/hajimehoshi/ebiten/v2"

// buttonMap orders Button constants to their ebiten standard-gamepad
// button, adapted from the fixed key-to-bit ordering in the teacher's
// console/controller.go (there: NES buttons to keyboard keys; here:
// simulator buttons to gamepad buttons).
var buttonMap = [buttonCount]ebiten.StandardGamepadButton{
	ButtonA:     ebiten.StandardGamepadButtonRightBottom,
	ButtonB:     ebiten.StandardGamepadButtonRightRight,
	ButtonX:     ebiten.StandardGamepadButtonRightLeft,
	ButtonY:     ebiten.StandardGamepadButtonRightTop,
	ButtonUp:    ebiten.StandardGamepadButtonLeftTop,
	ButtonDown:  ebiten.StandardGamepadButtonLeftBottom,
	ButtonLeft:  ebiten.StandardGamepadButtonLeftLeft,
	ButtonRight: ebiten.StandardGamepadButtonLeftRight,
	ButtonL1:    ebiten.StandardGamepadButtonFrontTopLeft,
	ButtonL2:    ebiten.StandardGamepadButtonFrontBottomLeft,
	ButtonR1:    ebiten.StandardGamepadButtonFrontTopRight,
	ButtonR2:    ebiten.StandardGamepadButtonFrontBottomRight,
}

var axisMap = [axisCount]ebiten.StandardGamepadAxis{
	AxisLeftX:  ebiten.StandardGamepadAxisLeftStickHorizontal,
	AxisLeftY:  ebiten.StandardGamepadAxisLeftStickVertical,
	AxisRightX: ebiten.StandardGamepadAxisRightStickHorizontal,
	AxisRightY: ebiten.StandardGamepadAxisRightStickVertical,
}

// EbitenGamepadSource implements GamepadSource on top of ebiten's gamepad
// API, mapping slot 0 of ebiten.GamepadIDs to Primary and slot 1 to
// Partner. Any slot with no corresponding device reports Connected: false
// and leaves the rest of the snapshot zeroed.
type EbitenGamepadSource struct{}

func (EbitenGamepadSource) Poll(which Which) ControllerState {
	ids := ebiten.GamepadIDs()
	if int(which) >= len(ids) {
		return ControllerState{}
	}
	id := ids[which]

	var cs ControllerState
	cs.Connected = true
	for b := Button(0); b < buttonCount; b++ {
		cs.Buttons[b] = ebiten.IsStandardGamepadButtonPressed(id, buttonMap[b])
	}
	for a := Axis(0); a < axisCount; a++ {
		cs.Axes[a] = ebiten.StandardGamepadAxisValue(id, axisMap[a])
	}
	return cs
}
