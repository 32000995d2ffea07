package sdk

import (
	"context"
	"log/slog"

	"github.com/vexide/vex-sdk-sim/internal/device"
	"github.com/vexide/vex-sdk-sim/internal/display"
	"github.com/vexide/vex-sdk-sim/internal/guestabi"
	"github.com/vexide/vex-sdk-sim/internal/input"
)

// Shims holds everything a host-function adapter needs: the device
// state, an exit hook (os.Exit in production, overridable in tests), a
// serial sink (the process's real stdout in production), and a logger
// for guest-triggered events worth a host-side log line.
type Shims struct {
	Dev       *device.State
	Log       *slog.Logger
	SerialOut func(channel int, p []byte)
	Exit      func(code int)
	OnTasksRun func()
}

func i32(args []uint64, i int) int32  { return int32(uint32(args[i])) }
func u32(args []uint64, i int) uint32 { return uint32(args[i]) }

func ret32(v uint32) []uint64 { return []uint64{uint64(v)} }
func ret64(v uint64) []uint64 { return []uint64{v} }

func (s *Shims) foregroundColor(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	s.Dev.Display.SetForeground(display.UnpackColor(u32(args, 0)))
	return nil
}

func (s *Shims) backgroundColor(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	s.Dev.Display.SetBackground(display.UnpackColor(u32(args, 0)))
	return nil
}

func (s *Shims) rectDraw(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	s.drawRect(args, false)
	return nil
}

func (s *Shims) rectFill(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	s.drawRect(args, true)
	return nil
}

func (s *Shims) drawRect(args []uint64, fill bool) {
	p := display.Rect(int(i32(args, 0)), int(i32(args, 1)), int(i32(args, 2)), int(i32(args, 3)))
	s.Dev.Display.Draw(p, fill)
	s.Dev.Display.Render(false)
}

func (s *Shims) circleDraw(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	s.drawCircle(args, false)
	return nil
}

func (s *Shims) circleFill(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	s.drawCircle(args, true)
	return nil
}

func (s *Shims) drawCircle(args []uint64, fill bool) {
	p := display.Circle(int(i32(args, 0)), int(i32(args, 1)), int(i32(args, 2)))
	s.Dev.Display.Draw(p, fill)
	s.Dev.Display.Render(false)
}

func (s *Shims) stringWidthGet(_ context.Context, mem guestabi.Memory, args []uint64) []uint64 {
	str, err := guestabi.ReadCString(mem, u32(args, 0))
	if err != nil {
		panic(err)
	}
	w, _ := s.Dev.Display.StringSize(str, display.FontNormal)
	return ret32(uint32(w))
}

func (s *Shims) stringHeightGet(_ context.Context, mem guestabi.Memory, args []uint64) []uint64 {
	str, err := guestabi.ReadCString(mem, u32(args, 0))
	if err != nil {
		panic(err)
	}
	_, h := s.Dev.Display.StringSize(str, display.FontNormal)
	return ret32(uint32(h))
}

func (s *Shims) render(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	s.Dev.Display.Render(true)
	return nil
}

func (s *Shims) doubleBufferDisable(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	s.Dev.Display.DisableDoubleBuffer()
	return nil
}

// vprintf ignores the guest's varargs buffer and draws the format string
// verbatim. A full implementation would need to interpret the guest's C
// varargs layout; spec.md §9 leaves this an explicit open question
// instead of silently "fixing" it.
func (s *Shims) vprintf(_ context.Context, mem guestabi.Memory, args []uint64) []uint64 {
	x, y, opaque := i32(args, 0), i32(args, 1), i32(args, 2)
	format, err := guestabi.ReadCString(mem, u32(args, 3))
	if err != nil {
		panic(err)
	}
	s.Dev.Display.WriteText(int(x), int(y), format, display.TextOptions{
		Transparent: opaque == 0,
		Font:        display.FontNormal,
	})
	s.Dev.Display.Render(false)
	return nil
}

func (s *Shims) vstring(_ context.Context, mem guestabi.Memory, args []uint64) []uint64 {
	line := i32(args, 0)
	format, err := guestabi.ReadCString(mem, u32(args, 1))
	if err != nil {
		panic(err)
	}
	x, y := display.TextLine(int(line))
	s.Dev.Display.WriteText(x, y, format, display.TextOptions{Font: display.FontNormal})
	s.Dev.Display.Render(false)
	return nil
}

func (s *Shims) vsmallStringAt(_ context.Context, mem guestabi.Memory, args []uint64) []uint64 {
	x, y := i32(args, 0), i32(args, 1)
	format, err := guestabi.ReadCString(mem, u32(args, 2))
	if err != nil {
		panic(err)
	}
	s.Dev.Display.WriteText(int(x), int(y), format, display.TextOptions{Font: display.FontSmall})
	s.Dev.Display.Render(false)
	return nil
}

func (s *Shims) copyRect(_ context.Context, mem guestabi.Memory, args []uint64) []uint64 {
	x1, y1, x2, y2 := i32(args, 0), i32(args, 1), i32(args, 2), i32(args, 3)
	stride := int(i32(args, 5))

	w, h := int(x2-x1), int(y2-y1)
	if w <= 0 || h <= 0 || stride <= 0 {
		return nil
	}
	raw, err := guestabi.ReadBytes(mem, u32(args, 4), uint32(w*h*4))
	if err != nil {
		panic(err)
	}

	px := make([]display.Color, len(raw)/4)
	for i := range px {
		word := uint32(raw[i*4]) | uint32(raw[i*4+1])<<8 | uint32(raw[i*4+2])<<16 | uint32(raw[i*4+3])<<24
		px[i] = display.UnpackColor(word)
	}

	s.Dev.Display.DrawBuffer(int(x1), int(y1), int(x2), int(y2), px, stride)
	s.Dev.Display.Render(false)
	return nil
}

func (s *Shims) serialWriteBuffer(_ context.Context, mem guestabi.Memory, args []uint64) []uint64 {
	channel, length := int(i32(args, 0)), u32(args, 2)
	data, err := guestabi.ReadBytes(mem, u32(args, 1), length)
	if err != nil {
		panic(err)
	}
	if channel == 1 && s.SerialOut != nil {
		s.SerialOut(channel, data)
	}
	return ret32(length)
}

const serialWriteCapacity = 2048

func (s *Shims) serialWriteFree(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	return ret32(serialWriteCapacity)
}

// serialReadByte always reports no data available. The original has no
// interactive stdin serial source either; -1 is its own behavior when its
// input queue is empty (SPEC_FULL.md §4.7), restored rather than invented.
func (s *Shims) serialReadByte(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	return ret32(uint32(int32(-1)))
}

func (s *Shims) tasksRun(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	if s.OnTasksRun != nil {
		s.OnTasksRun()
	}
	return nil
}

func (s *Shims) systemHighResTimeGet(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	return ret64(s.Dev.HighResTime())
}

func (s *Shims) systemExitRequest(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	if s.Log != nil {
		s.Log.Info("system_exit_request")
	}
	if s.Exit != nil {
		s.Exit(0)
	}
	return nil
}

func (s *Shims) competitionStatus(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	return ret32(s.Dev.CompetitionStatus())
}

func (s *Shims) competitionDisabled(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	return ret32(boolU32(!s.Dev.Competition().Enabled))
}

func (s *Shims) competitionAutonomous(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	return ret32(boolU32(s.Dev.Competition().Autonomous))
}

func (s *Shims) competitionConnected(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	return ret32(boolU32(s.Dev.Competition().Connected))
}

func (s *Shims) competitionIsCompetition(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	return ret32(boolU32(s.Dev.Competition().IsCompetition))
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (s *Shims) controllerConnected(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	which := input.Which(i32(args, 0))
	return ret32(boolU32(s.Dev.Inputs.IsConnected(which)))
}

func (s *Shims) controllerAnalog(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	which := input.Which(i32(args, 0))
	axis := input.Axis(i32(args, 1))
	v := s.Dev.Inputs.Analog(which, axis)
	return ret32(uint32(int32(v * 127)))
}

func (s *Shims) controllerDigital(_ context.Context, _ guestabi.Memory, args []uint64) []uint64 {
	which := input.Which(i32(args, 0))
	btn := input.Button(i32(args, 1))
	return ret32(boolU32(s.Dev.Inputs.Digital(which, btn)))
}
