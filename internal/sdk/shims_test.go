package sdk

import (
	"context"
	"encoding/binary"
	"image"
	"testing"

	"github.com/vexide/vex-sdk-sim/internal/device"
	"github.com/vexide/vex-sdk-sim/internal/display"
)

type fakeMemory struct {
	data []byte
}

func (m *fakeMemory) Size() uint32 { return uint32(len(m.data)) }

func (m *fakeMemory) Read(offset, length uint32) ([]byte, bool) {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return nil, false
	}
	return m.data[offset : offset+length], true
}

func (m *fakeMemory) Write(offset uint32, data []byte) bool {
	if uint64(offset)+uint64(len(data)) > uint64(len(m.data)) {
		return false
	}
	copy(m.data[offset:], data)
	return true
}

func newShims() (*Shims, *device.State) {
	dev := device.New()
	return &Shims{Dev: dev}, dev
}

func TestForegroundColorShimUnpacksColor(t *testing.T) {
	s, dev := newShims()
	packed := display.Color{R: 1, G: 2, B: 3}.Pack()
	s.foregroundColor(context.Background(), &fakeMemory{}, []uint64{uint64(packed)})

	if got := dev.Display.Foreground(); got != (display.Color{R: 1, G: 2, B: 3}) {
		t.Errorf("Foreground() = %+v, want {1 2 3}", got)
	}
}

func TestRectFillShimDrawsAndRenders(t *testing.T) {
	s, dev := newShims()

	var frame image.Image
	dev.Display.SetFrameSink(func(img image.Image) error {
		frame = img
		return nil
	})

	s.rectFill(context.Background(), &fakeMemory{}, []uint64{10, 50, 20, 60})

	if frame == nil {
		t.Fatal("rectFill should trigger an implicit render, invoking the frame sink")
	}
	r, g, b, _ := frame.At(15, 55).RGBA()
	if r == 0 && g == 0 && b == 0 {
		t.Error("rect fill should have painted the interior pixel away from default black background")
	}
}

func TestStringWidthGetShimReadsCString(t *testing.T) {
	s, _ := newShims()
	mem := &fakeMemory{data: append([]byte("Hi"), 0)}

	ret := s.stringWidthGet(context.Background(), mem, []uint64{0})
	if len(ret) != 1 || ret[0] == 0 {
		t.Errorf("stringWidthGet returned %v, want a positive width", ret)
	}
}

func TestSerialWriteBufferShimCopiesBytes(t *testing.T) {
	s, _ := newShims()
	msg := []byte("hello\n")
	mem := &fakeMemory{data: msg}

	var got []byte
	s.SerialOut = func(channel int, p []byte) {
		if channel == 1 {
			got = append(got, p...)
		}
	}

	ret := s.serialWriteBuffer(context.Background(), mem, []uint64{1, 0, uint64(len(msg))})
	if len(ret) != 1 || ret[0] != uint64(len(msg)) {
		t.Errorf("serialWriteBuffer returned %v, want [%d]", ret, len(msg))
	}
	if string(got) != "hello\n" {
		t.Errorf("SerialOut received %q, want %q", got, "hello\n")
	}
}

func TestSerialReadByteShimAlwaysReportsNoData(t *testing.T) {
	s, _ := newShims()
	ret := s.serialReadByte(context.Background(), &fakeMemory{}, nil)
	if len(ret) != 1 || int32(uint32(ret[0])) != -1 {
		t.Errorf("serialReadByte returned %v, want -1", ret)
	}
}

func TestCompetitionStatusShimReflectsState(t *testing.T) {
	s, dev := newShims()
	dev.SetCompetition(device.CompetitionMode{Enabled: true, Autonomous: true})

	ret := s.competitionStatus(context.Background(), &fakeMemory{}, nil)
	if len(ret) != 1 {
		t.Fatalf("competitionStatus returned %v", ret)
	}
	if ret[0]&2 == 0 {
		t.Error("AUTONOMOUS bit should be set")
	}
	if ret[0]&1 != 0 {
		t.Error("DISABLED bit should be clear once enabled")
	}
}

func TestCopyRectShimBlitsPixels(t *testing.T) {
	s, dev := newShims()
	var buf [2 * 2 * 4]byte
	binary.LittleEndian.PutUint32(buf[0:], display.Color{R: 9}.Pack())
	binary.LittleEndian.PutUint32(buf[4:], display.Color{R: 9}.Pack())
	binary.LittleEndian.PutUint32(buf[8:], display.Color{R: 9}.Pack())
	binary.LittleEndian.PutUint32(buf[12:], display.Color{R: 9}.Pack())
	mem := &fakeMemory{data: buf[:]}

	// copy_rect reads (x2-x1)*(y2-y1) pixels, so a 2x2 source needs
	// x2 = x1+2 and y2 = y1+2.
	ret := s.copyRect(context.Background(), mem, []uint64{0, uint64(display.HeaderHeight), 2, uint64(display.HeaderHeight + 2), 0, 2})
	if ret != nil {
		t.Errorf("copyRect returned %v, want nil", ret)
	}
	r, g, b, _ := dev.Display.Snapshot().At(1, display.HeaderHeight+1).RGBA()
	if r>>8 != 9 || g != 0 || b != 0 {
		t.Errorf("pixel (1,1) of the blit = (%d,%d,%d), want (9,0,0)", r>>8, g>>8, b>>8)
	}
}
