package jumptable

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/vexide/vex-sdk-sim/internal/guestabi"
)

type fakeTable struct {
	slots []guestabi.HostFunction
}

func (t *fakeTable) Size() int { return len(t.slots) }

func (t *fakeTable) Grow(delta int, init guestabi.HostFunction) (int, error) {
	base := len(t.slots)
	for i := 0; i < delta; i++ {
		t.slots = append(t.slots, init)
	}
	return base, nil
}

func (t *fakeTable) Set(index int, fn guestabi.HostFunction) error {
	t.slots[index] = fn
	return nil
}

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

func noop(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 { return nil }

func TestInsertDuplicateAddressPanics(t *testing.T) {
	b := NewBuilder()
	b.Insert(0x640, noop)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate address insert")
		}
	}()
	b.Insert(0x640, noop)
}

// TestInstallWritesSlotIndices is scenario S5 from spec.md §8.
func TestInstallWritesSlotIndices(t *testing.T) {
	b := NewBuilder()
	b.Insert(0x640, noop)
	b.Insert(0x644, noop)

	table := &fakeTable{}
	mem := &fakeMemory{data: make([]byte, JumpTableStart+0x1000)}

	if err := Install(table, mem, b); err != nil {
		t.Fatalf("Install: %v", err)
	}

	read := func(addr uint64) uint32 {
		bs, ok := mem.Read(uint32(JumpTableStart+addr), 4)
		if !ok {
			t.Fatalf("guest memory read at %#x failed", JumpTableStart+addr)
		}
		return binary.LittleEndian.Uint32(bs)
	}

	i1, i2 := read(0x640), read(0x644)
	if i1 == i2 {
		t.Fatalf("both addresses installed to the same slot index %d", i1)
	}
	for _, idx := range []uint32{i1, i2} {
		if int(idx) < 0 || int(idx) >= len(table.slots) {
			t.Fatalf("slot index %d out of range", idx)
		}
		if table.slots[idx] == nil {
			t.Fatalf("slot %d was not assigned a host function", idx)
		}
	}
}

func TestInstallGrowsTableByEntryCount(t *testing.T) {
	b := NewBuilder()
	b.Insert(0x640, noop)
	b.Insert(0x644, noop)
	b.Insert(0x668, noop)

	table := &fakeTable{}
	mem := &fakeMemory{data: make([]byte, JumpTableStart+0x1000)}

	base := table.Size()
	if err := Install(table, mem, b); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if got := table.Size() - base; got != 3 {
		t.Errorf("table grew by %d, want 3", got)
	}
}
