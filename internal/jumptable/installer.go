package jumptable

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/vexide/vex-sdk-sim/internal/guestabi"
)

// trap is installed into every newly-grown table slot before its real
// host function is assigned, so a guest call through a slot that somehow
// skipped assignment fails loudly instead of silently doing nothing.
func trap(_ context.Context, _ guestabi.Memory, _ []uint64) []uint64 {
	panic("jumptable: unassigned slot called")
}

// Install grows table by one slot per entry in b, writes each host
// function into its new slot, and writes the slot's little-endian index
// into guest memory at JumpTableStart + address, per spec.md §4.5.
func Install(table guestabi.Table, mem guestabi.Memory, b *Builder) error {
	addrs := b.addresses()
	base, err := table.Grow(len(addrs), trap)
	if err != nil {
		return fmt.Errorf("jumptable: grow table by %d: %w", len(addrs), err)
	}

	for i, addr := range addrs {
		slot := base + i
		if err := table.Set(slot, b.entries[addr]); err != nil {
			return fmt.Errorf("jumptable: install address %#x at slot %d: %w", addr, slot, err)
		}

		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(slot))
		if !mem.Write(uint32(JumpTableStart+addr), buf[:]) {
			return fmt.Errorf("jumptable: write slot index for address %#x: guest memory write out of range", addr)
		}
	}

	return nil
}
