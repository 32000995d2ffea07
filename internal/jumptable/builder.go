// Package jumptable builds and installs the SDK jump table: the mapping
// from fixed absolute guest addresses to host functions, exposed to the
// guest through its indirect function table.
package jumptable

import (
	"fmt"

	"github.com/vexide/vex-sdk-sim/internal/guestabi"
)

// JumpTableStart is the guest linear-memory offset of the SDK jump-table
// page (spec.md §6). Entry A's installed indirect-table index is stored,
// little-endian, at JumpTableStart + A.
const JumpTableStart = 0x037FC000

// Builder accumulates (address -> host function) entries before
// installation. It is populated once at boot by internal/sdk's
// registration code.
type Builder struct {
	entries map[uint64]guestabi.HostFunction
	order   []uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: map[uint64]guestabi.HostFunction{}}
}

// Insert records fn at address. A duplicate address is a programming
// error — it can only happen if internal/sdk's own registration code
// registers the same SDK address twice, never from guest input — so it
// panics rather than returning an error, matching spec.md §3/§7's
// "programming error: panic" rule.
func (b *Builder) Insert(address uint64, fn guestabi.HostFunction) {
	if _, ok := b.entries[address]; ok {
		panic(fmt.Sprintf("jumptable: address %#x registered twice", address))
	}
	b.entries[address] = fn
	b.order = append(b.order, address)
}

// Len returns the number of entries inserted so far.
func (b *Builder) Len() int {
	return len(b.order)
}

// addresses returns the inserted addresses in insertion order. Assignment
// order to table slots is unspecified per spec.md §4.5; insertion order
// is used only so installation is deterministic for tests.
func (b *Builder) addresses() []uint64 {
	return b.order
}
