package guestabi

import "context"

// HostFunction is a host-implemented SDK entry point, reachable from the
// guest via an indirect call through the guest's function table. args and
// the return value are raw WebAssembly stack values (the calling
// convention — number and type of words — is fixed per SDK address by
// internal/sdk).
type HostFunction func(ctx context.Context, mem Memory, args []uint64) []uint64

// Table is the guest's indirect function table (the WebAssembly
// `__indirect_function_table` export). The jump-table installer grows it
// and populates the new slots with host functions; nothing else in this
// simulator touches it afterwards.
type Table interface {
	// Size returns the current number of slots in the table.
	Size() int

	// Grow appends delta new slots, each initially holding init (typically
	// a trapping placeholder), and returns the index of the first new
	// slot.
	Grow(delta int, init HostFunction) (base int, err error)

	// Set installs fn at the given slot index. The index must have been
	// returned by a prior Grow call on this table.
	Set(index int, fn HostFunction) error
}
