// Package guestabi defines the fixed contract this simulator expects from
// the guest's WebAssembly linear memory and indirect function table. The
// engine that actually backs these interfaces (the WASM runtime itself) is
// an external collaborator out of this package's scope; guestabi only
// describes the shape it must have.
package guestabi

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Memory is a view onto a guest's linear memory. Implementations are not
// required to be safe for concurrent use, matching the single-threaded
// guest/host call model: only one host function runs at a time.
type Memory interface {
	// Size reports the current size of linear memory in bytes.
	Size() uint32

	// Read returns a copy of the length bytes starting at offset, or false
	// if the span falls outside the current memory.
	Read(offset, length uint32) ([]byte, bool)

	// Write copies data into memory starting at offset, returning false if
	// the span falls outside the current memory.
	Write(offset uint32, data []byte) bool
}

// MemoryError reports an out-of-range or malformed guest memory access.
// Per spec, a MemoryError is a guest-side misuse: the caller is expected to
// trap the guest instance rather than continue running it.
type MemoryError struct {
	Offset uint32
	Length uint32
	Reason string
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("guest memory error at offset 0x%x (length %d): %s", e.Offset, e.Length, e.Reason)
}

// ReadBytes copies a sized, bounds-checked byte window out of guest linear
// memory. The returned slice never aliases the guest's backing array: the
// guest can grow or relocate memory between host calls, so nothing may
// borrow across a call boundary (unlike the original Rust implementation,
// which can return a borrow bounded by the store's lifetime — Go has no
// borrow checker to enforce that, so this package copies eagerly instead).
func ReadBytes(mem Memory, offset, length uint32) ([]byte, error) {
	data, ok := mem.Read(offset, length)
	if !ok {
		return nil, &MemoryError{Offset: offset, Length: length, Reason: "out of range"}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ReadCString locates the first NUL byte at or after offset, validates that
// the bytes preceding it are well-formed UTF-8, and returns them decoded as
// a string. It returns an error if no NUL terminator is found before the
// end of memory, or if the bytes are not valid UTF-8.
//
// The returned string is backed by a freshly allocated copy, never a view
// into guest memory, for the same reason as ReadBytes: a borrowed view
// could be invalidated by a guest memory grow before the caller is done
// with it.
func ReadCString(mem Memory, offset uint32) (string, error) {
	size := mem.Size()
	if offset >= size {
		return "", &MemoryError{Offset: offset, Reason: "offset beyond end of memory"}
	}

	// Scan forward in chunks rather than byte-at-a-time so a long string
	// doesn't turn into O(n) separate Read calls against the guest memory
	// implementation.
	const chunk = 256
	var buf []byte
	for cursor := offset; cursor < size; {
		remaining := size - cursor
		n := uint32(chunk)
		if remaining < n {
			n = remaining
		}
		window, ok := mem.Read(cursor, n)
		if !ok {
			return "", &MemoryError{Offset: cursor, Length: n, Reason: "out of range while scanning for NUL terminator"}
		}
		if idx := bytes.IndexByte(window, 0); idx >= 0 {
			buf = append(buf, window[:idx]...)
			if !utf8.Valid(buf) {
				return "", &MemoryError{Offset: offset, Length: uint32(len(buf)), Reason: "string is not valid UTF-8"}
			}
			return string(buf), nil
		}
		buf = append(buf, window...)
		cursor += n
	}

	return "", &MemoryError{Offset: offset, Reason: "no NUL terminator before end of memory"}
}
