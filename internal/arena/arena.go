// Sophrosyne
//   Copyright (C) 2024  Mads R. Havmand
//
// This program is free software: you can redistribute it and/or modify
//   it under the terms of the GNU Affero General Public License as published by
//   the Free Software Foundation, either version 3 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU Affero General Public License for more details.
//
//   You should have received a copy of the GNU Affero General Public License
//   along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package arena implements a per-request bump allocator: a byte buffer that
// grows as needed and is reset, not freed, between requests. It exists so a
// pipeline can hand handlers a scratch allocator for building result
// strings without a fresh heap allocation per request, and so those scratch
// allocations get reclaimed in one cheap operation (a slice truncation)
// rather than individually.
//
// The arena holds only plain bytes: nothing it returns carries a finalizer
// or needs individual release, matching the "free all allocations since
// last reset without invoking per-allocation destructors" contract.
package arena

// Arena is a bump-style byte allocator. The zero value is ready to use.
//
// Arena is not safe for concurrent use; callers running handlers for
// multiple requests in parallel must give each its own Arena.
type Arena struct {
	buf []byte
}

// New returns an Arena with an initial capacity hint. A zero or negative
// hint is treated as no hint.
func New(capacityHint int) *Arena {
	if capacityHint <= 0 {
		return &Arena{}
	}
	return &Arena{buf: make([]byte, 0, capacityHint)}
}

// Alloc returns n zeroed bytes carved from the arena's buffer, growing it
// if necessary. The returned slice is only valid until the next Reset.
func (a *Arena) Alloc(n int) []byte {
	start := len(a.buf)
	a.buf = append(a.buf, make([]byte, n)...)
	return a.buf[start : start+n : start+n]
}

// AllocString copies s into the arena and returns a string converted from
// that copy. The conversion allocates again, so the returned string is not
// backed by arena memory.
func (a *Arena) AllocString(s string) string {
	b := a.Alloc(len(s))
	copy(b, s)
	return string(b)
}

// AllocBytes copies src into the arena and returns the copy.
func (a *Arena) AllocBytes(src []byte) []byte {
	b := a.Alloc(len(src))
	copy(b, src)
	return b
}

// Len reports the number of bytes allocated since the arena was created or
// last reset.
func (a *Arena) Len() int { return len(a.buf) }

// Cap reports the arena's current underlying capacity.
func (a *Arena) Cap() int { return cap(a.buf) }

// Reset reclaims every allocation made since the arena was created or last
// reset, without releasing the underlying buffer, so the next request's
// allocations reuse the same memory.
func (a *Arena) Reset() {
	a.buf = a.buf[:0]
}
