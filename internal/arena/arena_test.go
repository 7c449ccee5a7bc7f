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

package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArena_AllocString(t *testing.T) {
	a := New(0)
	s := a.AllocString("hello")
	require.Equal(t, "hello", s)
	require.Equal(t, 5, a.Len())
}

func TestArena_AllocGrowsAndIsolates(t *testing.T) {
	a := New(0)
	first := a.Alloc(4)
	copy(first, "abcd")
	second := a.Alloc(4)
	copy(second, "wxyz")

	require.Equal(t, []byte("abcd"), first)
	require.Equal(t, []byte("wxyz"), second)
}

func TestArena_Reset(t *testing.T) {
	a := New(0)
	a.AllocString("first request")
	require.Greater(t, a.Len(), 0)
	capBefore := a.Cap()

	a.Reset()

	require.Equal(t, 0, a.Len())
	require.Equal(t, capBefore, a.Cap())

	s := a.AllocString("second request")
	require.Equal(t, "second request", s)
}

func TestArena_AllocBytes(t *testing.T) {
	a := New(0)
	src := []byte{1, 2, 3}
	got := a.AllocBytes(src)
	require.Equal(t, src, got)

	src[0] = 9
	require.Equal(t, byte(1), got[0], "arena copy must not alias the source slice")
}
