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

package frame

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReader_Delimiter_Basic(t *testing.T) {
	r := NewReader(strings.NewReader("one\ntwo\nthree\n"), ReaderConfig{Mode: ModeDelimiter})

	var got []string
	for {
		frame, ok, err := r.ReadFrame()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, string(frame))
	}
	require.Equal(t, []string{"one", "two", "three"}, got)
}

func TestReader_Delimiter_StripsCR(t *testing.T) {
	r := NewReader(strings.NewReader("one\r\ntwo\r\n"), ReaderConfig{Mode: ModeDelimiter})

	frame, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "one", string(frame))
}

func TestReader_Delimiter_SkipsEmptyFrames(t *testing.T) {
	r := NewReader(strings.NewReader("one\n\n\ntwo\n"), ReaderConfig{Mode: ModeDelimiter})

	frame, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "one", string(frame))

	frame, ok, err = r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", string(frame))

	_, ok, err = r.ReadFrame()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReader_Delimiter_UnterminatedFinalFrame(t *testing.T) {
	r := NewReader(strings.NewReader("one\ntwo"), ReaderConfig{Mode: ModeDelimiter})

	frame, ok, _ := r.ReadFrame()
	require.True(t, ok)
	require.Equal(t, "one", string(frame))

	frame, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", string(frame))

	_, ok, err = r.ReadFrame()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReader_Delimiter_MaxFrameBytes(t *testing.T) {
	r := NewReader(strings.NewReader("toolong\n"), ReaderConfig{Mode: ModeDelimiter, MaxFrameBytes: 3})

	_, ok, err := r.ReadFrame()
	require.False(t, ok)
	require.Error(t, err)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestWriter_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{Mode: ModeDelimiter})

	require.NoError(t, w.WriteFrame([]byte("hello")))
	require.Equal(t, "hello\n", buf.String())
}

func TestDelimiter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{Mode: ModeDelimiter})
	require.NoError(t, w.WriteFrame([]byte(`{"a":1}`)))
	require.NoError(t, w.WriteFrame([]byte(`{"b":2}`)))

	r := NewReader(&buf, ReaderConfig{Mode: ModeDelimiter})
	frame, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"a":1}`, string(frame))

	frame, ok, err = r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"b":2}`, string(frame))
}
