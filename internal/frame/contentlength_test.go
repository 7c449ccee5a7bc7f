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

func TestReader_ContentLength_Basic(t *testing.T) {
	raw := "Content-Length: 13\r\n\r\n{\"a\":1,\"b\":2}"
	r := NewReader(strings.NewReader(raw), ReaderConfig{Mode: ModeContentLength})

	frame, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"a":1,"b":2}`, string(frame))
}

func TestReader_ContentLength_CaseInsensitiveHeader(t *testing.T) {
	raw := "content-LENGTH: 4\r\n\r\nnull"
	r := NewReader(strings.NewReader(raw), ReaderConfig{Mode: ModeContentLength})

	frame, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "null", string(frame))
}

func TestReader_ContentLength_ExtraHeadersIgnored(t *testing.T) {
	raw := "X-Trace-Id: abc123\r\nContent-Length: 4\r\n\r\nnull"
	r := NewReader(strings.NewReader(raw), ReaderConfig{Mode: ModeContentLength})

	frame, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "null", string(frame))
}

func TestReader_ContentLength_MissingHeader(t *testing.T) {
	raw := "\r\nnull"
	r := NewReader(strings.NewReader(raw), ReaderConfig{Mode: ModeContentLength})

	_, ok, err := r.ReadFrame()
	require.False(t, ok)
	require.Error(t, err)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestReader_ContentLength_PrematureEOFInBody(t *testing.T) {
	raw := "Content-Length: 100\r\n\r\nshort"
	r := NewReader(strings.NewReader(raw), ReaderConfig{Mode: ModeContentLength})

	_, ok, err := r.ReadFrame()
	require.False(t, ok)
	require.Error(t, err)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestReader_ContentLength_CleanEOF(t *testing.T) {
	r := NewReader(strings.NewReader(""), ReaderConfig{Mode: ModeContentLength})

	_, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWriter_ContentLength(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{Mode: ModeContentLength})

	require.NoError(t, w.WriteFrame([]byte(`{"a":1}`)))
	require.Equal(t, "Content-Length: 7\r\n\r\n{\"a\":1}", buf.String())
}

func TestContentLength_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WriterConfig{Mode: ModeContentLength})
	require.NoError(t, w.WriteFrame([]byte(`{"a":1}`)))
	require.NoError(t, w.WriteFrame([]byte(`{"b":2}`)))

	r := NewReader(&buf, ReaderConfig{Mode: ModeContentLength})
	frame, ok, err := r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"a":1}`, string(frame))

	frame, ok, err = r.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"b":2}`, string(frame))
}
