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
	"bufio"
	"io"
)

// ReaderConfig configures a [Reader].
type ReaderConfig struct {
	Mode Mode
	// Delimiter is the separator byte for ModeDelimiter. Defaults to '\n'.
	Delimiter byte
	// MaxFrameBytes caps a single frame's body size; zero means unlimited.
	MaxFrameBytes int
}

// Reader reads frames from an underlying byte stream in one of the two
// wire framing modes.
type Reader struct {
	br        *bufio.Reader
	mode      Mode
	delimiter byte
	maxBytes  int
}

// NewReader wraps r as a frame [Reader] per cfg.
func NewReader(r io.Reader, cfg ReaderConfig) *Reader {
	delim := cfg.Delimiter
	if delim == 0 {
		delim = '\n'
	}
	return &Reader{
		br:        bufio.NewReader(r),
		mode:      cfg.Mode,
		delimiter: delim,
		maxBytes:  cfg.MaxFrameBytes,
	}
}

// ReadFrame reads one frame. ok is true if a frame was produced; it is
// false with a nil error on a clean EOF before any bytes were read for
// the frame. A non-nil error (typically a [ProtocolError] or an
// underlying I/O error) always comes with ok false.
func (r *Reader) ReadFrame() (content []byte, ok bool, err error) {
	switch r.mode {
	case ModeContentLength:
		return r.readContentLengthFrame()
	default:
		return r.readDelimiterFrame()
	}
}
