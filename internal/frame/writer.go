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

import "io"

// WriterConfig configures a [Writer].
type WriterConfig struct {
	Mode Mode
	// Delimiter is the separator byte for ModeDelimiter. Defaults to '\n'.
	Delimiter byte
}

// Writer writes frames to an underlying byte stream in one of the two
// wire framing modes.
type Writer struct {
	w         io.Writer
	mode      Mode
	delimiter byte
}

// NewWriter wraps w as a frame [Writer] per cfg.
func NewWriter(w io.Writer, cfg WriterConfig) *Writer {
	delim := cfg.Delimiter
	if delim == 0 {
		delim = '\n'
	}
	return &Writer{w: w, mode: cfg.Mode, delimiter: delim}
}

// WriteFrame writes one frame carrying content.
func (w *Writer) WriteFrame(content []byte) error {
	switch w.mode {
	case ModeContentLength:
		return w.writeContentLengthFrame(content)
	default:
		return w.writeDelimiterFrame(content)
	}
}
