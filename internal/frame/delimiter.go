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
	"errors"
	"io"
)

// readDelimiterFrame reads up to the next delimiter byte, stripping a
// trailing CR and silently skipping empty frames (two consecutive
// delimiters). A final, unterminated run of bytes at EOF is still
// returned as a produced frame; the following call then reports a clean
// EOF.
func (r *Reader) readDelimiterFrame() ([]byte, bool, error) {
	for {
		line, err := r.br.ReadBytes(r.delimiter)
		if len(line) == 0 {
			if err == nil {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil, false, nil
			}
			return nil, false, err
		}

		content := bytes.TrimSuffix(line, []byte{r.delimiter})
		content = bytes.TrimSuffix(content, []byte{'\r'})

		if len(content) == 0 {
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, false, nil
				}
				return nil, false, err
			}
			continue
		}

		if r.maxBytes > 0 && len(content) > r.maxBytes {
			return nil, false, &ProtocolError{Msg: "frame exceeds configured max frame size"}
		}

		out := make([]byte, len(content))
		copy(out, content)
		return out, true, nil
	}
}

// writeDelimiterFrame appends content followed by the delimiter byte.
func (w *Writer) writeDelimiterFrame(content []byte) error {
	if _, err := w.w.Write(content); err != nil {
		return err
	}
	_, err := w.w.Write([]byte{w.delimiter})
	return err
}
