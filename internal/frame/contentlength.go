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
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readContentLengthFrame reads an HTTP-style header block terminated by a
// blank CRLF line, then reads exactly Content-Length body bytes. Header
// keys are case-insensitive; a line beginning with whitespace continues
// the previous header's value. Additional headers are captured but
// ignored. A missing Content-Length, a malformed header line, or
// premature EOF anywhere in the header block or body yields a
// [ProtocolError].
func (r *Reader) readContentLengthFrame() ([]byte, bool, error) {
	headers := make(map[string]string)
	var lastKey string
	sawAnyByte := false

	for {
		line, err := r.br.ReadString('\n')
		if len(line) == 0 {
			if err != nil {
				if errors.Is(err, io.EOF) {
					if !sawAnyByte {
						return nil, false, nil
					}
					return nil, false, &ProtocolError{Msg: "premature EOF in header block"}
				}
				return nil, false, err
			}
			continue
		}
		sawAnyByte = true

		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}

		if (trimmed[0] == ' ' || trimmed[0] == '\t') && lastKey != "" {
			headers[lastKey] = headers[lastKey] + " " + strings.TrimSpace(trimmed)
		} else {
			idx := strings.IndexByte(trimmed, ':')
			if idx < 0 {
				return nil, false, &ProtocolError{Msg: "malformed header line"}
			}
			key := strings.ToLower(strings.TrimSpace(trimmed[:idx]))
			headers[key] = strings.TrimSpace(trimmed[idx+1:])
			lastKey = key
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, false, &ProtocolError{Msg: "premature EOF in header block"}
			}
			return nil, false, err
		}
	}

	lengthStr, ok := headers["content-length"]
	if !ok {
		return nil, false, &ProtocolError{Msg: "Content-Length header is required"}
	}
	length, err := strconv.Atoi(lengthStr)
	if err != nil || length < 0 {
		return nil, false, &ProtocolError{Msg: "invalid Content-Length value"}
	}
	if r.maxBytes > 0 && length > r.maxBytes {
		return nil, false, &ProtocolError{Msg: "frame body exceeds configured max frame size"}
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r.br, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, &ProtocolError{Msg: "premature EOF in body"}
		}
		return nil, false, err
	}
	return body, true, nil
}

// writeContentLengthFrame writes the "Content-Length: N\r\n\r\n" header
// followed by content.
func (w *Writer) writeContentLengthFrame(content []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(content))
	if _, err := io.WriteString(w.w, header); err != nil {
		return err
	}
	_, err := w.w.Write(content)
	return err
}
