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

// Package frame implements the two wire-framing modes — LF-delimited and
// HTTP-style Content-Length — and the stream loop that reads frames from a
// reader, hands each to a pipeline, and writes the response frame back.
package frame

import "fmt"

// Mode selects a framing format for a [Reader] or [Writer].
type Mode int

const (
	// ModeDelimiter frames on a single separator byte (conventionally LF).
	ModeDelimiter Mode = iota
	// ModeContentLength frames with an HTTP-style "Content-Length: N\r\n\r\n" header block.
	ModeContentLength
)

// ProtocolError reports a framing-level violation: a malformed header
// block, a missing or invalid Content-Length, or premature EOF inside a
// header block or body.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("frame: %s", e.Msg)
}
