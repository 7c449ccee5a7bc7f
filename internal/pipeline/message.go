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

package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/madsrc/jrpc/internal/arena"
	"github.com/madsrc/jrpc/internal/dispatch"
)

var (
	errMissingRequestDispatcher  = errors.New("pipeline: no request dispatcher supplied")
	errMissingResponseDispatcher = errors.New("pipeline: no response dispatcher supplied")
)

// MessagePipeline auto-detects whether an inbound document is a request or
// a response at the envelope level and routes it to the matching embedded
// pipeline, for peers that act as both caller and callee on one stream.
type MessagePipeline struct {
	requests  *RequestPipeline
	responses *ResponsePipeline
	logger    *slog.Logger
}

// NewMessagePipeline builds a MessagePipeline. A RequestDispatcher and a
// ResponseDispatcher must be supplied via WithRequestDispatcher and
// WithResponseDispatcher respectively.
func NewMessagePipeline(opts ...Option) (*MessagePipeline, error) {
	m := &MessagePipeline{
		requests:  &RequestPipeline{arenaCapacityHint: defaultArenaCapacity},
		responses: &ResponsePipeline{},
	}
	setOptions(m, nil, opts...)

	if m.requests.dispatcher == nil {
		return nil, errMissingRequestDispatcher
	}
	if m.responses.dispatcher == nil {
		return nil, errMissingResponseDispatcher
	}
	if m.requests.arena == nil {
		m.requests.arena = arena.New(m.requests.arenaCapacityHint)
	}
	if m.requests.logger == nil {
		m.requests.logger = m.logger
	}
	if m.responses.logger == nil {
		m.responses.logger = m.logger
	}
	return m, nil
}

// Run auto-detects whether data is a request or a response document — a
// "method" key marks a request, "result"/"error" marks a response — and
// routes it to the matching pipeline. It returns the response bytes to
// write back for a request document, or nil for a response document (the
// response pipeline produces no reply bytes of its own).
func (m *MessagePipeline) Run(ctx *dispatch.DispatchCtx, data []byte) []byte {
	if isRequestDocument(data) {
		return m.requests.RunRequest(data)
	}
	m.responses.RunResponse(ctx, data)
	return nil
}

// isRequestDocument reports whether data's envelope looks like a request
// ("method" present) rather than a response ("result"/"error" present). A
// batch document is classified by its first element; malformed or empty
// input is treated as a request so the request pipeline's Parser produces
// the appropriate ParseError/InvalidRequest diagnostic.
func isRequestDocument(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return true
	}

	probe := trimmed
	if trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err == nil && len(raws) > 0 {
			probe = bytes.TrimSpace(raws[0])
		}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(probe, &obj); err != nil {
		return true
	}
	if _, ok := obj["method"]; ok {
		return true
	}
	if _, ok := obj["result"]; ok {
		return false
	}
	if _, ok := obj["error"]; ok {
		return false
	}
	return true
}
