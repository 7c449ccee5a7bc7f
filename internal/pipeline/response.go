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
	"log/slog"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/dispatch"
	"github.com/madsrc/jrpc/internal/jsonrpc"
	"github.com/madsrc/jrpc/internal/registry"
	"github.com/madsrc/jrpc/internal/validator"
)

// ResponsePipeline is the client-side mirror of RequestPipeline: it parses
// inbound response documents and forwards each to a ResponseDispatcher so
// a caller can correlate replies to pending calls.
type ResponsePipeline struct {
	dispatcher registry.ResponseDispatcher `validate:"required"`
	logger     *slog.Logger
	validator  jrpc.Validator
}

// NewResponsePipeline builds a ResponsePipeline. A ResponseDispatcher must
// be supplied via WithResponseDispatcher.
func NewResponsePipeline(opts ...Option) (*ResponsePipeline, error) {
	p := &ResponsePipeline{validator: validator.NewValidator()}
	setOptions(p, nil, opts...)

	if err := p.validator.Validate(p); err != nil {
		return nil, err
	}
	if p.dispatcher == nil {
		return nil, errMissingResponseDispatcher
	}
	return p, nil
}

// RunResponse parses data as one response object or a batch array of them
// and forwards each to the dispatcher, returning the parsed message.
func (p *ResponsePipeline) RunResponse(ctx *dispatch.DispatchCtx, data []byte) jsonrpc.ResponseMessage {
	msg := parseResponseMessage(data)

	if msg.IsBatch() {
		items := msg.Items()
		for i := range items {
			p.dispatcher.Dispatch(ctx, &items[i])
		}
		return msg
	}
	if !msg.IsNone() {
		single := msg.Single()
		p.dispatcher.Dispatch(ctx, &single)
	}
	return msg
}

// parseResponseMessage parses bytes holding one response object or a batch
// array into a ResponseMessage. Malformed input yields [jsonrpc.NoResponseMessage]
// rather than an error: a response document arriving malformed has no
// request id to attach a diagnostic to, so it is simply dropped.
func parseResponseMessage(data []byte) jsonrpc.ResponseMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return jsonrpc.NoResponseMessage()
	}

	if trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return jsonrpc.NoResponseMessage()
		}
		items := make([]jsonrpc.Response, 0, len(raws))
		for _, raw := range raws {
			var resp jsonrpc.Response
			if err := json.Unmarshal(raw, &resp); err == nil {
				items = append(items, resp)
			}
		}
		return jsonrpc.NewBatchResponseMessage(items)
	}

	var resp jsonrpc.Response
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return jsonrpc.NoResponseMessage()
	}
	return jsonrpc.SingleResponseMessage(resp)
}
