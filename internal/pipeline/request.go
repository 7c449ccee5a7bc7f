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
	"context"
	"encoding/json"
	"log/slog"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/arena"
	"github.com/madsrc/jrpc/internal/dispatch"
	"github.com/madsrc/jrpc/internal/jsonrpc"
	"github.com/madsrc/jrpc/internal/registry"
	"github.com/madsrc/jrpc/internal/validator"
)

const defaultArenaCapacity = 4096

// RequestPipeline owns a per-request arena and wires Parse -> Dispatch ->
// Compose together for inbound request documents. It is not safe for
// concurrent use by multiple goroutines: the arena is reset and reused
// across calls to RunRequest.
type RequestPipeline struct {
	dispatcher registry.RequestDispatcher `validate:"required"`
	arena      *arena.Arena
	logger     *slog.Logger
	validator  jrpc.Validator
	tracing    jrpc.TracingService
	metrics    jrpc.MetricService

	arenaCapacityHint int
}

// NewRequestPipeline builds a RequestPipeline. A RequestDispatcher must be
// supplied via WithRequestDispatcher.
func NewRequestPipeline(opts ...Option) (*RequestPipeline, error) {
	p := &RequestPipeline{arenaCapacityHint: defaultArenaCapacity, validator: validator.NewValidator()}
	setOptions(p, defaultRequestPipelineOptions(), opts...)

	if err := p.validator.Validate(p); err != nil {
		return nil, err
	}
	if p.dispatcher == nil {
		return nil, errMissingRequestDispatcher
	}
	if p.arena == nil {
		p.arena = arena.New(p.arenaCapacityHint)
	}
	return p, nil
}

func defaultRequestPipelineOptions() []Option {
	return nil
}

// RunRequest parses data, dispatches every request it contains, composes
// the response documents, and returns the accumulated response bytes: nil
// for a lone notification, "[]" for an empty batch, "[...]" for a
// non-empty batch.
func (p *RequestPipeline) RunRequest(data []byte) []byte {
	msg := jsonrpc.ParseRequest(data)

	if !msg.Batch {
		resp, ok := p.runOne(&msg.Single)
		if !ok {
			return nil
		}
		b, _ := resp.MarshalJSON()
		return b
	}

	items := make([][]byte, 0, len(msg.Items))
	for i := range msg.Items {
		resp, ok := p.runOne(&msg.Items[i])
		if !ok {
			continue
		}
		b, _ := resp.MarshalJSON()
		items = append(items, b)
	}
	return jsonrpc.MakeBatchResponseJSON(items)
}

// HandleRPCRequest implements the [jrpc.RPCServer] boundary for transports
// that want a context-aware entry point. The context is accepted for
// interface compatibility; parse, dispatch, and compose run to completion
// without suspension points, so there is nothing to cancel mid-request.
func (p *RequestPipeline) HandleRPCRequest(ctx context.Context, req []byte) ([]byte, error) {
	return p.RunRequest(req), nil
}

var _ jrpc.RPCServer = (*RequestPipeline)(nil)

// ParsedResponse pairs the raw response bytes RunRequest produced with the
// already-parsed message, for callers that want both without re-parsing.
type ParsedResponse struct {
	JSON    []byte
	Message jsonrpc.ResponseMessage
}

// RunRequestToResponse additionally parses the response it produces, for
// caller convenience.
func (p *RequestPipeline) RunRequestToResponse(data []byte) ParsedResponse {
	raw := p.RunRequest(data)
	if len(raw) == 0 {
		return ParsedResponse{Message: jsonrpc.NoResponseMessage()}
	}
	return ParsedResponse{JSON: raw, Message: parseResponseMessage(raw)}
}

// runOne resets the arena, dispatches a single request, and reports the
// response to emit along with whether one should be emitted at all.
// Error-sentinel requests (parser diagnostics) skip dispatch entirely.
//
// A panic out of the dispatcher, a hook, or a handler is recovered here
// and converted to an InternalError response, so one misbehaving handler
// cannot tear down a stream loop serving other requests. Notifications
// that panic still produce no output.
func (p *RequestPipeline) runOne(req *jsonrpc.Request) (resp jsonrpc.Response, ok bool) {
	p.arena.Reset()

	if req.IsErrorSentinel() {
		return jsonrpc.Response{ID: req.ID, Error: req.Err}, true
	}

	defer func() {
		if r := recover(); r != nil {
			if p.metrics != nil {
				p.metrics.RecordPanic(context.Background())
			}
			if p.logger != nil {
				p.logger.Error("recovered panic during dispatch", "method", req.Method, "error", jrpc.NewPanicError(r))
			}
			if req.IsNotification() {
				resp, ok = jsonrpc.Response{}, false
				return
			}
			resp = jsonrpc.Response{ID: req.ID, Error: &jsonrpc.Error{
				Code:    jsonrpc.InternalError,
				Message: jsonrpc.InternalErrorMessage,
			}}
			ok = true
		}
	}()

	if p.tracing != nil {
		_, span := p.tracing.StartSpan(context.Background(), "dispatch "+string(req.Method))
		defer span.End()
	}

	ctx := &dispatch.DispatchCtx{Arena: p.arena, Logger: p.logger, Request: req}
	result := p.dispatcher.Dispatch(ctx, req)
	p.dispatcher.DispatchEnd(ctx, req, result)

	if req.IsNotification() {
		return jsonrpc.Response{}, false
	}

	switch {
	case result.IsNone():
		return jsonrpc.Response{}, false
	case result.IsErr():
		return jsonrpc.Response{ID: req.ID, Error: result.Err}, true
	default:
		raw := json.RawMessage(result.JSON)
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		return jsonrpc.Response{ID: req.ID, Result: raw}, true
	}
}
