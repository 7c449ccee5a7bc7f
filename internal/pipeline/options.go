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
	"log/slog"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/registry"
)

// Option configures a RequestPipeline, ResponsePipeline, or MessagePipeline.
type Option func(s any)

// setOptions applies all provided Option functions to the provided instance.
func setOptions(target any, defaults []Option, opts ...Option) {
	for _, opt := range defaults {
		opt(target)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(target)
		}
	}
}

// WithLogger returns an Option that sets the provided logger.
//
// The Option function can only be applied to the following types:
// - *RequestPipeline
// - *ResponsePipeline
// - *MessagePipeline
func WithLogger(logger *slog.Logger) Option {
	return func(target any) {
		switch s := target.(type) {
		case *RequestPipeline:
			s.logger = logger
		case *ResponsePipeline:
			s.logger = logger
		case *MessagePipeline:
			s.logger = logger
		default:
			return
		}
	}
}

// WithRequestDispatcher returns an Option that sets the dispatcher used to
// handle parsed requests.
//
// The Option function can only be applied to the following types:
// - *RequestPipeline
// - *MessagePipeline
func WithRequestDispatcher(d registry.RequestDispatcher) Option {
	return func(target any) {
		switch s := target.(type) {
		case *RequestPipeline:
			s.dispatcher = d
		case *MessagePipeline:
			s.requests.dispatcher = d
		default:
			return
		}
	}
}

// WithResponseDispatcher returns an Option that sets the dispatcher used to
// correlate parsed responses.
//
// The Option function can only be applied to the following types:
// - *ResponsePipeline
// - *MessagePipeline
func WithResponseDispatcher(d registry.ResponseDispatcher) Option {
	return func(target any) {
		switch s := target.(type) {
		case *ResponsePipeline:
			s.dispatcher = d
		case *MessagePipeline:
			s.responses.dispatcher = d
		default:
			return
		}
	}
}

// WithValidator returns an Option that sets the validator run over the
// pipeline struct at construction. The dispatcher field is unexported, so
// the validator does not see it; the constructor checks for a missing
// dispatcher separately.
//
// The Option function can only be applied to the following types:
// - *RequestPipeline
// - *ResponsePipeline
func WithValidator(v jrpc.Validator) Option {
	return func(target any) {
		switch s := target.(type) {
		case *RequestPipeline:
			s.validator = v
		case *ResponsePipeline:
			s.validator = v
		default:
			return
		}
	}
}

// WithTracingService returns an Option that sets the tracing service used
// to open a span around each request's dispatch.
//
// The Option function can only be applied to the following types:
// - *RequestPipeline
// - *MessagePipeline
func WithTracingService(t jrpc.TracingService) Option {
	return func(target any) {
		switch s := target.(type) {
		case *RequestPipeline:
			s.tracing = t
		case *MessagePipeline:
			s.requests.tracing = t
		default:
			return
		}
	}
}

// WithMetricService returns an Option that sets the metric service used to
// count recovered handler panics.
//
// The Option function can only be applied to the following types:
// - *RequestPipeline
// - *MessagePipeline
func WithMetricService(m jrpc.MetricService) Option {
	return func(target any) {
		switch s := target.(type) {
		case *RequestPipeline:
			s.metrics = m
		case *MessagePipeline:
			s.requests.metrics = m
		default:
			return
		}
	}
}

// WithArenaCapacity returns an Option that sets the initial per-request
// arena capacity hint, in bytes.
//
// The Option function can only be applied to the following types:
// - *RequestPipeline
// - *MessagePipeline
func WithArenaCapacity(n int) Option {
	return func(target any) {
		switch s := target.(type) {
		case *RequestPipeline:
			s.arenaCapacityHint = n
		case *MessagePipeline:
			s.requests.arenaCapacityHint = n
		default:
			return
		}
	}
}
