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

// Package dispatch implements the handler binder: it turns a host function
// of (almost) arbitrary shape into a uniform callable taking a [DispatchCtx]
// and the request's jsonrpc.Params and returning a [Result], by inspecting the
// function's signature once at registration time with reflect and building
// a closure that knows how to convert each call's params.
package dispatch

import (
	"log/slog"

	"github.com/madsrc/jrpc/internal/arena"
	"github.com/madsrc/jrpc/internal/jsonrpc"
)

// DispatchCtx is per-request scratch handed to every handler invocation.
// The Arena is reset between requests by the pipeline; handlers must not
// retain slices allocated from it past the call that produced them.
type DispatchCtx struct {
	Arena   *arena.Arena
	Logger  *slog.Logger
	// UserData is an opaque pointer for the caller's own use. The registry
	// and pipeline never set it: the context pointer given to AddWithCtx is
	// passed straight to the bound function instead.
	UserData any
	Request  *jsonrpc.Request
}

// resultKind tags the three states a [Result] can be in.
type resultKind uint8

const (
	// ResultNone means the request was a notification, or the handler
	// elected to suppress a response; the pipeline emits nothing for it.
	ResultNone resultKind = iota
	ResultValue
	ResultErr
)

// Result is the uniform outcome of a handler invocation.
type Result struct {
	Kind resultKind
	// JSON holds the pre-serialized return value; meaningful only when
	// Kind == ResultValue. It is allocated from the request's Arena.
	JSON []byte
	// Err holds the structured error; meaningful only when Kind == ResultErr.
	Err *jsonrpc.Error
}

// NoResult builds a Result that suppresses any response.
func NoResult() Result { return Result{Kind: ResultNone} }

// ValueResult builds a successful Result carrying pre-serialized JSON.
func ValueResult(json []byte) Result { return Result{Kind: ResultValue, JSON: json} }

// ErrResult builds a failing Result.
func ErrResult(err *jsonrpc.Error) Result { return Result{Kind: ResultErr, Err: err} }

// IsNone reports whether the result suppresses a response.
func (r Result) IsNone() bool { return r.Kind == ResultNone }

// IsErr reports whether the result is an error.
func (r Result) IsErr() bool { return r.Kind == ResultErr }

// Handler is the uniform shape every bound function is adapted to.
type Handler func(ctx *DispatchCtx, params jsonrpc.Params) Result
