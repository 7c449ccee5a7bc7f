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

package registry

import (
	"github.com/madsrc/jrpc/internal/dispatch"
	"github.com/madsrc/jrpc/internal/jsonrpc"
)

// RequestDispatcher is the polymorphic facade the pipeline calls, letting
// a caller swap in a [Registry] or a hand-rolled switch-style dispatcher
// that inspects req.Method directly.
type RequestDispatcher interface {
	Dispatch(ctx *dispatch.DispatchCtx, req *jsonrpc.Request) dispatch.Result
	// DispatchEnd runs after the response for req has been composed, for
	// cleanup hooks; implementations may no-op.
	DispatchEnd(ctx *dispatch.DispatchCtx, req *jsonrpc.Request, result dispatch.Result)
}

// ResponseDispatcher is the client-side mirror of [RequestDispatcher]: it
// is handed each parsed [jsonrpc.Response] so a caller can correlate
// replies to pending calls.
type ResponseDispatcher interface {
	Dispatch(ctx *dispatch.DispatchCtx, resp *jsonrpc.Response)
}

// ResponseDispatcherFunc adapts a plain function to [ResponseDispatcher].
type ResponseDispatcherFunc func(ctx *dispatch.DispatchCtx, resp *jsonrpc.Response)

func (f ResponseDispatcherFunc) Dispatch(ctx *dispatch.DispatchCtx, resp *jsonrpc.Response) {
	f(ctx, resp)
}

var _ RequestDispatcher = (*Registry)(nil)
