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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/arena"
	"github.com/madsrc/jrpc/internal/dispatch"
	"github.com/madsrc/jrpc/internal/jsonrpc"
)

func newCtx() *dispatch.DispatchCtx {
	return &dispatch.DispatchCtx{Arena: arena.New(0)}
}

func TestRegistry_AddAndGet(t *testing.T) {
	r := New()
	require.False(t, r.Has("add"))

	err := r.Add("add", func(a, b int) int { return a + b })
	require.NoError(t, err)

	require.True(t, r.Has("add"))
	h, ok := r.Get("add")
	require.True(t, ok)
	require.NotNil(t, h)
}

func TestRegistry_AddRejectsReservedName(t *testing.T) {
	r := New()
	err := r.Add("rpc.internal", func() {})
	require.ErrorIs(t, err, jrpc.ErrInvalidMethodName)
	require.False(t, r.Has("rpc.internal"))

	var ve *jrpc.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestRegistry_AddRejectsEmptyName(t *testing.T) {
	r := New()
	err := r.Add("", func() {})
	require.ErrorIs(t, err, jrpc.ErrInvalidMethodName)
}

func TestRegistry_AddWithCtx(t *testing.T) {
	type state struct{ calls int }
	s := &state{}

	r := New()
	err := r.AddWithCtx("bump", s, func(st *state) int {
		st.calls++
		return st.calls
	})
	require.NoError(t, err)

	params := jsonrpc.ParamsArray{}
	req := &jsonrpc.Request{Method: "bump", Params: &params}
	result := r.Dispatch(newCtx(), req)
	require.False(t, result.IsErr())
	require.JSONEq(t, `1`, string(result.JSON))
	require.Equal(t, 1, s.calls)
}

func TestRegistry_Remove(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("ping", func() {}))
	require.True(t, r.Has("ping"))
	r.Remove("ping")
	require.False(t, r.Has("ping"))
}

func TestRegistry_Dispatch_MethodNotFound(t *testing.T) {
	r := New()
	req := &jsonrpc.Request{Method: "missing"}
	result := r.Dispatch(newCtx(), req)
	require.True(t, result.IsErr())
	require.Equal(t, jsonrpc.MethodNotFound, result.Err.Code)
}

func TestRegistry_Dispatch_FallbackHandles(t *testing.T) {
	r := New()
	r.OnFallback(func(req *jsonrpc.Request) (dispatch.Result, bool) {
		return dispatch.ValueResult([]byte(`"fallback"`)), true
	})

	req := &jsonrpc.Request{Method: "missing"}
	result := r.Dispatch(newCtx(), req)
	require.False(t, result.IsErr())
	require.JSONEq(t, `"fallback"`, string(result.JSON))
}

func TestRegistry_Dispatch_FallbackDeclines(t *testing.T) {
	r := New()
	r.OnFallback(func(req *jsonrpc.Request) (dispatch.Result, bool) {
		return dispatch.Result{}, false
	})

	req := &jsonrpc.Request{Method: "missing"}
	result := r.Dispatch(newCtx(), req)
	require.True(t, result.IsErr())
	require.Equal(t, jsonrpc.MethodNotFound, result.Err.Code)
}

func TestRegistry_Dispatch_HookOrdering(t *testing.T) {
	r := New()
	var order []string

	r.OnBefore(func(req *jsonrpc.Request) (dispatch.Result, bool) {
		order = append(order, "before")
		return dispatch.Result{}, false
	})
	r.OnAfter(func(req *jsonrpc.Request, result dispatch.Result) { order = append(order, "after") })
	r.OnError(func(req *jsonrpc.Request, err *jsonrpc.Error) { order = append(order, "error") })

	require.NoError(t, r.Add("ok", func() int { return 1 }))
	req := &jsonrpc.Request{Method: "ok", Params: &jsonrpc.ParamsArray{}}
	result := r.Dispatch(newCtx(), req)
	require.False(t, result.IsErr())
	require.Equal(t, []string{"before", "after"}, order)

	order = nil
	require.NoError(t, r.Add("fails", func() (int, error) { return 0, errors.New("boom") }))
	req = &jsonrpc.Request{Method: "fails", Params: &jsonrpc.ParamsArray{}}
	result = r.Dispatch(newCtx(), req)
	require.True(t, result.IsErr())
	require.Equal(t, []string{"before", "error"}, order)
}

func TestRegistry_Dispatch_BeforeHookAborts(t *testing.T) {
	r := New()
	called := false
	require.NoError(t, r.Add("ok", func() int {
		called = true
		return 1
	}))

	r.OnBefore(func(req *jsonrpc.Request) (dispatch.Result, bool) {
		return dispatch.ErrResult(&jsonrpc.Error{Code: jsonrpc.InvalidRequest, Message: "denied"}), true
	})

	req := &jsonrpc.Request{Method: "ok", Params: &jsonrpc.ParamsArray{}}
	result := r.Dispatch(newCtx(), req)
	require.True(t, result.IsErr())
	require.Equal(t, jsonrpc.InvalidRequest, result.Err.Code)
	require.False(t, called)
}

func TestRegistry_DispatchEnd_NoPanic(t *testing.T) {
	r := New()
	require.NotPanics(t, func() {
		r.DispatchEnd(newCtx(), &jsonrpc.Request{Method: "noop"}, dispatch.NoResult())
	})
}

func TestResponseDispatcherFunc(t *testing.T) {
	called := false
	var f ResponseDispatcher = ResponseDispatcherFunc(func(ctx *dispatch.DispatchCtx, resp *jsonrpc.Response) {
		called = true
	})
	f.Dispatch(newCtx(), &jsonrpc.Response{})
	require.True(t, called)
}
