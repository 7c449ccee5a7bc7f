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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/madsrc/jrpc/internal/dispatch"
	"github.com/madsrc/jrpc/internal/jsonrpc"
	"github.com/madsrc/jrpc/internal/registry"
)

func TestMessagePipeline_RoutesRequest(t *testing.T) {
	r := newTestRegistry(t)
	responded := false
	respDispatcher := registry.ResponseDispatcherFunc(func(ctx *dispatch.DispatchCtx, resp *jsonrpc.Response) {
		responded = true
	})

	m, err := NewMessagePipeline(WithRequestDispatcher(r), WithResponseDispatcher(respDispatcher))
	require.NoError(t, err)

	out := m.Run(&dispatch.DispatchCtx{}, []byte(`{"jsonrpc":"2.0","method":"add","params":[1,2],"id":1}`))
	require.JSONEq(t, `{"jsonrpc":"2.0","result":3,"id":1}`, string(out))
	require.False(t, responded)
}

func TestMessagePipeline_RoutesResponse(t *testing.T) {
	r := newTestRegistry(t)
	var got *jsonrpc.Response
	respDispatcher := registry.ResponseDispatcherFunc(func(ctx *dispatch.DispatchCtx, resp *jsonrpc.Response) {
		got = resp
	})

	m, err := NewMessagePipeline(WithRequestDispatcher(r), WithResponseDispatcher(respDispatcher))
	require.NoError(t, err)

	out := m.Run(&dispatch.DispatchCtx{}, []byte(`{"jsonrpc":"2.0","result":3,"id":1}`))
	require.Nil(t, out)
	require.NotNil(t, got)
}

func TestMessagePipeline_RequiresBothDispatchers(t *testing.T) {
	r := newTestRegistry(t)
	_, err := NewMessagePipeline(WithRequestDispatcher(r))
	require.Error(t, err)
}
