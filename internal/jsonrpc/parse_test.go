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

package jsonrpc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest_Single(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"add","params":[1,2],"id":1}`))
	require.False(t, msg.Batch)
	require.False(t, msg.Single.IsErrorSentinel())
	require.Equal(t, Method("add"), msg.Single.Method)
	require.True(t, msg.Single.ID.Equal(NumID(1)))
}

func TestParseRequest_Notification(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"hello"}`))
	require.True(t, msg.Single.IsNotification())
}

func TestParseRequest_EmptyInput(t *testing.T) {
	msg := ParseRequest([]byte(``))
	require.True(t, msg.Single.IsErrorSentinel())
	require.Equal(t, ParseError, msg.Single.Err.Code)
	require.True(t, msg.Single.ID.IsNull())
}

func TestParseRequest_InvalidJSON(t *testing.T) {
	msg := ParseRequest([]byte(`{not json`))
	require.Equal(t, ParseError, msg.Single.Err.Code)
}

func TestParseRequest_TopLevelScalar(t *testing.T) {
	msg := ParseRequest([]byte(`"hello"`))
	require.Equal(t, InvalidRequest, msg.Single.Err.Code)
}

func TestParseRequest_EmptyObject(t *testing.T) {
	msg := ParseRequest([]byte(`{}`))
	require.Equal(t, InvalidRequest, msg.Single.Err.Code)
}

func TestParseRequest_MissingJSONRPC(t *testing.T) {
	msg := ParseRequest([]byte(`{"method":"add","id":1}`))
	require.Equal(t, InvalidRequest, msg.Single.Err.Code)
}

func TestParseRequest_BadVersion(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"1.0","method":"add","id":1}`))
	require.Equal(t, InvalidRequest, msg.Single.Err.Code)
}

func TestParseRequest_MissingMethod(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"2.0","id":1}`))
	require.Equal(t, InvalidRequest, msg.Single.Err.Code)
}

func TestParseRequest_EmptyMethod(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"","id":1}`))
	require.Equal(t, InvalidRequest, msg.Single.Err.Code)
}

func TestParseRequest_ParamsScalar(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"add","params":1234,"id":1}`))
	require.Equal(t, InvalidParams, msg.Single.Err.Code)
}

func TestParseRequest_ParamsNull(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"add","params":null,"id":1}`))
	require.False(t, msg.Single.IsErrorSentinel())
	require.Nil(t, msg.Single.Params)
}

func TestParseRequest_IDObjectRejected(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"add","id":{}}`))
	require.Equal(t, InvalidRequest, msg.Single.Err.Code)
}

func TestParseRequest_IDFractionalRejected(t *testing.T) {
	msg := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"add","id":1.5}`))
	require.Equal(t, InvalidRequest, msg.Single.Err.Code)
}

func TestParseRequest_EmptyBatch(t *testing.T) {
	msg := ParseRequest([]byte(`[]`))
	require.True(t, msg.Batch)
	require.Empty(t, msg.Items)
}

func TestParseRequest_Batch(t *testing.T) {
	msg := ParseRequest([]byte(`[{"jsonrpc":"2.0","method":"inc","id":1},{"jsonrpc":"2.0","method":"get","id":2}]`))
	require.True(t, msg.Batch)
	require.Len(t, msg.Items, 2)
}

func TestParseRequest_BatchWithInvalidElement(t *testing.T) {
	msg := ParseRequest([]byte(`[{"jsonrpc":"2.0","method":"ok","id":1},"not an object"]`))
	require.True(t, msg.Batch)
	require.Len(t, msg.Items, 2)
	require.False(t, msg.Items[0].IsErrorSentinel())
	require.True(t, msg.Items[1].IsErrorSentinel())
}
