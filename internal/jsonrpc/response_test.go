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

func TestResponse_MarshalJSON_Result(t *testing.T) {
	r := Response{Result: 3, ID: NumID(1)}
	b, err := r.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","result":3,"id":1}`, string(b))
}

func TestResponse_MarshalJSON_Error(t *testing.T) {
	r := Response{Error: &Error{Code: InvalidParams, Message: string(InvalidParamsMessage)}, ID: NumID(1)}
	b, err := r.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32602,"message":"Invalid Params"},"id":1}`, string(b))
}

func TestResponse_MarshalJSON_ErrorTakesPrecedence(t *testing.T) {
	r := Response{Result: 3, Error: &Error{Code: InternalError, Message: "boom"}, ID: NumID(1)}
	b, err := r.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32603,"message":"boom"},"id":1}`, string(b))
}

func TestResponse_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "result response", data: []byte(`{"jsonrpc":"2.0","result":3,"id":1}`)},
		{name: "error response", data: []byte(`{"jsonrpc":"2.0","error":{"code":-32602,"message":"Invalid Params"},"id":1}`)},
		{name: "missing jsonrpc", data: []byte(`{"result":3,"id":1}`), wantErr: true},
		{name: "missing id", data: []byte(`{"jsonrpc":"2.0","result":3}`), wantErr: true},
		{name: "neither result nor error", data: []byte(`{"jsonrpc":"2.0","id":1}`), wantErr: true},
		{name: "null id", data: []byte(`{"jsonrpc":"2.0","result":3,"id":null}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Response
			err := r.UnmarshalJSON(tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResponse_RoundTrip(t *testing.T) {
	r := Response{Result: float64(3), ID: NumID(1)}
	b, err := r.MarshalJSON()
	require.NoError(t, err)

	var got Response
	require.NoError(t, got.UnmarshalJSON(b))
	require.Equal(t, r.Result, got.Result)
	require.True(t, r.ID.Equal(got.ID))
}
