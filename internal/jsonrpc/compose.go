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
	"bytes"
	"encoding/json"
	"strconv"
)

// MakeResponseJSON wraps a pre-serialized result for id. If id is none
// (the request was a notification), it returns nil: no response is ever
// emitted for a notification.
func MakeResponseJSON(id ID, resultJSON json.RawMessage) []byte {
	if id.IsNone() {
		return nil
	}
	idBytes, _ := id.MarshalJSON()

	var buf bytes.Buffer
	buf.WriteString(`{"jsonrpc":"2.0","result":`)
	if len(resultJSON) == 0 {
		buf.WriteString("null")
	} else {
		buf.Write(resultJSON)
	}
	buf.WriteString(`,"id":`)
	buf.Write(idBytes)
	buf.WriteByte('}')
	return buf.Bytes()
}

// MakeErrorResponseJSON builds a response carrying only a code and message.
func MakeErrorResponseJSON(id ID, code RPCErrorCode, message string) []byte {
	return makeErrorResponseJSON(id, code, message, nil)
}

// MakeErrorDataResponseJSON builds a response carrying a code, message, and
// a pre-serialized data payload.
func MakeErrorDataResponseJSON(id ID, code RPCErrorCode, message string, dataJSON json.RawMessage) []byte {
	return makeErrorResponseJSON(id, code, message, dataJSON)
}

func makeErrorResponseJSON(id ID, code RPCErrorCode, message string, dataJSON json.RawMessage) []byte {
	idBytes, _ := id.MarshalJSON()
	msgBytes, _ := json.Marshal(message)

	var buf bytes.Buffer
	buf.WriteString(`{"jsonrpc":"2.0","id":`)
	buf.Write(idBytes)
	buf.WriteString(`,"error":{"code":`)
	buf.WriteString(strconv.Itoa(int(code)))
	buf.WriteString(`,"message":`)
	buf.Write(msgBytes)
	if len(dataJSON) > 0 {
		buf.WriteString(`,"data":`)
		buf.Write(dataJSON)
	}
	buf.WriteString(`}}`)
	return buf.Bytes()
}

// MakeBatchResponseJSON wraps a sequence of already-serialized response
// JSON slices as a JSON array. An empty sequence emits "[]".
func MakeBatchResponseJSON(items [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// MakeRequestJSON is a client-side helper that serializes arbitrary typed
// params (a struct, map, slice, or an already-built [Params]) alongside
// method and id into a request document. A none id produces a notification
// with no id field at all.
func MakeRequestJSON(method Method, params any, id ID) ([]byte, error) {
	req := Request{Method: method, ID: id}
	if id.IsNone() {
		req.notification = true
	}

	switch p := params.(type) {
	case nil:
	case Params:
		req.Params = p
	default:
		b, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		var po ParamsObject
		if err := json.Unmarshal(b, &po); err == nil {
			req.Params = &po
		} else {
			var pa ParamsArray
			if err := json.Unmarshal(b, &pa); err != nil {
				return nil, err
			}
			req.Params = &pa
		}
	}

	return req.MarshalJSON()
}

// MakeBatchRequestJSON wraps a sequence of already-serialized request JSON
// slices as a JSON array.
func MakeBatchRequestJSON(items [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
