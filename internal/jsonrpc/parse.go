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
)

// ParseRequest parses bytes holding one JSON document — a single request
// object or a batch array — into a [RequestMessage]. It never fails: any
// envelope-level problem is reported as an error-sentinel [Request] with
// ID set to NullID() and Err set to the diagnostic, exactly as a handler
// failure would be, so callers never need a second error-handling path for
// malformed input.
//
// Duplicate keys in a request object are resolved "last wins", following
// encoding/json's own map-decoding behavior.
func ParseRequest(data []byte) RequestMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return SingleRequestMessage(sentinel(ParseError))
	}

	var probe json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return SingleRequestMessage(sentinel(ParseError))
	}

	switch trimmed[0] {
	case '[':
		var rawItems []json.RawMessage
		if err := json.Unmarshal(trimmed, &rawItems); err != nil {
			return SingleRequestMessage(sentinel(ParseError))
		}
		if len(rawItems) == 0 {
			return NewBatchRequestMessage(nil)
		}
		items := make([]Request, 0, len(rawItems))
		for _, raw := range rawItems {
			items = append(items, parseOne(raw))
		}
		return NewBatchRequestMessage(items)
	case '{':
		return SingleRequestMessage(parseOne(trimmed))
	default:
		// Top-level scalar: neither object nor array.
		return SingleRequestMessage(sentinel(InvalidRequest))
	}
}

// sentinel builds an error-sentinel Request: id=null, Err set, per the data
// model's invariant that a parse failure never carries a real request id.
func sentinel(code RPCErrorCode) Request {
	return Request{
		ID:  NullID(),
		Err: &Error{Code: code, Message: code.DefaultMessage()},
	}
}

// parseOne parses a single JSON-RPC request object, applying the shape
// rules from the parser contract in order: envelope must be a non-empty
// object, jsonrpc must be exactly "2.0", method must be a non-empty string,
// id (if present) must be string/number/null with no fractional numbers,
// params (if present) must be an array or object.
func parseOne(raw json.RawMessage) Request {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return sentinel(InvalidRequest)
	}
	if len(obj) == 0 {
		return sentinel(InvalidRequest)
	}

	versionRaw, ok := obj["jsonrpc"]
	if !ok {
		return sentinel(InvalidRequest)
	}
	var version JSONRPC
	if err := json.Unmarshal(versionRaw, &version); err != nil || version != JSONRPC2_0 {
		return sentinel(InvalidRequest)
	}

	methodRaw, ok := obj["method"]
	if !ok {
		return sentinel(InvalidRequest)
	}
	var method string
	if err := json.Unmarshal(methodRaw, &method); err != nil || method == "" {
		return sentinel(InvalidRequest)
	}

	req := Request{Method: Method(method)}

	if idRaw, ok := obj["id"]; ok {
		var id ID
		if err := json.Unmarshal(idRaw, &id); err != nil {
			return sentinel(InvalidRequest)
		}
		req.ID = id
	} else {
		req.notification = true
	}

	if paramsRaw, ok := obj["params"]; ok {
		trimmedParams := bytes.TrimSpace(paramsRaw)
		if len(trimmedParams) == 0 || string(trimmedParams) == "null" {
			return req
		}
		switch trimmedParams[0] {
		case '{':
			var po ParamsObject
			if err := json.Unmarshal(paramsRaw, &po); err != nil {
				return sentinel(InvalidParams)
			}
			req.Params = &po
		case '[':
			var pa ParamsArray
			if err := json.Unmarshal(paramsRaw, &pa); err != nil {
				return sentinel(InvalidParams)
			}
			req.Params = &pa
		default:
			return sentinel(InvalidParams)
		}
	}

	return req
}
