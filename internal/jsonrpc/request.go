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
	"encoding/json"
	"fmt"
)

// Request represents a Request object as per the JSON-RPC 2.0 specification,
// generalized with an Err field: when Err is non-nil the Request is an
// error-sentinel produced by [ParseRequest] carrying parser diagnostics
// rather than a real invocation, and ID is always null in that case.
type Request struct {
	notification bool
	Method       Method `json:"method"`
	Params       Params `json:"params,omitempty"`
	ID           ID     `json:"id"`
	Err          *Error `json:"-"`
}

// IsNotification reports whether the request carries no id and therefore
// never receives a response.
func (r Request) IsNotification() bool {
	return r.notification
}

// AsNotification marks r as a notification and returns r for chaining.
func (r *Request) AsNotification() *Request {
	r.notification = true
	return r
}

// IsErrorSentinel reports whether r carries a parser diagnostic rather than
// a real invocation.
func (r Request) IsErrorSentinel() bool {
	return r.Err != nil
}

// MarshalJSON marshals a [Request] into its wire form, adding the fixed
// "jsonrpc" field and omitting "id" entirely for notifications.
func (r Request) MarshalJSON() ([]byte, error) {
	if r.notification {
		return json.Marshal(&struct {
			JSONRPC JSONRPC `json:"jsonrpc"`
			Method  Method  `json:"method"`
			Params  Params  `json:"params,omitempty"`
		}{
			JSONRPC: JSONRPC2_0,
			Method:  r.Method,
			Params:  r.Params,
		})
	}
	return json.Marshal(&struct {
		JSONRPC JSONRPC `json:"jsonrpc"`
		Method  Method  `json:"method"`
		Params  Params  `json:"params,omitempty"`
		ID      ID      `json:"id"`
	}{
		JSONRPC: JSONRPC2_0,
		Method:  r.Method,
		Params:  r.Params,
		ID:      r.ID,
	})
}

// UnmarshalJSON unmarshals a well-formed Request object. It is a lenient,
// generic-error implementation intended for round-tripping already-valid
// requests (clients decoding their own serialized output, tests); decoding
// untrusted wire input with precise JSON-RPC error codes is the job of
// [ParseRequest], which never returns a Go error.
func (r *Request) UnmarshalJSON(data []byte) error {
	var dat map[string]*json.RawMessage
	if err := json.Unmarshal(data, &dat); err != nil {
		return err
	}

	v, ok := dat["jsonrpc"]
	if !ok {
		return fmt.Errorf("jsonrpc field is required")
	}
	var version JSONRPC
	if err := json.Unmarshal(*v, &version); err != nil {
		return err
	}
	if version != JSONRPC2_0 {
		return fmt.Errorf("invalid JSON-RPC version: %s", version)
	}

	if idRaw, ok := dat["id"]; ok {
		if idRaw == nil {
			r.ID = NullID()
		} else if err := json.Unmarshal(*idRaw, &r.ID); err != nil {
			return err
		}
	} else {
		r.notification = true
	}

	mRaw, ok := dat["method"]
	if !ok {
		return fmt.Errorf("method is required")
	}
	var method string
	if err := json.Unmarshal(*mRaw, &method); err != nil {
		return err
	}
	if method == "" {
		return fmt.Errorf("method is required")
	}
	r.Method = Method(method)

	if pRaw, ok := dat["params"]; ok && pRaw != nil {
		var obj ParamsObject
		if err := json.Unmarshal(*pRaw, &obj); err == nil {
			r.Params = &obj
		} else {
			var arr ParamsArray
			if err := json.Unmarshal(*pRaw, &arr); err == nil {
				r.Params = &arr
			}
		}
	}

	return nil
}

// BatchRequest represents a batch Request as per the JSON-RPC 2.0
// specification: an array of [Request] objects sent and processed together.
type BatchRequest []Request

func (b *BatchRequest) UnmarshalJSON(data []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if arr == nil {
		return fmt.Errorf("batch request must be an array")
	}

	type idProbe struct {
		ID optional[ID] `json:"id"`
	}

	var firstErr error
	for i, raw := range arr {
		var probe idProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("error unmarshalling object at index %d: %w", i, err)
			}
			continue
		}

		var req Request
		if !probe.ID.Defined {
			req.notification = true
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("error unmarshalling object at index %d into Request: %w", i, err)
			}
			continue
		}
		*b = append(*b, req)
	}

	return firstErr
}
