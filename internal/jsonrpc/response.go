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

// Response represents a Response object as per the JSON-RPC 2.0
// specification. Exactly one of Result or Error is populated.
type Response struct {
	Result interface{} `json:"result,omitempty"`
	Error  *Error      `json:"error,omitempty" validate:"required_without=Result,excluded_with=Result"`
	ID     ID          `json:"id"`
}

// MarshalJSON marshals a [Response] into its wire form, adding the fixed
// "jsonrpc" field. Error takes precedence over Result if both are set; if
// neither is set, a JSON null result is emitted so a zero-value Response
// still marshals to a spec-legal (if meaningless) document.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		r.Result = nil
	}
	if r.Result == nil && r.Error == nil {
		r.Result = json.RawMessage("null")
	}

	type alias Response
	return json.Marshal(&struct {
		JSONRPC JSONRPC `json:"jsonrpc"`
		*alias
	}{
		JSONRPC: JSONRPC2_0,
		alias:   (*alias)(&r),
	})
}

func (r *Response) UnmarshalJSON(data []byte) error {
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

	type temp struct {
		ID     optional[ID]          `json:"id"`
		Result optional[interface{}] `json:"result"`
		Error  optional[Error]       `json:"error"`
	}
	var tmp temp
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	if !tmp.Result.Defined && !tmp.Error.Defined {
		return fmt.Errorf("either result or error is required")
	}
	if tmp.Result.Value == nil && tmp.Error.Value == nil {
		return fmt.Errorf("either result or error is required")
	}
	if tmp.Result.Defined && tmp.Result.Value != nil {
		r.Result = *tmp.Result.Value
	}
	if tmp.Error.Defined {
		r.Error = tmp.Error.Value
	}

	if !tmp.ID.Defined {
		return fmt.Errorf("id is required")
	}
	if tmp.ID.Value == nil {
		r.ID = NullID()
	} else {
		r.ID = *tmp.ID.Value
	}

	return nil
}

// BatchResponse represents a batch Response: the array returned for a
// batch Request, containing one entry per non-notification element.
type BatchResponse []Response
