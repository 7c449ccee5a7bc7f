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

import "encoding/json"

// Params represents the params field of a [Request] as per the JSON-RPC 2.0
// specification section 4.2.
//
// If present, parameters for the rpc call MUST be provided as a structured
// value, either by-position through an array ([ParamsArray]) or by-name
// through an object ([ParamsObject]).
type Params interface {
	// isParams is a marker method restricting implementations to this package.
	isParams()
}

// ParamsObject represents a by-name Params object.
type ParamsObject map[string]interface{}

func (*ParamsObject) isParams() {}

// UnmarshalJSON unmarshals a JSON object into a [ParamsObject]. A JSON
// number whose mathematical value has no fractional part is converted to
// int rather than float64, so handler binding can distinguish "42" from
// "42.0" the way a typed caller would expect.
func (p *ParamsObject) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*p = make(ParamsObject, len(obj))
	for key, raw := range obj {
		(*p)[key] = normalizeJSONNumber(raw)
	}
	return nil
}

// ParamsArray represents a by-position Params array.
type ParamsArray []interface{}

func (*ParamsArray) isParams() {}

// UnmarshalJSON unmarshals a JSON array into a [ParamsArray], applying the
// same integer/float normalization as [ParamsObject.UnmarshalJSON].
func (p *ParamsArray) UnmarshalJSON(data []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}

	*p = make(ParamsArray, 0, len(arr))
	for _, raw := range arr {
		*p = append(*p, normalizeJSONNumber(raw))
	}
	return nil
}

// normalizeJSONNumber decodes a raw JSON value, collapsing whole-valued
// floats down to int. The input already survived a full json.Unmarshal of
// the enclosing document, so the per-element decode cannot fail and the
// error is discarded.
func normalizeJSONNumber(raw json.RawMessage) interface{} {
	var value interface{}
	_ = json.Unmarshal(raw, &value)

	if f, ok := value.(float64); ok && f == float64(int(f)) {
		return int(f)
	}
	return value
}
