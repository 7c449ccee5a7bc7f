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

// optional distinguishes "field absent" from "field present but null" for a
// JSON object field, which encoding/json's zero-value-based unmarshalling
// cannot do on its own.
//
// Implementation is from https://stackoverflow.com/questions/36601367/json-field-set-to-null-vs-field-not-there
type optional[T any] struct {
	Defined bool
	Value   *T
}

// UnmarshalJSON is only called when the field is present in the source
// document, which is what lets Defined distinguish absence from presence.
func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Defined = true
	return json.Unmarshal(data, &o.Value)
}
