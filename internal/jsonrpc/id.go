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
	"fmt"
	"math"
	"strconv"
)

// idKind tags the four states an [ID] can be in.
type idKind uint8

const (
	// idKindNone means the id was absent from the source JSON entirely: the
	// request is a notification and never receives a response.
	idKindNone idKind = iota
	// idKindNull means the id was explicitly JSON null.
	idKindNull
	idKindNum
	idKindStr
)

// ID represents the id field of a [Request] or [Response] as per the
// JSON-RPC 2.0 specification.
//
// Unlike a plain string, ID distinguishes four states: absent (the zero
// value, meaning the request was a notification), explicit JSON null,
// a number, and a string. This distinction matters: a request with no id
// never gets a response, while a request with id=null does (addressed
// back with a null id, typically to signal a parse failure).
type ID struct {
	kind idKind
	num  int64
	str  string
}

// NumID builds a numeric ID. The JSON-RPC 2.0 specification discourages
// fractional ids; this type only ever holds integers.
func NumID(v int64) ID {
	return ID{kind: idKindNum, num: v}
}

// StrID builds a string ID.
func StrID(v string) ID {
	return ID{kind: idKindStr, str: v}
}

// NullID builds an explicit JSON-null ID.
func NullID() ID {
	return ID{kind: idKindNull}
}

// IsNone reports whether the id was absent (the request is a notification).
func (id ID) IsNone() bool { return id.kind == idKindNone }

// IsNull reports whether the id was explicit JSON null.
func (id ID) IsNull() bool { return id.kind == idKindNull }

// IsNum reports whether the id is a number.
func (id ID) IsNum() bool { return id.kind == idKindNum }

// IsStr reports whether the id is a string.
func (id ID) IsStr() bool { return id.kind == idKindStr }

// IsValid reports whether the id is addressable for a response, i.e. a
// number or a string.
func (id ID) IsValid() bool { return id.kind == idKindNum || id.kind == idKindStr }

// Num returns the numeric value. It is meaningless unless IsNum reports true.
func (id ID) Num() int64 { return id.num }

// Str returns the string value. It is meaningless unless IsStr reports true.
func (id ID) Str() string { return id.str }

// Equal reports whether two ids have the same tag and value.
func (id ID) Equal(other ID) bool {
	if id.kind != other.kind {
		return false
	}
	switch id.kind {
	case idKindNum:
		return id.num == other.num
	case idKindStr:
		return id.str == other.str
	default:
		return true
	}
}

func (id ID) String() string {
	switch id.kind {
	case idKindNone:
		return "<none>"
	case idKindNull:
		return "null"
	case idKindNum:
		return strconv.FormatInt(id.num, 10)
	case idKindStr:
		return id.str
	default:
		return "<invalid>"
	}
}

// MarshalJSON marshals an [ID] into its wire form. A none or null id is
// emitted as JSON null — none only ever appears on the request side, where
// the field is omitted entirely by [Request.MarshalJSON] before this is
// ever reached.
func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idKindNum:
		return []byte(strconv.FormatInt(id.num, 10)), nil
	case idKindStr:
		return json.Marshal(id.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON unmarshals a JSON value into an [ID]. Only string, number,
// and null are accepted; a number with a fractional part is rejected, per
// the specification's discouragement of fractional ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*id = NullID()
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("id must be a string, number, or null")
		}
		*id = StrID(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("id must be a string, number, or null")
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("id must not contain a fractional part")
	}
	*id = NumID(int64(f))
	return nil
}
