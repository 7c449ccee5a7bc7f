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

package dispatch

import (
	"encoding/json"
	"fmt"
	"reflect"
)

var (
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	emptyIfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
	rawMessageType = reflect.TypeOf(json.RawMessage(nil))
)

// isAcceptedParamType reports whether t is a legal business-parameter type:
// a primitive, an optional (pointer) of a primitive, a struct serialisable
// from JSON, a map/slice, json.RawMessage, or any (raw JSON value passthrough).
func isAcceptedParamType(t reflect.Type) bool {
	if t == rawMessageType {
		return true
	}
	if t == emptyIfaceType {
		return true
	}
	if t.Kind() == reflect.Ptr {
		return isAcceptedParamType(t.Elem())
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Struct, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

// convertValue converts a decoded JSON value (as produced by
// jsonrpc.ParamsObject/jsonrpc.ParamsArray: nil, bool, int, float64, string,
// map[string]interface{}, []interface{}) into a reflect.Value assignable to
// target, per the element-to-parameter conversion rules:
//
//   - integer -> integer: widening allowed, narrowing fails.
//   - integer -> float: permitted.
//   - float -> integer: rejected.
//   - bool, string: pass-through only.
//   - struct/map/slice: re-encoded to JSON and decoded into target.
func convertValue(raw interface{}, target reflect.Type) (reflect.Value, error) {
	if target.Kind() == reflect.Ptr {
		if raw == nil {
			return reflect.Zero(target), nil
		}
		inner, err := convertValue(raw, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	if target == emptyIfaceType {
		if raw == nil {
			return reflect.Zero(emptyIfaceType), nil
		}
		return reflect.ValueOf(raw), nil
	}
	if target == rawMessageType {
		b, err := json.Marshal(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(json.RawMessage(b)), nil
	}

	switch target.Kind() {
	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected bool, got %T", raw)
		}
		return reflect.ValueOf(b), nil

	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected string, got %T", raw)
		}
		return reflect.ValueOf(s).Convert(target), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := raw.(int)
		if !ok {
			if _, isFloat := raw.(float64); isFloat {
				return reflect.Value{}, fmt.Errorf("float to integer conversion is rejected")
			}
			return reflect.Value{}, fmt.Errorf("expected integer, got %T", raw)
		}
		rv := reflect.New(target).Elem()
		if target.Kind() >= reflect.Uint && target.Kind() <= reflect.Uint64 {
			if n < 0 || rv.OverflowUint(uint64(n)) {
				return reflect.Value{}, fmt.Errorf("narrowing conversion overflows %s", target)
			}
			rv.SetUint(uint64(n))
			return rv, nil
		}
		if rv.OverflowInt(int64(n)) {
			return reflect.Value{}, fmt.Errorf("narrowing conversion overflows %s", target)
		}
		rv.SetInt(int64(n))
		return rv, nil

	case reflect.Float32, reflect.Float64:
		switch v := raw.(type) {
		case float64:
			rv := reflect.New(target).Elem()
			rv.SetFloat(v)
			return rv, nil
		case int:
			rv := reflect.New(target).Elem()
			rv.SetFloat(float64(v))
			return rv, nil
		default:
			return reflect.Value{}, fmt.Errorf("expected number, got %T", raw)
		}

	case reflect.Struct, reflect.Map, reflect.Slice:
		b, err := json.Marshal(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target)
		if err := json.Unmarshal(b, ptr.Interface()); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil

	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", target)
	}
}
