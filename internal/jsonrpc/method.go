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
	"fmt"
	"reflect"
	"strings"

	"github.com/madsrc/jrpc"
)

// JSONRPC represents the jsonrpc field of a [Request] or [Response]. For the
// JSON-RPC 2.0 specification, this field MUST be exactly "2.0".
type JSONRPC string

// JSONRPC2_0 is the identifier for the JSON-RPC 2.0 specification.
const JSONRPC2_0 JSONRPC = "2.0"

// Method represents the method field of a [Request] as per the JSON-RPC 2.0
// specification.
//
// Method names beginning with "rpc." are reserved for rpc-internal methods
// and extensions. The parser does not reject such names on its own — a
// method is only checked against that reservation at registration time, so
// an arriving request for "rpc.foo" parses fine and fails later with
// MethodNotFound if nothing is registered under that name.
type Method string

// ReservedPrefix is the method-name prefix reserved for rpc-internal use.
const ReservedPrefix = "rpc."

// IsReserved reports whether m begins with the reserved "rpc." prefix.
func (m Method) IsReserved() bool {
	return strings.HasPrefix(string(m), ReservedPrefix)
}

// Validate reports whether m is a legal name for handler registration: it
// must be non-empty and must not use the reserved prefix.
func (m Method) Validate() error {
	if m == "" {
		return jrpc.NewValidationError("method name must not be empty")
	}
	if m.IsReserved() {
		return jrpc.NewValidationError(fmt.Sprintf("method names beginning with %q are reserved for rpc-internal methods and extensions", ReservedPrefix))
	}
	return nil
}

// ValidateMethod is usable as a github.com/go-playground/validator custom
// validation function, e.g.
//
//	validate.RegisterValidation("jsonrpcmethod", jsonrpc.ValidateMethod)
func ValidateMethod(field reflect.Value) interface{} {
	if field.Kind() != reflect.String {
		return "method must be a string"
	}
	if err := Method(field.String()).Validate(); err != nil {
		return err.Error()
	}
	return nil
}
