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

// Package jsonrpc implements the JSON-RPC 2.0 message model: ids, methods,
// params, requests, responses, errors and batches, plus a Parser that turns
// raw JSON bytes into request messages (never failing, producing an
// error-sentinel request instead) and a Composer that builds response JSON
// from typed inputs.
package jsonrpc
