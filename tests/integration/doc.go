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

// Package integration contains integration tests that exercise the JSON-RPC
// engine end-to-end: a real stream loop talking the wire protocol over an
// in-memory pipe, and the call audit store against a real Postgres instance
// started with [github.com/testcontainers/testcontainers-go].
//
// These tests are built with the "integration" tag and are not run as part
// of the default test suite:
//
//	go test -tags=integration ./tests/integration/...
package integration
