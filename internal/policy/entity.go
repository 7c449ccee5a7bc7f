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

package policy

import (
	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/jsonrpc"
)

// AnonymousPrincipal is the default principal entity used when a Gate is
// constructed without a PrincipalResolver. The engine carries no session or
// bearer-token model of its own, so out of the box every call authorizes as
// the same unauthenticated caller; a transport that does carry caller
// identity supplies its own resolver via WithPrincipalResolver.
type AnonymousPrincipal struct{}

func (AnonymousPrincipal) EntityType() string { return "User" }
func (AnonymousPrincipal) EntityID() string   { return "anonymous" }

// PrincipalResolver extracts the calling principal for a JSON-RPC request.
// The method field is the only caller-supplied signal the registry's
// onBefore hook receives, so resolvers that need richer identity (a bearer
// token, a session cookie) must be wired in by the transport before the
// request reaches the registry.
type PrincipalResolver func(req *jsonrpc.Request) jrpc.AuthorizationEntity
