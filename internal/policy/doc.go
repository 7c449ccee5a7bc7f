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

// Package policy authorizes JSON-RPC calls against a Cedar policy set
// before the bound handler runs. Gate wraps a cedar.PolicySet, resolves a
// principal for each request through a configurable PrincipalResolver, and
// exposes two entry points: IsAuthorized, which implements
// jrpc.AuthorizationProvider for direct use, and BeforeHook, which adapts
// that decision into the (dispatch.Result, abort bool) shape
// registry.Registry.OnBefore requires so a denial short-circuits dispatch
// before the handler is invoked.
package policy
