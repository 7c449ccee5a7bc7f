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
	"context"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/dispatch"
	"github.com/madsrc/jrpc/internal/jsonrpc"
)

// deniedMessage is the fixed message attached to a denial, per the wire
// contract: the specific reason, if any, travels in the error's Data field
// instead of the message text.
const deniedMessage = "request denied by policy"

// BeforeHook adapts Authorize to the signature registry.Registry.OnBefore
// requires: wire it in with registry.OnBefore(gate.BeforeHook). A denial
// aborts dispatch with an InvalidRequest error result and the handler is
// never invoked; an allow returns the zero Result and lets dispatch
// proceed to the bound handler.
func (g *Gate) BeforeHook(req *jsonrpc.Request) (dispatch.Result, bool) {
	decision := g.Authorize(context.Background(), req)
	if decision.Allowed {
		return dispatch.Result{}, false
	}

	var data interface{}
	if decision.Reason != "" {
		data = decision.Reason
	}
	return dispatch.ErrResult(&jsonrpc.Error{
		Code:    jsonrpc.InvalidRequest,
		Message: deniedMessage,
		Data:    data,
	}), true
}

// Decision is the outcome of evaluating a request against the active
// policy set.
type Decision struct {
	Allowed bool
	// Reason is a short, non-sensitive explanation attached to a denial's
	// error data; empty for an allow.
	Reason string
}

// Authorize resolves req's principal via the configured PrincipalResolver,
// builds the (principal, method) authorization request the data model
// calls for, and evaluates it against the active policy set.
func (g *Gate) Authorize(ctx context.Context, req *jsonrpc.Request) Decision {
	principal := g.principal(req)
	authReq := jrpc.AuthorizationRequest{
		Principal: principal,
		Action:    jrpc.AuthorizationAction(req.Method),
	}

	if g.IsAuthorized(ctx, authReq) {
		return Decision{Allowed: true}
	}
	return Decision{Reason: "no policy permits " + string(req.Method) + " for this principal"}
}
