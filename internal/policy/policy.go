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
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cedar-policy/cedar-go"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/cache"
	"github.com/madsrc/jrpc/internal/jsonrpc"
)

//go:embed policies.cedar
var defaultPolicies []byte

// Gate authorizes a JSON-RPC request's (principal, method) pair against a
// Cedar PolicySet before the bound handler runs. The zero value is not
// usable; construct with NewGate.
type Gate struct {
	mu        sync.RWMutex
	policySet cedar.PolicySet

	logger    *slog.Logger
	principal PrincipalResolver

	cacheTTL     time.Duration
	cacheCleanup time.Duration
	decisions    *cache.Cache
}

// compile-time assertion that Gate satisfies the cross-cutting
// authorization interface the rest of the ambient stack depends on.
var _ jrpc.AuthorizationProvider = (*Gate)(nil)

// NewGate builds a Gate from the embedded default policy bundle, then
// applies opts. Pass WithLogger, WithPrincipalResolver, and
// WithDecisionCache to customize it; load a different bundle afterward
// with Refresh.
func NewGate(ctx context.Context, opts ...Option) (*Gate, error) {
	g := &Gate{
		logger:    slog.Default(),
		principal: func(*jsonrpc.Request) jrpc.AuthorizationEntity { return AnonymousPrincipal{} },
	}
	setOptions(g, nil, opts...)

	if err := g.Refresh(ctx, defaultPolicies); err != nil {
		return nil, err
	}

	if g.cacheTTL > 0 && g.cacheCleanup > 0 {
		g.decisions = cache.NewCache(g.cacheTTL, g.cacheCleanup)
	}

	return g, nil
}

// Refresh replaces the active policy set with the one parsed from b. The
// policy.path config key and operator-triggered reload both funnel through
// this method; a parse error leaves the previously active policy set in
// place.
func (g *Gate) Refresh(ctx context.Context, b []byte) error {
	ps, err := cedar.NewPolicySet("policies.cedar", b)
	if err != nil {
		g.logger.DebugContext(ctx, "error refreshing policies", "error", err.Error())
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policySet = ps
	return nil
}

// IsAuthorized implements jrpc.AuthorizationProvider: it evaluates req
// against the active policy set and reports whether it is permitted. A
// Cedar evaluation error (unknown entity type, malformed context) is
// treated as a denial, matching the fail-closed posture recorded in
// DESIGN.md.
func (g *Gate) IsAuthorized(ctx context.Context, req jrpc.AuthorizationRequest) bool {
	cReq := cedar.Request{
		Principal: cedar.NewEntityUID(req.Principal.EntityType(), req.Principal.EntityID()),
		Action:    cedar.NewEntityUID(req.Action.EntityType(), req.Action.EntityID()),
	}
	if req.Resource != nil {
		cReq.Resource = cedar.NewEntityUID(req.Resource.EntityType(), req.Resource.EntityID())
	}

	if reqCtx, err := contextToRecord(req.Context); err != nil {
		g.logger.InfoContext(ctx, "error converting context to record", "error", err.Error())
		return false
	} else if reqCtx != nil {
		cReq.Context = *reqCtx
	}

	key := cacheKey(cReq)
	if g.decisions != nil {
		if v, ok := g.decisions.Get(key); ok {
			return v.(bool)
		}
	}

	entities := fetchEntities(req)

	g.mu.RLock()
	decision, diag := g.policySet.IsAuthorized(entities, cReq)
	g.mu.RUnlock()

	allowed := decision == cedar.Allow
	g.logger.DebugContext(ctx, "authorization decision", "decision", decision, "diag", diag)

	if g.decisions != nil {
		g.decisions.Set(key, allowed)
	}
	return allowed
}

func fetchEntities(req jrpc.AuthorizationRequest) cedar.Entities {
	entities := cedar.Entities{}
	principal := entityFor(req.Principal)
	entities[principal.UID] = principal
	if req.Resource != nil {
		resource := entityFor(req.Resource)
		entities[resource.UID] = resource
	}
	return entities
}

func entityFor(e jrpc.AuthorizationEntity) cedar.Entity {
	return cedar.Entity{UID: cedar.NewEntityUID(e.EntityType(), e.EntityID())}
}

func cacheKey(req cedar.Request) string {
	return fmt.Sprintf("%v::%v::%v", req.Principal, req.Action, req.Resource)
}

func contextToRecord(in map[string]interface{}) (*cedar.Record, error) {
	if len(in) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out cedar.Record
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
