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

// Package registry implements the RpcDispatcher: a name -> bound-handler
// map with optional before/after/error/fallback hooks, wired into the
// pipeline through the [RequestDispatcher] facade.
package registry

import (
	"fmt"
	"sync"

	"github.com/madsrc/jrpc"
	"github.com/madsrc/jrpc/internal/dispatch"
	"github.com/madsrc/jrpc/internal/jsonrpc"
)

// Registry is a method name -> bound handler map with lifecycle hooks.
//
// Registries are read-mostly: mutation (Add/Remove) is the caller's
// responsibility to serialize if shared across goroutines — the registry
// itself only guards its internal map, not the ordering of registration
// relative to concurrent dispatch.
type Registry struct {
	mu       sync.RWMutex
	handlers map[jsonrpc.Method]dispatch.Handler

	onBefore   func(req *jsonrpc.Request) (dispatch.Result, bool)
	onAfter    func(req *jsonrpc.Request, result dispatch.Result)
	onError    func(req *jsonrpc.Request, err *jsonrpc.Error)
	onFallback func(req *jsonrpc.Request) (dispatch.Result, bool)
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{handlers: make(map[jsonrpc.Method]dispatch.Handler)}
}

// Add binds fn under name with no user context pointer.
func (r *Registry) Add(name jsonrpc.Method, fn any) error {
	h, err := dispatch.Bind(fn)
	if err != nil {
		return err
	}
	return r.install(name, h)
}

// AddWithCtx binds fn under name with a user-bound context pointer passed on
// every invocation.
func (r *Registry) AddWithCtx(name jsonrpc.Method, ctxPtr any, fn any) error {
	h, err := dispatch.BindWithCtx(fn, ctxPtr)
	if err != nil {
		return err
	}
	return r.install(name, h)
}

func (r *Registry) install(name jsonrpc.Method, h dispatch.Handler) error {
	if err := name.Validate(); err != nil {
		return fmt.Errorf("%w: %w", jrpc.ErrInvalidMethodName, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
	return nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name jsonrpc.Method) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Get returns the handler bound to name, if any.
func (r *Registry) Get(name jsonrpc.Method) (dispatch.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Remove unregisters name.
func (r *Registry) Remove(name jsonrpc.Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

// OnBefore installs a hook called before lookup on every dispatch. Returning
// abort=true short-circuits dispatch entirely (the handler is never
// invoked) and the returned result is used as-is — the policy gate's
// BeforeHook method is the motivating use: a denial short-circuits with an
// InvalidRequest error result.
func (r *Registry) OnBefore(fn func(req *jsonrpc.Request) (result dispatch.Result, abort bool)) {
	r.onBefore = fn
}

// OnAfter installs a hook called after a successful handler invocation.
func (r *Registry) OnAfter(fn func(req *jsonrpc.Request, result dispatch.Result)) { r.onAfter = fn }

// OnError installs a hook called after a failing handler invocation, before
// the error is returned to the pipeline.
func (r *Registry) OnError(fn func(req *jsonrpc.Request, err *jsonrpc.Error)) { r.onError = fn }

// OnFallback installs a hook invoked on a lookup miss instead of producing
// MethodNotFound. Returning ok=false falls back to MethodNotFound anyway.
func (r *Registry) OnFallback(fn func(req *jsonrpc.Request) (dispatch.Result, bool)) { r.onFallback = fn }

// Dispatch implements the [RequestDispatcher] contract: onBefore; lookup;
// on hit, invoke; on miss, onFallback or MethodNotFound; on success onAfter;
// on error onError, then return the error.
func (r *Registry) Dispatch(ctx *dispatch.DispatchCtx, req *jsonrpc.Request) dispatch.Result {
	if r.onBefore != nil {
		if result, abort := r.onBefore(req); abort {
			return r.finish(req, result)
		}
	}

	handler, ok := r.Get(req.Method)
	if !ok {
		if r.onFallback != nil {
			if result, handled := r.onFallback(req); handled {
				return r.finish(req, result)
			}
		}
		result := dispatch.ErrResult(&jsonrpc.Error{
			Code:    jsonrpc.MethodNotFound,
			Message: jsonrpc.MethodNotFoundMessage,
		})
		return r.finish(req, result)
	}

	result := handler(ctx, req.Params)
	return r.finish(req, result)
}

// DispatchEnd is the default no-op cleanup hook required by the
// [RequestDispatcher] facade.
func (r *Registry) DispatchEnd(ctx *dispatch.DispatchCtx, req *jsonrpc.Request, result dispatch.Result) {}

func (r *Registry) finish(req *jsonrpc.Request, result dispatch.Result) dispatch.Result {
	if result.IsErr() {
		if r.onError != nil {
			r.onError(req, result.Err)
		}
		return result
	}
	if r.onAfter != nil {
		r.onAfter(req, result)
	}
	return result
}
