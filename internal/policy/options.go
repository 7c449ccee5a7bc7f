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
	"log/slog"
	"time"
)

// Option configures a Gate.
type Option func(s any)

func setOptions(target any, defaults []Option, opts ...Option) {
	for _, opt := range defaults {
		opt(target)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(target)
		}
	}
}

// WithLogger sets the logger used for decision and refresh diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(target any) {
		if g, ok := target.(*Gate); ok {
			g.logger = logger
		}
	}
}

// WithPrincipalResolver overrides how the Gate resolves the calling
// principal for a request. Defaults to AnonymousPrincipal for every call.
func WithPrincipalResolver(fn PrincipalResolver) Option {
	return func(target any) {
		if g, ok := target.(*Gate); ok {
			g.principal = fn
		}
	}
}

// WithDecisionCache enables caching of allow/deny decisions keyed by
// principal/action/resource, backed by internal/cache.Cache.
func WithDecisionCache(ttl, cleanup time.Duration) Option {
	return func(target any) {
		if g, ok := target.(*Gate); ok {
			g.cacheTTL = ttl
			g.cacheCleanup = cleanup
		}
	}
}
