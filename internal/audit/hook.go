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

package audit

import (
	"context"
	"time"
)

// CallOutcome is the minimal view of a completed dispatch the registry
// exposes to onAfter/onError hooks. It is declared here, rather than
// imported from the registry package, so that audit has no compile-time
// dependency on dispatch internals beyond this narrow shape.
type CallOutcome struct {
	Method         string
	ParamsDigest   string
	Succeeded      bool
	ErrorCode      int32
	DurationMillis int64
	TraceID        string
}

// Observe adapts a CallOutcome into a Record and enqueues it. Bind this as
// both the onAfter and onError hook on a registry.Registry so every call,
// successful or not, is captured.
func (s *Store) Observe(ctx context.Context, outcome CallOutcome) {
	s.Record(ctx, Record{
		Method:         outcome.Method,
		ParamsDigest:   outcome.ParamsDigest,
		Succeeded:      outcome.Succeeded,
		ErrorCode:      outcome.ErrorCode,
		DurationMillis: outcome.DurationMillis,
		TraceID:        outcome.TraceID,
		CreatedAt:      time.Now(),
	})
}
