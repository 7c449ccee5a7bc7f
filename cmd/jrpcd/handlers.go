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

package main

import (
	"sync/atomic"

	"github.com/madsrc/jrpc/internal/registry"
)

// counter backs the "inc"/"get" reference methods: inc is invoked as a
// notification (no response, no id) and get reports the accumulated value.
type counter struct {
	n int64
}

func (c *counter) inc() {
	atomic.AddInt64(&c.n, 1)
}

func (c *counter) get() int64 {
	return atomic.LoadInt64(&c.n)
}

// registerReferenceHandlers binds the small set of demonstration methods
// shipped with the daemon: arithmetic, an echo, a liveness probe, and the
// notification-driven counter. Every method named here must also appear in
// internal/policy's embedded default policy bundle, or the Policy Gate
// denies it out of the box.
func registerReferenceHandlers(r *registry.Registry) error {
	c := &counter{}

	if err := r.Add("add", func(a, b int) int { return a + b }); err != nil {
		return err
	}
	if err := r.Add("echo", func(s string) string { return s }); err != nil {
		return err
	}
	if err := r.Add("ping", func() string { return "pong" }); err != nil {
		return err
	}
	if err := r.Add("inc", c.inc); err != nil {
		return err
	}
	if err := r.Add("get", c.get); err != nil {
		return err
	}
	return nil
}
