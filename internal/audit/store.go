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

// Package audit persists a best-effort record of every JSON-RPC call the
// dispatcher completes, for operators who need to answer "what ran, when,
// and did it succeed" without instrumenting every handler by hand.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/madsrc/jrpc"
)

// Record is one completed JSON-RPC call, as persisted to the call_audit
// table.
type Record struct {
	ID             uuid.UUID
	Method         string
	ParamsDigest   string
	Succeeded      bool
	ErrorCode      int32
	DurationMillis int64
	TraceID        string
	CreatedAt      time.Time
}

// Store records completed calls to Postgres without ever blocking the
// dispatcher that produced them. Record enqueues onto a bounded channel and
// returns immediately; a single background goroutine drains the channel and
// performs the actual insert.
type Store struct {
	pool   conn
	logger *slog.Logger
	queue  chan Record
	done   chan struct{}
}

// NewStore opens a connection pool against config.Audit.Database and starts
// the background writer. Call Close to drain the queue and release the pool.
func NewStore(ctx context.Context, config *jrpc.Config, logger *slog.Logger) (*Store, error) {
	pool, err := newPool(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	queueSize := config.Audit.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}

	s := &Store{
		pool:   pool,
		logger: logger,
		queue:  make(chan Record, queueSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// newStoreWithConn is used by tests to inject a fake conn instead of a real
// pgxpool.Pool.
func newStoreWithConn(pool conn, logger *slog.Logger, queueSize int) *Store {
	if queueSize <= 0 {
		queueSize = 256
	}
	s := &Store{
		pool:   pool,
		logger: logger,
		queue:  make(chan Record, queueSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Record enqueues rec for persistence. It never blocks the caller: if the
// queue is full, rec is dropped and logged at warn level.
func (s *Store) Record(ctx context.Context, rec Record) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	select {
	case s.queue <- rec:
	default:
		s.logger.WarnContext(ctx, "audit queue full, dropping record", "method", rec.Method)
	}
}

func (s *Store) run() {
	defer close(s.done)
	for rec := range s.queue {
		s.insert(rec)
	}
}

func (s *Store) insert(rec Record) {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO call_audit (id, method, params_digest, succeeded, error_code, duration_millis, trace_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Method, rec.ParamsDigest, rec.Succeeded, rec.ErrorCode, rec.DurationMillis, rec.TraceID, rec.CreatedAt,
	)
	if err != nil {
		err = wrapPgError(err)
		s.logger.Warn("failed to persist audit record", "method", rec.Method, "code", classifyPgError(err), "error", err.Error())
	}
}

// Close stops accepting new records and waits for the queue to drain.
func (s *Store) Close() {
	close(s.queue)
	<-s.done
}

// wrapPgError converts a Postgres constraint violation into a typed
// [jrpc.ConstraintViolationError] carrying the table and constraint names,
// leaving every other error untouched.
func wrapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return jrpc.NewConstraintViolationError(err, pgErr.Code, pgErr.Detail, pgErr.TableName, pgErr.ConstraintName)
	}
	return err
}

// classifyPgError maps a Postgres error to a short human-readable code for
// logging. Unrecognized errors are classified as "unknown".
func classifyPgError(err error) string {
	var dsErr jrpc.DatastoreError
	if errors.As(err, &dsErr) {
		if dsErr.Code() == pgerrcode.UniqueViolation {
			return "unique_violation"
		}
		return "constraint_violation"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ConnectionException, pgerrcode.ConnectionDoesNotExist, pgerrcode.ConnectionFailure:
			return "connection_error"
		default:
			return pgErr.Code
		}
	}
	return "unknown"
}
