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
	"fmt"
	"log/slog"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madsrc/jrpc"
)

// conn is the subset of *pgxpool.Pool the Store needs, narrowed so tests can
// supply a fake.
type conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// afterConnect is a pgx.ConnConfig.AfterConnect function that logs 'database connection established', at the debug level.
//
// If logger is nil, this function panics.
func afterConnect(logger *slog.Logger) func(ctx context.Context, conn *pgx.Conn) error {
	return func(ctx context.Context, conn *pgx.Conn) error {
		logger.DebugContext(ctx, "database connection established")
		return nil
	}
}

func newPool(ctx context.Context, config *jrpc.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pgxconfig, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		config.Audit.Database.User,
		config.Audit.Database.Password,
		config.Audit.Database.Host,
		config.Audit.Database.Port,
		config.Audit.Database.Name,
	))
	if err != nil {
		return nil, err
	}
	pgxconfig.ConnConfig.Tracer = otelpgx.NewTracer()
	pgxconfig.AfterConnect = afterConnect(logger)
	return pgxpool.NewWithConfig(ctx, pgxconfig)
}
