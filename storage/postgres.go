//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of ArrowMetrics.
//
// ArrowMetrics is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ArrowMetrics is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ArrowMetrics. If not, see https://www.gnu.org/licenses/.

package storage

import (
	"context"
	"database/sql"

	"github.com/apache/arrow/go/v12/arrow"
	_ "github.com/lib/pq"
)

// publishPostgres inserts all rows into a PostgreSQL table, creating it
// from the batch schema when missing. All rows go in one transaction.
func publishPostgres(ctx context.Context, batches []arrow.Record, backend Postgres) error {
	if len(batches) == 0 {
		return nil
	}

	table := backend.Table
	if table == "" {
		table = "metrics"
	}

	db, err := sql.Open("postgres", backend.DSN)
	if err != nil {
		return &SinkError{Backend: "postgres", Op: "connect", Err: err}
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return &SinkError{Backend: "postgres", Op: "connect", Err: err}
	}

	if err := writeSQLTable(ctx, db, dialectPostgres, table, batches); err != nil {
		return &SinkError{Backend: "postgres", Op: "write", Err: err}
	}
	return nil
}
