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
	_ "github.com/mattn/go-sqlite3"
)

// publishSQLite inserts all rows into a SQLite table, creating the
// database file and table when missing. All rows go in one transaction.
func publishSQLite(ctx context.Context, batches []arrow.Record, backend SQLite) error {
	if len(batches) == 0 {
		return nil
	}

	table := backend.Table
	if table == "" {
		table = "metrics"
	}

	db, err := sql.Open("sqlite3", backend.Path)
	if err != nil {
		return &SinkError{Backend: "sqlite", Op: "connect", Err: err}
	}
	defer db.Close()

	if err := writeSQLTable(ctx, db, dialectSQLite, table, batches); err != nil {
		return &SinkError{Backend: "sqlite", Op: "write", Err: err}
	}
	return nil
}
