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
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v12/arrow"
)

// sqlDialect selects the placeholder style of the target database.
type sqlDialect int

const (
	dialectPostgres sqlDialect = iota // $1, $2, ...
	dialectSQLite                     // ?, ?, ...
)

// writeSQLTable creates the target table from the batch schema when it
// does not exist and inserts every row inside one transaction, so a
// failed publish leaves no partial rows behind.
func writeSQLTable(ctx context.Context, db *sql.DB, dialect sqlDialect, table string, batches []arrow.Record) error {
	schema := batches[0].Schema()

	if _, err := db.ExecContext(ctx, createTableStmt(table, schema)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStmt(dialect, table, schema))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}

	for _, batch := range batches {
		for row := 0; row < int(batch.NumRows()); row++ {
			args := make([]interface{}, int(batch.NumCols()))
			for col := 0; col < int(batch.NumCols()); col++ {
				args[col] = cellValue(batch.Column(col), row)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("insert: %w", err)
			}
		}
	}

	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func createTableStmt(table string, schema *arrow.Schema) string {
	columns := make([]string, len(schema.Fields()))
	for i, field := range schema.Fields() {
		columns[i] = fmt.Sprintf("%s %s", quoteIdent(field.Name), sqlColumnType(field.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(columns, ", "))
}

func insertStmt(dialect sqlDialect, table string, schema *arrow.Schema) string {
	columns := make([]string, len(schema.Fields()))
	holders := make([]string, len(schema.Fields()))
	for i, field := range schema.Fields() {
		columns[i] = quoteIdent(field.Name)
		if dialect == dialectPostgres {
			holders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			holders[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(columns, ", "), strings.Join(holders, ", "))
}

// sqlColumnType maps an Arrow type onto a portable SQL column type.
func sqlColumnType(dt arrow.DataType) string {
	switch dt.ID() {
	case arrow.BOOL:
		return "BOOLEAN"
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return "BIGINT"
	case arrow.FLOAT32, arrow.FLOAT64:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
