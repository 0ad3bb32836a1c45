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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow/go/v12/arrow"
)

// publishStdout writes each batch as a tab-separated text table with a
// header row. Nulls render as "null".
func publishStdout(ctx context.Context, batches []arrow.Record, backend Stdout) error {
	w := backend.Writer
	if w == nil {
		w = os.Stdout
	}
	for i, batch := range batches {
		select {
		case <-ctx.Done():
			return &SinkError{Backend: "stdout", Op: "write", Err: ctx.Err()}
		default:
		}
		if err := writeBatchText(w, i, batch); err != nil {
			return &SinkError{Backend: "stdout", Op: "write", Err: err}
		}
	}
	return nil
}

func writeBatchText(w io.Writer, index int, batch arrow.Record) error {
	if _, err := fmt.Fprintf(w, "batch %d: %d rows\n", index, batch.NumRows()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(columnNames(batch.Schema()), "\t")); err != nil {
		return err
	}
	for row := 0; row < int(batch.NumRows()); row++ {
		cells := make([]string, int(batch.NumCols()))
		for col := 0; col < int(batch.NumCols()); col++ {
			text, ok := cellString(batch.Column(col), row)
			if !ok {
				text = "null"
			}
			cells[col] = text
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}
