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
	"encoding/csv"
	"io"
	"os"

	"github.com/apache/arrow/go/v12/arrow"
)

// publishCSVFile writes all batches to a single CSV file. The header row
// comes from the shared batch schema; nulls encode as empty fields.
func publishCSVFile(ctx context.Context, batches []arrow.Record, backend CSVFile) error {
	if len(batches) == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return &SinkError{Backend: "csv", Op: "write", Err: ctx.Err()}
	default:
	}

	f, err := os.Create(backend.Path)
	if err != nil {
		return &SinkError{Backend: "csv", Op: "create", Err: err}
	}
	defer f.Close()

	if err := encodeCSV(f, batches, backend.Comma); err != nil {
		return &SinkError{Backend: "csv", Op: "write", Err: err}
	}
	return nil
}

// encodeCSV renders the batches as one CSV document with a header row.
// Shared by the CSV file sink and the S3 sink.
func encodeCSV(w io.Writer, batches []arrow.Record, comma rune) error {
	writer := csv.NewWriter(w)
	if comma != 0 {
		writer.Comma = comma
	}

	if err := writer.Write(columnNames(batches[0].Schema())); err != nil {
		return err
	}
	for _, batch := range batches {
		for row := 0; row < int(batch.NumRows()); row++ {
			cells := make([]string, int(batch.NumCols()))
			for col := 0; col < int(batch.NumCols()); col++ {
				cells[col], _ = cellString(batch.Column(col), row)
			}
			if err := writer.Write(cells); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
