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
	"os"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/parquet"
	"github.com/apache/arrow/go/v12/parquet/compress"
	"github.com/apache/arrow/go/v12/parquet/pqarrow"
)

// publishParquetFile writes all batches into one Snappy-compressed
// Parquet file. The file carries the shared batch schema.
func publishParquetFile(ctx context.Context, batches []arrow.Record, backend ParquetFile) error {
	if len(batches) == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return &SinkError{Backend: "parquet", Op: "write", Err: ctx.Err()}
	default:
	}

	f, err := os.Create(backend.Path)
	if err != nil {
		return &SinkError{Backend: "parquet", Op: "create", Err: err}
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	writer, err := pqarrow.NewFileWriter(batches[0].Schema(), f, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return &SinkError{Backend: "parquet", Op: "create_writer", Err: err}
	}

	for _, batch := range batches {
		if err := writer.Write(batch); err != nil {
			writer.Close()
			return &SinkError{Backend: "parquet", Op: "write", Err: err}
		}
	}
	if err := writer.Close(); err != nil {
		return &SinkError{Backend: "parquet", Op: "close", Err: err}
	}
	return nil
}
