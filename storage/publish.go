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

	"github.com/apache/arrow/go/v12/arrow"

	"github.com/aaronlmathis/arrowmetrics/core"
)

// SinkError wraps a sink-specific write failure with the backend name
// and the operation that failed.
type SinkError struct {
	Backend string // Backend name (e.g., "stdout", "csv")
	Op      string // Operation that failed (e.g., "connect", "write")
	Err     error  // Underlying error
}

// Error returns the error string for SinkError.
func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error for SinkError.
func (e *SinkError) Unwrap() error {
	return e.Err
}

// Publish writes the batches, in order, to the given backend.
//
// A backend without a write routine yields
// *core.UnsupportedStorageBackendError and no output. An empty batch
// list succeeds without touching the sink. Input batches are never
// mutated, so publishing the same batches twice produces the same
// logical output.
func Publish(ctx context.Context, batches []arrow.Record, backend StorageBackend) error {
	if backend == nil {
		return &core.UnsupportedStorageBackendError{Backend: "<nil>"}
	}
	switch b := backend.(type) {
	case Stdout:
		return publishStdout(ctx, batches, b)
	case CSVFile:
		return publishCSVFile(ctx, batches, b)
	case ParquetFile:
		return publishParquetFile(ctx, batches, b)
	case Postgres:
		return publishPostgres(ctx, batches, b)
	case SQLite:
		return publishSQLite(ctx, batches, b)
	case S3:
		return publishS3(ctx, batches, b)
	case MongoDB:
		return publishMongoDB(ctx, batches, b)
	default:
		return &core.UnsupportedStorageBackendError{Backend: backend.String()}
	}
}
