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

package core

import "fmt"

// Error types surfaced by a publish run. Every failure path returns one
// of these typed errors to the caller; nothing is retried, logged, or
// swallowed inside the library.

// ComputeError wraps a failure to plan or run a Transformation against
// the input batches, including schema mismatches and columns missing
// from the input schema.
type ComputeError struct {
	Op  string // Operation that failed (e.g., "validate", "run")
	Err error  // Underlying error
}

// Error returns the error string for ComputeError.
func (e *ComputeError) Error() string {
	return fmt.Sprintf("compute %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for ComputeError.
func (e *ComputeError) Unwrap() error {
	return e.Err
}

// UnsupportedStorageBackendError reports a publish request against a
// storage backend the dispatcher has no write routine for. No output is
// written for the failed call.
type UnsupportedStorageBackendError struct {
	Backend string // Name of the requested backend
}

// Error returns the error string for UnsupportedStorageBackendError.
func (e *UnsupportedStorageBackendError) Error() string {
	return fmt.Sprintf("unsupported storage backend: %s", e.Backend)
}
