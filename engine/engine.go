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

// Package engine turns (batches, Transformation) into result batches.
//
// Execute is the only place the compute capability is touched: it
// validates the input, translates the Transformation into a Plan, and
// delegates to an injected QueryRunner. MemoryRunner (memory.go) is the
// default in-process runner; alternate engines substitute by
// implementing QueryRunner.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"

	"github.com/aaronlmathis/arrowmetrics/core"
)

// QueryRunner is the compute capability consumed by Execute. A runner
// plans, runs, and collects one query over the given batches, treating
// them as a single logical table in input order.
//
// Runners may assume all batches share one schema; Execute verifies that
// before delegating. Errors are returned raw and wrapped into
// *core.ComputeError by Execute.
type QueryRunner interface {
	Run(ctx context.Context, batches []arrow.Record, plan Plan) ([]arrow.Record, error)
}

// Execute runs the Transformation against the batches using the given
// runner and materializes the result as an ordered sequence of output
// batches.
//
// An empty batch list yields an empty result and no error, whatever the
// Transformation. Batches with differing schemas, columns missing from
// the input schema, and engine failures all surface as
// *core.ComputeError; no partial result is returned. The order of group
// keys in aggregated output is runner-defined.
func Execute(ctx context.Context, runner QueryRunner, batches []arrow.Record, t core.Transformation) ([]arrow.Record, error) {
	if runner == nil {
		return nil, &core.ComputeError{Op: "plan", Err: errors.New("no query runner configured")}
	}
	if len(batches) == 0 {
		return nil, nil
	}

	schema := batches[0].Schema()
	for i, batch := range batches[1:] {
		if !schema.Equal(batch.Schema()) {
			return nil, &core.ComputeError{
				Op:  "validate",
				Err: fmt.Errorf("batch %d schema does not match batch 0: %v vs %v", i+1, batch.Schema(), schema),
			}
		}
	}

	result, err := runner.Run(ctx, batches, BuildPlan(t))
	if err != nil {
		return nil, &core.ComputeError{Op: "run", Err: err}
	}
	return result, nil
}
