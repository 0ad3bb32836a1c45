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

package engine

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/aaronlmathis/arrowmetrics/core"
)

// MemoryRunner is the default in-process QueryRunner. It evaluates a Plan
// over Arrow record batches held fully in memory: projection first, then
// either built-in metrics or a grouped aggregation.
//
// Group keys appear in first-seen row order, which is stable for a given
// input; callers should still compare aggregated output by row content
// rather than position. Result batches may share column memory with the
// inputs (identity and projection are zero-copy), so inputs must outlive
// the results.
type MemoryRunner struct {
	mem memory.Allocator
}

// NewMemoryRunner returns a MemoryRunner backed by the Go allocator.
func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{mem: memory.NewGoAllocator()}
}

// Run implements QueryRunner.
func (r *MemoryRunner) Run(ctx context.Context, batches []arrow.Record, plan Plan) ([]arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if len(batches) == 0 {
		return nil, nil
	}
	if plan.IsPassThrough() {
		return batches, nil
	}

	projected := batches
	if len(plan.Projection) > 0 {
		projected = make([]arrow.Record, len(batches))
		for i, batch := range batches {
			rec, err := project(batch, plan.Projection)
			if err != nil {
				return nil, err
			}
			projected[i] = rec
		}
	}

	switch {
	case len(plan.Metrics) > 0:
		return r.runMetrics(projected, plan.Metrics)
	case len(plan.Aggregates) > 0 || len(plan.GroupBy) > 0:
		return r.runGroupedAggregation(projected, plan)
	default:
		return projected, nil
	}
}

// project builds a record restricted to the named columns, in order.
// Column data is shared with the input batch, not copied.
func project(batch arrow.Record, columns []string) (arrow.Record, error) {
	fields := make([]arrow.Field, len(columns))
	arrays := make([]arrow.Array, len(columns))
	for i, name := range columns {
		idx, err := columnIndex(batch.Schema(), name)
		if err != nil {
			return nil, err
		}
		fields[i] = batch.Schema().Field(idx)
		arrays[i] = batch.Column(idx)
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrays, batch.NumRows()), nil
}

// runMetrics evaluates built-in metric expressions across all batches and
// returns a single one-row record, one Int64 column per metric.
func (r *MemoryRunner) runMetrics(batches []arrow.Record, metrics []Metric) ([]arrow.Record, error) {
	schema := batches[0].Schema()
	fields := make([]arrow.Field, len(metrics))
	totals := make([]int64, len(metrics))

	for i, metric := range metrics {
		idx, err := columnIndex(schema, metric.Column)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: metric.OutputName(), Type: arrow.PrimitiveTypes.Int64}

		switch metric.Type {
		case core.MetricCountNull:
			for _, batch := range batches {
				totals[i] += int64(batch.Column(idx).NullN())
			}
		case core.MetricCountDistinct:
			seen := make(map[string]struct{})
			for _, batch := range batches {
				col := batch.Column(idx)
				for row := 0; row < col.Len(); row++ {
					if col.IsNull(row) {
						continue
					}
					seen[valueKey(extractValue(col, row))] = struct{}{}
				}
			}
			totals[i] = int64(len(seen))
		default:
			return nil, fmt.Errorf("unknown built-in metric %q", metric.Type)
		}
	}

	arrays := make([]arrow.Array, len(metrics))
	for i, total := range totals {
		builder := array.NewInt64Builder(r.mem)
		builder.Append(total)
		arrays[i] = builder.NewArray()
		builder.Release()
	}
	rec := array.NewRecord(arrow.NewSchema(fields, nil), arrays, 1)
	return []arrow.Record{rec}, nil
}

// groupState accumulates one group's key values and aggregators.
type groupState struct {
	keys []interface{}
	accs []accumulator
}

// runGroupedAggregation partitions rows by the grouping key and folds
// each aggregate expression per group, returning a single record with one
// row per group in first-seen order. Without grouping columns all rows
// fold into one global group; without aggregates the output is the set of
// distinct keys.
func (r *MemoryRunner) runGroupedAggregation(batches []arrow.Record, plan Plan) ([]arrow.Record, error) {
	schema := batches[0].Schema()

	keyIdx := make([]int, len(plan.GroupBy))
	for i, name := range plan.GroupBy {
		idx, err := columnIndex(schema, name)
		if err != nil {
			return nil, err
		}
		keyIdx[i] = idx
	}
	aggIdx := make([]int, len(plan.Aggregates))
	for i, agg := range plan.Aggregates {
		idx, err := columnIndex(schema, agg.Column)
		if err != nil {
			return nil, err
		}
		aggIdx[i] = idx
	}

	states := make(map[string]*groupState)
	var order []string

	for _, batch := range batches {
		for row := 0; row < int(batch.NumRows()); row++ {
			keys := make([]interface{}, len(keyIdx))
			groupKey := ""
			for i, idx := range keyIdx {
				keys[i] = extractValue(batch.Column(idx), row)
				groupKey += valueKey(keys[i]) + "\x1f"
			}

			state, ok := states[groupKey]
			if !ok {
				state = &groupState{keys: keys, accs: make([]accumulator, len(plan.Aggregates))}
				for i, agg := range plan.Aggregates {
					state.accs[i] = newAccumulator(agg.Type)
				}
				states[groupKey] = state
				order = append(order, groupKey)
			}

			for i, idx := range aggIdx {
				value := extractValue(batch.Column(idx), row)
				if value == nil {
					continue // nulls are excluded from aggregation
				}
				if err := state.accs[i].add(value); err != nil {
					return nil, fmt.Errorf("aggregate %s: %w", plan.Aggregates[i].OutputName(), err)
				}
			}
		}
	}

	fields := make([]arrow.Field, 0, len(keyIdx)+len(plan.Aggregates))
	for _, idx := range keyIdx {
		field := schema.Field(idx)
		field.Nullable = true
		fields = append(fields, field)
	}
	for i, agg := range plan.Aggregates {
		fields = append(fields, arrow.Field{
			Name:     agg.OutputName(),
			Type:     aggregateOutputType(agg.Type, schema.Field(aggIdx[i]).Type),
			Nullable: true,
		})
	}

	outSchema := arrow.NewSchema(fields, nil)
	builders := make([]array.Builder, len(fields))
	for i, field := range fields {
		builders[i] = array.NewBuilder(r.mem, field.Type)
	}

	for _, groupKey := range order {
		state := states[groupKey]
		for i, key := range state.keys {
			if err := appendValue(builders[i], key); err != nil {
				return nil, fmt.Errorf("group column %s: %w", plan.GroupBy[i], err)
			}
		}
		for i, acc := range state.accs {
			if err := appendValue(builders[len(keyIdx)+i], acc.result()); err != nil {
				return nil, fmt.Errorf("aggregate %s: %w", plan.Aggregates[i].OutputName(), err)
			}
		}
	}

	arrays := make([]arrow.Array, len(builders))
	for i, builder := range builders {
		arrays[i] = builder.NewArray()
		builder.Release()
	}
	rec := array.NewRecord(outSchema, arrays, int64(len(order)))
	return []arrow.Record{rec}, nil
}

// aggregateOutputType maps an aggregate function to its result column
// type. Sum and Avg widen to float64, Count is an int64, Min and Max keep
// the input column type.
func aggregateOutputType(kind core.AggregateType, input arrow.DataType) arrow.DataType {
	switch kind {
	case core.AggregateCount:
		return arrow.PrimitiveTypes.Int64
	case core.AggregateMin, core.AggregateMax:
		return input
	default:
		return arrow.PrimitiveTypes.Float64
	}
}

// columnIndex resolves a column name against a schema.
func columnIndex(schema *arrow.Schema, name string) (int, error) {
	indices := schema.FieldIndices(name)
	if len(indices) == 0 {
		return 0, fmt.Errorf("column %q not found in input schema", name)
	}
	return indices[0], nil
}
