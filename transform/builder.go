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

// Package transform provides the fluent builders that assemble immutable
// core.Transformation plans.
//
// The builders are value types: every chainable method returns an updated
// copy and never mutates the receiver's accumulated stages, so a partially
// configured builder can be branched into several plans safely.
package transform

import (
	"github.com/aaronlmathis/arrowmetrics/core"
)

// TransformationBuilder accumulates select/aggregate/group-by stages and
// produces an immutable core.Transformation.
//
// Example usage:
//
//	t := transform.NewTransformationBuilder().
//	    Select("id", "value", "category").
//	    Aggregate(core.AggregateSum, "value").
//	    GroupBy("category").
//	    Build()
type TransformationBuilder struct {
	stages []core.Stage
}

// NewTransformationBuilder returns an empty TransformationBuilder. Calling
// Build on it yields the identity Transformation.
func NewTransformationBuilder() TransformationBuilder {
	return TransformationBuilder{}
}

// Select appends a stage restricting (and reordering) the output columns.
//
// columns: the column names to project, in output order.
// Returns an updated builder copy for chaining.
func (b TransformationBuilder) Select(columns ...string) TransformationBuilder {
	return b.appendStage(core.Stage{
		Kind:    core.StageSelect,
		Columns: columns,
	})
}

// Aggregate appends a stage computing the given aggregate for each target
// column.
//
// kind: the aggregate function (e.g. core.AggregateSum).
// columns: the target columns, one output value per column.
// Returns an updated builder copy for chaining.
func (b TransformationBuilder) Aggregate(kind core.AggregateType, columns ...string) TransformationBuilder {
	return b.appendStage(core.Stage{
		Kind:      core.StageAggregate,
		Aggregate: kind,
		Columns:   columns,
	})
}

// GroupBy appends a stage partitioning rows by the given columns before
// aggregation.
//
// columns: the grouping key columns, in key order.
// Returns an updated builder copy for chaining.
func (b TransformationBuilder) GroupBy(columns ...string) TransformationBuilder {
	return b.appendStage(core.Stage{
		Kind:    core.StageGroupBy,
		Columns: columns,
	})
}

// Build returns the accumulated Transformation. Build is pure data
// assembly: it never fails, performs no I/O, and does not validate column
// references against any schema. Calling Build repeatedly on the same
// builder yields value-equal Transformations.
func (b TransformationBuilder) Build() core.Transformation {
	return core.NewTransformation(b.stages...)
}

// appendStage returns a new builder whose stage list is a fresh slice.
// The full copy keeps previously returned builders safe to branch from.
func (b TransformationBuilder) appendStage(s core.Stage) TransformationBuilder {
	stages := make([]core.Stage, 0, len(b.stages)+1)
	stages = append(stages, b.stages...)
	stages = append(stages, s)
	return TransformationBuilder{stages: stages}
}
