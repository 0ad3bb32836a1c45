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

// Package core defines the shared data model for the ArrowMetrics
// library: the Transformation plan, its stages, the closed enumerations
// used by the builders and the execution engine, and the typed errors a
// publish run surfaces.
package core

import "fmt"

// AggregateType identifies an aggregation function applied to one or more
// target columns of a grouped (or global) aggregation.
type AggregateType int

const (
	// AggregateSum sums the non-null values of the target column.
	AggregateSum AggregateType = iota
	// AggregateCount counts the non-null values of the target column.
	AggregateCount
	// AggregateAvg averages the non-null values of the target column.
	AggregateAvg
	// AggregateMin returns the smallest non-null value of the target column.
	AggregateMin
	// AggregateMax returns the largest non-null value of the target column.
	AggregateMax
)

// String returns the lowercase function name used when deriving output
// column names (e.g. "sum" yields "sum(value)").
func (a AggregateType) String() string {
	switch a {
	case AggregateSum:
		return "sum"
	case AggregateCount:
		return "count"
	case AggregateAvg:
		return "avg"
	case AggregateMin:
		return "min"
	case AggregateMax:
		return "max"
	default:
		return fmt.Sprintf("aggregate(%d)", int(a))
	}
}

// MetricType identifies a built-in, single-column metric.
type MetricType int

const (
	// MetricCountNull counts the null values of the source column.
	MetricCountNull MetricType = iota
	// MetricCountDistinct counts the distinct non-null values of the source column.
	MetricCountDistinct
)

// String returns the lowercase metric name used when deriving default
// output column names (e.g. "null_count" yields "null_count(value)").
func (m MetricType) String() string {
	switch m {
	case MetricCountNull:
		return "null_count"
	case MetricCountDistinct:
		return "distinct_count"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// StageKind discriminates the variants of a Stage.
type StageKind int

const (
	// StageSelect restricts and reorders the output columns.
	StageSelect StageKind = iota
	// StageAggregate computes an aggregate per target column.
	StageAggregate
	// StageGroupBy partitions rows before aggregation.
	StageGroupBy
	// StageMetric computes a predefined derived statistic for one column.
	StageMetric
)

// Stage is one operation within a Transformation. Which fields are
// meaningful depends on Kind:
//
//   - StageSelect:    Columns
//   - StageAggregate: Aggregate, Columns
//   - StageGroupBy:   Columns
//   - StageMetric:    Metric, Columns (single source column), Alias
type Stage struct {
	Kind      StageKind
	Columns   []string
	Aggregate AggregateType
	Metric    MetricType
	Alias     string
}

// clone returns a deep copy of the stage so callers can never alias the
// column slice held inside a built Transformation.
func (s Stage) clone() Stage {
	out := s
	out.Columns = append([]string(nil), s.Columns...)
	return out
}

// Transformation is an immutable, ordered plan of data operations.
//
// The zero value is the identity Transformation: applied to a set of
// record batches it passes them through unchanged. Transformations are
// assembled by transform.TransformationBuilder and consumed verbatim, in
// stage order, by the execution adapter; the model itself attaches no
// meaning to stage order.
//
// Column references are not validated at construction time. A stage that
// names a column absent from the input schema surfaces as a ComputeError
// when the plan is executed.
type Transformation struct {
	stages []Stage
}

// NewTransformation builds a Transformation from the given stages. The
// stages (including their column slices) are copied, so the caller may
// reuse or modify its arguments afterwards.
func NewTransformation(stages ...Stage) Transformation {
	if len(stages) == 0 {
		return Transformation{}
	}
	copied := make([]Stage, len(stages))
	for i, s := range stages {
		copied[i] = s.clone()
	}
	return Transformation{stages: copied}
}

// Stages returns a copy of the stage list in builder order.
func (t Transformation) Stages() []Stage {
	if len(t.stages) == 0 {
		return nil
	}
	out := make([]Stage, len(t.stages))
	for i, s := range t.stages {
		out[i] = s.clone()
	}
	return out
}

// NumStages returns the number of stages in the plan.
func (t Transformation) NumStages() int {
	return len(t.stages)
}

// IsIdentity reports whether the Transformation has no stages and would
// pass input batches through unchanged.
func (t Transformation) IsIdentity() bool {
	return len(t.stages) == 0
}
