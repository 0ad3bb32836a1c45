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
	"fmt"

	"github.com/aaronlmathis/arrowmetrics/core"
)

// Aggregation is one aggregate expression of a Plan.
type Aggregation struct {
	Type   core.AggregateType
	Column string
}

// OutputName returns the derived output column name, e.g. "sum(value)".
func (a Aggregation) OutputName() string {
	return fmt.Sprintf("%s(%s)", a.Type, a.Column)
}

// Metric is one built-in metric expression of a Plan.
type Metric struct {
	Type   core.MetricType
	Column string
	Alias  string
}

// OutputName returns the configured alias, or the default derived name,
// e.g. "null_count(value)".
func (m Metric) OutputName() string {
	if m.Alias != "" {
		return m.Alias
	}
	return fmt.Sprintf("%s(%s)", m.Type, m.Column)
}

// Plan is the single query a Transformation translates into. It is the
// shape a QueryRunner consumes: a projection, a grouped aggregation, and
// a set of built-in metric expressions.
type Plan struct {
	Projection []string      // Columns to project, in order; nil keeps all
	GroupBy    []string      // Grouping key columns, in key order
	Aggregates []Aggregation // Aggregate expressions, in stage order
	Metrics    []Metric      // Built-in metric expressions, in stage order
}

// IsPassThrough reports whether running the plan returns the input
// batches unchanged.
func (p Plan) IsPassThrough() bool {
	return len(p.Projection) == 0 && len(p.GroupBy) == 0 &&
		len(p.Aggregates) == 0 && len(p.Metrics) == 0
}

// BuildPlan translates a Transformation's stage list into one Plan.
//
// The stage list arrives in builder order; this adapter decides how that
// order maps onto the query. Select stages accumulate into the
// projection, GroupBy stages into the grouping key, Aggregate stages fan
// out into one expression per target column, and metric stages into
// metric expressions. Repeated stages of the same kind extend the
// corresponding list in order.
func BuildPlan(t core.Transformation) Plan {
	var plan Plan
	for _, stage := range t.Stages() {
		switch stage.Kind {
		case core.StageSelect:
			plan.Projection = append(plan.Projection, stage.Columns...)
		case core.StageGroupBy:
			plan.GroupBy = append(plan.GroupBy, stage.Columns...)
		case core.StageAggregate:
			for _, column := range stage.Columns {
				plan.Aggregates = append(plan.Aggregates, Aggregation{
					Type:   stage.Aggregate,
					Column: column,
				})
			}
		case core.StageMetric:
			for _, column := range stage.Columns {
				plan.Metrics = append(plan.Metrics, Metric{
					Type:   stage.Metric,
					Column: column,
					Alias:  stage.Alias,
				})
			}
		}
	}
	return plan
}
