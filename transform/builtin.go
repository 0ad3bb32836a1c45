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

package transform

import (
	"github.com/aaronlmathis/arrowmetrics/core"
)

// MetricOptions configures a built-in metric stage.
type MetricOptions struct {
	Alias string // Output column name; empty selects the default naming scheme
}

// MetricOption represents a configuration function for MetricOptions.
type MetricOption func(*MetricOptions)

// WithAlias renames the metric's output column. When no alias is given the
// output column is named "<metric>(<column>)", e.g. "null_count(value)".
func WithAlias(alias string) MetricOption {
	return func(opts *MetricOptions) {
		opts.Alias = alias
	}
}

// BuiltInMetricsBuilder produces ready-made single-stage Transformations
// for common data-quality metrics, without manual stage assembly.
//
// The builder is stateless: every call yields an independent
// Transformation with no aliasing to prior results.
type BuiltInMetricsBuilder struct{}

// NewBuiltInMetricsBuilder returns a BuiltInMetricsBuilder.
func NewBuiltInMetricsBuilder() BuiltInMetricsBuilder {
	return BuiltInMetricsBuilder{}
}

// CountNull returns a Transformation whose sole stage counts the null
// values of the given column across all input rows.
func (BuiltInMetricsBuilder) CountNull(column string, options ...MetricOption) core.Transformation {
	return metricTransformation(core.MetricCountNull, column, options)
}

// CountDistinct returns a Transformation whose sole stage counts the
// distinct non-null values of the given column across all input rows.
func (BuiltInMetricsBuilder) CountDistinct(column string, options ...MetricOption) core.Transformation {
	return metricTransformation(core.MetricCountDistinct, column, options)
}

func metricTransformation(kind core.MetricType, column string, options []MetricOption) core.Transformation {
	opts := &MetricOptions{}
	for _, option := range options {
		option(opts)
	}
	return core.NewTransformation(core.Stage{
		Kind:    core.StageMetric,
		Metric:  kind,
		Columns: []string{column},
		Alias:   opts.Alias,
	})
}
