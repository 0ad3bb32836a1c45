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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/arrowmetrics/core"
)

func TestTransformationBuilder_BuildsStagesInOrder(t *testing.T) {
	transformation := NewTransformationBuilder().
		Select("id", "value", "category").
		Aggregate(core.AggregateSum, "value").
		GroupBy("category").
		Build()

	stages := transformation.Stages()
	require.Len(t, stages, 3)

	assert.Equal(t, core.StageSelect, stages[0].Kind)
	assert.Equal(t, []string{"id", "value", "category"}, stages[0].Columns)

	assert.Equal(t, core.StageAggregate, stages[1].Kind)
	assert.Equal(t, core.AggregateSum, stages[1].Aggregate)
	assert.Equal(t, []string{"value"}, stages[1].Columns)

	assert.Equal(t, core.StageGroupBy, stages[2].Kind)
	assert.Equal(t, []string{"category"}, stages[2].Columns)
}

func TestTransformationBuilder_EmptyBuildIsIdentity(t *testing.T) {
	assert.True(t, NewTransformationBuilder().Build().IsIdentity())
}

func TestTransformationBuilder_BuildIsPure(t *testing.T) {
	builder := NewTransformationBuilder().Select("id").GroupBy("category")

	first := builder.Build()
	second := builder.Build()

	assert.Equal(t, first, second)
}

func TestTransformationBuilder_BranchingIsSafe(t *testing.T) {
	base := NewTransformationBuilder().Select("id", "value")

	sums := base.Aggregate(core.AggregateSum, "value").Build()
	averages := base.Aggregate(core.AggregateAvg, "value").Build()
	plain := base.Build()

	require.Equal(t, 2, sums.NumStages())
	require.Equal(t, 2, averages.NumStages())
	require.Equal(t, 1, plain.NumStages())

	assert.Equal(t, core.AggregateSum, sums.Stages()[1].Aggregate)
	assert.Equal(t, core.AggregateAvg, averages.Stages()[1].Aggregate)
}

func TestBuiltInMetricsBuilder_CountNull(t *testing.T) {
	transformation := NewBuiltInMetricsBuilder().CountNull("value")

	stages := transformation.Stages()
	require.Len(t, stages, 1)
	assert.Equal(t, core.StageMetric, stages[0].Kind)
	assert.Equal(t, core.MetricCountNull, stages[0].Metric)
	assert.Equal(t, []string{"value"}, stages[0].Columns)
	assert.Empty(t, stages[0].Alias)
}

func TestBuiltInMetricsBuilder_CountNullWithAlias(t *testing.T) {
	transformation := NewBuiltInMetricsBuilder().CountNull("value", WithAlias("missing_values"))

	stages := transformation.Stages()
	require.Len(t, stages, 1)
	assert.Equal(t, "missing_values", stages[0].Alias)
}

func TestBuiltInMetricsBuilder_CallsAreIndependent(t *testing.T) {
	builder := NewBuiltInMetricsBuilder()

	first := builder.CountNull("value")
	second := builder.CountDistinct("category")

	assert.Equal(t, core.MetricCountNull, first.Stages()[0].Metric)
	assert.Equal(t, core.MetricCountDistinct, second.Stages()[0].Metric)
	assert.Equal(t, []string{"value"}, first.Stages()[0].Columns)
}
