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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformation_ZeroValueIsIdentity(t *testing.T) {
	var identity Transformation
	assert.True(t, identity.IsIdentity())
	assert.Equal(t, 0, identity.NumStages())
	assert.Nil(t, identity.Stages())
}

func TestNewTransformation_CopiesStages(t *testing.T) {
	columns := []string{"id", "value"}
	stage := Stage{Kind: StageSelect, Columns: columns}

	transformation := NewTransformation(stage)

	// Mutating the caller's slice must not reach into the built plan.
	columns[0] = "mutated"
	got := transformation.Stages()
	require.Len(t, got, 1)
	assert.Equal(t, []string{"id", "value"}, got[0].Columns)
}

func TestTransformation_StagesReturnsCopy(t *testing.T) {
	transformation := NewTransformation(Stage{Kind: StageGroupBy, Columns: []string{"category"}})

	first := transformation.Stages()
	first[0].Columns[0] = "mutated"
	first[0].Kind = StageSelect

	second := transformation.Stages()
	assert.Equal(t, StageGroupBy, second[0].Kind)
	assert.Equal(t, []string{"category"}, second[0].Columns)
}

func TestAggregateType_String(t *testing.T) {
	tests := []struct {
		kind AggregateType
		want string
	}{
		{AggregateSum, "sum"},
		{AggregateCount, "count"},
		{AggregateAvg, "avg"},
		{AggregateMin, "min"},
		{AggregateMax, "max"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestMetricType_String(t *testing.T) {
	assert.Equal(t, "null_count", MetricCountNull.String())
	assert.Equal(t, "distinct_count", MetricCountDistinct.String())
}

func TestComputeError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ComputeError{Op: "run", Err: cause}

	assert.Equal(t, "compute run: boom", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestUnsupportedStorageBackendError_Message(t *testing.T) {
	err := &UnsupportedStorageBackendError{Backend: "kafka"}
	assert.Equal(t, "unsupported storage backend: kafka", err.Error())
}
