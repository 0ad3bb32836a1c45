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

package arrowmetrics

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/arrowmetrics/core"
	"github.com/aaronlmathis/arrowmetrics/engine"
	"github.com/aaronlmathis/arrowmetrics/storage"
	"github.com/aaronlmathis/arrowmetrics/transform"
)

// recordingRunner counts invocations so tests can tell whether the plan
// actually ran.
type recordingRunner struct {
	calls int
	inner engine.QueryRunner
}

func (r *recordingRunner) Run(ctx context.Context, batches []arrow.Record, plan engine.Plan) ([]arrow.Record, error) {
	r.calls++
	return r.inner.Run(ctx, batches, plan)
}

// sampleBatch builds the canonical three-row dataset:
// (1, 10, "A"), (2, null, "A"), (3, 5, "B").
func sampleBatch(t *testing.T) arrow.Record {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "value", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "category", Type: arrow.BinaryTypes.String},
	}, nil)

	mem := memory.NewGoAllocator()

	ids := array.NewInt64Builder(mem)
	ids.AppendValues([]int64{1, 2, 3}, nil)

	values := array.NewFloat64Builder(mem)
	values.Append(10)
	values.AppendNull()
	values.Append(5)

	categories := array.NewStringBuilder(mem)
	categories.AppendValues([]string{"A", "A", "B"}, nil)

	cols := []arrow.Array{ids.NewArray(), values.NewArray(), categories.NewArray()}
	return array.NewRecord(schema, cols, 3)
}

// groupedLines parses the stdout text format into category -> sum lines
// so assertions never depend on physical group order.
func groupedLines(t *testing.T, out string) map[string]string {
	t.Helper()

	groups := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) != 2 || parts[0] == "category" {
			continue
		}
		groups[parts[0]] = parts[1]
	}
	return groups
}

func TestMetricsManager_GroupedSumPublish(t *testing.T) {
	transformation := transform.NewTransformationBuilder().
		Select("id", "value", "category").
		Aggregate(core.AggregateSum, "value").
		GroupBy("category").
		Build()

	var buf bytes.Buffer
	err := NewMetricsManager().
		Transform(transformation).
		Execute([]arrow.Record{sampleBatch(t)}).
		Publish(context.Background(), storage.Stdout{Writer: &buf})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "category\tsum(value)")
	assert.Equal(t, map[string]string{"A": "10", "B": "5"}, groupedLines(t, out))
}

func TestMetricsManager_CountNullPublish(t *testing.T) {
	var buf bytes.Buffer
	err := NewMetricsManager().
		Transform(transform.NewBuiltInMetricsBuilder().CountNull("value")).
		Execute([]arrow.Record{sampleBatch(t)}).
		Publish(context.Background(), storage.Stdout{Writer: &buf})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "null_count(value)")
	assert.Contains(t, buf.String(), "\n1\n")
}

func TestMetricsManager_IdentityPassThrough(t *testing.T) {
	batch := sampleBatch(t)

	var buf bytes.Buffer
	err := NewMetricsManager().
		Execute([]arrow.Record{batch}).
		Publish(context.Background(), storage.Stdout{Writer: &buf})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "batch 0: 3 rows")
	assert.Contains(t, out, "id\tvalue\tcategory")
	assert.Contains(t, out, "2\tnull\tA")
}

func TestMetricsManager_PublishTwiceSameOutput(t *testing.T) {
	manager := NewMetricsManager().
		Transform(transform.NewTransformationBuilder().
			Aggregate(core.AggregateSum, "value").
			GroupBy("category").
			Build()).
		Execute([]arrow.Record{sampleBatch(t)})

	var first, second bytes.Buffer
	require.NoError(t, manager.Publish(context.Background(), storage.Stdout{Writer: &first}))
	require.NoError(t, manager.Publish(context.Background(), storage.Stdout{Writer: &second}))

	assert.Equal(t, first.String(), second.String())
}

func TestMetricsManager_EmptyBatchesSucceed(t *testing.T) {
	var buf bytes.Buffer
	err := NewMetricsManager().
		Transform(transform.NewBuiltInMetricsBuilder().CountNull("value")).
		Publish(context.Background(), storage.Stdout{Writer: &buf})

	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestMetricsManager_ForkingIsSafe(t *testing.T) {
	base := NewMetricsManager().Execute([]arrow.Record{sampleBatch(t)})

	nulls := base.Transform(transform.NewBuiltInMetricsBuilder().CountNull("value"))
	distinct := base.Transform(transform.NewBuiltInMetricsBuilder().CountDistinct("category"))

	var nullOut, distinctOut, baseOut bytes.Buffer
	require.NoError(t, nulls.Publish(context.Background(), storage.Stdout{Writer: &nullOut}))
	require.NoError(t, distinct.Publish(context.Background(), storage.Stdout{Writer: &distinctOut}))
	require.NoError(t, base.Publish(context.Background(), storage.Stdout{Writer: &baseOut}))

	assert.Contains(t, nullOut.String(), "null_count(value)")
	assert.Contains(t, distinctOut.String(), "distinct_count(category)")
	// The base manager still holds the identity plan.
	assert.Contains(t, baseOut.String(), "batch 0: 3 rows")
}

func TestMetricsManager_UnsupportedBackendAfterCompute(t *testing.T) {
	runner := &recordingRunner{inner: engine.NewMemoryRunner()}

	err := NewMetricsManager(WithQueryRunner(runner)).
		Transform(transform.NewBuiltInMetricsBuilder().CountNull("value")).
		Execute([]arrow.Record{sampleBatch(t)}).
		Publish(context.Background(), nil)

	var unsupported *core.UnsupportedStorageBackendError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 1, runner.calls, "plan should run before the backend check")
}

func TestMetricsManager_ComputeErrorSurfaces(t *testing.T) {
	err := NewMetricsManager().
		Transform(transform.NewTransformationBuilder().Select("nope").Build()).
		Execute([]arrow.Record{sampleBatch(t)}).
		Publish(context.Background(), storage.Stdout{Writer: &bytes.Buffer{}})

	var computeErr *core.ComputeError
	require.ErrorAs(t, err, &computeErr)
}

func TestMetricsManager_RunnerFailureWrapped(t *testing.T) {
	cause := errors.New("engine offline")
	runner := &recordingRunner{inner: failingInner{err: cause}}

	err := NewMetricsManager(WithQueryRunner(runner)).
		Execute([]arrow.Record{sampleBatch(t)}).
		Publish(context.Background(), storage.Stdout{Writer: &bytes.Buffer{}})

	var computeErr *core.ComputeError
	require.ErrorAs(t, err, &computeErr)
	assert.ErrorIs(t, err, cause)
}

type failingInner struct {
	err error
}

func (f failingInner) Run(ctx context.Context, batches []arrow.Record, plan engine.Plan) ([]arrow.Record, error) {
	return nil, f.err
}

func TestMetricsManager_PublishAsync(t *testing.T) {
	var buf bytes.Buffer
	done := NewMetricsManager().
		Transform(transform.NewBuiltInMetricsBuilder().CountDistinct("category")).
		Execute([]arrow.Record{sampleBatch(t)}).
		PublishAsync(context.Background(), storage.Stdout{Writer: &buf})

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("publish did not finish")
	}

	assert.Contains(t, buf.String(), "distinct_count(category)")
}

func TestMetricsManager_PublishAsyncCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := NewMetricsManager().
		Execute([]arrow.Record{sampleBatch(t)}).
		PublishAsync(ctx, storage.Stdout{Writer: &bytes.Buffer{}})

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("publish did not finish")
	}
}
