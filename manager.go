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

// Package arrowmetrics declares data-quality and aggregation metrics over
// Arrow record batches and publishes the results to a configurable sink.
//
// Core Concepts:
//   - core.Transformation: immutable ordered plan of select/aggregate/
//     group-by/built-in-metric stages.
//   - transform.TransformationBuilder / transform.BuiltInMetricsBuilder:
//     fluent, branch-safe builders producing Transformations.
//   - engine.QueryRunner: the injected compute capability; MemoryRunner
//     is the in-process default.
//   - storage.StorageBackend: closed sum type of publish sinks.
//   - MetricsManager: facade staging a Transformation and batches, then
//     executing and publishing in one step.
//
// Example usage:
//
//	err := arrowmetrics.NewMetricsManager().
//	    Transform(transform.NewBuiltInMetricsBuilder().CountNull("value")).
//	    Execute([]arrow.Record{batch}).
//	    Publish(ctx, storage.Stdout{})
//
// All computation is deferred: Transform and Execute only stage state,
// and Publish is the single operation that runs the plan and writes the
// result.
package arrowmetrics

import (
	"context"

	"github.com/apache/arrow/go/v12/arrow"

	"github.com/aaronlmathis/arrowmetrics/core"
	"github.com/aaronlmathis/arrowmetrics/engine"
	"github.com/aaronlmathis/arrowmetrics/storage"
)

// ManagerOptions configures a MetricsManager.
type ManagerOptions struct {
	Runner engine.QueryRunner // Compute capability; nil selects MemoryRunner
}

// ManagerOption represents a configuration function for ManagerOptions.
type ManagerOption func(*ManagerOptions)

// WithQueryRunner injects an alternate compute engine. Tests use this to
// substitute a fake runner; the default is engine.NewMemoryRunner().
func WithQueryRunner(runner engine.QueryRunner) ManagerOption {
	return func(opts *ManagerOptions) {
		opts.Runner = runner
	}
}

// MetricsManager stages a Transformation and a set of record batches and
// runs the execute-and-publish pipeline.
//
// MetricsManager is a value: every configuration method returns an
// updated copy and never mutates the receiver, so a partially configured
// manager can be forked to try several transformations or backends. The
// zero configuration holds the identity Transformation and no batches.
type MetricsManager struct {
	transformation core.Transformation
	batches        []arrow.Record
	runner         engine.QueryRunner
}

// NewMetricsManager returns a manager with the identity Transformation,
// an empty batch list, and the default in-memory compute engine.
func NewMetricsManager(options ...ManagerOption) MetricsManager {
	opts := &ManagerOptions{}
	for _, option := range options {
		option(opts)
	}
	if opts.Runner == nil {
		opts.Runner = engine.NewMemoryRunner()
	}
	return MetricsManager{runner: opts.Runner}
}

// Transform replaces the staged Transformation and returns the updated
// manager. No computation happens here.
func (m MetricsManager) Transform(t core.Transformation) MetricsManager {
	m.transformation = t
	return m
}

// Execute stages the batch set and returns the updated manager. Despite
// the name, nothing is computed here: the work is deferred until
// Publish. The batch slice is copied; the batches themselves are treated
// as immutable values owned by the caller.
func (m MetricsManager) Execute(batches []arrow.Record) MetricsManager {
	m.batches = append([]arrow.Record(nil), batches...)
	return m
}

// Publish runs the staged Transformation against the staged batches and
// routes the result through the given storage backend. It is the only
// method that performs real work, and it blocks until the compute engine
// and the sink have finished or ctx is done.
//
// The plan executes before backend support is checked, so an unsupported
// backend still costs the computation. Errors surface as
// *core.ComputeError, *core.UnsupportedStorageBackendError, or a sink
// write error; a failed publish writes no partial output.
func (m MetricsManager) Publish(ctx context.Context, backend storage.StorageBackend) error {
	result, err := engine.Execute(ctx, m.runner, m.batches, m.transformation)
	if err != nil {
		return err
	}
	return storage.Publish(ctx, result, backend)
}

// PublishAsync starts Publish in its own goroutine and returns a
// buffered channel that receives the single result. The channel is the
// task handle; cancellation comes from ctx.
func (m MetricsManager) PublishAsync(ctx context.Context, backend storage.StorageBackend) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- m.Publish(ctx, backend)
	}()
	return done
}
