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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v12/arrow"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/aaronlmathis/arrowmetrics/core"
	"github.com/aaronlmathis/arrowmetrics/readers"
	"github.com/aaronlmathis/arrowmetrics/storage"
	"github.com/aaronlmathis/arrowmetrics/transform"
)

// Config describes one pipeline run: where the input batches come from,
// the transformation to apply, and the sink to publish to.
type Config struct {
	Input          InputConfig          `yaml:"input" toml:"input"`
	Transformation TransformationConfig `yaml:"transformation" toml:"transformation"`
	Output         OutputConfig         `yaml:"output" toml:"output"`
}

// InputConfig selects the input file. Format defaults by extension.
type InputConfig struct {
	Path   string `yaml:"path" toml:"path"`
	Format string `yaml:"format" toml:"format"` // "parquet" or "csv"
}

// AggregateConfig is one aggregate stage.
type AggregateConfig struct {
	Type    string   `yaml:"type" toml:"type"`
	Columns []string `yaml:"columns" toml:"columns"`
}

// MetricConfig is one built-in metric stage.
type MetricConfig struct {
	Type   string `yaml:"type" toml:"type"`
	Column string `yaml:"column" toml:"column"`
	Alias  string `yaml:"alias" toml:"alias"`
}

// TransformationConfig mirrors the builder surface.
type TransformationConfig struct {
	Select     []string          `yaml:"select" toml:"select"`
	GroupBy    []string          `yaml:"group_by" toml:"group_by"`
	Aggregates []AggregateConfig `yaml:"aggregates" toml:"aggregates"`
	Metrics    []MetricConfig    `yaml:"metrics" toml:"metrics"`
}

// OutputConfig selects and parameterizes the storage backend.
type OutputConfig struct {
	Backend    string `yaml:"backend" toml:"backend"`
	Path       string `yaml:"path" toml:"path"`
	Table      string `yaml:"table" toml:"table"`
	DSN        string `yaml:"dsn" toml:"dsn"`
	Bucket     string `yaml:"bucket" toml:"bucket"`
	Key        string `yaml:"key" toml:"key"`
	Region     string `yaml:"region" toml:"region"`
	URI        string `yaml:"uri" toml:"uri"`
	Database   string `yaml:"database" toml:"database"`
	Collection string `yaml:"collection" toml:"collection"`
}

// LoadConfig reads a YAML (.yaml/.yml) or TOML (.toml) pipeline config.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, cfg)
	case ".toml":
		err = toml.Unmarshal(raw, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q (expected .yaml, .yml, or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadInput reads the configured input file into record batches.
func (c *Config) LoadInput(ctx context.Context) ([]arrow.Record, error) {
	format := c.Input.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(c.Input.Path)) {
		case ".csv":
			format = "csv"
		default:
			format = "parquet"
		}
	}
	switch format {
	case "parquet":
		return readers.ReadParquetFile(ctx, c.Input.Path)
	case "csv":
		return readers.ReadCSVFile(c.Input.Path)
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

// BuildTransformation assembles the configured plan with the builders.
func (c *Config) BuildTransformation() (core.Transformation, error) {
	t := c.Transformation

	// Metric configs build single-stage plans; only one metric section or
	// a select/aggregate/group-by pipeline makes sense per run.
	if len(t.Metrics) > 0 {
		stages := make([]core.Stage, 0, len(t.Metrics))
		for _, metric := range t.Metrics {
			kind, err := parseMetricType(metric.Type)
			if err != nil {
				return core.Transformation{}, err
			}
			stages = append(stages, core.Stage{
				Kind:    core.StageMetric,
				Metric:  kind,
				Columns: []string{metric.Column},
				Alias:   metric.Alias,
			})
		}
		return core.NewTransformation(stages...), nil
	}

	builder := transform.NewTransformationBuilder()
	if len(t.Select) > 0 {
		builder = builder.Select(t.Select...)
	}
	for _, agg := range t.Aggregates {
		kind, err := parseAggregateType(agg.Type)
		if err != nil {
			return core.Transformation{}, err
		}
		builder = builder.Aggregate(kind, agg.Columns...)
	}
	if len(t.GroupBy) > 0 {
		builder = builder.GroupBy(t.GroupBy...)
	}
	return builder.Build(), nil
}

// BuildBackend maps the output section onto a storage backend.
func (c *Config) BuildBackend() (storage.StorageBackend, error) {
	out := c.Output
	switch strings.ToLower(out.Backend) {
	case "", "stdout":
		return storage.Stdout{}, nil
	case "csv":
		return storage.CSVFile{Path: out.Path}, nil
	case "parquet":
		return storage.ParquetFile{Path: out.Path}, nil
	case "postgres":
		return storage.Postgres{DSN: out.DSN, Table: out.Table}, nil
	case "sqlite":
		return storage.SQLite{Path: out.Path, Table: out.Table}, nil
	case "s3":
		return storage.S3{Bucket: out.Bucket, Key: out.Key, Region: out.Region}, nil
	case "mongodb":
		return storage.MongoDB{URI: out.URI, Database: out.Database, Collection: out.Collection}, nil
	default:
		return nil, fmt.Errorf("unknown output backend %q", out.Backend)
	}
}

func parseAggregateType(name string) (core.AggregateType, error) {
	switch strings.ToLower(name) {
	case "sum":
		return core.AggregateSum, nil
	case "count":
		return core.AggregateCount, nil
	case "avg":
		return core.AggregateAvg, nil
	case "min":
		return core.AggregateMin, nil
	case "max":
		return core.AggregateMax, nil
	default:
		return 0, fmt.Errorf("unknown aggregate type %q", name)
	}
}

func parseMetricType(name string) (core.MetricType, error) {
	switch strings.ToLower(name) {
	case "count_null":
		return core.MetricCountNull, nil
	case "count_distinct":
		return core.MetricCountDistinct, nil
	default:
		return 0, fmt.Errorf("unknown metric type %q", name)
	}
}
