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

// Command arrowmetrics runs one metrics pipeline described by a YAML or
// TOML config file: load input batches, apply the configured
// transformation, publish to the configured sink.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/aaronlmathis/arrowmetrics"
)

func main() {
	configPath := flag.String("config", "arrowmetrics.yaml", "path to pipeline config (.yaml, .yml, or .toml)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	batches, err := cfg.LoadInput(ctx)
	if err != nil {
		log.Fatalf("load input: %v", err)
	}

	transformation, err := cfg.BuildTransformation()
	if err != nil {
		log.Fatalf("build transformation: %v", err)
	}

	backend, err := cfg.BuildBackend()
	if err != nil {
		log.Fatalf("build backend: %v", err)
	}

	err = arrowmetrics.NewMetricsManager().
		Transform(transformation).
		Execute(batches).
		Publish(ctx, backend)
	if err != nil {
		log.Fatalf("publish: %v", err)
	}
}
