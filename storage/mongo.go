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

package storage

import (
	"context"

	"github.com/apache/arrow/go/v12/arrow"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// publishMongoDB inserts one document per row. All documents are built
// before the single InsertMany call, so a conversion problem writes
// nothing.
func publishMongoDB(ctx context.Context, batches []arrow.Record, backend MongoDB) error {
	if len(batches) == 0 {
		return nil
	}

	database := backend.Database
	if database == "" {
		database = "arrowmetrics"
	}
	collection := backend.Collection
	if collection == "" {
		collection = "metrics"
	}

	var docs []interface{}
	for _, batch := range batches {
		schema := batch.Schema()
		for row := 0; row < int(batch.NumRows()); row++ {
			doc := bson.M{}
			for col := 0; col < int(batch.NumCols()); col++ {
				doc[schema.Field(col).Name] = cellValue(batch.Column(col), row)
			}
			docs = append(docs, doc)
		}
	}
	if len(docs) == 0 {
		return nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(backend.URI))
	if err != nil {
		return &SinkError{Backend: "mongodb", Op: "connect", Err: err}
	}
	defer client.Disconnect(ctx)

	if _, err := client.Database(database).Collection(collection).InsertMany(ctx, docs); err != nil {
		return &SinkError{Backend: "mongodb", Op: "insert", Err: err}
	}
	return nil
}
