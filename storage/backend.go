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

// Package storage routes result batches to a publish sink.
//
// StorageBackend is a closed sum type: the variants live in this package
// (the unexported marker method seals the set) and Publish matches them
// exhaustively, reporting anything else as unsupported. Growing the set
// means adding a variant here plus its write routine, without changing
// callers.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StorageBackend identifies the sink a publish run writes to.
type StorageBackend interface {
	fmt.Stringer
	storageBackend()
}

// Stdout writes each batch, in order, as a human-readable text table to
// standard output. The format is not a stability contract. Writer, when
// non-nil, replaces os.Stdout so tests can capture output.
type Stdout struct {
	Writer io.Writer
}

func (Stdout) storageBackend() {}

func (Stdout) String() string { return "stdout" }

// CSVFile writes all batches to a single CSV file with a header row.
type CSVFile struct {
	Path  string
	Comma rune // Field delimiter; 0 means ','
}

func (CSVFile) storageBackend() {}

func (b CSVFile) String() string { return fmt.Sprintf("csv(%s)", b.Path) }

// ParquetFile writes all batches to a single Snappy-compressed Parquet
// file.
type ParquetFile struct {
	Path string
}

func (ParquetFile) storageBackend() {}

func (b ParquetFile) String() string { return fmt.Sprintf("parquet(%s)", b.Path) }

// Postgres inserts all rows into a PostgreSQL table, creating it from
// the batch schema when it does not exist. Table defaults to "metrics".
type Postgres struct {
	DSN   string
	Table string
}

func (Postgres) storageBackend() {}

func (b Postgres) String() string { return fmt.Sprintf("postgres(%s)", b.Table) }

// SQLite inserts all rows into a SQLite table, creating it from the
// batch schema when it does not exist. Table defaults to "metrics".
type SQLite struct {
	Path  string
	Table string
}

func (SQLite) storageBackend() {}

func (b SQLite) String() string { return fmt.Sprintf("sqlite(%s)", b.Path) }

// S3Client is the slice of the AWS S3 API the S3 sink uses. The concrete
// *s3.Client satisfies it; tests substitute a fake.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads the CSV-encoded batches as one object. When Key is empty a
// unique "metrics-<uuid>.csv" key is generated. Client, when non-nil,
// bypasses AWS configuration loading; otherwise the default credential
// chain is used, optionally narrowed by Region or static credentials.
type S3 struct {
	Bucket          string
	Key             string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Client          S3Client
}

func (S3) storageBackend() {}

func (b S3) String() string { return fmt.Sprintf("s3(%s)", b.Bucket) }

// MongoDB inserts one document per row into a collection. Database and
// Collection default to "arrowmetrics" and "metrics".
type MongoDB struct {
	URI        string
	Database   string
	Collection string
}

func (MongoDB) storageBackend() {}

func (b MongoDB) String() string { return fmt.Sprintf("mongodb(%s)", b.Collection) }
