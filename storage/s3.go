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
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// publishS3 uploads the CSV-encoded batches as a single object. The body
// is fully encoded before PutObject, so a failed upload leaves nothing
// behind.
func publishS3(ctx context.Context, batches []arrow.Record, backend S3) error {
	if len(batches) == 0 {
		return nil
	}

	client := backend.Client
	if client == nil {
		cfg, err := loadAWSConfig(ctx, backend)
		if err != nil {
			return &SinkError{Backend: "s3", Op: "configure", Err: err}
		}
		client = s3.NewFromConfig(cfg)
	}

	key := backend.Key
	if key == "" {
		key = fmt.Sprintf("metrics-%s.csv", uuid.NewString())
	}

	var buf bytes.Buffer
	if err := encodeCSV(&buf, batches, 0); err != nil {
		return &SinkError{Backend: "s3", Op: "encode", Err: err}
	}

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(backend.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return &SinkError{Backend: "s3", Op: "put_object", Err: err}
	}
	return nil
}

func loadAWSConfig(ctx context.Context, backend S3) (aws.Config, error) {
	var configOpts []func(*config.LoadOptions) error
	if backend.Region != "" {
		configOpts = append(configOpts, config.WithRegion(backend.Region))
	}
	if backend.AccessKeyID != "" && backend.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				backend.AccessKeyID,
				backend.SecretAccessKey,
				"",
			),
		))
	}
	return config.LoadDefaultConfig(ctx, configOpts...)
}
