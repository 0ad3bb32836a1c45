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

package readers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
)

// CSVReaderError provides structured error information for CSV read
// operations.
type CSVReaderError struct {
	Op  string // Operation that failed (e.g., "open_file", "parse")
	Err error  // Underlying error
}

func (e *CSVReaderError) Error() string {
	return fmt.Sprintf("csv reader %s: %v", e.Op, e.Err)
}

func (e *CSVReaderError) Unwrap() error {
	return e.Err
}

// ReadCSVFile loads a CSV file with a header row into a single record
// batch. Column types are inferred per column: int64 when every non-empty
// cell parses as an integer, float64 when every non-empty cell parses as
// a number, string otherwise. Empty cells become nulls.
func ReadCSVFile(filename string) ([]arrow.Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &CSVReaderError{Op: "open_file", Err: err}
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, &CSVReaderError{Op: "parse", Err: err}
	}
	if len(rows) == 0 {
		return nil, &CSVReaderError{Op: "parse", Err: fmt.Errorf("file %q has no header row", filename)}
	}

	header := rows[0]
	data := rows[1:]

	fields := make([]arrow.Field, len(header))
	for col, name := range header {
		fields[col] = arrow.Field{Name: name, Type: inferColumnType(data, col), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	mem := memory.NewGoAllocator()
	builders := make([]array.Builder, len(fields))
	for col, field := range fields {
		builders[col] = array.NewBuilder(mem, field.Type)
	}

	for _, row := range data {
		for col, builder := range builders {
			cell := ""
			if col < len(row) {
				cell = row[col]
			}
			if err := appendCell(builder, cell); err != nil {
				return nil, &CSVReaderError{Op: "build", Err: fmt.Errorf("column %q: %w", header[col], err)}
			}
		}
	}

	arrays := make([]arrow.Array, len(builders))
	for col, builder := range builders {
		arrays[col] = builder.NewArray()
		builder.Release()
	}
	rec := array.NewRecord(schema, arrays, int64(len(data)))
	return []arrow.Record{rec}, nil
}

// inferColumnType picks the narrowest of int64, float64, string that fits
// every non-empty cell of the column.
func inferColumnType(rows [][]string, col int) arrow.DataType {
	isInt, isFloat, sawValue := true, true, false
	for _, row := range rows {
		if col >= len(row) || row[col] == "" {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseInt(row[col], 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(row[col], 64); err != nil {
			isFloat = false
		}
	}
	switch {
	case !sawValue:
		return arrow.BinaryTypes.String
	case isInt:
		return arrow.PrimitiveTypes.Int64
	case isFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

func appendCell(builder array.Builder, cell string) error {
	if cell == "" {
		builder.AppendNull()
		return nil
	}
	switch b := builder.(type) {
	case *array.Int64Builder:
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return err
		}
		b.Append(v)
	case *array.Float64Builder:
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return err
		}
		b.Append(v)
	case *array.StringBuilder:
		b.Append(cell)
	default:
		return fmt.Errorf("unsupported builder type %T", builder)
	}
	return nil
}
