// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package columnar writes a run's accumulated rows to a parquet file
// using github.com/parquet-go/parquet-go, built from a schema assembled
// at runtime: the column set depends on the run's channel map, so a
// static tagged-struct schema cannot apply here.
package columnar

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/alconley/evbuild"
	"github.com/alconley/evbuild/schema"
)

// buildSchema assembles a flat parquet.Schema with one nullable double
// leaf per column. parquet.Group is a map keyed by column name, so the
// file's column order is parquet-go's ordering of the group's fields (by
// name), not accumulator order.
func buildSchema(columns []schema.Column) *parquet.Schema {
	group := make(parquet.Group, len(columns))
	for _, c := range columns {
		group[string(c)] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
	}
	return parquet.NewSchema("event", group)
}

// Write converts acc into a parquet file at path, one row per
// accumulated event, columns named exactly as acc.Columns() and typed
// f64.
func Write(path string, acc *evbuild.Accumulator) error {
	columns := acc.Columns()
	sch := buildSchema(columns)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("columnar: create %s: %w", path, err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[map[string]any](f, sch)

	rows := make([]map[string]any, acc.Rows())
	for i := 0; i < acc.Rows(); i++ {
		row := make(map[string]any, len(columns))
		for _, c := range columns {
			row[string(c)] = acc.Column(c)[i]
		}
		rows[i] = row
	}

	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return fmt.Errorf("columnar: write %s: %w", path, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("columnar: close %s: %w", path, err)
	}
	return nil
}
