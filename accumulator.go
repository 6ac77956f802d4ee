// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package evbuild

import "github.com/alconley/evbuild/schema"

// Accumulator owns one []float64 per schema column, growing in lockstep
// as rows are pushed. It holds a run's entire output in memory; output
// files are expected to be run-sized, not archive-sized.
type Accumulator struct {
	columns []schema.Column
	values  map[schema.Column][]float64
	rows    int
}

// NewAccumulator allocates empty column vectors for the given filtered
// schema, preserving column order for the eventual columnar write.
func NewAccumulator(columns []schema.Column) *Accumulator {
	a := &Accumulator{
		columns: columns,
		values:  make(map[schema.Column][]float64, len(columns)),
	}
	for _, c := range columns {
		a.values[c] = nil
	}
	return a
}

// Push appends row's value for every column, defaulting to INVALID for
// any column row never set (it may have fewer entries than the full
// filtered schema if the row was built from a narrower view).
func (a *Accumulator) Push(row Row) {
	for _, c := range a.columns {
		v, ok := row[c]
		if !ok {
			v = INVALID
		}
		a.values[c] = append(a.values[c], v)
	}
	a.rows++
}

// Rows returns the number of rows pushed so far.
func (a *Accumulator) Rows() int { return a.rows }

// Columns returns the accumulator's column order.
func (a *Accumulator) Columns() []schema.Column { return a.columns }

// Column returns the accumulated vector for c, or nil if c is not part of
// this accumulator's schema.
func (a *Accumulator) Column(c schema.Column) []float64 { return a.values[c] }
