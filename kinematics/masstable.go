// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kinematics

// Nuclide is one row of an external mass table, keyed by (A, Z).
type Nuclide struct {
	A, Z   int
	MassMeV float64
}

// TableMassTable is a MassTable backed by an in-memory slice, typically
// loaded from the AMDC 2017 atomic-mass evaluation file named in a run's
// configuration.
type TableMassTable struct {
	masses map[[2]int]float64
}

// NewTableMassTable indexes nuclides by (A, Z) for Mass lookups. A later
// duplicate entry overwrites an earlier one.
func NewTableMassTable(nuclides []Nuclide) *TableMassTable {
	t := &TableMassTable{masses: make(map[[2]int]float64, len(nuclides))}
	for _, n := range nuclides {
		t.masses[[2]int{n.A, n.Z}] = n.MassMeV
	}
	return t
}

// Mass implements MassTable.
func (t *TableMassTable) Mass(a, z int) (float64, bool) {
	mev, ok := t.masses[[2]int{a, z}]
	return mev, ok
}
