// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package evbuild

import (
	"math"

	"github.com/alconley/evbuild/channelmap"
	"github.com/alconley/evbuild/schema"
)

// Row is one wide per-event projection row, keyed by column. Projector
// always populates every column named by its filtered schema, using
// INVALID for anything an event's hits never touched.
type Row map[schema.Column]float64

// Weights is the pair of focal-plane coefficients produced by
// kinematics.Weights, threaded through opaquely so this package does not
// need to import the kinematics package's Reaction/MassTable types.
type Weights struct {
	W1, W2 float64
	OK     bool
}

// Projector fills one wide Row from an Event and the run's channel map,
// including the focal-plane and relative-timing derived physics.
type Projector struct {
	cm      *channelmap.ChannelMap
	columns []schema.Column
	weights Weights
}

// NewProjector precomputes the filtered schema for cm once, since it is
// fixed for the lifetime of a run. includeNested enables the reserved
// X/Z nested track columns.
func NewProjector(cm *channelmap.ChannelMap, includeNested bool, weights Weights) *Projector {
	return &Projector{
		cm:      cm,
		columns: schema.Filtered(cm, includeNested),
		weights: weights,
	}
}

// Columns returns the filtered column list this projector fills, in a
// stable order suitable for a columnar writer's schema.
func (p *Projector) Columns() []schema.Column { return p.columns }

// Project fills one staging Row from ev's hits.
func (p *Projector) Project(ev Event) Row {
	row := make(Row, len(p.columns))
	for _, c := range p.columns {
		row[c] = INVALID
	}

	times := make(map[channelmap.Role]float64)

	for _, h := range ev.Hits {
		role, ok := p.cm.Lookup(h.UUID())
		if !ok {
			continue
		}

		if role == channelmap.RF {
			row[schema.ColRF] = h.Timestamp
			times[role] = h.Timestamp
			continue
		}
		if !schema.IsDetectorRole(role) {
			continue
		}

		row[schema.EnergyCol(role)] = h.Energy
		row[schema.TimeCol(role)] = h.Timestamp
		if schema.HasShort(role) {
			row[schema.ShortCol(role)] = h.EnergyShort
		}
		if schema.IsLiquidScint(role) && h.Energy != 0 {
			row[schema.PSDCol(role)] = (h.Energy - h.EnergyShort) / h.Energy
		}
		times[role] = h.Timestamp
	}

	p.fillFocalPlane(row, times)
	p.fillRelTimes(row, times)

	return row
}

func (p *Projector) fillFocalPlane(row Row, times map[channelmap.Role]float64) {
	dfl, haveDFL := times[channelmap.DelayFrontLeft]
	dfr, haveDFR := times[channelmap.DelayFrontRight]
	dbl, haveDBL := times[channelmap.DelayBackLeft]
	dbr, haveDBR := times[channelmap.DelayBackRight]

	var x1, x2 float64
	var haveX1, haveX2 bool
	if haveDFL && haveDFR {
		x1 = (dfl - dfr) * 0.5 / 2.1
		row[schema.ColX1] = x1
		haveX1 = true
	}
	if haveDBL && haveDBR {
		x2 = (dbl - dbr) * 0.5 / 1.98
		row[schema.ColX2] = x2
		haveX2 = true
	}
	if haveX1 && haveX2 {
		diff := x2 - x1
		switch {
		case diff > 0:
			row[schema.ColTheta] = math.Atan(diff / 36)
		case diff < 0:
			row[schema.ColTheta] = math.Pi + math.Atan(diff/36)
		default:
			row[schema.ColTheta] = math.Pi / 2
		}
		if p.weights.OK {
			row[schema.ColXavg] = p.weights.W1*x1 + p.weights.W2*x2
		}
	}
}

func (p *Projector) fillRelTimes(row Row, times map[channelmap.Role]float64) {
	scintLeft, haveScintLeft := times[channelmap.ScintLeft]
	_, haveAnodeBack := times[channelmap.AnodeBack]
	if haveScintLeft {
		for role, t := range times {
			if !schema.RelTimeEligible(role) {
				continue
			}
			if schema.RelTimeGuardedByAnodeBack(role) && !haveAnodeBack {
				continue
			}
			row[schema.RelTimeCol(role)] = t - scintLeft
		}
	}

	p1000, ok1000 := times[channelmap.PIPS1000]
	p500, ok500 := times[channelmap.PIPS500]
	p300, ok300 := times[channelmap.PIPS300]
	if ok1000 && ok500 {
		row[schema.ColPIPS1000RelTimeToPIPS500] = p1000 - p500
	}
	if ok1000 && ok300 {
		row[schema.ColPIPS1000RelTimeToPIPS300] = p1000 - p300
	}
}
