// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package schema declares the wide per-event projection schema as a
// role-to-column descriptor table, keeping role dispatch
// exhaustiveness-checked without duplicating the projection body for
// every detector role.
package schema

import (
	"sort"

	"github.com/alconley/evbuild/channelmap"
)

// Column is one named field of the wide per-event row. Its string value
// is also the on-disk column name.
type Column string

// Columns with no per-role derivation: focal-plane reconstruction and the
// RF reference channel.
const (
	ColX1    Column = "X1"
	ColX2    Column = "X2"
	ColXavg  Column = "Xavg"
	ColTheta Column = "Theta"
	ColRF    Column = "RF"

	ColPIPS1000RelTimeToPIPS500 Column = "PIPS1000RelTimeToPIPS500"
	ColPIPS1000RelTimeToPIPS300 Column = "PIPS1000RelTimeToPIPS300"

	// ColX and ColZ are the reserved, disabled-by-default nested focal
	// plane track columns.
	ColX Column = "X"
	ColZ Column = "Z"
)

// EnergyCol, ShortCol, TimeCol, PSDCol and RelTimeCol mechanically derive
// a role's column names from its verbatim keyword, replacing a hand
// written name per role.
func EnergyCol(r channelmap.Role) Column   { return Column(r.String() + "Energy") }
func ShortCol(r channelmap.Role) Column    { return Column(r.String() + "Short") }
func TimeCol(r channelmap.Role) Column     { return Column(r.String() + "Time") }
func PSDCol(r channelmap.Role) Column      { return Column(r.String() + "PSD") }
func RelTimeCol(r channelmap.Role) Column  { return Column(r.String() + "RelTime") }

var (
	noShortRoles = roleSet(
		channelmap.PIPS1000, channelmap.PIPS500, channelmap.PIPS300, channelmap.PIPS100,
		channelmap.Strip0, channelmap.Strip17,
		channelmap.LeftStrip0, channelmap.LeftStrip1, channelmap.LeftStrip2, channelmap.LeftStrip3,
		channelmap.LeftStrip4, channelmap.LeftStrip5, channelmap.LeftStrip6, channelmap.LeftStrip7,
		channelmap.LeftStrip8, channelmap.LeftStrip9, channelmap.LeftStrip10, channelmap.LeftStrip11,
		channelmap.LeftStrip12, channelmap.LeftStrip13, channelmap.LeftStrip14, channelmap.LeftStrip15,
		channelmap.RightStrip0, channelmap.RightStrip1, channelmap.RightStrip2, channelmap.RightStrip3,
		channelmap.RightStrip4, channelmap.RightStrip5, channelmap.RightStrip6, channelmap.RightStrip7,
		channelmap.RightStrip8, channelmap.RightStrip9, channelmap.RightStrip10, channelmap.RightStrip11,
		channelmap.RightStrip12, channelmap.RightStrip13, channelmap.RightStrip14, channelmap.RightStrip15,
	)

	liquidScintRoles = roleSet(
		channelmap.CATRINA0, channelmap.CATRINA1, channelmap.CATRINA2, channelmap.CATRINA3,
		channelmap.CATRINA4, channelmap.CATRINA5, channelmap.CATRINA6, channelmap.CATRINA7,
		channelmap.CATRINA8, channelmap.CATRINA9, channelmap.CATRINA10, channelmap.CATRINA11,
		channelmap.CATRINA12, channelmap.CATRINA13, channelmap.CATRINA14, channelmap.CATRINA15,
	)

	cebraRoles = roleSet(
		channelmap.Cebra0, channelmap.Cebra1, channelmap.Cebra2, channelmap.Cebra3, channelmap.Cebra4,
		channelmap.Cebra5, channelmap.Cebra6, channelmap.Cebra7, channelmap.Cebra8,
	)

	pipsRoles = roleSet(
		channelmap.PIPS1000, channelmap.PIPS500, channelmap.PIPS300, channelmap.PIPS100,
	)

	// allDetectorRoles is every role that owns a standard Energy/Time(
	// /Short) column triple; it excludes RoleNone and RF, which are
	// special-cased.
	allDetectorRoles = roleSet(
		channelmap.AnodeFront, channelmap.AnodeBack, channelmap.ScintLeft, channelmap.ScintRight,
		channelmap.Cathode, channelmap.DelayFrontLeft, channelmap.DelayFrontRight,
		channelmap.DelayBackLeft, channelmap.DelayBackRight, channelmap.Monitor,
	)
)

func init() {
	for r := range cebraRoles {
		allDetectorRoles[r] = true
	}
	for r := range pipsRoles {
		allDetectorRoles[r] = true
	}
	for r := range liquidScintRoles {
		allDetectorRoles[r] = true
	}
	for r := range noShortRoles {
		allDetectorRoles[r] = true
	}
}

func roleSet(roles ...channelmap.Role) map[channelmap.Role]bool {
	m := make(map[channelmap.Role]bool, len(roles))
	for _, r := range roles {
		m[r] = true
	}
	return m
}

// HasShort reports whether role declares an <Role>Short column. Bare
// strips and the silicon PIPS family are integrated-charge-only and omit
// it.
func HasShort(role channelmap.Role) bool {
	return allDetectorRoles[role] && !noShortRoles[role]
}

// IsLiquidScint reports whether role is one of the CATRINA liquid
// scintillator channels, which additionally declare a PSD column.
func IsLiquidScint(role channelmap.Role) bool {
	return liquidScintRoles[role]
}

// IsDetectorRole reports whether role owns the standard Energy/Time(
// /Short) column triple (i.e. is not RF or RoleNone).
func IsDetectorRole(role channelmap.Role) bool {
	return allDetectorRoles[role]
}

// RelTimeEligible reports whether role may declare a <Role>RelTime column
// relative to ScintLeft: the CeBrA array and the PIPS silicon detectors.
func RelTimeEligible(role channelmap.Role) bool {
	return cebraRoles[role] || pipsRoles[role]
}

// RelTimeGuardedByAnodeBack reports whether role's RelTime column requires
// AnodeBack to also be mapped, a historical physics gate that applies to
// the CeBrA set only.
func RelTimeGuardedByAnodeBack(role channelmap.Role) bool {
	return cebraRoles[role]
}

// Filtered computes the ordered, deduplicated set of columns this run's
// channel map activates. includeNested additionally activates the
// disabled-by-default X/Z nested track columns.
func Filtered(cm *channelmap.ChannelMap, includeNested bool) []Column {
	var cols []Column
	add := func(c Column) { cols = append(cols, c) }

	roles := make([]channelmap.Role, 0, len(allDetectorRoles))
	for role := range allDetectorRoles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	for _, role := range roles {
		if !cm.Contains(role) {
			continue
		}
		add(EnergyCol(role))
		if HasShort(role) {
			add(ShortCol(role))
		}
		add(TimeCol(role))
		if IsLiquidScint(role) {
			add(PSDCol(role))
		}
	}

	if cm.Contains(channelmap.RF) {
		add(ColRF)
	}

	if cm.AllDelayLinesPresent() {
		add(ColX1)
		add(ColX2)
		add(ColXavg)
		add(ColTheta)
		if includeNested {
			add(ColX)
			add(ColZ)
		}
	}

	scintLeftPresent := cm.Contains(channelmap.ScintLeft)
	anodeBackPresent := cm.Contains(channelmap.AnodeBack)
	for _, role := range roles {
		if !RelTimeEligible(role) || !cm.Contains(role) || !scintLeftPresent {
			continue
		}
		if RelTimeGuardedByAnodeBack(role) && !anodeBackPresent {
			continue
		}
		add(RelTimeCol(role))
	}

	if cm.Contains(channelmap.PIPS1000) && cm.Contains(channelmap.PIPS500) {
		add(ColPIPS1000RelTimeToPIPS500)
	}
	if cm.Contains(channelmap.PIPS1000) && cm.Contains(channelmap.PIPS300) {
		add(ColPIPS1000RelTimeToPIPS300)
	}

	return cols
}
