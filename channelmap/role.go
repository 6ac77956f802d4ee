// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package channelmap implements the (board, channel) -> detector role
// lookup table, plus the standard sps/cebra/catrina/left_strip/right_strip
// board layouts.
package channelmap

// Role is the closed enumeration of detector positions a channel can be
// mapped to.
type Role int

const (
	RoleNone Role = iota

	AnodeFront
	AnodeBack
	ScintLeft
	ScintRight
	Cathode
	DelayFrontLeft
	DelayFrontRight
	DelayBackLeft
	DelayBackRight
	Monitor

	Cebra0
	Cebra1
	Cebra2
	Cebra3
	Cebra4
	Cebra5
	Cebra6
	Cebra7
	Cebra8

	PIPS1000
	PIPS500
	PIPS300
	PIPS100

	CATRINA0
	CATRINA1
	CATRINA2
	CATRINA3
	CATRINA4
	CATRINA5
	CATRINA6
	CATRINA7
	CATRINA8
	CATRINA9
	CATRINA10
	CATRINA11
	CATRINA12
	CATRINA13
	CATRINA14
	CATRINA15

	RF

	LeftStrip0
	LeftStrip1
	LeftStrip2
	LeftStrip3
	LeftStrip4
	LeftStrip5
	LeftStrip6
	LeftStrip7
	LeftStrip8
	LeftStrip9
	LeftStrip10
	LeftStrip11
	LeftStrip12
	LeftStrip13
	LeftStrip14
	LeftStrip15

	RightStrip0
	RightStrip1
	RightStrip2
	RightStrip3
	RightStrip4
	RightStrip5
	RightStrip6
	RightStrip7
	RightStrip8
	RightStrip9
	RightStrip10
	RightStrip11
	RightStrip12
	RightStrip13
	RightStrip14
	RightStrip15

	Strip0
	Strip17
)

var roleNames = map[Role]string{
	RoleNone:        "None",
	AnodeFront:      "AnodeFront",
	AnodeBack:       "AnodeBack",
	ScintLeft:       "ScintLeft",
	ScintRight:      "ScintRight",
	Cathode:         "Cathode",
	DelayFrontLeft:  "DelayFrontLeft",
	DelayFrontRight: "DelayFrontRight",
	DelayBackLeft:   "DelayBackLeft",
	DelayBackRight:  "DelayBackRight",
	Monitor:         "Monitor",
	Cebra0:          "Cebra0",
	Cebra1:          "Cebra1",
	Cebra2:          "Cebra2",
	Cebra3:          "Cebra3",
	Cebra4:          "Cebra4",
	Cebra5:          "Cebra5",
	Cebra6:          "Cebra6",
	Cebra7:          "Cebra7",
	Cebra8:          "Cebra8",
	PIPS1000:        "PIPS1000",
	PIPS500:         "PIPS500",
	PIPS300:         "PIPS300",
	PIPS100:         "PIPS100",
	CATRINA0:        "CATRINA0",
	CATRINA1:        "CATRINA1",
	CATRINA2:        "CATRINA2",
	CATRINA3:        "CATRINA3",
	CATRINA4:        "CATRINA4",
	CATRINA5:        "CATRINA5",
	CATRINA6:        "CATRINA6",
	CATRINA7:        "CATRINA7",
	CATRINA8:        "CATRINA8",
	CATRINA9:        "CATRINA9",
	CATRINA10:       "CATRINA10",
	CATRINA11:       "CATRINA11",
	CATRINA12:       "CATRINA12",
	CATRINA13:       "CATRINA13",
	CATRINA14:       "CATRINA14",
	CATRINA15:       "CATRINA15",
	RF:              "RF",
	LeftStrip0:      "LeftStrip0",
	LeftStrip1:      "LeftStrip1",
	LeftStrip2:      "LeftStrip2",
	LeftStrip3:      "LeftStrip3",
	LeftStrip4:      "LeftStrip4",
	LeftStrip5:      "LeftStrip5",
	LeftStrip6:      "LeftStrip6",
	LeftStrip7:      "LeftStrip7",
	LeftStrip8:      "LeftStrip8",
	LeftStrip9:      "LeftStrip9",
	LeftStrip10:     "LeftStrip10",
	LeftStrip11:     "LeftStrip11",
	LeftStrip12:     "LeftStrip12",
	LeftStrip13:     "LeftStrip13",
	LeftStrip14:     "LeftStrip14",
	LeftStrip15:     "LeftStrip15",
	RightStrip0:     "RightStrip0",
	RightStrip1:     "RightStrip1",
	RightStrip2:     "RightStrip2",
	RightStrip3:     "RightStrip3",
	RightStrip4:     "RightStrip4",
	RightStrip5:     "RightStrip5",
	RightStrip6:     "RightStrip6",
	RightStrip7:     "RightStrip7",
	RightStrip8:     "RightStrip8",
	RightStrip9:     "RightStrip9",
	RightStrip10:    "RightStrip10",
	RightStrip11:    "RightStrip11",
	RightStrip12:    "RightStrip12",
	RightStrip13:    "RightStrip13",
	RightStrip14:    "RightStrip14",
	RightStrip15:    "RightStrip15",
	Strip0:          "Strip0",
	Strip17:         "Strip17",
}

var rolesByName = func() map[string]Role {
	m := make(map[string]Role, len(roleNames))
	for r, n := range roleNames {
		m[n] = r
	}
	return m
}()

// String returns the verbatim keyword for r, matching the original
// implementation's channel-map file keywords.
func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "None"
}

// ParseRole looks up a Role by its verbatim keyword. Unknown names map to
// RoleNone.
func ParseRole(name string) Role {
	if r, ok := rolesByName[name]; ok {
		return r
	}
	return RoleNone
}
