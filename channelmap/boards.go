// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package channelmap

// SPSBoard returns the standard focal-plane/scintillator/cathode/delay-line
// board layout used by the split-pole spectrometer digitizer.
func SPSBoard(id uint32) Board {
	return Board{ID: id, Channels: [16]Role{
		ScintRight, ScintLeft, RoleNone, RoleNone,
		RoleNone, RoleNone, RoleNone, Cathode,
		DelayFrontLeft, DelayFrontRight, DelayBackLeft, DelayBackRight,
		RoleNone, AnodeFront, RoleNone, AnodeBack,
	}}
}

// CebraBoard returns the standard CeBrA scintillator-array board layout,
// reproduced from Board::cebra.
func CebraBoard(id uint32) Board {
	return Board{ID: id, Channels: [16]Role{
		Cebra0, Cebra1, Cebra2, Cebra3, Cebra4, Cebra5, Cebra6, Cebra7, Cebra8,
		RoleNone, RoleNone, RoleNone, RoleNone, RoleNone, RoleNone, RoleNone,
	}}
}

// CatrinaBoard returns the standard CATRINA liquid-scintillator board
// layout, reproduced from Board::catrina.
func CatrinaBoard(id uint32) Board {
	return Board{ID: id, Channels: [16]Role{
		CATRINA0, CATRINA1, CATRINA2, CATRINA3, CATRINA4, CATRINA5, CATRINA6, CATRINA7,
		CATRINA8, CATRINA9, CATRINA10, CATRINA11, CATRINA12, CATRINA13, CATRINA14, CATRINA15,
	}}
}

// LeftStripBoard returns the standard left-DSSD board layout, reproduced
// from Board::left_strip.
func LeftStripBoard(id uint32) Board {
	return Board{ID: id, Channels: [16]Role{
		LeftStrip0, LeftStrip1, LeftStrip2, LeftStrip3, LeftStrip4, LeftStrip5, LeftStrip6, LeftStrip7,
		LeftStrip8, LeftStrip9, LeftStrip10, LeftStrip11, LeftStrip12, LeftStrip13, LeftStrip14, LeftStrip15,
	}}
}

// RightStripBoard returns the standard right-DSSD board layout,
// reproduced from Board::right_strip.
func RightStripBoard(id uint32) Board {
	return Board{ID: id, Channels: [16]Role{
		RightStrip0, RightStrip1, RightStrip2, RightStrip3, RightStrip4, RightStrip5, RightStrip6, RightStrip7,
		RightStrip8, RightStrip9, RightStrip10, RightStrip11, RightStrip12, RightStrip13, RightStrip14, RightStrip15,
	}}
}
