// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package evbuild implements the event builder pipeline that turns raw
// per-channel CoMPASS UNFILTERED binary streams into time-correlated
// physics events and a wide per-detector columnar projection.
package evbuild

// Hit is the atomic decoded record: one digitized pulse from one
// (board, channel) pair, shift-corrected onto the run's common timebase.
type Hit struct {
	BoardID         uint16
	Channel         uint16
	Timestamp       float64 // ns, after shift correction
	Energy          float64
	EnergyShort     float64
	Flags           uint32
	WaveformSamples uint16
}

// UUID collapses a (board, channel) pair into the single key used for
// channel-map and shift-map lookups.
func UUID(boardID, channel uint16) uint32 {
	return uint32(boardID)<<16 | uint32(channel)
}

// UUID returns the identifier for this hit's source channel.
func (h Hit) UUID() uint32 {
	return UUID(h.BoardID, h.Channel)
}

// INVALID is the sentinel written to any schema column an event's hits
// never touch.
const INVALID = -1.0e6
