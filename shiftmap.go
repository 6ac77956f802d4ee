// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package evbuild

// ShiftEntry is one (board, channel) -> ns offset correction.
type ShiftEntry struct {
	BoardID  uint16
	Channel  uint16
	OffsetNS float64
}

// ShiftMap is the read-only per-channel timestamp correction table.
// Missing entries imply a zero offset.
type ShiftMap struct {
	offsets map[uint32]float64
}

// NewShiftMap builds a ShiftMap from a list of entries. A later entry for
// the same (board, channel) overwrites an earlier one.
func NewShiftMap(entries []ShiftEntry) *ShiftMap {
	sm := &ShiftMap{offsets: make(map[uint32]float64, len(entries))}
	for _, e := range entries {
		sm.offsets[UUID(e.BoardID, e.Channel)] = e.OffsetNS
	}
	return sm
}

// Lookup returns the ns offset for uuid, or 0 if unset.
func (sm *ShiftMap) Lookup(uuid uint32) float64 {
	if sm == nil {
		return 0
	}
	return sm.offsets[uuid]
}
