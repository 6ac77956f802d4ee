// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package channelmap

import "fmt"

// Board describes one digitizer board's 16 physical channels, each mapped
// to a Role (or RoleNone if unused).
type Board struct {
	ID       uint32
	Channels [16]Role
}

// MapError is returned by New when two Board entries assign conflicting
// roles to the same (board, channel) pair; it is fatal at driver startup.
type MapError struct {
	BoardID uint32
	Channel uint32
	First   Role
	Second  Role
}

func (e *MapError) Error() string {
	return fmt.Sprintf("channelmap: board %d channel %d mapped to both %s and %s",
		e.BoardID, e.Channel, e.First, e.Second)
}

// ChannelMap is the read-only (board, channel) -> Role lookup table,
// built once from a sequence of Boards.
type ChannelMap struct {
	roles map[uint32]Role
}

// UUID collapses a (board, channel) pair into the map's lookup key,
// matching evbuild.UUID.
func UUID(boardID, channel uint32) uint32 {
	return boardID<<16 | channel
}

// New builds a ChannelMap from boards. Duplicate board IDs that disagree
// on a channel's role are a MapError.
func New(boards []Board) (*ChannelMap, error) {
	cm := &ChannelMap{roles: make(map[uint32]Role)}
	for _, b := range boards {
		for ch, role := range b.Channels {
			uuid := UUID(b.ID, uint32(ch))
			if existing, ok := cm.roles[uuid]; ok && existing != role {
				return nil, &MapError{BoardID: b.ID, Channel: uint32(ch), First: existing, Second: role}
			}
			cm.roles[uuid] = role
		}
	}
	return cm, nil
}

// Lookup returns the role mapped to uuid, or (RoleNone, false) if uuid is
// absent from the map.
func (cm *ChannelMap) Lookup(uuid uint32) (Role, bool) {
	r, ok := cm.roles[uuid]
	if !ok || r == RoleNone {
		return RoleNone, false
	}
	return r, true
}

// Contains reports whether any mapped channel carries role.
func (cm *ChannelMap) Contains(role Role) bool {
	for _, r := range cm.roles {
		if r == role {
			return true
		}
	}
	return false
}

// AllDelayLinesPresent reports whether all four delay-line corner roles
// are mapped, gating the X1/X2/Xavg/Theta columns.
func (cm *ChannelMap) AllDelayLinesPresent() bool {
	return cm.Contains(DelayFrontLeft) && cm.Contains(DelayFrontRight) &&
		cm.Contains(DelayBackLeft) && cm.Contains(DelayBackRight)
}
