// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package channelmap

import "testing"

func TestNewDuplicateConflict(t *testing.T) {
	boards := []Board{
		{ID: 1, Channels: [16]Role{0: ScintLeft}},
		{ID: 1, Channels: [16]Role{0: AnodeFront}},
	}
	if _, err := New(boards); err == nil {
		t.Fatal("expected a MapError for conflicting role assignment")
	}
}

func TestNewSameRoleTwiceOK(t *testing.T) {
	boards := []Board{
		{ID: 1, Channels: [16]Role{0: ScintLeft}},
		{ID: 1, Channels: [16]Role{0: ScintLeft}},
	}
	if _, err := New(boards); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLookupAndContains(t *testing.T) {
	cm, err := New([]Board{SPSBoard(2)})
	if err != nil {
		t.Fatal(err)
	}
	role, ok := cm.Lookup(UUID(2, 1))
	if !ok || role != ScintLeft {
		t.Fatalf("got (%v, %v), want (ScintLeft, true)", role, ok)
	}
	if _, ok := cm.Lookup(UUID(2, 2)); ok {
		t.Fatalf("channel 2 is unmapped on an SPS board, want not-found")
	}
	if !cm.Contains(AnodeBack) {
		t.Fatal("SPS board should map AnodeBack")
	}
	if cm.Contains(Cebra0) {
		t.Fatal("SPS board should not map Cebra0")
	}
}

func TestAllDelayLinesPresent(t *testing.T) {
	cm, err := New([]Board{SPSBoard(1)})
	if err != nil {
		t.Fatal(err)
	}
	if !cm.AllDelayLinesPresent() {
		t.Fatal("SPS board maps all four delay lines")
	}

	cm2, err := New([]Board{CebraBoard(1)})
	if err != nil {
		t.Fatal(err)
	}
	if cm2.AllDelayLinesPresent() {
		t.Fatal("CeBrA board maps no delay lines")
	}
}

func TestRoleRoundTrip(t *testing.T) {
	for _, r := range []Role{AnodeFront, Cebra3, CATRINA10, LeftStrip5, RF, Strip0} {
		if got := ParseRole(r.String()); got != r {
			t.Errorf("ParseRole(%q) = %v, want %v", r.String(), got, r)
		}
	}
	if ParseRole("not-a-role") != RoleNone {
		t.Error("unknown role name should parse to RoleNone")
	}
}
