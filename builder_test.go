// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package evbuild

import (
	"context"
	"testing"
)

func hitAt(ts float64) Hit { return Hit{Timestamp: ts} }

func TestBuilderTwoHitsAtExactWindowBoundary(t *testing.T) {
	src := &fakeSource{hits: []Hit{hitAt(0), hitAt(3000)}}
	b := NewBuilder(src, 3000)
	ctx := context.Background()

	ev, ok := b.Next(ctx)
	if !ok || len(ev.Hits) != 2 {
		t.Fatalf("expected one event of two hits (inclusive boundary), got %+v, ok=%v", ev, ok)
	}
	if _, ok := b.Next(ctx); ok {
		t.Fatal("expected no further events")
	}
}

func TestBuilderSplitsJustPastWindow(t *testing.T) {
	src := &fakeSource{hits: []Hit{hitAt(0), hitAt(3000.1)}}
	b := NewBuilder(src, 3000)
	ctx := context.Background()

	ev1, ok := b.Next(ctx)
	if !ok || len(ev1.Hits) != 1 {
		t.Fatalf("expected first event of one hit, got %+v", ev1)
	}
	ev2, ok := b.Next(ctx)
	if !ok || len(ev2.Hits) != 1 {
		t.Fatalf("expected second event of one hit, got %+v", ev2)
	}
}

func TestBuilderZeroWindowMergesOnlyEqualTimestamps(t *testing.T) {
	src := &fakeSource{hits: []Hit{hitAt(0), hitAt(0), hitAt(1)}}
	b := NewBuilder(src, 0)
	ctx := context.Background()

	wantSizes := []int{2, 1}
	var n int
	for {
		ev, ok := b.Next(ctx)
		if !ok {
			break
		}
		if n < len(wantSizes) && len(ev.Hits) != wantSizes[n] {
			t.Errorf("W=0 event %d has %d hits, want %d", n, len(ev.Hits), wantSizes[n])
		}
		n++
	}
	if n != 2 {
		// the two hits at t=0 are within the inclusive W=0 boundary of
		// each other and merge into one event; t=1 is its own event.
		t.Fatalf("got %d events, want 2", n)
	}
}

func TestBuilderSlidingChain(t *testing.T) {
	src := &fakeSource{hits: []Hit{hitAt(0), hitAt(2000), hitAt(3500), hitAt(5500), hitAt(10000)}}
	b := NewBuilder(src, 3000)
	ctx := context.Background()

	ev1, ok := b.Next(ctx)
	if !ok || len(ev1.Hits) != 4 {
		t.Fatalf("expected first event of 4 hits, got %+v", ev1)
	}
	ev2, ok := b.Next(ctx)
	if !ok || len(ev2.Hits) != 1 || ev2.Hits[0].Timestamp != 10000 {
		t.Fatalf("expected trailing singleton event at t=10000, got %+v", ev2)
	}
	if _, ok := b.Next(ctx); ok {
		t.Fatal("expected no further events")
	}
}

func TestBuilderEmptySource(t *testing.T) {
	src := &fakeSource{}
	b := NewBuilder(src, 100)
	if _, ok := b.Next(context.Background()); ok {
		t.Fatal("expected no events from an empty source")
	}
}
