// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package evbuild

import "context"

// Event is an ordered-by-timestamp group of hits in which each hit lies
// within the coincidence window of the hit before it, per §4.3.
type Event struct {
	Hits []Hit
}

// Builder is the two-state coincidence machine of §4.3: Empty/Open, keyed
// on a sliding window of W ns. An event may span arbitrarily many windows
// provided each consecutive pair of hits is within W of each other.
type Builder struct {
	src    HitSource
	window float64 // ns

	open      bool
	current   []Hit
	windowEnd float64

	done bool
}

// NewBuilder wraps src (typically a *Merger) with a coincidence window of
// windowNS nanoseconds.
func NewBuilder(src HitSource, windowNS float64) *Builder {
	return &Builder{src: src, window: windowNS}
}

// Next returns the next emitted event, or false once the source is
// drained and any trailing open event has been flushed.
func (b *Builder) Next(ctx context.Context) (Event, bool) {
	if b.done {
		return Event{}, false
	}
	for {
		h, ok := b.src.Next(ctx)
		if !ok {
			b.done = true
			if len(b.current) > 0 {
				ev := Event{Hits: b.current}
				b.current = nil
				return ev, true
			}
			return Event{}, false
		}
		if !b.open {
			b.open = true
			b.current = []Hit{h}
			b.windowEnd = h.Timestamp + b.window
			continue
		}
		if h.Timestamp <= b.windowEnd {
			b.current = append(b.current, h)
			b.windowEnd = h.Timestamp + b.window
			continue
		}
		ev := Event{Hits: b.current}
		b.current = []Hit{h}
		b.windowEnd = h.Timestamp + b.window
		return ev, true
	}
}
