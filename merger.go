// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package evbuild

import (
	"container/heap"
	"context"
)

// HitSource is a pull-based source of shift-corrected hits, implemented by
// Merger (many files merged). Decoder does not implement it: it exposes
// Scan/Hit/Err and is consumed by Merger.
type HitSource interface {
	Next(ctx context.Context) (Hit, bool)
	Err() error
}

// streamFeed prefetches hits from one Decoder on its own goroutine and
// delivers them through a small buffered channel, so that a slow file read
// does not block the merger from draining other streams. This mirrors the
// teacher's worker/assemble split in parallel.go: I/O and compute run on
// separate goroutines, reassembled strictly in order downstream.
type streamFeed struct {
	idx int
	dec *Decoder
	ch  chan Hit
	err error
}

func newStreamFeed(ctx context.Context, idx int, dec *Decoder) *streamFeed {
	sf := &streamFeed{idx: idx, dec: dec, ch: make(chan Hit, 64)}
	go sf.run(ctx)
	return sf
}

func (sf *streamFeed) run(ctx context.Context) {
	defer close(sf.ch)
	for sf.dec.Scan() {
		select {
		case sf.ch <- sf.dec.Hit():
		case <-ctx.Done():
			return
		}
	}
	sf.err = sf.dec.Err()
}

// mergeItem is one heap entry: the current head-of-stream hit plus the
// stream it came from, so ties break on stream index deterministically.
type mergeItem struct {
	hit Hit
	idx int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].hit.Timestamp != h[j].hit.Timestamp {
		return h[i].hit.Timestamp < h[j].hit.Timestamp
	}
	return h[i].idx < h[j].idx
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) {
	*h = append(*h, x.(mergeItem))
}
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Merger performs the k-way time-ordered merge of §4.2: a min-heap keyed
// on (timestamp, stream index) holding the head-of-stream hit from every
// non-empty input. Memory is O(streams), independent of file size.
type Merger struct {
	feeds        []*streamFeed
	h            mergeHeap
	failedStream int
	primed       bool
}

// NewMerger starts one prefetch goroutine per decoder and returns a Merger
// ready to be drained with Next. ctx governs the prefetch goroutines; it
// should be cancelled once the merger is no longer being read, to unblock
// any goroutine still pushing to a full channel.
func NewMerger(ctx context.Context, decoders []*Decoder) *Merger {
	m := &Merger{}
	for i, d := range decoders {
		m.feeds = append(m.feeds, newStreamFeed(ctx, i, d))
	}
	return m
}

// FailedStreams returns the number of input streams that poisoned with a
// decode error, for the run-level failure report.
func (m *Merger) FailedStreams() int { return m.failedStream }

func (m *Merger) fill(ctx context.Context, idx int) {
	sf := m.feeds[idx]
	select {
	case hit, ok := <-sf.ch:
		if !ok {
			if sf.err != nil {
				m.failedStream++
			}
			return
		}
		heap.Push(&m.h, mergeItem{hit: hit, idx: idx})
	case <-ctx.Done():
	}
}

// Next returns the next hit in non-decreasing timestamp order, or false
// once every stream is drained (cleanly or via poisoning).
func (m *Merger) Next(ctx context.Context) (Hit, bool) {
	if !m.primed {
		for i := range m.feeds {
			m.fill(ctx, i)
		}
		m.primed = true
	}
	if m.h.Len() == 0 {
		return Hit{}, false
	}
	top := heap.Pop(&m.h).(mergeItem)
	m.fill(ctx, top.idx)
	return top.hit, true
}

// Err is always nil: a failed stream is reported via FailedStreams, not
// surfaced as a merger-level error, so that the remaining streams continue
// to be merged per §7's DecodeError handling.
func (m *Merger) Err() error { return nil }
