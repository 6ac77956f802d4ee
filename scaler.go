// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package evbuild

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScalerPattern binds a configured file-name prefix to the scaler it
// contributes its record count to.
type ScalerPattern struct {
	Prefix string
	Name   string
}

// ScalerEntry is one named scaler's accumulated count.
type ScalerEntry struct {
	Name  string
	Count int
}

// ExtractScalers counts the records of every file in paths whose leaf
// name begins with a configured pattern's prefix, re-using Decoder.Scan
// to count them. Each record is fully decoded; there is no separate
// count-only path that skips record bodies. Files matching no pattern are
// ignored. Entries are returned in
// the order patterns were given; a pattern matched by no file still
// appears, with count 0.
func ExtractScalers(paths []string, patterns []ScalerPattern) ([]ScalerEntry, error) {
	counts := make(map[string]int, len(patterns))
	order := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if _, seen := counts[p.Name]; !seen {
			counts[p.Name] = 0
			order = append(order, p.Name)
		}
	}

	for _, path := range paths {
		base := filepath.Base(path)
		name, matched := matchPattern(base, patterns)
		if !matched {
			continue
		}
		n, err := countRecords(path)
		if err != nil {
			return nil, fmt.Errorf("evbuild: scaler count %s: %w", path, err)
		}
		counts[name] += n
	}

	entries := make([]ScalerEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, ScalerEntry{Name: name, Count: counts[name]})
	}
	return entries, nil
}

func matchPattern(base string, patterns []ScalerPattern) (name string, ok bool) {
	for _, p := range patterns {
		if strings.HasPrefix(base, p.Prefix) {
			return p.Name, true
		}
	}
	return "", false
}

func countRecords(path string) (int, error) {
	dec, err := NewDecoder(path, NoShift)
	if err != nil {
		return 0, err
	}
	defer dec.Close()
	n := 0
	for dec.Scan() {
		n++
	}
	return n, dec.Err()
}

// WriteScalerFile writes entries to path in the run.scaler text format: a
// fixed header line followed by one "<name> <count>" line per entry.
func WriteScalerFile(path string, entries []ScalerEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("evbuild: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "SPS Scaler Data"); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s %d\n", e.Name, e.Count); err != nil {
			return err
		}
	}
	return w.Flush()
}
