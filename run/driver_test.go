// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package run

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/alconley/evbuild/config"
)

func writeHitFile(t *testing.T, path string, records [][4]uint64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Write([]byte{1, 0}); err != nil { // flagHasEnergy only
		t.Fatal(err)
	}
	for _, r := range records {
		var rec [14]byte
		binary.LittleEndian.PutUint16(rec[0:2], uint16(r[0]))
		binary.LittleEndian.PutUint16(rec[2:4], uint16(r[1]))
		binary.LittleEndian.PutUint64(rec[4:12], r[2])
		binary.LittleEndian.PutUint16(rec[12:14], uint16(r[3]))
		if _, err := f.Write(rec[:]); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDriverEmptyRunDirectoryIsSkipped(t *testing.T) {
	workspace := t.TempDir()
	output := t.TempDir()
	cfg := &config.Config{
		WindowNS:     3000,
		RunMin:       1,
		RunMax:       1,
		WorkspaceDir: workspace,
		Boards:       []config.BoardConfig{{ID: 1, Kind: "sps"}},
	}
	d, err := NewDriver(cfg)
	if err != nil {
		t.Fatal(err)
	}
	results := d.RunAll(context.Background(), output)
	if len(results) != 1 || !results[0].Skipped {
		t.Fatalf("got %+v, want a single skipped result", results)
	}
}

func TestDriverSingleRunProducesOutputs(t *testing.T) {
	workspace := t.TempDir()
	output := t.TempDir()
	runDir := filepath.Join(workspace, "unpack", "run_1")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeHitFile(t, filepath.Join(runDir, "Data_CH0@board1_0001.BIN"), [][4]uint64{
		{1, 1, 100_000, 50},  // ScintLeft, ts=100ns
		{1, 13, 2_500_000, 80}, // AnodeFront, ts=2500ns
	})

	cfg := &config.Config{
		WindowNS:     3000,
		RunMin:       1,
		RunMax:       1,
		WorkspaceDir: workspace,
		Boards:       []config.BoardConfig{{ID: 1, Kind: "sps"}},
		Scalers:      []config.ScalerPatternConfig{{Prefix: "Data_CH0@", Name: "beam"}},
	}
	d, err := NewDriver(cfg)
	if err != nil {
		t.Fatal(err)
	}
	results := d.RunAll(context.Background(), output)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Err != nil {
		t.Fatalf("run failed: %v", r.Err)
	}
	if r.Rows != 1 {
		t.Errorf("Rows = %d, want 1 (both hits within the coincidence window)", r.Rows)
	}

	if _, err := os.Stat(filepath.Join(output, "run_1.parquet")); err != nil {
		t.Errorf("missing parquet output: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "run_1.scaler")); err != nil {
		t.Errorf("missing scaler output: %v", err)
	}
}

func TestDriverCancelLeavesNoOutputs(t *testing.T) {
	workspace := t.TempDir()
	output := t.TempDir()
	runDir := filepath.Join(workspace, "unpack", "run_1")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeHitFile(t, filepath.Join(runDir, "Data_CH0@board1_0001.BIN"), [][4]uint64{
		{1, 1, 100_000, 50},
		{1, 13, 2_500_000, 80},
	})

	cfg := &config.Config{
		WindowNS:     3000,
		RunMin:       1,
		RunMax:       1,
		WorkspaceDir: workspace,
		Boards:       []config.BoardConfig{{ID: 1, Kind: "sps"}},
		Scalers:      []config.ScalerPatternConfig{{Prefix: "Data_CH0@", Name: "beam"}},
	}
	d, err := NewDriver(cfg)
	if err != nil {
		t.Fatal(err)
	}
	d.Cancel() // requested before the run starts, so the first event boundary observes it

	results := d.RunAll(context.Background(), output)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Err == nil {
		t.Fatal("expected a cancelled run to report an error")
	}

	if _, err := os.Stat(filepath.Join(output, "run_1.parquet")); !os.IsNotExist(err) {
		t.Errorf("parquet output present after cancellation: err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "run_1.scaler")); !os.IsNotExist(err) {
		t.Errorf("scaler output present after cancellation: err = %v", err)
	}
}

func TestScanRuns(t *testing.T) {
	workspace := t.TempDir()
	runDir := filepath.Join(workspace, "unpack", "run_1")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeHitFile(t, filepath.Join(runDir, "Data_CH0@board1_0001.BIN"), [][4]uint64{
		{1, 1, 0, 0},
	})

	cfg := &config.Config{RunMin: 1, RunMax: 2, WorkspaceDir: workspace}
	results, err := ScanRuns(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].Present || results[0].HitFiles != 1 || results[0].TotalSize == 0 {
		t.Errorf("run 1: got %+v, want present with one non-empty hit file", results[0])
	}
	if results[1].Present {
		t.Errorf("run 2: got %+v, want absent", results[1])
	}
}

func TestDriverScalersOnly(t *testing.T) {
	workspace := t.TempDir()
	output := t.TempDir()
	runDir := filepath.Join(workspace, "unpack", "run_1")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeHitFile(t, filepath.Join(runDir, "Data_CH3@board1_0001.BIN"), [][4]uint64{
		{1, 1, 0, 0}, {1, 1, 0, 0},
	})

	cfg := &config.Config{
		RunMin: 1, RunMax: 1,
		WorkspaceDir: workspace,
		Boards:       []config.BoardConfig{{ID: 1, Kind: "sps"}},
		Scalers:      []config.ScalerPatternConfig{{Prefix: "Data_CH3@", Name: "pulser"}},
	}
	d, err := NewDriver(cfg)
	if err != nil {
		t.Fatal(err)
	}
	results := d.ScalersOnly(output)
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("got %+v", results)
	}
	data, err := os.ReadFile(filepath.Join(output, "run_1.scaler"))
	if err != nil {
		t.Fatal(err)
	}
	want := "SPS Scaler Data\npulser 2\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}
