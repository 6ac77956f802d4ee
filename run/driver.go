// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package run implements the per-run driver: resolving a run's input
// directory, extracting scalers, driving the decode/merge/build/project
// pipeline to completion, and writing the run's columnar and scaler
// artifacts. Progress and cancellation are a single atomic progress
// counter and a cooperative cancellation flag, never a lock held across
// I/O.
package run

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/alconley/evbuild"
	"github.com/alconley/evbuild/channelmap"
	"github.com/alconley/evbuild/columnar"
	"github.com/alconley/evbuild/config"
	"github.com/alconley/evbuild/kinematics"
)

// Progress is the driver's read-only externally visible state: a
// fraction in [0,1] of bytes consumed across the current run's input
// files.
type Progress struct {
	fraction int64 // atomic, the fraction scaled by 1e6
	busy     int32 // atomic, 1 while a run is in flight
}

// Fraction returns the current progress in [0,1].
func (p *Progress) Fraction() float32 {
	return float32(atomic.LoadInt64(&p.fraction)) / 1e6
}

func (p *Progress) set(f float32) {
	atomic.StoreInt64(&p.fraction, int64(f*1e6))
}

// Busy reports whether a run is currently in flight, guarding against
// redundant driver starts.
func (p *Progress) Busy() bool { return atomic.LoadInt32(&p.busy) == 1 }

func (p *Progress) setBusy(b bool) {
	if b {
		atomic.StoreInt32(&p.busy, 1)
	} else {
		atomic.StoreInt32(&p.busy, 0)
	}
}

// RunResult summarizes one run's processing outcome.
type RunResult struct {
	Run           int
	Skipped       bool
	Rows          int
	FailedStreams int
	Err           error
}

// Driver runs the per-run pipeline across [RunMin, RunMax], sequentially,
// continuing past a per-run failure.
type Driver struct {
	cfg      *config.Config
	cm       *channelmap.ChannelMap
	shiftMap *evbuild.ShiftMap
	weights  evbuild.Weights

	Progress Progress
	cancel   int32 // atomic bool, polled at event boundaries
}

// NewDriver validates cfg's channel map (a conflicting map is fatal) and
// resolves its kinematics weights if a kinematics section is configured
// (an infeasible reaction is recovered by disabling Xavg, not fatal).
func NewDriver(cfg *config.Config) (*Driver, error) {
	cm, err := cfg.ChannelMap()
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	shiftEntries := make([]evbuild.ShiftEntry, 0, len(cfg.ShiftEntries))
	for _, e := range cfg.ShiftEntries {
		shiftEntries = append(shiftEntries, evbuild.ShiftEntry{
			BoardID: e.Board, Channel: e.Channel, OffsetNS: e.OffsetNS,
		})
	}

	d := &Driver{
		cfg:      cfg,
		cm:       cm,
		shiftMap: evbuild.NewShiftMap(shiftEntries),
	}

	if reaction, ok := cfg.Reaction(); ok {
		masses := cfg.MassTable()
		w1, w2, wok := kinematics.Weights(reaction, masses)
		if !wok {
			log.Printf("run: kinematics weights unavailable, Xavg disabled for this job")
		}
		d.weights = evbuild.Weights{W1: w1, W2: w2, OK: wok}
	}

	return d, nil
}

// Cancel requests cooperative cancellation; the driver observes it at
// the next event boundary and discards the current run's partial output.
func (d *Driver) Cancel() { atomic.StoreInt32(&d.cancel, 1) }

func (d *Driver) cancelled() bool { return atomic.LoadInt32(&d.cancel) == 1 }

// RunAll processes every run in [cfg.RunMin, cfg.RunMax] sequentially. A
// fatal error in one run does not stop the job; it is recorded in that
// run's RunResult.
func (d *Driver) RunAll(ctx context.Context, outputDir string) []RunResult {
	if d.Progress.Busy() {
		return nil
	}
	d.Progress.setBusy(true)
	defer d.Progress.setBusy(false)

	var results []RunResult
	for n := d.cfg.RunMin; n <= d.cfg.RunMax; n++ {
		results = append(results, d.runOne(ctx, n, outputDir))
		if d.cancelled() {
			break
		}
	}
	return results
}

// ScalersOnly runs just the scaler extraction pass across [RunMin,
// RunMax], independent of the decode/merge/build/project pipeline.
func (d *Driver) ScalersOnly(outputDir string) []RunResult {
	var results []RunResult
	for n := d.cfg.RunMin; n <= d.cfg.RunMax; n++ {
		runDir := filepath.Join(d.cfg.WorkspaceDir, "unpack", fmt.Sprintf("run_%d", n))
		info, err := os.Stat(runDir)
		if err != nil || !info.IsDir() {
			results = append(results, RunResult{Run: n, Skipped: true})
			continue
		}
		paths, err := hitFiles(runDir)
		if err != nil {
			results = append(results, RunResult{Run: n, Err: fmt.Errorf("run %d: enumerate %s: %w", n, runDir, err)})
			continue
		}
		entries, err := evbuild.ExtractScalers(paths, scalerPatterns(d.cfg))
		if err != nil {
			results = append(results, RunResult{Run: n, Err: fmt.Errorf("run %d: %w", n, err)})
			continue
		}
		outPath := filepath.Join(outputDir, fmt.Sprintf("run_%d.scaler", n))
		if err := evbuild.WriteScalerFile(outPath, entries); err != nil {
			results = append(results, RunResult{Run: n, Err: fmt.Errorf("run %d: %w", n, err)})
			continue
		}
		results = append(results, RunResult{Run: n})
	}
	return results
}

func (d *Driver) runOne(ctx context.Context, n int, outputDir string) RunResult {
	d.Progress.set(0)

	runDir := filepath.Join(d.cfg.WorkspaceDir, "unpack", fmt.Sprintf("run_%d", n))
	info, err := os.Stat(runDir)
	if err != nil || !info.IsDir() {
		log.Printf("run %d: input directory %s absent, skipping", n, runDir)
		return RunResult{Run: n, Skipped: true}
	}

	paths, err := hitFiles(runDir)
	if err != nil {
		return RunResult{Run: n, Err: fmt.Errorf("run %d: enumerate %s: %w", n, runDir, err)}
	}

	if entries, err := evbuild.ExtractScalers(paths, scalerPatterns(d.cfg)); err != nil {
		log.Printf("run %d: scaler extraction failed: %v", n, err)
	} else if err := evbuild.WriteScalerFile(
		filepath.Join(outputDir, fmt.Sprintf("run_%d.scaler", n)), entries); err != nil {
		return RunResult{Run: n, Err: fmt.Errorf("run %d: write scaler report: %w", n, err)}
	}

	decoders := make([]*evbuild.Decoder, 0, len(paths))
	var totalBytes, totalRead int64
	for _, p := range paths {
		dec, err := evbuild.NewDecoder(p, d.shiftMap)
		if err != nil {
			log.Printf("run %d: %v", n, err)
			continue
		}
		decoders = append(decoders, dec)
		totalBytes += dec.Size()
	}
	defer func() {
		for _, dec := range decoders {
			dec.Close()
		}
	}()

	pipelineCtx, cancelPipeline := context.WithCancel(ctx)
	defer cancelPipeline()

	merger := evbuild.NewMerger(pipelineCtx, decoders)
	builder := evbuild.NewBuilder(merger, d.cfg.WindowNS)
	projector := evbuild.NewProjector(d.cm, d.cfg.EnableNestedTrack, d.weights)
	acc := evbuild.NewAccumulator(projector.Columns())

	for {
		ev, ok := builder.Next(pipelineCtx)
		if !ok {
			break
		}
		acc.Push(projector.Project(ev))

		totalRead = 0
		for _, dec := range decoders {
			totalRead += dec.BytesRead()
		}
		if totalBytes > 0 {
			d.Progress.set(float32(totalRead) / float32(totalBytes))
		}

		if d.cancelled() {
			cancelPipeline()
			d.removePartialOutputs(outputDir, n)
			return RunResult{Run: n, Err: fmt.Errorf("run %d: cancelled", n)}
		}
	}

	outPath := filepath.Join(outputDir, fmt.Sprintf("run_%d.parquet", n))
	if err := columnar.Write(outPath, acc); err != nil {
		return RunResult{Run: n, Err: fmt.Errorf("run %d: write parquet: %w", n, err)}
	}

	d.Progress.set(1)

	failed := 0
	for _, dec := range decoders {
		if dec.Err() != nil {
			failed++
			log.Printf("run %d: stream %s: %v", n, dec.Name(), dec.Err())
		}
	}

	return RunResult{Run: n, Rows: acc.Rows(), FailedStreams: failed}
}

// removePartialOutputs deletes any artifacts already written for run n so
// a cancelled run leaves nothing behind: the scaler report is written
// before the decode/merge/build loop starts, and the parquet file may have
// been partially written by a previous attempt at this output path.
func (d *Driver) removePartialOutputs(outputDir string, n int) {
	for _, suffix := range []string{".scaler", ".parquet"} {
		path := filepath.Join(outputDir, fmt.Sprintf("run_%d%s", n, suffix))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("run %d: cancelled: remove partial output %s: %v", n, path, err)
		}
	}
}

// ScanResult summarizes one run's input without decoding or building it.
type ScanResult struct {
	Run       int
	Present   bool
	HitFiles  int
	TotalSize int64
}

// ScanRuns enumerates the input directory for every run in [cfg.RunMin,
// cfg.RunMax] and reports how many hit files and bytes are present,
// without invoking the decode/merge/build/project pipeline. It is the
// dry-run counterpart to RunAll, for inspecting a workspace before
// committing to a full build.
func ScanRuns(cfg *config.Config) ([]ScanResult, error) {
	var results []ScanResult
	for n := cfg.RunMin; n <= cfg.RunMax; n++ {
		runDir := filepath.Join(cfg.WorkspaceDir, "unpack", fmt.Sprintf("run_%d", n))
		info, err := os.Stat(runDir)
		if err != nil || !info.IsDir() {
			results = append(results, ScanResult{Run: n})
			continue
		}
		paths, err := hitFiles(runDir)
		if err != nil {
			return nil, fmt.Errorf("run %d: enumerate %s: %w", n, runDir, err)
		}
		var total int64
		for _, p := range paths {
			if fi, err := os.Stat(p); err == nil {
				total += fi.Size()
			}
		}
		results = append(results, ScanResult{Run: n, Present: true, HitFiles: len(paths), TotalSize: total})
	}
	return results, nil
}

func scalerPatterns(cfg *config.Config) []evbuild.ScalerPattern {
	patterns := make([]evbuild.ScalerPattern, 0, len(cfg.Scalers))
	for _, p := range cfg.Scalers {
		patterns = append(patterns, evbuild.ScalerPattern{Prefix: p.Prefix, Name: p.Name})
	}
	return patterns
}

// hitFiles enumerates dir for files in the producer's .BIN family,
// sorted by name for a deterministic per-stream ordering.
func hitFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".BIN" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
