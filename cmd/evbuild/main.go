// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command evbuild builds physics events from raw CoMPASS UNFILTERED
// streams into per-run columnar and scaler artifacts.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/alconley/evbuild/config"
	"github.com/alconley/evbuild/run"
)

type commonFlags struct {
	Config string `subcmd:"config,,'path to the run configuration YAML document'"`
	Output string `subcmd:"output,,'output directory for parquet and scaler artifacts'"`
}

type buildFlags struct {
	commonFlags
	ProgressBar bool `subcmd:"progress,true,display a progress bar"`
}

type scalersFlags struct {
	commonFlags
}

type scanFlags struct {
	Config string `subcmd:"config,,'path to the run configuration YAML document'"`
}

var cmdSet *subcmd.CommandSet

func init() {
	buildCmd := subcmd.NewCommand("build",
		subcmd.MustRegisterFlagStruct(&buildFlags{}, nil, nil),
		build, subcmd.ExactlyNumArguments(0))
	buildCmd.Document(`decode, merge, build and project every run in [run_min, run_max] into output_dir.`)

	scalersCmd := subcmd.NewCommand("scalers",
		subcmd.MustRegisterFlagStruct(&scalersFlags{}, nil, nil),
		scalers, subcmd.ExactlyNumArguments(0))
	scalersCmd.Document(`run only the scaler extraction pass and write run_<n>.scaler files.`)

	scanCmd := subcmd.NewCommand("scan",
		subcmd.MustRegisterFlagStruct(&scanFlags{}, nil, nil),
		scan, subcmd.ExactlyNumArguments(0))
	scanCmd.Document(`report hit file counts and sizes present for every run in [run_min, run_max], without building.`)

	cmdSet = subcmd.NewCommandSet(buildCmd, scalersCmd, scanCmd)
	cmdSet.Document(`build physics events from CoMPASS UNFILTERED streams.`)
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

func loadDriver(cl *commonFlags) (*config.Config, *run.Driver, error) {
	cfg, err := config.Load(cl.Config)
	if err != nil {
		return nil, nil, err
	}
	d, err := run.NewDriver(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, d, nil
}

func build(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*buildFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	_, d, err := loadDriver(&cl.commonFlags)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cl.Output, 0o755); err != nil {
		return err
	}

	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	var bar *progressbar.ProgressBar
	if cl.ProgressBar && isTTY {
		bar = progressbar.NewOptions64(1000,
			progressbar.OptionSetWriter(os.Stdout),
			progressbar.OptionSetPredictTime(true))
		bar.RenderBlank()
	}
	var stopWatch chan struct{}
	if bar != nil {
		stopWatch = make(chan struct{})
		go watchProgress(&d.Progress, bar, stopWatch)
	}

	results := d.RunAll(ctx, cl.Output)

	if stopWatch != nil {
		close(stopWatch)
	}

	errs := &errors.M{}
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Printf("run %d: skipped (no input directory)\n", r.Run)
		case r.Err != nil:
			fmt.Printf("run %d: failed: %v\n", r.Run, r.Err)
			errs.Append(r.Err)
		default:
			fmt.Printf("run %d: %d rows, %d failed streams\n", r.Run, r.Rows, r.FailedStreams)
		}
	}
	return errs.Err()
}

func watchProgress(p *run.Progress, bar *progressbar.ProgressBar, stop <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	var last int
	for {
		select {
		case <-ticker.C:
			cur := int(p.Fraction() * 1000)
			if cur > last {
				bar.Add(cur - last)
				last = cur
			}
		case <-stop:
			return
		}
	}
}

func scalers(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*scalersFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	_, d, err := loadDriver(&cl.commonFlags)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cl.Output, 0o755); err != nil {
		return err
	}

	results := d.ScalersOnly(cl.Output)
	errs := &errors.M{}
	for _, r := range results {
		if r.Err != nil {
			errs.Append(r.Err)
		}
	}
	return errs.Err()
}

func scan(ctx context.Context, values interface{}, args []string) error {
	cl := values.(*scanFlags)
	cfg, err := config.Load(cl.Config)
	if err != nil {
		return err
	}
	results, err := run.ScanRuns(cfg)
	if err != nil {
		return err
	}
	for _, r := range results {
		if !r.Present {
			fmt.Printf("run %d: no input directory\n", r.Run)
			continue
		}
		fmt.Printf("run %d: %d hit files, %d bytes\n", r.Run, r.HitFiles, r.TotalSize)
	}
	return nil
}
