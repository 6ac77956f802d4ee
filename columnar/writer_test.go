// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package columnar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alconley/evbuild"
	"github.com/alconley/evbuild/schema"
)

func TestWriteCreatesNonEmptyFile(t *testing.T) {
	acc := evbuild.NewAccumulator([]schema.Column{"ScintLeftEnergy", "ScintLeftTime"})
	acc.Push(evbuild.Row{"ScintLeftEnergy": 50, "ScintLeftTime": 100})
	acc.Push(evbuild.Row{"ScintLeftTime": 200})

	dir := t.TempDir()
	path := filepath.Join(dir, "run_1.parquet")
	if err := Write(path, acc); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty parquet file")
	}
}

func TestWriteEmptyAccumulator(t *testing.T) {
	acc := evbuild.NewAccumulator([]schema.Column{"ScintLeftEnergy"})
	dir := t.TempDir()
	path := filepath.Join(dir, "run_1.parquet")
	if err := Write(path, acc); err != nil {
		t.Fatal(err)
	}
}
