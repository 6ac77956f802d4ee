// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package evbuild

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// header flag bits, little-endian within the first header byte. The
// producer's bit order is a compatibility contract: reproduced here as
// observed in recorded CoMPASS UNFILTERED files rather than invented.
const (
	flagHasEnergy = 1 << iota
	flagHasEnergyShort
	flagHasEnergyCalibrated
	flagHasFlags
	flagHasWaveform
)

// ShiftLookup is the subset of ShiftMap the decoder needs: a per-UUID
// additive timestamp correction in ns, defaulting to zero.
type ShiftLookup interface {
	Lookup(uuid uint32) float64
}

type zeroShift struct{}

func (zeroShift) Lookup(uint32) float64 { return 0 }

// NoShift is a ShiftLookup that always returns zero, for callers that
// have no shift map.
var NoShift ShiftLookup = zeroShift{}

// Decoder reads one CoMPASS UNFILTERED binary file and produces a lazy,
// forward-only, shift-corrected sequence of Hits. It reads one record at
// a time; it never buffers the whole file, so files of hundreds of MB
// are routine.
//
// Decoder follows a pull-based scanner shape: call Scan until it returns
// false, then check Err to distinguish clean EOF from a poisoned stream.
type Decoder struct {
	name  string
	f     *os.File
	r     *bufio.Reader
	shift ShiftLookup

	hasEnergy, hasEnergyShort, hasEnergyCal, hasFlags, hasWaveform bool

	cur       Hit
	err       error
	done      bool
	bytesRead int64
	size      int64
}

// NewDecoder opens name and reads its 2-byte format header. shift may be
// nil, in which case no timestamp correction is applied.
func NewDecoder(name string, shift ShiftLookup) (*Decoder, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("evbuild: open %s: %w", name, err)
	}
	if shift == nil {
		shift = NoShift
	}
	d := &Decoder{
		name:  name,
		f:     f,
		r:     bufio.NewReaderSize(f, 1<<20),
		shift: shift,
	}
	if fi, err := f.Stat(); err == nil {
		d.size = fi.Size()
	}
	var header [2]byte
	n, err := io.ReadFull(d.r, header[:])
	d.bytesRead += int64(n)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("evbuild: %s: read header: %w", name, err)
	}
	flags := header[0]
	d.hasEnergy = flags&flagHasEnergy != 0
	d.hasEnergyShort = flags&flagHasEnergyShort != 0
	d.hasEnergyCal = flags&flagHasEnergyCalibrated != 0
	d.hasFlags = flags&flagHasFlags != 0
	d.hasWaveform = flags&flagHasWaveform != 0
	return d, nil
}

// Name returns the path this decoder was opened on.
func (d *Decoder) Name() string { return d.name }

// Size returns the file's total size in bytes, for progress reporting.
func (d *Decoder) Size() int64 { return d.size }

// BytesRead returns the number of bytes consumed from the file so far.
func (d *Decoder) BytesRead() int64 { return d.bytesRead }

// Scan advances the decoder to the next hit. It returns false at clean
// EOF or once a decode error has poisoned the stream; callers must check
// Err to distinguish the two.
func (d *Decoder) Scan() bool {
	if d.err != nil || d.done {
		return false
	}
	var rec [12]byte // board:u16 channel:u16 timestamp:u64
	n, err := io.ReadFull(d.r, rec[:])
	d.bytesRead += int64(n)
	if err != nil {
		if err == io.EOF && n == 0 {
			d.done = true
			return false
		}
		d.err = fmt.Errorf("evbuild: %s: truncated record header: %w", d.name, err)
		return false
	}
	board := binary.LittleEndian.Uint16(rec[0:2])
	channel := binary.LittleEndian.Uint16(rec[2:4])
	tsPicoseconds := binary.LittleEndian.Uint64(rec[4:12])

	h := Hit{BoardID: board, Channel: channel}

	if d.hasEnergy {
		var b [2]byte
		if err := d.readFull(b[:]); err != nil {
			d.err = fmt.Errorf("evbuild: %s: truncated energy field: %w", d.name, err)
			return false
		}
		h.Energy = float64(binary.LittleEndian.Uint16(b[:]))
	}
	if d.hasEnergyShort {
		var b [2]byte
		if err := d.readFull(b[:]); err != nil {
			d.err = fmt.Errorf("evbuild: %s: truncated energy-short field: %w", d.name, err)
			return false
		}
		h.EnergyShort = float64(binary.LittleEndian.Uint16(b[:]))
	}
	if d.hasEnergyCal {
		// Consumed, not forwarded.
		var b [8]byte
		if err := d.readFull(b[:]); err != nil {
			d.err = fmt.Errorf("evbuild: %s: truncated calibrated-energy field: %w", d.name, err)
			return false
		}
	}
	if d.hasFlags {
		var b [4]byte
		if err := d.readFull(b[:]); err != nil {
			d.err = fmt.Errorf("evbuild: %s: truncated flags field: %w", d.name, err)
			return false
		}
		h.Flags = binary.LittleEndian.Uint32(b[:])
	}
	if d.hasWaveform {
		var b [4]byte
		if err := d.readFull(b[:]); err != nil {
			d.err = fmt.Errorf("evbuild: %s: truncated waveform length: %w", d.name, err)
			return false
		}
		nSamples := binary.LittleEndian.Uint32(b[:])
		h.WaveformSamples = uint16(nSamples)
		if nSamples > 0 {
			skip := int64(nSamples) * 2
			m, err := io.CopyN(io.Discard, d.r, skip)
			d.bytesRead += m
			if err != nil {
				d.err = fmt.Errorf("evbuild: %s: waveform of %d samples exceeds file remainder: %w", d.name, nSamples, err)
				return false
			}
		}
	}

	h.Timestamp = float64(tsPicoseconds) / 1000.0
	h.Timestamp += d.shift.Lookup(h.UUID())

	d.cur = h
	return true
}

func (d *Decoder) readFull(b []byte) error {
	n, err := io.ReadFull(d.r, b)
	d.bytesRead += int64(n)
	return err
}

// Hit returns the hit produced by the most recent call to Scan.
func (d *Decoder) Hit() Hit { return d.cur }

// Err returns the first decode error encountered, if any.
func (d *Decoder) Err() error { return d.err }

// Close releases the underlying file handle.
func (d *Decoder) Close() error { return d.f.Close() }
