// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package config deserializes the single YAML configuration document
// naming the coincidence window, run range, channel map, shift map,
// scaler patterns and kinematics parameters for a run. Unknown fields
// are ignored for forward compatibility.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alconley/evbuild/channelmap"
	"github.com/alconley/evbuild/kinematics"
)

// BoardConfig is one digitizer board's 16-channel role assignment, as
// written in the YAML document.
type BoardConfig struct {
	ID       uint32   `yaml:"id"`
	Kind     string   `yaml:"kind,omitempty"` // "sps", "cebra", "catrina", "left_strip", "right_strip", "custom"
	Channels []string `yaml:"channels,omitempty"`
}

// ShiftEntryConfig is one (board, channel) additive ns correction.
type ShiftEntryConfig struct {
	Board    uint16  `yaml:"board"`
	Channel  uint16  `yaml:"channel"`
	OffsetNS float64 `yaml:"offset_ns"`
}

// ScalerPatternConfig binds a file-name prefix to a scaler name.
type ScalerPatternConfig struct {
	Prefix string `yaml:"prefix"`
	Name   string `yaml:"name"`
}

// NuclideConfig is one mass-table row, typically sourced from the AMDC
// 2017 atomic-mass evaluation.
type NuclideConfig struct {
	A       int     `yaml:"a"`
	Z       int     `yaml:"z"`
	MassMeV float64 `yaml:"mass_mev"`
}

// KinematicsConfig names the reaction and spectrometer setting used to
// derive the focal-plane weights, plus the mass table to resolve it with.
type KinematicsConfig struct {
	BeamA     int `yaml:"beam_a"`
	BeamZ     int `yaml:"beam_z"`
	TargetA   int `yaml:"target_a"`
	TargetZ   int `yaml:"target_z"`
	EjectileA int `yaml:"ejectile_a"`
	EjectileZ int `yaml:"ejectile_z"`

	BeamEnergyMeV float64 `yaml:"beam_energy_mev"`
	ThetaLabDeg   float64 `yaml:"theta_lab_deg"`
	BrhoTm        float64 `yaml:"brho_tm"`

	Masses []NuclideConfig `yaml:"masses"`
}

// Config is the run's full deserialized configuration document.
type Config struct {
	WindowNS float64 `yaml:"window_ns"`
	RunMin   int     `yaml:"run_min"`
	RunMax   int     `yaml:"run_max"`

	WorkspaceDir string `yaml:"workspace_dir"`

	Boards       []BoardConfig         `yaml:"boards"`
	ShiftEntries []ShiftEntryConfig    `yaml:"shift_entries,omitempty"`
	Scalers      []ScalerPatternConfig `yaml:"scalers,omitempty"`
	Kinematics   *KinematicsConfig     `yaml:"kinematics,omitempty"`

	// EnableNestedTrack activates the reserved, historically-disabled X/Z
	// nested focal-plane track columns.
	EnableNestedTrack bool `yaml:"enable_nested_track,omitempty"`
}

// Load reads and parses the YAML configuration document at path. Unknown
// fields are silently ignored; yaml.v3's default decode behavior already
// does this since strict mode is never enabled.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &c, nil
}

// ChannelMap builds a channelmap.ChannelMap from the configuration's
// board list, applying the named standard layouts for recognized Kind
// values and falling back to an explicit per-channel Channels list
// otherwise.
func (c *Config) ChannelMap() (*channelmap.ChannelMap, error) {
	boards := make([]channelmap.Board, 0, len(c.Boards))
	for _, bc := range c.Boards {
		switch bc.Kind {
		case "sps":
			boards = append(boards, channelmap.SPSBoard(bc.ID))
		case "cebra":
			boards = append(boards, channelmap.CebraBoard(bc.ID))
		case "catrina":
			boards = append(boards, channelmap.CatrinaBoard(bc.ID))
		case "left_strip":
			boards = append(boards, channelmap.LeftStripBoard(bc.ID))
		case "right_strip":
			boards = append(boards, channelmap.RightStripBoard(bc.ID))
		default:
			var b channelmap.Board
			b.ID = bc.ID
			for i, name := range bc.Channels {
				if i >= 16 {
					break
				}
				b.Channels[i] = channelmap.ParseRole(name)
			}
			boards = append(boards, b)
		}
	}
	return channelmap.New(boards)
}

// MassTable builds a kinematics.MassTable from the configured nuclide
// list, or nil if no kinematics section is present.
func (c *Config) MassTable() *kinematics.TableMassTable {
	if c.Kinematics == nil {
		return nil
	}
	nuclides := make([]kinematics.Nuclide, 0, len(c.Kinematics.Masses))
	for _, m := range c.Kinematics.Masses {
		nuclides = append(nuclides, kinematics.Nuclide{A: m.A, Z: m.Z, MassMeV: m.MassMeV})
	}
	return kinematics.NewTableMassTable(nuclides)
}

// Reaction builds a kinematics.Reaction from the configured kinematics
// section, or returns ok=false if none is present.
func (c *Config) Reaction() (kinematics.Reaction, bool) {
	if c.Kinematics == nil {
		return kinematics.Reaction{}, false
	}
	k := c.Kinematics
	return kinematics.Reaction{
		BeamA: k.BeamA, BeamZ: k.BeamZ,
		TargetA: k.TargetA, TargetZ: k.TargetZ,
		EjectileA: k.EjectileA, EjectileZ: k.EjectileZ,
		BeamEnergyMeV: k.BeamEnergyMeV,
		ThetaLabRad:   k.ThetaLabDeg * math.Pi / 180,
		BrhoTm:        k.BrhoTm,
	}, true
}
