// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kinematics

import "testing"

func TestWeightsMissingMassFails(t *testing.T) {
	masses := NewTableMassTable([]Nuclide{
		{A: 1, Z: 1, MassMeV: 938.272},
	})
	r := Reaction{
		BeamA: 1, BeamZ: 1,
		TargetA: 12, TargetZ: 6,
		EjectileA: 1, EjectileZ: 1,
		BeamEnergyMeV: 20,
		ThetaLabRad:   0.3,
		BrhoTm:        0.5,
	}
	if _, _, ok := Weights(r, masses); ok {
		t.Fatal("expected Weights to fail when target/residual masses are missing")
	}
}

func TestWeightsFeasibleReaction(t *testing.T) {
	// An elastic beam scattering off a much heavier target (effectively a
	// fixed scattering center) is kinematically allowed at any angle, so
	// this case is solvable regardless of the exact quadratic root chosen.
	masses := NewTableMassTable([]Nuclide{
		{A: 1, Z: 1, MassMeV: 1000},    // light beam
		{A: 100, Z: 50, MassMeV: 1e7},  // very heavy target
		{A: 1, Z: 1, MassMeV: 1000},    // elastic ejectile
		{A: 100, Z: 50, MassMeV: 1e7},  // recoiling residual
	})
	r := Reaction{
		BeamA: 1, BeamZ: 1,
		TargetA: 100, TargetZ: 50,
		EjectileA: 1, EjectileZ: 1,
		BeamEnergyMeV: 50,
		ThetaLabRad:   0.3,
		BrhoTm:        0.5,
	}
	w1, w2, ok := Weights(r, masses)
	if !ok {
		t.Fatal("expected a feasible elastic scattering off a heavy target to succeed")
	}
	if d := (w1 + w2) - 1.0; d < -1e-9 || d > 1e-9 {
		t.Errorf("w1+w2 = %v, want 1", w1+w2)
	}
}

func TestWeightsNonCentralTrajectoryIsNotOneHalf(t *testing.T) {
	// Proton elastically scattering off 12C at 20 MeV beam energy, 0.3 rad,
	// with the spectrometer rigidity set away from the reaction's actual
	// central momentum so the ejectile does not land on the central
	// trajectory. Expected (w1, w2, pEjectile, pCentral) were computed
	// independently from the same closed-form relativistic two-body
	// solution and an independent bisection solve of the underlying
	// energy-momentum conservation equation, agreeing to better than
	// 1e-9 relative.
	masses := NewTableMassTable([]Nuclide{
		{A: 1, Z: 1, MassMeV: 938.272},
		{A: 12, Z: 6, MassMeV: 11174.9},
	})
	r := Reaction{
		BeamA: 1, BeamZ: 1,
		TargetA: 12, TargetZ: 6,
		EjectileA: 1, EjectileZ: 1,
		BeamEnergyMeV: 20,
		ThetaLabRad:   0.3,
		BrhoTm:        0.7,
	}
	w1, w2, ok := Weights(r, masses)
	if !ok {
		t.Fatal("expected this reaction to be kinematically feasible")
	}
	const wantW1 = 0.5377421990652648
	const wantW2 = 0.46225780093473523
	if rel := (w1 - wantW1) / wantW1; rel < -1e-9 || rel > 1e-9 {
		t.Errorf("w1 = %v, want %v", w1, wantW1)
	}
	if rel := (w2 - wantW2) / wantW2; rel < -1e-9 || rel > 1e-9 {
		t.Errorf("w2 = %v, want %v", w2, wantW2)
	}
	if w1 == 0.5 || w2 == 0.5 {
		t.Errorf("weights = (%v, %v), expected a non-central trajectory to deviate from (0.5, 0.5)", w1, w2)
	}
}

func TestWeightsZeroRigidityFails(t *testing.T) {
	masses := NewTableMassTable([]Nuclide{
		{A: 1, Z: 1, MassMeV: 938.272},
		{A: 12, Z: 6, MassMeV: 11174.9},
	})
	r := Reaction{
		BeamA: 1, BeamZ: 1,
		TargetA: 12, TargetZ: 6,
		EjectileA: 1, EjectileZ: 1,
		BeamEnergyMeV: 20,
		ThetaLabRad:   0.3,
		BrhoTm:        0,
	}
	if _, _, ok := Weights(r, masses); ok {
		t.Fatal("expected zero rigidity to fail (no defined central momentum)")
	}
}
