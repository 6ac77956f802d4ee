// Copyright 2026 The evbuild Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package kinematics computes the focal-plane weighting coefficients used
// to reconstruct Xavg from a split-pole spectrometer's two delay-line
// position measurements, using standard two-body relativistic kinematics
// evaluated at a fixed lab angle and magnetic rigidity.
package kinematics

import "math"

// MassTable resolves the rest masses (MeV/c^2) of the reaction partners
// needed to weight a focal-plane position measurement.
type MassTable interface {
	// Mass returns the rest mass in MeV/c^2 for a nuclide identified by
	// its mass number A and atomic number Z.
	Mass(a, z int) (mev float64, ok bool)
}

// speedOfLight in m/s, used to convert magnetic rigidity (T*m) into a
// momentum in MeV/c for a singly-to-multiply charged ejectile.
const speedOfLight = 299792458.0

// Reaction names the beam, target and ejectile of a two-body reaction
// target(beam,ejectile)residual used to derive focal-plane weights. The
// residual is fixed by conservation of A and Z and is not specified
// directly.
type Reaction struct {
	BeamA, BeamZ         int
	TargetA, TargetZ     int
	EjectileA, EjectileZ int

	BeamEnergyMeV float64 // lab kinetic energy of the incoming beam
	ThetaLabRad   float64 // spectrometer angle
	BrhoTm        float64 // spectrometer magnetic rigidity, tesla-meters
}

// Weights computes the pair of coefficients (w1, w2) such that
//
//	Xavg = w1*X1 + w2*X2
//
// reconstructs the focal-plane position of the ejectile's central
// trajectory for the given reaction, using relativistic two-body
// kinematics evaluated at the spectrometer's fixed angle and rigidity.
// ok is false if any mass is missing from masses or the reaction is
// energetically forbidden at this angle, in which case the caller must
// leave Xavg unset.
func Weights(r Reaction, masses MassTable) (w1, w2 float64, ok bool) {
	residualA := r.BeamA + r.TargetA - r.EjectileA
	residualZ := r.BeamZ + r.TargetZ - r.EjectileZ

	mBeam, ok1 := masses.Mass(r.BeamA, r.BeamZ)
	mTarget, ok2 := masses.Mass(r.TargetA, r.TargetZ)
	mEjectile, ok3 := masses.Mass(r.EjectileA, r.EjectileZ)
	mResidual, ok4 := masses.Mass(residualA, residualZ)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, 0, false
	}

	pEjectile, ok5 := ejectileMomentum(r.BeamEnergyMeV, r.ThetaLabRad, mBeam, mTarget, mEjectile, mResidual)
	if !ok5 {
		return 0, 0, false
	}

	// The central-trajectory momentum implied by the spectrometer's
	// magnetic rigidity: p = q*Brho*c, q the ejectile's charge in
	// elementary-charge units.
	pCentral := float64(r.EjectileZ) * r.BrhoTm * speedOfLight * 1e-6 // MeV/c, Brho in T*m
	if pCentral <= 0 {
		return 0, 0, false
	}

	// The two delay-line taps straddle the dispersive focal plane
	// symmetrically, so an ejectile on the central trajectory (pEjectile
	// == pCentral) is reconstructed by the plain average, w1 == w2 ==
	// 0.5. An ejectile landing away from the central trajectory crosses
	// the taps off that symmetric midpoint, biasing the plain average by
	// an amount linear in the fractional momentum deviation to first
	// order; weighting each tap by (1 -/+ delta) cancels that bias.
	delta := (pEjectile - pCentral) / pCentral
	w1 = 0.5 * (1 - delta)
	w2 = 0.5 * (1 + delta)
	return w1, w2, true
}

// ejectileMomentum solves the relativistic two-body reaction
// target(beam,ejectile)residual for the ejectile's lab-frame momentum at
// the fixed lab angle thetaLab, given the incoming beam's lab kinetic
// energy. ok is false when the reaction is kinematically forbidden at
// this angle (discriminant < 0) or any mass is non-positive.
func ejectileMomentum(beamKE, thetaLab, mBeam, mTarget, mEjectile, mResidual float64) (float64, bool) {
	if mBeam <= 0 || mTarget <= 0 || mEjectile <= 0 || mResidual <= 0 {
		return 0, false
	}

	eBeam := beamKE + mBeam
	pBeam := math.Sqrt(math.Max(eBeam*eBeam-mBeam*mBeam, 0))
	eTotal := eBeam + mTarget

	invariantMassSq := eTotal*eTotal - pBeam*pBeam
	if invariantMassSq <= 0 {
		return 0, false
	}

	cosTheta := math.Cos(thetaLab)

	// Standard relativistic two-body quadratic in pEjectile at fixed lab
	// angle: a*p^2 + b*p + c = 0, derived from conservation of total
	// energy and momentum between the two-body final state. k is the
	// conserved combination invariantMassSq + mEjectile^2 - mResidual^2
	// that appears in the ejectile energy conservation equation.
	k := invariantMassSq + mEjectile*mEjectile - mResidual*mResidual
	a := 4 * (eTotal*eTotal - pBeam*pBeam*cosTheta*cosTheta)
	b := -4 * k * pBeam * cosTheta
	c := 4*eTotal*eTotal*mEjectile*mEjectile - k*k

	if a == 0 {
		return 0, false
	}
	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	p := (-b + math.Sqrt(discriminant)) / (2 * a)
	if p < 0 {
		p = (-b - math.Sqrt(discriminant)) / (2 * a)
	}
	if p < 0 {
		return 0, false
	}
	return p, true
}
