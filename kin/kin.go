/*
 * kin.go, part of rmatrix.
 *
 * Copyright 2024 The rmatrix authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package kin implements the channel kinematics of R-matrix theory: wave
//number, penetrability, shift factor and hard-sphere phase of one channel
//at one energy. All functions are pure.
package kin

import (
	"fmt"
	"math"

	"github.com/rmera/rmatrix/rmerr"
)

//Partition tells how the wave number of a channel is obtained.
type Partition int

const (
	//Massive is a partition with a massive light particle (e.g. n + target).
	Massive Partition = iota
	//Photon is a primary-gamma partition (gamma + product nucleus).
	Photon
)

func (p Partition) String() string {
	switch p {
	case Massive:
		return "massive"
	case Photon:
		return "photon"
	default:
		return fmt.Sprintf("Partition(%d)", int(p))
	}
}

//Pair holds what the kinematics need to know about the particle pair
//of a channel.
type Pair struct {
	Partition  Partition
	LightA     int     //mass number of the light particle
	HeavyA     int     //mass number of the heavy particle
	Separation float64 //separation energy of the product nucleus (Photon only), eV
	Excitation float64 //excitation energy of the product nucleus (Photon only), eV
}

//Threshold returns the incident energy, in eV, below which the channel is closed.
func (p Pair) Threshold() float64 {
	if p.Partition == Photon {
		return p.Excitation - p.Separation
	}
	return 0
}

//Values contains the kinematic quantities of a channel at one energy.
type Values struct {
	K    float64 //wave number, 1/cm. For closed channels, the modulus of the imaginary wave number.
	Rho  float64 //K times the channel radius
	P    float64 //penetrability
	S    float64 //shift factor
	Phi  float64 //hard-sphere phase shift
	Open bool
}

//WaveNumber returns the wave number, in 1/cm, of the channel at the incident
//energy e, and whether the channel is open at that energy.
func WaveNumber(e float64, p Pair) (float64, bool) {
	eff := e - p.Threshold()
	switch p.Partition {
	case Photon:
		return math.Abs(eff) / HbarC, eff > 0
	default:
		a := float64(p.LightA + p.HeavyA)
		m := float64(p.LightA)
		return NeutronK * math.Sqrt(m*math.Abs(eff)) * a / (a + m), eff > 0
	}
}

//Evaluate returns the kinematics of a channel with radius radius (in 1e-12 cm),
//orbital angular momentum ell and particle pair p at the incident energy e (eV).
//Orbital angular momenta without an implemented formula give an
//unsupported-configuration error. A closed channel is not an error:
//its penetrability, shift and phase are zero.
func Evaluate(e, radius float64, ell int, p Pair) (Values, error) {
	var v Values
	if err := Supported(ell, p.Partition); err != nil {
		return v, err
	}
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return v, rmerr.Config("energy", "energy must be finite, got %g", e)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return v, rmerr.Config("radius", "channel radius must be positive and finite, got %g", radius)
	}
	if p.Partition == Massive && p.LightA <= 0 {
		return v, rmerr.Config("light particle", "a massive partition needs a light particle with A>0, got %d", p.LightA)
	}
	k, open := WaveNumber(e, p)
	v.K = k
	v.Rho = k * radius * RadiusUnit
	v.Open = open
	if !open {
		return v, nil
	}
	v.P = Penetrability(v.Rho, ell, p.Partition)
	v.S = Shift(v.Rho, ell, p.Partition)
	v.Phi = HardSpherePhase(v.Rho, ell, p.Partition)
	return v, nil
}

//Supported returns nil if there is a formula for the orbital
//angular momentum ell in the partition, an error otherwise.
func Supported(ell int, part Partition) error {
	top := MaxMassiveL
	if part == Photon {
		top = MaxPhotonL
	}
	if ell < 0 || ell > top {
		return rmerr.Unsupported("ell", "orbital angular momentum %d is not implemented for %s channels (0 to %d)", ell, part, top)
	}
	return nil
}

//Penetrability returns the penetrability at the dimensionless radius rho.
//It panics for unsupported ell: use Supported first.
func Penetrability(rho float64, ell int, part Partition) float64 {
	if Supported(ell, part) != nil {
		panic(rmerr.ErrUnsupportedL)
	}
	if part == Photon {
		return math.Pow(rho, float64(2*ell+1))
	}
	return rho //s-wave
}

//Shift returns the level-shift factor. It is zero for s-waves and
//for photon channels.
func Shift(rho float64, ell int, part Partition) float64 {
	if Supported(ell, part) != nil {
		panic(rmerr.ErrUnsupportedL)
	}
	return 0
}

//HardSpherePhase returns the hard-sphere phase shift. For s-waves (and,
//by convention, photon channels) it is rho itself.
func HardSpherePhase(rho float64, ell int, part Partition) float64 {
	if Supported(ell, part) != nil {
		panic(rmerr.ErrUnsupportedL)
	}
	return rho
}
