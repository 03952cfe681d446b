/*
 * particle.go, part of rmatrix.
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

package rmatrix

import (
	"fmt"
	"math"

	"github.com/rmera/rmatrix/rmerr"
)

//Particle is a nucleus, nucleon or photon taking part in a channel.
//Particles are values, and are not modified once created.
type Particle struct {
	Label string
	A     int     //mass number
	Z     int     //atomic number
	Sn    float64 //neutron separation energy in eV. Only used for capture products.
	Spin  float64
}

//NewParticle returns a particle with the given label, mass and atomic numbers.
//The optional props are, in order, the neutron separation energy (eV) and the spin.
func NewParticle(label string, A, Z int, props ...float64) (Particle, error) {
	p := Particle{Label: label, A: A, Z: Z}
	if len(props) > 0 {
		p.Sn = props[0]
	}
	if len(props) > 1 {
		p.Spin = props[1]
	}
	if A < 0 {
		return p, rmerr.Config("A", "particle %s: negative mass number %d", label, A)
	}
	if Z < 0 {
		return p, rmerr.Config("Z", "particle %s: negative atomic number %d", label, Z)
	}
	if math.IsNaN(p.Sn) || math.IsInf(p.Sn, 0) {
		return p, rmerr.Config("Sn", "particle %s: separation energy must be finite", label)
	}
	if !halfInteger(p.Spin) {
		return p, rmerr.Config("spin", "particle %s: spin must be a non-negative multiple of 1/2, got %g", label, p.Spin)
	}
	return p, nil
}

//Neutron returns a neutron.
func Neutron() Particle {
	return Particle{Label: "n", A: 1, Z: 0, Spin: 0.5}
}

//Photon returns a photon.
func Photon() Particle {
	return Particle{Label: "g", A: 0, Z: 0, Spin: 1}
}

//IsPhoton returns true if the particle is massless.
func (p Particle) IsPhoton() bool {
	return p.A == 0
}

func (p Particle) String() string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("A=%d,Z=%d", p.A, p.Z)
}

//halfInteger returns true if v>=0 and 2v is an integer.
func halfInteger(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && math.Trunc(2*v) == 2*v
}
