/*
 * channel.go, part of rmatrix.
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
	"log"
	"math"

	"github.com/rmera/rmatrix/kin"
	"github.com/rmera/rmatrix/rmerr"
	"gonum.org/v1/gonum/floats"
)

//ChannelKind distinguishes the channel variants.
type ChannelKind int

const (
	//Elastic is a massive-particle channel, the entrance of every spin group.
	Elastic ChannelKind = iota
	//Capture is a primary-gamma channel, leaving the product nucleus in a
	//given excited state.
	Capture
)

func (k ChannelKind) String() string {
	switch k {
	case Elastic:
		return "elastic"
	case Capture:
		return "capture"
	default:
		return fmt.Sprintf("ChannelKind(%d)", int(k))
	}
}

//Channel is a reaction channel of a spin group: a particle pair with given
//quantum numbers and radius, and the reduced-width amplitudes that couple it to
//each resonance. The only difference between the variants is in the kinematics,
//which is dispatched once on the kind.
type Channel struct {
	kind       ChannelKind
	light      Particle
	heavy      Particle
	j          float64
	parity     int
	ell        int
	radius     float64
	excitation float64
	amplitudes []float64
}

//NewElastic returns an elastic channel for the light particle on the heavy target.
//Only s-waves (ell=0) are supported.
func NewElastic(light, heavy Particle, J float64, parity, ell int, radius float64, amplitudes []float64) (*Channel, error) {
	c := &Channel{
		kind:       Elastic,
		light:      light,
		heavy:      heavy,
		j:          J,
		parity:     parity,
		ell:        ell,
		radius:     radius,
		amplitudes: append([]float64(nil), amplitudes...),
	}
	if light.A <= 0 {
		return nil, rmerr.Config("light particle", "elastic channels need a massive light particle, got %v", light)
	}
	if err := c.validate(); err != nil {
		return nil, rmerr.Decorate(err, "NewElastic")
	}
	return c, nil
}

//NewCapture returns a primary-gamma channel that leaves product at the given
//excitation energy (eV). The neutron separation energy of product sets the photon
//energy. ell is the multipolarity (0 to 2).
func NewCapture(photon, product Particle, J float64, parity, ell int, radius, excitation float64, amplitudes []float64) (*Channel, error) {
	c := &Channel{
		kind:       Capture,
		light:      photon,
		heavy:      product,
		j:          J,
		parity:     parity,
		ell:        ell,
		radius:     radius,
		excitation: excitation,
		amplitudes: append([]float64(nil), amplitudes...),
	}
	if !photon.IsPhoton() {
		return nil, rmerr.Config("light particle", "capture channels need a photon, got %v", photon)
	}
	if !(excitation >= 0) || math.IsInf(excitation, 0) {
		return nil, rmerr.Config("excitation", "excitation energy must be finite and non-negative, got %g", excitation)
	}
	if err := c.validate(); err != nil {
		return nil, rmerr.Decorate(err, "NewCapture")
	}
	return c, nil
}

func (c *Channel) validate() error {
	if err := kin.Supported(c.ell, c.Pair().Partition); err != nil {
		return err
	}
	if !(c.radius > 0) || math.IsInf(c.radius, 0) {
		return rmerr.Config("radius", "channel radius must be positive and finite, got %g", c.radius)
	}
	if !halfInteger(c.j) {
		return rmerr.Config("J", "J must be a non-negative multiple of 1/2, got %g", c.j)
	}
	if c.parity != 1 && c.parity != -1 {
		return rmerr.Config("parity", "parity must be 1 or -1, got %d", c.parity)
	}
	if floats.HasNaN(c.amplitudes) {
		return rmerr.Config("amplitudes", "reduced-width amplitudes must be finite")
	}
	for _, v := range c.amplitudes {
		if math.IsInf(v, 0) {
			return rmerr.Config("amplitudes", "reduced-width amplitudes must be finite")
		}
	}
	return nil
}

//WithAmplitudes returns a copy of the channel with new reduced-width amplitudes.
func (c *Channel) WithAmplitudes(a []float64) (*Channel, error) {
	ret := c.copy()
	ret.amplitudes = append([]float64(nil), a...)
	if err := ret.validate(); err != nil {
		return nil, rmerr.Decorate(err, "WithAmplitudes")
	}
	return ret, nil
}

//WithPartialWidths returns a copy of the channel with the amplitudes obtained from
//the partial widths (eV) of the given resonances, as gamma = sqrt(Gamma/(2 P(E_res))).
//The signs of the amplitudes can't be recovered from the widths: all are
//positive, and a warning is logged.
func (c *Channel) WithPartialWidths(widths, resonances []float64) (*Channel, error) {
	if len(widths) != len(resonances) {
		return nil, rmerr.Config("partial widths", "%d widths given for %d resonances", len(widths), len(resonances))
	}
	log.Printf("rmatrix: computing the reduced-width amplitudes of channel %s from partial widths. Their signs can't be determined, all will be positive.", c)
	a := make([]float64, len(widths))
	for i, w := range widths {
		if !(w >= 0) {
			return nil, rmerr.Config("partial widths", "partial width %d is %g, must be non-negative", i, w)
		}
		v, err := c.Evaluate(resonances[i])
		if err != nil {
			return nil, rmerr.Decorate(err, "WithPartialWidths")
		}
		if !v.Open || v.P <= 0 {
			return nil, rmerr.Config("partial widths", "channel %s is closed at the resonance energy %g eV", c, resonances[i])
		}
		a[i] = math.Sqrt(w / (2 * v.P))
	}
	return c.WithAmplitudes(a)
}

//PartialWidths returns Gamma = 2 P(E_res) gamma^2 for each resonance.
//It is the inverse of WithPartialWidths.
func (c *Channel) PartialWidths(resonances []float64) ([]float64, error) {
	if len(resonances) != len(c.amplitudes) {
		return nil, rmerr.Config("resonances", "%d resonances given for %d amplitudes", len(resonances), len(c.amplitudes))
	}
	w := make([]float64, len(resonances))
	for i, e := range resonances {
		v, err := c.Evaluate(e)
		if err != nil {
			return nil, rmerr.Decorate(err, "PartialWidths")
		}
		w[i] = 2 * v.P * c.amplitudes[i] * c.amplitudes[i]
	}
	return w, nil
}

//Evaluate returns the kinematics of the channel at the incident energy e.
func (c *Channel) Evaluate(e float64) (kin.Values, error) {
	v, err := kin.Evaluate(e, c.radius, c.ell, c.Pair())
	if err != nil {
		return v, rmerr.Decorate(err, c.String())
	}
	return v, nil
}

//Pair returns what the kinematics need to know about the particles of the channel.
func (c *Channel) Pair() kin.Pair {
	if c.kind == Capture {
		return kin.Pair{Partition: kin.Photon, HeavyA: c.heavy.A, Separation: c.heavy.Sn, Excitation: c.excitation}
	}
	return kin.Pair{Partition: kin.Massive, LightA: c.light.A, HeavyA: c.heavy.A}
}

//Threshold returns the incident energy, in eV, below which the channel is closed.
func (c *Channel) Threshold() float64 { return c.Pair().Threshold() }

//Amplitudes returns a copy of the reduced-width amplitudes.
func (c *Channel) Amplitudes() []float64 { return append([]float64(nil), c.amplitudes...) }

func (c *Channel) Kind() ChannelKind { return c.kind }
func (c *Channel) Light() Particle   { return c.light }
func (c *Channel) Heavy() Particle   { return c.heavy }
func (c *Channel) J() float64        { return c.j }
func (c *Channel) Parity() int       { return c.parity }
func (c *Channel) Ell() int          { return c.ell }
func (c *Channel) Radius() float64   { return c.radius }

//Excitation returns the excitation energy of the heavy particle, in eV.
func (c *Channel) Excitation() float64 { return c.excitation }

//String returns something like "n + 181Ta(0 MeV)".
func (c *Channel) String() string {
	return fmt.Sprintf("%s + %s(%g MeV)", c.light, c.heavy, c.excitation/1e6)
}

func (c *Channel) copy() *Channel {
	ret := *c
	ret.amplitudes = append([]float64(nil), c.amplitudes...)
	return &ret
}
