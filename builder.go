/*
 * builder.go, part of rmatrix.
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

import "github.com/rmera/rmatrix/rmerr"

//Builder collects the channels of a spin group one at a time, checking
//each as it is added, and builds the spin group at the end. It is useful
//for spin groups with many exit channels.
type Builder struct {
	resonances []float64
	entrance   *Channel
	exits      []*Channel
	grid       []float64
	opts       []*Options
}

//NewBuilder returns a builder for a spin group with the given resonances,
//entrance channel and grid.
func NewBuilder(resonances []float64, entrance *Channel, grid []float64, opts ...*Options) *Builder {
	return &Builder{
		resonances: append([]float64(nil), resonances...),
		entrance:   entrance,
		grid:       append([]float64(nil), grid...),
		opts:       opts,
	}
}

//AddChannel adds an exit channel. The channel must have the J and parity of
//the entrance channel, and one amplitude per resonance.
func (b *Builder) AddChannel(ch *Channel) error {
	if ch == nil {
		return rmerr.Config("channel", "nil channel")
	}
	if b.entrance == nil {
		return rmerr.Config("entrance", "nil entrance channel")
	}
	if ch == b.entrance {
		return nil
	}
	idx := len(b.exits) + 1
	if ch.J() != b.entrance.J() || ch.Parity() != b.entrance.Parity() {
		return rmerr.Config("J", "channel %s has J=%g parity %+d, the entrance has J=%g parity %+d", ch, ch.J(), ch.Parity(), b.entrance.J(), b.entrance.Parity()).WithChannel(idx)
	}
	if len(ch.amplitudes) != len(b.resonances) {
		return rmerr.Config("amplitudes", "channel %s has %d amplitudes for %d resonances", ch, len(ch.amplitudes), len(b.resonances)).WithChannel(idx)
	}
	b.exits = append(b.exits, ch.copy())
	return nil
}

//NChannels returns the number of channels added so far, the entrance included.
func (b *Builder) NChannels() int { return len(b.exits) + 1 }

//Build computes the spin group.
func (b *Builder) Build() (*SpinGroup, error) {
	sg, err := New(b.resonances, b.entrance, b.exits, b.grid, b.opts...)
	if err != nil {
		return nil, rmerr.Decorate(err, "Build")
	}
	return sg, nil
}
