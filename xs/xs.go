/*
 * xs.go, part of rmatrix.
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

//Package xs turns collision matrices into cross sections, in barns.
package xs

import (
	"math"
	"math/cmplx"

	"github.com/rmera/rmatrix/kin"
	"github.com/rmera/rmatrix/rmerr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Result holds the cross sections at one energy.
type Result struct {
	Total   float64
	Partial []float64 //one per channel, the entrance included.
}

//SpinWeight returns 1/((2i+1)(2I+1)) for a projectile of spin i and a
//target of spin I.
func SpinWeight(i, I float64) float64 {
	return 1 / ((2*i + 1) * (2*I + 1))
}

//StatisticalFactor returns g = (2J+1) spinWeight.
func StatisticalFactor(J, spinWeight float64) float64 {
	return (2*J + 1) * spinWeight
}

//Scale returns 1e24 g π/k², the cross section, in barns, that corresponds
//to |δ - U| = 1 in a channel. k is in 1/cm.
func Scale(g, k float64) float64 {
	return g * math.Pi / (k * k) / kin.Barn
}

//Compute returns the partial and total cross sections of the entrance
//channel, given the collision matrix u. J and spinWeight set the
//statistical factor, and k is the entrance wave number, in 1/cm.
//Values are not clamped: round-off can leave them slightly negative.
func Compute(u mat.CMatrix, entrance int, J, spinWeight, k float64) Result {
	r, c := u.Dims()
	if r != c {
		panic(rmerr.ErrShape)
	}
	if entrance < 0 || entrance >= c {
		panic(rmerr.ErrIndexOutOfRange)
	}
	s := Scale(StatisticalFactor(J, spinWeight), k)
	ret := Result{Partial: make([]float64, c)}
	for j := 0; j < c; j++ {
		d := -u.At(entrance, j)
		if j == entrance {
			d += 1
		}
		a := cmplx.Abs(d)
		ret.Partial[j] = s * a * a
	}
	ret.Total = 2 * s * (1 - real(u.At(entrance, entrance)))
	return ret
}

//Check verifies that the total and all the partial cross sections are not
//negative, and that the total equals the sum of the partials within
//tol times Scale(g, k). It returns an invariant error otherwise.
//Values within -tol*Scale of zero are accepted as round-off.
func Check(r Result, g, k, tol float64) error {
	s := Scale(g, k)
	slack := tol * s
	if r.Total < -slack || math.IsNaN(r.Total) {
		return rmerr.New(rmerr.ErrInvariant, "negative total cross section %g b", r.Total)
	}
	for i, v := range r.Partial {
		if v < -slack || math.IsNaN(v) {
			return rmerr.New(rmerr.ErrInvariant, "negative partial cross section %g b", v).WithChannel(i)
		}
	}
	if d := math.Abs(r.Total - floats.Sum(r.Partial)); d > slack {
		return rmerr.New(rmerr.ErrInvariant, "total and sum of partials differ by %g b (%g in units of g pi/k^2)", d, d/s)
	}
	return nil
}
