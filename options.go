/*
 * options.go, part of rmatrix.
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
	"runtime"

	"github.com/rmera/rmatrix/collision"
)

//Options contains the numerical settings of a spin group.
type Options struct {
	cpus          int
	unitarityTol  float64 //largest allowed element of |U^H U - I|
	additivityTol float64 //in units of g pi/k^2
	maxCond       float64 //largest condition number accepted for a level matrix
	debug         bool    //log the intermediate matrices at the first energy
}

//DefaultOptions returns reasonable options: all logical CPUs, unitarity and
//additivity to 1e-9 and condition numbers up to 1e12.
func DefaultOptions() *Options {
	r := new(Options)
	r.cpus = runtime.NumCPU()
	r.unitarityTol = collision.DefaultUnitarityTol
	r.additivityTol = 1e-9
	r.maxCond = collision.DefaultMaxCond
	return r
}

//Returns the number of gorutines to be used,
//and sets it to a new value, if given.
func (O *Options) Cpus(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	return O.cpus
}

//Returns the unitarity tolerance, and sets it to a new value, if given.
func (O *Options) UnitarityTol(tol ...float64) float64 {
	if len(tol) > 0 && tol[0] > 0 {
		O.unitarityTol = tol[0]
	}
	return O.unitarityTol
}

//Returns the additivity tolerance, and sets it to a new value, if given.
//The tolerance is relative to g pi/k^2, the cross section that corresponds
//to a unit change in the collision matrix.
func (O *Options) AdditivityTol(tol ...float64) float64 {
	if len(tol) > 0 && tol[0] > 0 {
		O.additivityTol = tol[0]
	}
	return O.additivityTol
}

//Returns the largest condition number accepted for a level matrix,
//and sets it to a new value, if given.
func (O *Options) MaxCond(c ...float64) float64 {
	if len(c) > 0 && c[0] > 0 {
		O.maxCond = c[0]
	}
	return O.maxCond
}

//Returns whether the intermediate matrices at the first grid energy are
//logged, and sets it, if a value is given.
func (O *Options) Debug(d ...bool) bool {
	if len(d) > 0 {
		O.debug = d[0]
	}
	return O.debug
}

func (O *Options) solver() collision.Solver {
	return collision.Solver{UnitarityTol: O.unitarityTol, MaxCond: O.maxCond}
}

//optionsOrDefault returns a copy of the first options given, with
//unset values replaced by the defaults.
func optionsOrDefault(opts []*Options) Options {
	d := DefaultOptions()
	if len(opts) == 0 || opts[0] == nil {
		return *d
	}
	o := *opts[0]
	if o.cpus <= 0 {
		o.cpus = d.cpus
	}
	if o.unitarityTol <= 0 {
		o.unitarityTol = d.unitarityTol
	}
	if o.additivityTol <= 0 {
		o.additivityTol = d.additivityTol
	}
	if o.maxCond <= 0 {
		o.maxCond = d.maxCond
	}
	return o
}
