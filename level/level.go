/*
 * level.go, part of rmatrix.
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

//Package level assembles the energy-dependent level matrix of a spin group,
//
//	(A^-1)_λμ = (E_λ - E) δ_λμ - Σ_c γ_λc γ_μc L_c,
//
//where L_c = S_c - B_c + i P_c is the channel's reduced logarithmic derivative.
//The boundary condition B_c is taken as zero, so L_c = S_c + i P_c.
//Channel contributions are additive, and the matrix must be assembled
//anew at each energy: both the diagonal and the L_c depend on it.
package level

import (
	"github.com/rmera/rmatrix/cmat"
	"github.com/rmera/rmatrix/kin"
	"github.com/rmera/rmatrix/rmerr"
	"gonum.org/v1/gonum/mat"
)

//LogDerivative returns L_c = S_c + i P_c for a channel with kinematics v.
func LogDerivative(v kin.Values) complex128 {
	return complex(v.S, v.P)
}

//Contribution returns the L x L contribution of one channel, -γ_λ γ_μ L_c,
//where gamma holds the channel's reduced-width amplitude for each level.
func Contribution(gamma []float64, v kin.Values) *mat.CDense {
	n := len(gamma)
	L := LogDerivative(v)
	m := cmat.Zeros(n, n)
	for i, gi := range gamma {
		for j, gj := range gamma {
			m.Set(i, j, -complex(gi*gj, 0)*L)
		}
	}
	return m
}

//Energies returns the diagonal matrix E_λ - E.
func Energies(resonances []float64, e float64) *mat.CDense {
	d := make([]complex128, len(resonances))
	for i, r := range resonances {
		d[i] = complex(r-e, 0)
	}
	return cmat.Diag(d)
}

//Matrix returns the level matrix A^-1 at energy e: the diagonal energy
//term plus the sum of the channel contributions given.
func Matrix(resonances []float64, e float64, contributions ...*mat.CDense) *mat.CDense {
	m := Energies(resonances, e)
	for _, c := range contributions {
		cmat.AddTo(m, c)
	}
	return m
}

//Assemble builds the level matrix at energy e for all channels at once.
//gamma is the L x C gamma matrix, and vals holds the kinematics of each of
//the C channels at e. It panics if the dimensions are not consistent.
func Assemble(resonances []float64, e float64, gamma mat.Matrix, vals []kin.Values) *mat.CDense {
	l, c := gamma.Dims()
	if l != len(resonances) || c != len(vals) {
		panic(rmerr.ErrShape)
	}
	contributions := make([]*mat.CDense, c)
	col := make([]float64, l)
	for k := range vals {
		mat.Col(col, k, gamma)
		contributions[k] = Contribution(col, vals[k])
	}
	return Matrix(resonances, e, contributions...)
}
