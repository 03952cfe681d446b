/*
 * collision.go, part of rmatrix.
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

//Package collision obtains the collision matrix U of a spin group at one
//energy from its level matrix. With A the inverse of the level matrix,
//
//	W = I + 2i P^1/2 γ^T A γ P^1/2
//	U = Ω W Ω,  Ω = diag(exp(-i φ_c))
//
//U must be unitary: every Solve checks max|U^H U - I| against a tolerance.
package collision

import (
	"cmp"
	"math"
	"math/cmplx"

	"github.com/rmera/rmatrix/cmat"
	"github.com/rmera/rmatrix/kin"
	"github.com/rmera/rmatrix/rmerr"
	"gonum.org/v1/gonum/mat"
)

//Default tolerances.
const (
	DefaultUnitarityTol = 1e-9
	DefaultMaxCond      = 1e12
)

//Solver inverts level matrices and builds collision matrices. The zero
//value uses the default tolerances.
type Solver struct {
	UnitarityTol float64 //largest allowed |U^H U - I| element.
	MaxCond      float64 //largest allowed condition number of the level matrix.
}

//Result contains the outcome of a Solve.
type Result struct {
	Inverse *mat.CDense //A, the inverse of the level matrix, L x L.
	U       *mat.CDense //the collision matrix, C x C.
	Cond    float64     //condition number of the level matrix.
	Defect  float64     //max|U^H U - I|
}

func (s Solver) tols() (float64, float64) {
	return cmp.Or(s.UnitarityTol, DefaultUnitarityTol), cmp.Or(s.MaxCond, DefaultMaxCond)
}

//Solve computes the collision matrix at energy from the level matrix
//(A^-1, L x L), the kinematics of the C channels and the L x C gamma matrix.
//An instability error is returned if the level matrix can't be inverted
//within the condition tolerance, in which case the Result is nil. If U is not
//unitary within tolerance, the Result is returned together with an invariant
//error. Both errors carry the energy. Solve panics on dimension mismatches.
func (s Solver) Solve(energy float64, levelMatrix mat.CMatrix, vals []kin.Values, gamma mat.Matrix) (*Result, error) {
	l, c := gamma.Dims()
	lr, lc := levelMatrix.Dims()
	if lr != l || lc != l || len(vals) != c {
		panic(rmerr.ErrShape)
	}
	utol, maxcond := s.tols()
	A, cond, err := cmat.Inverse(levelMatrix, maxcond)
	if err != nil {
		if e, ok := err.(*rmerr.Error); ok {
			e.WithEnergy(energy)
		}
		return nil, rmerr.Decorate(err, "collision.Solve")
	}
	U := Matrix(A, vals, gamma)
	r := &Result{Inverse: A, U: U, Cond: cond, Defect: cmat.UnitarityDefect(U)}
	if cmat.HasNaN(U) {
		return nil, rmerr.New(rmerr.ErrInstability, "collision matrix contains NaN or Inf").WithEnergy(energy)
	}
	if r.Defect > utol {
		return r, rmerr.New(rmerr.ErrInvariant, "collision matrix not unitary: max|U^H U - I| = %g > %g", r.Defect, utol).WithEnergy(energy)
	}
	return r, nil
}

//Matrix builds U from A, the inverse of the level matrix. It does no checks.
func Matrix(A mat.CMatrix, vals []kin.Values, gamma mat.Matrix) *mat.CDense {
	g := cmat.FromReal(gamma)
	gAg := cmat.Mul(g.T(), cmat.Mul(A, g))
	c := len(vals)
	sqrtP := make([]float64, c)
	omega := make([]complex128, c)
	for i, v := range vals {
		sqrtP[i] = math.Sqrt(v.P)
		omega[i] = cmplx.Exp(complex(0, -v.Phi))
	}
	U := cmat.Zeros(c, c)
	for a := 0; a < c; a++ {
		for b := 0; b < c; b++ {
			w := 2i * complex(sqrtP[a]*sqrtP[b], 0) * gAg.At(a, b)
			if a == b {
				w += 1
			}
			U.Set(a, b, omega[a]*w*omega[b])
		}
	}
	return U
}
