/*
 * cmat.go, part of rmatrix.
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

//Package cmat contains the complex-matrix operations that rmatrix needs and
//gonum's CDense does not provide: products, inversion and unitarity checks.
//Inversion goes through the real 2n x 2n embedding of the complex matrix,
//so the LAPACK-backed LU of gonum/mat does the work.
package cmat

import (
	"math"
	"math/cmplx"

	"github.com/rmera/rmatrix/rmerr"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"
)

//Zeros returns an r x c matrix of zeros.
func Zeros(r, c int) *mat.CDense {
	return mat.NewCDense(r, c, nil)
}

//Eye returns the n x n identity.
func Eye(n int) *mat.CDense {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

//Diag returns a square matrix with d in the diagonal.
func Diag(d []complex128) *mat.CDense {
	m := Zeros(len(d), len(d))
	for i, v := range d {
		m.Set(i, i, v)
	}
	return m
}

//Copy returns a new matrix with the contents of A.
func Copy(A mat.CMatrix) *mat.CDense {
	r, c := A.Dims()
	m := Zeros(r, c)
	m.Copy(A)
	return m
}

//FromReal returns a complex copy of the real matrix A.
func FromReal(A mat.Matrix) *mat.CDense {
	r, c := A.Dims()
	m := Zeros(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, complex(A.At(i, j), 0))
		}
	}
	return m
}

//Mul returns the product A*B. It panics if the dimensions don't match.
func Mul(A, B mat.CMatrix) *mat.CDense {
	ar, ac := A.Dims()
	br, bc := B.Dims()
	if ac != br {
		panic(rmerr.ErrShape)
	}
	m := Zeros(ar, bc)
	for i := 0; i < ar; i++ {
		for j := 0; j < bc; j++ {
			var s complex128
			for k := 0; k < ac; k++ {
				s += A.At(i, k) * B.At(k, j)
			}
			m.Set(i, j, s)
		}
	}
	return m
}

//AddTo adds B to dst in place. Both must have the same dimensions.
func AddTo(dst *mat.CDense, B mat.CMatrix) {
	dr, dc := dst.Dims()
	br, bc := B.Dims()
	if dr != br || dc != bc {
		panic(rmerr.ErrShape)
	}
	for i := 0; i < dr; i++ {
		for j := 0; j < dc; j++ {
			dst.Set(i, j, dst.At(i, j)+B.At(i, j))
		}
	}
}

//Embed returns the real 2r x 2c matrix [[Re A, -Im A],[Im A, Re A]].
//Products and inverses of embeddings are embeddings of the complex results.
func Embed(A mat.CMatrix) *mat.Dense {
	r, c := A.Dims()
	m := mat.NewDense(2*r, 2*c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := A.At(i, j)
			m.Set(i, j, real(v))
			m.Set(i, j+c, -imag(v))
			m.Set(i+r, j, imag(v))
			m.Set(i+r, j+c, real(v))
		}
	}
	return m
}

//Unembed recovers the complex r x c matrix from its real embedding.
func Unembed(E mat.Matrix) *mat.CDense {
	r2, c2 := E.Dims()
	if r2%2 != 0 || c2%2 != 0 {
		panic(rmerr.ErrShape)
	}
	r, c := r2/2, c2/2
	m := Zeros(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, complex(E.At(i, j), E.At(i+r, j)))
		}
	}
	return m
}

//Inverse returns the inverse of the square matrix A and the condition number
//of the factorization. If A is singular, or its condition number is larger than
//maxCond, a nil matrix is returned together with an instability error. A
//non-positive maxCond uses gonum's mat.ConditionTolerance.
func Inverse(A mat.CMatrix, maxCond float64) (*mat.CDense, float64, error) {
	r, c := A.Dims()
	if r != c {
		panic(rmerr.ErrShape)
	}
	if maxCond <= 0 {
		maxCond = mat.ConditionTolerance
	}
	var lu mat.LU
	lu.Factorize(Embed(A))
	cond := lu.Cond()
	if math.IsInf(cond, 0) || math.IsNaN(cond) || cond > maxCond {
		return nil, cond, rmerr.New(rmerr.ErrInstability, "condition number %g exceeds %g", cond, maxCond)
	}
	eye := make([]float64, 2*r)
	for i := range eye {
		eye[i] = 1
	}
	var inv mat.Dense
	if err := lu.SolveTo(&inv, false, mat.NewDiagDense(2*r, eye)); err != nil {
		return nil, cond, rmerr.New(rmerr.ErrInstability, "LU solve failed: %v", err)
	}
	ret := Unembed(&inv)
	if HasNaN(ret) {
		return nil, cond, rmerr.New(rmerr.ErrInstability, "inverse contains NaN or Inf")
	}
	return ret, cond, nil
}

//HasNaN returns true if any element of A is NaN or infinite.
func HasNaN(A mat.CMatrix) bool {
	if d, ok := A.(*mat.CDense); ok {
		raw := d.RawCMatrix()
		for i := 0; i < raw.Rows; i++ {
			row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
			if cmplxs.Count(notFinite, row) > 0 {
				return true
			}
		}
		return false
	}
	r, c := A.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if notFinite(A.At(i, j)) {
				return true
			}
		}
	}
	return false
}

func notFinite(v complex128) bool {
	return cmplx.IsNaN(v) || cmplx.IsInf(v)
}

//UnitarityDefect returns max |(U^H U - I)_ij|.
func UnitarityDefect(U mat.CMatrix) float64 {
	r, c := U.Dims()
	if r != c {
		panic(rmerr.ErrShape)
	}
	p := Mul(U.H(), U)
	var d float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := p.At(i, j)
			if i == j {
				v -= 1
			}
			d = math.Max(d, cmplx.Abs(v))
		}
	}
	return d
}

//EqualApprox returns whether A and B have the same dimensions and all their
//elements differ by at most tol.
func EqualApprox(A, B mat.CMatrix, tol float64) bool {
	ar, ac := A.Dims()
	br, bc := B.Dims()
	if ar != br || ac != bc {
		return false
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if cmplx.Abs(A.At(i, j)-B.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}
