/*
 * spingroup.go, part of rmatrix.
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
	"strings"

	"github.com/rmera/rmatrix/cmat"
	"github.com/rmera/rmatrix/kin"
	"github.com/rmera/rmatrix/level"
	"github.com/rmera/rmatrix/rmerr"
	"github.com/rmera/rmatrix/xs"
	"github.com/sourcegraph/conc/iter"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//SpinGroup is a set of resonances sharing J and parity, the channels they
//decay through and the cross sections they produce on an energy grid.
//Channel 0 is always the elastic entrance channel.
//
//A SpinGroup is not safe for concurrent use if UpdateGammaMatrix is called:
//callers must serialize updates against reads. Distinct spin groups share nothing.
type SpinGroup struct {
	resonances []float64
	channels   []*Channel
	gamma      *mat.Dense //L x C
	grid       []float64
	vals       [][]kin.Values //N x C, they don't depend on gamma.
	spinWeight float64
	opts       Options
	st         *state
}

//state contains everything that depends on the gamma matrix.
//It is never modified once computed, only replaced.
type state struct {
	levelInv []*mat.CDense //A^-1, N of L x L
	levelA   []*mat.CDense //A, N of L x L
	u        []*mat.CDense //N of C x C
	partial  [][]float64   //C x N
	total    []float64
	cond     []float64
	defect   float64
}

//New builds a spin group from its resonance energies (eV), the elastic entrance
//channel, the exit channels and the energy grid (eV), and computes all the cross
//sections. An exit channel that is the entrance itself is not added twice.
//Every channel must have one amplitude per resonance, and all must share J and parity.
func New(resonances []float64, entrance *Channel, exits []*Channel, grid []float64, opts ...*Options) (*SpinGroup, error) {
	sg := &SpinGroup{
		resonances: append([]float64(nil), resonances...),
		grid:       append([]float64(nil), grid...),
		opts:       optionsOrDefault(opts),
	}
	if err := sg.setChannels(entrance, exits); err != nil {
		return nil, rmerr.Decorate(err, "New")
	}
	if err := sg.validate(); err != nil {
		return nil, rmerr.Decorate(err, "New")
	}
	if err := sg.kinematics(); err != nil {
		return nil, rmerr.Decorate(err, "New")
	}
	sg.gamma = sg.gammaFromChannels()
	st, err := sg.compute(sg.gamma)
	if err != nil {
		return nil, rmerr.Decorate(err, "New")
	}
	sg.st = st
	return sg, nil
}

func (sg *SpinGroup) setChannels(entrance *Channel, exits []*Channel) error {
	if entrance == nil {
		return rmerr.Config("entrance", "nil entrance channel")
	}
	if entrance.Kind() != Elastic {
		return rmerr.Config("entrance", "the entrance channel must be elastic, got %s", entrance.Kind()).WithChannel(0)
	}
	sg.channels = []*Channel{entrance.copy()}
	for i, c := range exits {
		if c == nil {
			return rmerr.Config("exits", "nil exit channel %d", i)
		}
		if c == entrance {
			continue
		}
		sg.channels = append(sg.channels, c.copy())
	}
	in := sg.channels[0]
	sg.spinWeight = xs.SpinWeight(in.Light().Spin, in.Heavy().Spin)
	return nil
}

func (sg *SpinGroup) validate() error {
	l := len(sg.resonances)
	if l == 0 {
		return rmerr.Config("resonances", "no resonances given")
	}
	if floats.HasNaN(sg.resonances) || math.IsInf(floats.Max(sg.resonances), 1) || math.IsInf(floats.Min(sg.resonances), -1) {
		return rmerr.Config("resonances", "resonance energies must be finite")
	}
	in := sg.channels[0]
	for i, c := range sg.channels {
		if c.J() != in.J() || c.Parity() != in.Parity() {
			return rmerr.Config("J", "channel %s has J=%g parity %+d, but the spin group has J=%g parity %+d", c, c.J(), c.Parity(), in.J(), in.Parity()).WithChannel(i)
		}
		if len(c.amplitudes) != l {
			return rmerr.Config("amplitudes", "channel %s has %d amplitudes for %d resonances", c, len(c.amplitudes), l).WithChannel(i)
		}
	}
	return validateGrid(sg.grid, in.Threshold())
}

func validateGrid(grid []float64, threshold float64) error {
	if len(grid) == 0 {
		return rmerr.Config("grid", "empty energy grid")
	}
	for i, e := range grid {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return rmerr.Config("grid", "grid point %d is not finite", i)
		}
		if e <= threshold {
			return rmerr.Config("grid", "grid point %d (%g eV) is not above the entrance threshold %g eV", i, e, threshold)
		}
		if i > 0 && e <= grid[i-1] {
			return rmerr.Config("grid", "grid is not strictly increasing at point %d", i)
		}
	}
	return nil
}

//kinematics evaluates every channel at every grid energy.
func (sg *SpinGroup) kinematics() error {
	sg.vals = make([][]kin.Values, len(sg.grid))
	for i, e := range sg.grid {
		sg.vals[i] = make([]kin.Values, len(sg.channels))
		for j, c := range sg.channels {
			v, err := c.Evaluate(e)
			if err != nil {
				if re, ok := err.(*rmerr.Error); ok {
					re.WithChannel(j)
				}
				return err
			}
			sg.vals[i][j] = v
		}
	}
	return nil
}

func (sg *SpinGroup) gammaFromChannels() *mat.Dense {
	g := mat.NewDense(len(sg.resonances), len(sg.channels), nil)
	for j, c := range sg.channels {
		g.SetCol(j, c.amplitudes)
	}
	return g
}

//compute obtains a fresh state for the gamma matrix given. Grid points are
//independent and are distributed over opts.Cpus() goroutines. If several
//points fail, the error of the one with the lowest index is returned.
func (sg *SpinGroup) compute(gamma *mat.Dense) (*state, error) {
	n, c := len(sg.grid), len(sg.channels)
	st := &state{
		levelInv: make([]*mat.CDense, n),
		levelA:   make([]*mat.CDense, n),
		u:        make([]*mat.CDense, n),
		partial:  make([][]float64, c),
		total:    make([]float64, n),
		cond:     make([]float64, n),
	}
	for i := range st.partial {
		st.partial[i] = make([]float64, n)
	}
	defects := make([]float64, n)
	errs := make([]error, n)
	solver := sg.opts.solver()
	g := sg.StatisticalWeight()
	j := sg.J()
	it := iter.Iterator[float64]{MaxGoroutines: sg.opts.Cpus()}
	it.ForEachIdx(sg.grid, func(i int, e *float64) {
		vals := sg.vals[i]
		lm := level.Assemble(sg.resonances, *e, gamma, vals)
		r, err := solver.Solve(*e, lm, vals, gamma)
		if err != nil {
			errs[i] = err
			return
		}
		res := xs.Compute(r.U, 0, j, sg.spinWeight, vals[0].K)
		if err := xs.Check(res, g, vals[0].K, sg.opts.AdditivityTol()); err != nil {
			if e2, ok := err.(*rmerr.Error); ok {
				e2.WithEnergy(*e)
			}
			errs[i] = err
			return
		}
		st.levelInv[i] = lm
		st.levelA[i] = r.Inverse
		st.u[i] = r.U
		st.cond[i] = r.Cond
		defects[i] = r.Defect
		st.total[i] = res.Total
		for k, v := range res.Partial {
			st.partial[k][i] = v
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, rmerr.Decorate(err, "compute")
		}
	}
	st.defect = floats.Max(defects)
	if sg.opts.Debug() {
		sg.dump(gamma, st)
	}
	return st, nil
}

//dump logs the intermediate matrices at the first grid energy.
func (sg *SpinGroup) dump(gamma *mat.Dense, st *state) {
	vals := sg.vals[0]
	p := make([]string, len(vals))
	for i, v := range vals {
		p[i] = fmt.Sprintf("%g", v.P)
	}
	log.Printf("rmatrix: debug, E = %g eV, g = %g, k = %g 1/cm", sg.grid[0], sg.StatisticalWeight(), vals[0].K)
	log.Printf("rmatrix: gamma matrix:\n%v", mat.Formatted(gamma, mat.Prefix("  ")))
	log.Printf("rmatrix: penetrabilities: %s", strings.Join(p, " "))
	log.Printf("rmatrix: level matrix A^-1:\n%s", formatC(st.levelInv[0]))
	log.Printf("rmatrix: A:\n%s", formatC(st.levelA[0]))
	log.Printf("rmatrix: collision matrix U:\n%s", formatC(st.u[0]))
	log.Printf("rmatrix: max |U^H U - I| over the grid: %g", st.defect)
}

func formatC(m mat.CMatrix) string {
	var b strings.Builder
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		b.WriteString("  [")
		for j := 0; j < c; j++ {
			if j > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%.8g", m.At(i, j))
		}
		b.WriteString("]\n")
	}
	return b.String()
}

//UpdateGammaMatrix replaces the L x C gamma matrix and recomputes all the
//derived matrices and cross sections. On any error the spin group is left as it was.
func (sg *SpinGroup) UpdateGammaMatrix(g mat.Matrix) error {
	if g == nil {
		return rmerr.Config("gamma", "nil gamma matrix")
	}
	r, c := g.Dims()
	if r != sg.NLevels() || c != sg.NChannels() {
		return rmerr.Config("gamma", "gamma matrix is %dx%d, the spin group needs %dx%d", r, c, sg.NLevels(), sg.NChannels())
	}
	gamma := mat.DenseCopyOf(g)
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, gamma)
		if floats.HasNaN(col) || math.IsInf(floats.Max(col), 1) || math.IsInf(floats.Min(col), -1) {
			return rmerr.Config("gamma", "non-finite element in gamma matrix").WithChannel(j)
		}
	}
	st, err := sg.compute(gamma)
	if err != nil {
		return rmerr.Decorate(err, "UpdateGammaMatrix")
	}
	channels := make([]*Channel, c)
	for j, ch := range sg.channels {
		channels[j] = ch.copy()
		channels[j].amplitudes = mat.Col(nil, j, gamma)
	}
	sg.gamma = gamma
	sg.channels = channels
	sg.st = st
	return nil
}

//Clone returns a deep copy of the spin group.
func (sg *SpinGroup) Clone() *SpinGroup {
	ret := *sg
	ret.resonances = append([]float64(nil), sg.resonances...)
	ret.grid = append([]float64(nil), sg.grid...)
	ret.channels = make([]*Channel, len(sg.channels))
	for i, c := range sg.channels {
		ret.channels[i] = c.copy()
	}
	ret.gamma = mat.DenseCopyOf(sg.gamma)
	ret.vals = make([][]kin.Values, len(sg.vals))
	for i, v := range sg.vals {
		ret.vals[i] = append([]kin.Values(nil), v...)
	}
	ret.st = sg.st.clone()
	return &ret
}

func (s *state) clone() *state {
	if s == nil {
		return nil
	}
	cp := func(m []*mat.CDense) []*mat.CDense {
		r := make([]*mat.CDense, len(m))
		for i, v := range m {
			r[i] = cmat.Copy(v)
		}
		return r
	}
	ret := &state{
		levelInv: cp(s.levelInv),
		levelA:   cp(s.levelA),
		u:        cp(s.u),
		partial:  make([][]float64, len(s.partial)),
		total:    append([]float64(nil), s.total...),
		cond:     append([]float64(nil), s.cond...),
		defect:   s.defect,
	}
	for i, p := range s.partial {
		ret.partial[i] = append([]float64(nil), p...)
	}
	return ret
}

//WithGammaMatrix returns a copy of the spin group with the gamma matrix g.
//The receiver is not modified.
func (sg *SpinGroup) WithGammaMatrix(g mat.Matrix) (*SpinGroup, error) {
	ret := sg.Clone()
	if err := ret.UpdateGammaMatrix(g); err != nil {
		return nil, rmerr.Decorate(err, "WithGammaMatrix")
	}
	return ret, nil
}

func (sg *SpinGroup) check(i, n int) {
	if i < 0 || i >= n {
		panic(rmerr.ErrIndexOutOfRange)
	}
	if sg.st == nil {
		panic(rmerr.ErrNotBuilt)
	}
}

//EnergyGrid returns a copy of the energy grid, in eV.
func (sg *SpinGroup) EnergyGrid() []float64 { return append([]float64(nil), sg.grid...) }

//Resonances returns a copy of the resonance energies, in eV.
func (sg *SpinGroup) Resonances() []float64 { return append([]float64(nil), sg.resonances...) }

//Channels returns copies of all the channels, the entrance first.
func (sg *SpinGroup) Channels() []*Channel {
	ret := make([]*Channel, len(sg.channels))
	for i, c := range sg.channels {
		ret[i] = c.copy()
	}
	return ret
}

//Entrance returns a copy of the entrance channel.
func (sg *SpinGroup) Entrance() *Channel { return sg.channels[0].copy() }

//GammaMatrix returns a copy of the L x C gamma matrix.
func (sg *SpinGroup) GammaMatrix() *mat.Dense { return mat.DenseCopyOf(sg.gamma) }

//LevelMatrix returns a copy of the level matrix A^-1 at grid point i.
func (sg *SpinGroup) LevelMatrix(i int) *mat.CDense {
	sg.check(i, len(sg.grid))
	return cmat.Copy(sg.st.levelInv[i])
}

//InverseLevelMatrix returns a copy of A, the inverse of the level matrix, at grid point i.
func (sg *SpinGroup) InverseLevelMatrix(i int) *mat.CDense {
	sg.check(i, len(sg.grid))
	return cmat.Copy(sg.st.levelA[i])
}

//CollisionMatrix returns a copy of U at grid point i.
func (sg *SpinGroup) CollisionMatrix(i int) *mat.CDense {
	sg.check(i, len(sg.grid))
	return cmat.Copy(sg.st.u[i])
}

//Kinematics returns the kinematics of every channel at grid point i.
func (sg *SpinGroup) Kinematics(i int) []kin.Values {
	sg.check(i, len(sg.grid))
	return append([]kin.Values(nil), sg.vals[i]...)
}

//Condition returns the condition number of the level matrix at grid point i.
func (sg *SpinGroup) Condition(i int) float64 {
	sg.check(i, len(sg.grid))
	return sg.st.cond[i]
}

//TotalCrossSection returns the total cross section over the grid, in barns.
func (sg *SpinGroup) TotalCrossSection() []float64 {
	sg.check(0, 1)
	return append([]float64(nil), sg.st.total...)
}

//CrossSection returns the partial cross section of channel c over the grid, in barns.
//For the entrance channel it is the elastic cross section.
func (sg *SpinGroup) CrossSection(c int) []float64 {
	sg.check(c, len(sg.channels))
	return append([]float64(nil), sg.st.partial[c]...)
}

//CrossSections returns all the partial cross sections, one row per channel.
func (sg *SpinGroup) CrossSections() [][]float64 {
	ret := make([][]float64, len(sg.channels))
	for c := range ret {
		ret[c] = sg.CrossSection(c)
	}
	return ret
}

//StatisticalWeight returns g = (2J+1)/((2i+1)(2I+1)) for the entrance channel.
func (sg *SpinGroup) StatisticalWeight() float64 {
	return xs.StatisticalFactor(sg.J(), sg.spinWeight)
}

func (sg *SpinGroup) J() float64     { return sg.channels[0].J() }
func (sg *SpinGroup) Parity() int    { return sg.channels[0].Parity() }
func (sg *SpinGroup) NLevels() int   { return len(sg.resonances) }
func (sg *SpinGroup) NChannels() int { return len(sg.channels) }
func (sg *SpinGroup) NEnergies() int { return len(sg.grid) }

//MaxUnitarityDefect returns the largest max|U^H U - I| over the grid.
func (sg *SpinGroup) MaxUnitarityDefect() float64 {
	sg.check(0, 1)
	return sg.st.defect
}
