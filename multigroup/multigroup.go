//Package multigroup collapses pointwise cross sections into energy groups.
//The group value is the weighted average
//
//	σ_g = ∫ σ(E) w(E) dE / ∫ w(E) dE
//
//over the group, with σ interpolated linearly between grid points and the
//integrals done with the trapezoidal rule.
package multigroup

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

//Weight is a weighting spectrum.
type Weight int

const (
	Flat    Weight = iota //w(E) = 1
	Inverse               //w(E) = 1/E, the slowing-down spectrum
)

func (w Weight) String() string {
	switch w {
	case Flat:
		return "flat"
	case Inverse:
		return "1/E"
	default:
		return fmt.Sprintf("Weight(%d)", int(w))
	}
}

//ParseWeight returns the weight named s ("flat", "1/e" or "inverse").
func ParseWeight(s string) (Weight, error) {
	switch strings.ToLower(s) {
	case "", "flat":
		return Flat, nil
	case "1/e", "inverse":
		return Inverse, nil
	}
	return Flat, fmt.Errorf("multigroup: unknown weight %q", s)
}

func (w Weight) at(e float64) float64 {
	if w == Inverse {
		return 1 / e
	}
	return 1
}

//Data holds the group averages of one cross section.
type Data struct {
	name     string
	weight   Weight
	dividers []float64
	values   []float64
}

//New returns the group averages of xs, given on the increasing energy
//grid, over the groups delimited by dividers. Groups, or the parts of them,
//outside the grid are not covered: a group with no overlap gets NaN.
func New(name string, grid, xs, dividers []float64, w Weight) (*Data, error) {
	if len(grid) != len(xs) {
		return nil, fmt.Errorf("multigroup: %d energies for %d values", len(grid), len(xs))
	}
	if len(grid) < 2 {
		return nil, fmt.Errorf("multigroup: at least 2 grid points are needed, got %d", len(grid))
	}
	if len(dividers) < 2 || !sort.Float64sAreSorted(dividers) || floats.HasNaN(dividers) {
		return nil, fmt.Errorf("multigroup: dividers must be at least 2 increasing numbers")
	}
	if w == Inverse && (dividers[0] <= 0 || grid[0] <= 0) {
		return nil, fmt.Errorf("multigroup: a 1/E weight needs positive energies")
	}
	d := &Data{name: name, weight: w, dividers: append([]float64(nil), dividers...)}
	d.values = make([]float64, len(dividers)-1)
	for i := range d.values {
		lo, hi := math.Max(dividers[i], grid[0]), math.Min(dividers[i+1], grid[len(grid)-1])
		if !(hi > lo) {
			d.values[i] = math.NaN()
			continue
		}
		if lo > dividers[i] || hi < dividers[i+1] {
			log.Printf("multigroup: %s: group %g-%g only partly covered by the grid", name, dividers[i], dividers[i+1])
		}
		d.values[i] = average(grid, xs, lo, hi, w)
	}
	return d, nil
}

//average integrates over [lo, hi], which must lie within the grid.
func average(grid, xs []float64, lo, hi float64, w Weight) float64 {
	e := []float64{lo}
	v := []float64{interpolate(grid, xs, lo)}
	for i, g := range grid {
		if g > lo && g < hi {
			e = append(e, g)
			v = append(v, xs[i])
		}
	}
	e = append(e, hi)
	v = append(v, interpolate(grid, xs, hi))
	num := make([]float64, len(e))
	den := make([]float64, len(e))
	for i := range e {
		den[i] = w.at(e[i])
		num[i] = v[i] * den[i]
	}
	return integrate.Trapezoidal(e, num) / integrate.Trapezoidal(e, den)
}

func interpolate(grid, xs []float64, e float64) float64 {
	j := sort.SearchFloat64s(grid, e)
	if j < len(grid) && grid[j] == e {
		return xs[j]
	}
	if j == 0 || j == len(grid) {
		panic("multigroup: energy out of the grid")
	}
	f := (e - grid[j-1]) / (grid[j] - grid[j-1])
	return xs[j-1] + f*(xs[j]-xs[j-1])
}

func (D *Data) Name() string   { return D.name }
func (D *Data) Weight() Weight { return D.weight }
func (D *Data) Len() int       { return len(D.values) }

//Dividers returns a copy of the group boundaries.
func (D *Data) Dividers() []float64 { return append([]float64(nil), D.dividers...) }

//Values returns a copy of the group averages.
func (D *Data) Values() []float64 { return append([]float64(nil), D.values...) }

//Group returns the boundaries and average of group i.
func (D *Data) Group(i int) (lo, hi, v float64) {
	return D.dividers[i], D.dividers[i+1], D.values[i]
}

//String prints the groups in 2 lines: boundaries and values.
func (D *Data) String() string {
	d := make([]string, 0, len(D.values))
	h := make([]string, 0, len(D.values))
	for i, v := range D.values {
		d = append(d, fmt.Sprintf("%11.4g-%-11.4g", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%23.6g", v))
	}
	return fmt.Sprintf("%s (%s)\n%s\n%s", D.name, D.weight, strings.Join(d, " "), strings.Join(h, " "))
}

type jsonData struct {
	Name     string     `json:"name"`
	Weight   string     `json:"weight"`
	Dividers []float64  `json:"dividers"`
	Values   []*float64 `json:"values"` //null for uncovered groups
}

func (D *Data) MarshalJSON() ([]byte, error) {
	v := make([]*float64, len(D.values))
	for i := range D.values {
		if !math.IsNaN(D.values[i]) {
			v[i] = &D.values[i]
		}
	}
	return json.Marshal(jsonData{Name: D.name, Weight: D.weight.String(), Dividers: D.dividers, Values: v})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	w, err := ParseWeight(a.Weight)
	if err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Values)+1 {
		return fmt.Errorf("multigroup: %d dividers for %d groups", len(a.Dividers), len(a.Values))
	}
	D.name, D.weight, D.dividers = a.Name, w, a.Dividers
	D.values = make([]float64, len(a.Values))
	for i, v := range a.Values {
		D.values[i] = math.NaN()
		if v != nil {
			D.values[i] = *v
		}
	}
	return nil
}
