package multigroup

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestLinear(Te *testing.T) {
	grid := floats.Span(make([]float64, 11), 0, 10)
	xs := make([]float64, len(grid))
	for i, e := range grid {
		xs[i] = 2*e + 1
	}
	//The flat average of a line is its midpoint value, also for
	//boundaries between grid points.
	d, err := New("line", grid, xs, []float64{0, 2.5, 7, 10}, Flat)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{3.5, 10.5, 18}, d.Values(), 1e-12)
	lo, hi, v := d.Group(1)
	assert.Equal(Te, 2.5, lo)
	assert.Equal(Te, 7.0, hi)
	assert.InDelta(Te, 10.5, v, 1e-12)
}

func TestInverseWeight(Te *testing.T) {
	grid := floats.LogSpan(make([]float64, 2001), 1, 100)
	xs := make([]float64, len(grid))
	for i, e := range grid {
		xs[i] = 1 / math.Sqrt(e)
	}
	//∫E^-3/2 / ∫E^-1 over [1,100] is 1.8/ln(100).
	d, err := New("1/v", grid, xs, []float64{1, 100}, Inverse)
	require.NoError(Te, err)
	assert.InEpsilon(Te, 1.8/math.Log(100), d.Values()[0], 1e-4)
}

func TestCoverage(Te *testing.T) {
	grid := []float64{1, 2, 3}
	xs := []float64{5, 5, 5}
	d, err := New("const", grid, xs, []float64{0, 0.5, 2, 10}, Flat)
	require.NoError(Te, err)
	v := d.Values()
	assert.True(Te, math.IsNaN(v[0]))
	assert.InDelta(Te, 5, v[1], 1e-12)
	assert.InDelta(Te, 5, v[2], 1e-12)
	assert.Contains(Te, d.String(), "const (flat)")
}

func TestErrors(Te *testing.T) {
	_, err := New("x", []float64{1, 2}, []float64{1}, []float64{1, 2}, Flat)
	assert.Error(Te, err)
	_, err = New("x", []float64{1}, []float64{1}, []float64{1, 2}, Flat)
	assert.Error(Te, err)
	_, err = New("x", []float64{1, 2}, []float64{1, 1}, []float64{2, 1}, Flat)
	assert.Error(Te, err)
	_, err = New("x", []float64{0, 2}, []float64{1, 1}, []float64{0, 1}, Inverse)
	assert.Error(Te, err)
	_, err = ParseWeight("maxwellian")
	assert.Error(Te, err)
	w, err := ParseWeight("1/E")
	require.NoError(Te, err)
	assert.Equal(Te, Inverse, w)
}

func TestJSON(Te *testing.T) {
	d, err := New("const", []float64{1, 2, 3}, []float64{4, 4, 4}, []float64{0, 0.5, 3}, Inverse)
	require.NoError(Te, err)
	j, err := json.Marshal(d)
	require.NoError(Te, err)
	assert.Contains(Te, string(j), `"values":[null,4]`)
	d2 := new(Data)
	require.NoError(Te, json.Unmarshal(j, d2))
	assert.Equal(Te, "const", d2.Name())
	assert.Equal(Te, Inverse, d2.Weight())
	assert.Equal(Te, d.Dividers(), d2.Dividers())
	assert.True(Te, math.IsNaN(d2.Values()[0]))
	assert.Equal(Te, 4.0, d2.Values()[1])
	assert.Error(Te, json.Unmarshal([]byte(`{"weight":"flat","dividers":[1],"values":[1]}`), d2))
}
