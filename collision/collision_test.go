package collision

import (
	"errors"
	"testing"

	"github.com/rmera/rmatrix/kin"
	"github.com/rmera/rmatrix/level"
	"github.com/rmera/rmatrix/rmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	ta181Res   = []float64{1e6, 1.1e6}
	ta181Gamma = mat.NewDense(2, 3, []float64{
		106.78913185, 2.51487027e-06, 0.8 * 2.51487027e-06,
		108.99600881, 2.49890268e-06, 0.8 * 2.49890268e-06,
	})
	ta181Pairs = []kin.Pair{
		{Partition: kin.Massive, LightA: 1, HeavyA: 181},
		{Partition: kin.Photon, HeavyA: 182, Separation: 6.8e6},
		{Partition: kin.Photon, HeavyA: 182, Separation: 6.8e6, Excitation: 5e5},
	}
	ta181Ells = []int{0, 1, 1}
)

func ta181Values(Te *testing.T, e float64) []kin.Values {
	vals := make([]kin.Values, len(ta181Pairs))
	for i, p := range ta181Pairs {
		v, err := kin.Evaluate(e, 0.2, ta181Ells[i], p)
		require.NoError(Te, err)
		vals[i] = v
	}
	return vals
}

func TestTa181(Te *testing.T) {
	e := 0.9e6
	vals := ta181Values(Te, e)
	r, err := Solver{}.Solve(e, level.Assemble(ta181Res, e, ta181Gamma, vals), vals, ta181Gamma)
	require.NoError(Te, err)
	assert.Less(Te, r.Defect, 1e-12)
	assert.InDelta(Te, 0.7740475004436881, real(r.U.At(0, 0)), 1e-12)
	assert.InDelta(Te, -0.6331275282728422, imag(r.U.At(0, 0)), 1e-12)
	assert.InDelta(Te, 0.9878432357357243, real(r.U.At(1, 1)), 1e-12)
	//U is symmetric
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			assert.InDelta(Te, real(r.U.At(a, b)), real(r.U.At(b, a)), 1e-15)
			assert.InDelta(Te, imag(r.U.At(a, b)), imag(r.U.At(b, a)), 1e-15)
		}
	}
}

func TestUnitarityOverGrid(Te *testing.T) {
	for e := 1e4; e < 3e6; e += 7.3e4 {
		vals := ta181Values(Te, e)
		r, err := Solver{UnitarityTol: 1e-9}.Solve(e, level.Assemble(ta181Res, e, ta181Gamma, vals), vals, ta181Gamma)
		require.NoError(Te, err, "E=%g", e)
		assert.LessOrEqual(Te, r.Defect, 1e-9)
	}
}

func TestClosedChannelIsDecoupled(Te *testing.T) {
	//the second capture opens at 1.2 MeV
	pairs := []kin.Pair{ta181Pairs[0], {Partition: kin.Photon, HeavyA: 182, Separation: 6.8e6, Excitation: 8e6}}
	gamma := mat.NewDense(1, 2, []float64{100, 1e-3})
	e := 1e6
	vals := make([]kin.Values, 2)
	for i, p := range pairs {
		v, err := kin.Evaluate(e, 0.2, 0, p)
		require.NoError(Te, err)
		vals[i] = v
	}
	require.False(Te, vals[1].Open)
	r, err := Solver{}.Solve(e, level.Assemble([]float64{1.05e6}, e, gamma, vals), vals, gamma)
	require.NoError(Te, err)
	assert.Equal(Te, complex(1, 0), r.U.At(1, 1))
	assert.Equal(Te, complex(0, 0), r.U.At(0, 1))
}

func TestSingular(Te *testing.T) {
	gamma := mat.NewDense(1, 1, []float64{0})
	vals := ta181Values(Te, 1e6)[:1]
	_, err := Solver{}.Solve(1e6, level.Assemble([]float64{1e6}, 1e6, gamma, vals), vals, gamma)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, rmerr.ErrInstability))
	var e *rmerr.Error
	require.True(Te, errors.As(err, &e))
	en, ok := e.Energy()
	assert.True(Te, ok)
	assert.Equal(Te, 1e6, en)
	assert.True(Te, e.Critical())
}

func TestNotUnitary(Te *testing.T) {
	e := 0.9e6
	vals := ta181Values(Te, e)
	//A level matrix that misses the elastic channel makes U non-unitary.
	lm := level.Assemble(ta181Res, e, ta181Gamma.Slice(0, 2, 1, 3), vals[1:])
	r, err := Solver{}.Solve(e, lm, vals, ta181Gamma)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, rmerr.ErrInvariant))
	require.NotNil(Te, r)
	assert.Greater(Te, r.Defect, 1e-9)
}
