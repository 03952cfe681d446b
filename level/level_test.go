package level

import (
	"testing"

	"github.com/rmera/rmatrix/cmat"
	"github.com/rmera/rmatrix/kin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSingleLevel(Te *testing.T) {
	v := kin.Values{K: 1e12, Rho: 0.4, P: 0.4, Phi: 0.4, Open: true}
	m := Matrix([]float64{1e6}, 0.9e6, Contribution([]float64{100}, v))
	assert.Equal(Te, complex(1e5, -100*100*0.4), m.At(0, 0))
}

func TestAdditive(Te *testing.T) {
	res := []float64{1e6, 1.1e6}
	gamma := mat.NewDense(2, 2, []float64{
		106.8, 2.5e-6,
		109.0, 2.5e-6,
	})
	vals := []kin.Values{
		{P: 0.41, Open: true},
		{P: 4.7e-4, S: 0.01, Open: true},
	}
	all := Assemble(res, 0.95e6, gamma, vals)
	c0 := Contribution([]float64{106.8, 109.0}, vals[0])
	c1 := Contribution([]float64{2.5e-6, 2.5e-6}, vals[1])
	assert.True(Te, cmat.EqualApprox(all, Matrix(res, 0.95e6, c0, c1), 0))
	assert.True(Te, cmat.EqualApprox(all, Matrix(res, 0.95e6, c1, c0), 1e-9))

	//symmetric, not Hermitian
	assert.Equal(Te, all.At(0, 1), all.At(1, 0))
	want := -complex(106.8*109.0, 0)*complex(0, 0.41) - complex(2.5e-6*2.5e-6, 0)*complex(0.01, 4.7e-4)
	assert.InDelta(Te, real(want), real(all.At(0, 1)), 1e-12)
	assert.InDelta(Te, imag(want), imag(all.At(0, 1)), 1e-9)
}

//TestTa181Inverse checks the inverted level matrix of a two-level
//181Ta system with one elastic and two primary-gamma channels.
func TestTa181Inverse(Te *testing.T) {
	res := []float64{1e6, 1.1e6}
	gamma := mat.NewDense(2, 3, []float64{
		106.78913185, 2.51487027e-06, 0.8 * 2.51487027e-06,
		108.99600881, 2.49890268e-06, 0.8 * 2.49890268e-06,
	})
	pairs := []kin.Pair{
		{Partition: kin.Massive, LightA: 1, HeavyA: 181},
		{Partition: kin.Photon, HeavyA: 182, Separation: 6.8e6},
		{Partition: kin.Photon, HeavyA: 182, Separation: 6.8e6, Excitation: 5e5},
	}
	ells := []int{0, 1, 1}
	e := 0.9e6
	vals := make([]kin.Values, len(pairs))
	for i, p := range pairs {
		v, err := kin.Evaluate(e, 0.2, ells[i], p)
		require.NoError(Te, err)
		vals[i] = v
	}
	A, cond, err := cmat.Inverse(Assemble(res, e, gamma, vals), 0)
	require.NoError(Te, err)
	assert.Greater(Te, cond, 1.0)
	off := complex(-1.7259179695161207e-08, 2.4003230159056746e-07)
	expected := mat.NewCDense(2, 2, []complex128{
		complex(9.966180544843577e-06, 4.7034458202037105e-07), off,
		off, complex(4.9911920732497884e-06, 1.2249637395497784e-07),
	})
	assert.True(Te, cmat.EqualApprox(expected, A, 1e-14), "got %v", A)
}

func TestClosedChannelDoesNotCouple(Te *testing.T) {
	res := []float64{1e6}
	closed := kin.Values{K: 1e11, Open: false}
	m := Matrix(res, 1.2e6, Contribution([]float64{5}, closed))
	assert.Equal(Te, complex(-2e5, 0), m.At(0, 0))
}

func TestAssembleShape(Te *testing.T) {
	assert.Panics(Te, func() {
		Assemble([]float64{1, 2}, 0, mat.NewDense(1, 1, []float64{1}), []kin.Values{{}})
	})
}
