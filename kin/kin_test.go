package kin

import (
	"errors"
	"math"
	"testing"

	"github.com/rmera/rmatrix/rmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nTa181  = Pair{Partition: Massive, LightA: 1, HeavyA: 181}
	nNe20   = Pair{Partition: Massive, LightA: 1, HeavyA: 20}
	gNe20   = Pair{Partition: Photon, HeavyA: 20, Separation: 6.6e6}
	gTa182x = Pair{Partition: Photon, HeavyA: 182, Separation: 6.8e6, Excitation: 5e5}
)

//TestReferencePenetrabilities checks values quoted for the same channels by
//other codes.
func TestReferencePenetrabilities(Te *testing.T) {
	cases := []struct {
		name   string
		e, a   float64
		ell    int
		pair   Pair
		expect float64
	}{
		{"n+181Ta thermal", 1e-5, 0.2, 0, nTa181, 1.38191188e-06},
		{"n+20Ne 1 MeV", 1e6, 0.532, 0, nNe20, 1.11567655},
		{"n+20Ne 1.1 MeV", 1.1e6, 0.532, 0, nNe20, 1.17013143},
		{"g+20Ne 1 MeV", 1e6, 0.532, 0, gNe20, 0.20489882},
		{"g+20Ne 1.1 MeV", 1.1e6, 0.532, 0, gNe20, 0.20759486},
	}
	for _, c := range cases {
		Te.Run(c.name, func(Te *testing.T) {
			v, err := Evaluate(c.e, c.a, c.ell, c.pair)
			require.NoError(Te, err)
			assert.True(Te, v.Open)
			assert.InEpsilon(Te, c.expect, v.P, 1e-7)
		})
	}
}

func TestPhotonMultipoles(Te *testing.T) {
	for ell := 0; ell <= MaxPhotonL; ell++ {
		v, err := Evaluate(1e6, 0.2, ell, gTa182x)
		require.NoError(Te, err)
		assert.InEpsilon(Te, math.Pow(v.Rho, float64(2*ell+1)), v.P, 1e-12)
		assert.Equal(Te, 0.0, v.S)
		assert.Equal(Te, v.Rho, v.Phi)
	}
	k, open := WaveNumber(1e6, gTa182x)
	assert.True(Te, open)
	assert.InEpsilon(Te, (6.8e6+1e6-5e5)/HbarC, k, 1e-12)
}

func TestClosedChannel(Te *testing.T) {
	//The excitation puts the threshold at 1.2 MeV.
	p := Pair{Partition: Photon, HeavyA: 182, Separation: 6.8e6, Excitation: 8e6}
	assert.Equal(Te, 1.2e6, p.Threshold())
	v, err := Evaluate(1e6, 0.2, 1, p)
	require.NoError(Te, err)
	assert.False(Te, v.Open)
	assert.Equal(Te, 0.0, v.P)
	assert.Equal(Te, 0.0, v.Phi)
	assert.Greater(Te, v.K, 0.0)

	v, err = Evaluate(-1, 0.2, 0, nTa181)
	require.NoError(Te, err)
	assert.False(Te, v.Open)
	assert.Equal(Te, 0.0, v.P)
}

func TestUnsupported(Te *testing.T) {
	_, err := Evaluate(1e6, 0.2, 1, nTa181)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, rmerr.ErrUnsupported))
	_, err = Evaluate(1e6, 0.2, MaxPhotonL+1, gTa182x)
	assert.True(Te, errors.Is(err, rmerr.ErrConfiguration))
	_, err = Evaluate(1e6, 0.2, -1, gTa182x)
	assert.True(Te, errors.Is(err, rmerr.ErrUnsupported))
	assert.Panics(Te, func() { Penetrability(0.1, 3, Photon) })
}

func TestBadInput(Te *testing.T) {
	_, err := Evaluate(1e6, 0, 0, nTa181)
	assert.True(Te, errors.Is(err, rmerr.ErrConfiguration))
	_, err = Evaluate(1e6, -0.2, 0, nTa181)
	assert.True(Te, errors.Is(err, rmerr.ErrConfiguration))
	_, err = Evaluate(math.NaN(), 0.2, 0, nTa181)
	assert.True(Te, errors.Is(err, rmerr.ErrConfiguration))
	_, err = Evaluate(1e6, 0.2, 0, Pair{Partition: Massive, HeavyA: 10})
	assert.True(Te, errors.Is(err, rmerr.ErrConfiguration))
}
