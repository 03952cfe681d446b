package deck

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/rmera/rmatrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndBuild(Te *testing.T) {
	d, err := Load("testdata/ta181.yaml")
	require.NoError(Te, err)
	require.Len(Te, d.SpinGroups, 2)
	assert.Equal(Te, 1e-9, d.Options.UnitarityTol)

	groups, err := d.Build()
	require.NoError(Te, err)
	require.Len(Te, groups, 2)

	g := groups[0]
	assert.Equal(Te, "3+", g.Name)
	assert.Equal(Te, 3, g.NChannels())
	assert.Equal(Te, 301, g.NEnergies())
	assert.InEpsilon(Te, 0.3304104683519032*7/16, g.TotalCrossSection()[0], 1e-8)

	g = groups[1]
	assert.Equal(Te, []float64{0.9e6, 0.95e6, 1e6}, g.EnergyGrid())
	assert.Equal(Te, 9.0/16, g.StatisticalWeight())
	w, err := g.Entrance().PartialWidths(g.Resonances())
	require.NoError(Te, err)
	assert.InEpsilon(Te, 1e4, w[0], 1e-12)
	assert.Positive(Te, g.CrossSection(1)[1])
}

func TestGrid(Te *testing.T) {
	e, err := GridConfig{Min: 1, Max: 3, Points: 3}.Energies()
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, 2, 3}, e)

	e, err = GridConfig{Min: 1, Max: 100, Points: 3, Spacing: "log"}.Energies()
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{1, 10, 100}, e, 1e-12)

	e, err = GridConfig{Min: 1, Max: 2}.Energies()
	require.NoError(Te, err)
	assert.Len(Te, e, DefaultPoints)

	for _, g := range []GridConfig{
		{Min: 2, Max: 1},
		{Min: 1, Max: 2, Points: 1},
		{Min: 0, Max: 2, Spacing: "log"},
		{Min: 1, Max: 2, Spacing: "cubic"},
	} {
		_, err := g.Energies()
		assert.True(Te, errors.Is(err, rmatrix.ErrConfiguration), "%+v", g)
	}
}

func TestBadDecks(Te *testing.T) {
	base := func() *Deck {
		d, err := Load("testdata/ta181.yaml")
		require.NoError(Te, err)
		return d
	}
	cases := map[string]func(d *Deck){
		"no spin groups":    func(d *Deck) { d.SpinGroups = nil },
		"unknown target":    func(d *Deck) { d.SpinGroups[0].Elastic.Target = "180Hf" },
		"unknown product":   func(d *Deck) { d.SpinGroups[0].Captures[0].Product = "183Ta" },
		"both amplitudes":   func(d *Deck) { d.SpinGroups[0].Elastic.PartialWidths = []float64{1, 1} },
		"no amplitudes":     func(d *Deck) { d.SpinGroups[0].Captures[1].Amplitudes = nil },
		"elastic p-wave":    func(d *Deck) { d.SpinGroups[0].Elastic.Ell = 1 },
		"unlabeled":         func(d *Deck) { d.Particles[0].Label = "" },
		"negative spin":     func(d *Deck) { d.Particles[0].Spin = -1 },
		"bad grid":          func(d *Deck) { d.Grid.Spacing = "cubic" },
		"missing resonance": func(d *Deck) { d.SpinGroups[1].Resonances = nil },
	}
	for name, f := range cases {
		d := base()
		f(d)
		_, err := d.Build()
		assert.True(Te, errors.Is(err, rmatrix.ErrConfiguration), name)
	}
	_, err := Parse([]byte("spin_groups: {"))
	assert.True(Te, errors.Is(err, rmatrix.ErrConfiguration))
}

func TestSaveLoad(Te *testing.T) {
	d, err := Load("testdata/ta181.yaml")
	require.NoError(Te, err)
	name := filepath.Join(Te.TempDir(), "deck.yaml")
	require.NoError(Te, Save(name, d))
	d2, err := Load(name)
	require.NoError(Te, err)
	assert.Equal(Te, d, d2)
}

func TestEngineOptions(Te *testing.T) {
	o := OptionsConfig{Cpus: 2, MaxCond: 1e10, Debug: true}.EngineOptions()
	assert.Equal(Te, 2, o.Cpus())
	assert.Equal(Te, 1e10, o.MaxCond())
	assert.Equal(Te, 1e-9, o.UnitarityTol())
	assert.True(Te, o.Debug())
	assert.False(Te, math.IsNaN(o.AdditivityTol()))
}
