/*
 * deck.go, part of rmatrix.
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

//Package deck reads R-matrix input decks. A deck is a YAML file that
//declares particles, an energy grid and any number of spin groups, each with
//its resonances, its elastic entrance channel and its capture channels.
//Amplitudes can be given directly or as partial widths.
//
//	particles:
//	  - {label: 181Ta, A: 181, Z: 73, spin: 3.5}
//	  - {label: 182Ta, A: 182, Z: 73, sn: 6.8e6}
//	grid: {min: 0.9e6, max: 1.2e6, points: 1001}
//	spin_groups:
//	  - name: 3+
//	    J: 3
//	    parity: 1
//	    resonances: [1e6, 1.1e6]
//	    elastic: {light: n, target: 181Ta, radius: 0.2, amplitudes: [106.789, 108.996]}
//	    captures:
//	      - {product: 182Ta, ell: 1, radius: 0.2, amplitudes: [2.5149e-6, 2.4989e-6]}
//
//The particles "n" and "g" (neutron and photon) are always defined.
package deck

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rmera/rmatrix"
	"github.com/rmera/rmatrix/rmerr"
	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPoints  = 1001
	DefaultSpacing = "linear"
)

//Deck is the content of an input deck.
type Deck struct {
	Particles  []ParticleConfig  `yaml:"particles"`
	Grid       GridConfig        `yaml:"grid"`
	SpinGroups []SpinGroupConfig `yaml:"spin_groups"`
	Options    OptionsConfig     `yaml:"options,omitempty"`
}

type ParticleConfig struct {
	Label string  `yaml:"label"`
	A     int     `yaml:"A"`
	Z     int     `yaml:"Z"`
	Sn    float64 `yaml:"sn,omitempty"`
	Spin  float64 `yaml:"spin,omitempty"`
}

//GridConfig is either an explicit list of energies or a range.
//Spacing is "linear" or "log".
type GridConfig struct {
	Energies []float64 `yaml:"energies,omitempty"`
	Min      float64   `yaml:"min,omitempty"`
	Max      float64   `yaml:"max,omitempty"`
	Points   int       `yaml:"points,omitempty"`
	Spacing  string    `yaml:"spacing,omitempty"`
}

type SpinGroupConfig struct {
	Name       string          `yaml:"name"`
	J          float64         `yaml:"J"`
	Parity     int             `yaml:"parity"`
	Resonances []float64       `yaml:"resonances"`
	Elastic    ChannelConfig   `yaml:"elastic"`
	Captures   []ChannelConfig `yaml:"captures,omitempty"`
	Grid       *GridConfig     `yaml:"grid,omitempty"` //overrides the deck grid
}

//ChannelConfig describes one channel. Light and Target are used by elastic
//channels, Product and Excitation by capture channels. Exactly one of
//Amplitudes and PartialWidths must be given.
type ChannelConfig struct {
	Light         string    `yaml:"light,omitempty"`
	Target        string    `yaml:"target,omitempty"`
	Product       string    `yaml:"product,omitempty"`
	Ell           int       `yaml:"ell"`
	Radius        float64   `yaml:"radius"`
	Excitation    float64   `yaml:"excitation,omitempty"`
	Amplitudes    []float64 `yaml:"amplitudes,omitempty"`
	PartialWidths []float64 `yaml:"partial_widths,omitempty"`
}

//OptionsConfig holds the numerical settings. Zero values mean "use the default".
type OptionsConfig struct {
	Cpus          int     `yaml:"cpus,omitempty"`
	UnitarityTol  float64 `yaml:"unitarity_tol,omitempty"`
	AdditivityTol float64 `yaml:"additivity_tol,omitempty"`
	MaxCond       float64 `yaml:"max_cond,omitempty"`
	Debug         bool    `yaml:"debug,omitempty"`
}

//Group is a computed spin group and its name in the deck.
type Group struct {
	Name string
	*rmatrix.SpinGroup
}

//Load reads a deck from a YAML file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, rmerr.Decorate(err, path)
	}
	return d, nil
}

//Parse reads a deck from YAML data.
func Parse(data []byte) (*Deck, error) {
	d := new(Deck)
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, rmerr.Config("deck", "can't parse deck: %v", err)
	}
	return d, nil
}

//Save writes the deck to a YAML file.
func Save(path string, d *Deck) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

//Energies returns the grid energies in eV.
func (g GridConfig) Energies() ([]float64, error) {
	if len(g.Energies) > 0 {
		return append([]float64(nil), g.Energies...), nil
	}
	n := g.Points
	if n == 0 {
		n = DefaultPoints
	}
	if n < 2 {
		return nil, rmerr.Config("grid.points", "a grid range needs at least 2 points, got %d", n)
	}
	if !(g.Max > g.Min) {
		return nil, rmerr.Config("grid", "grid max (%g) must be larger than min (%g)", g.Max, g.Min)
	}
	dst := make([]float64, n)
	switch g.Spacing {
	case "", "linear":
		return floats.Span(dst, g.Min, g.Max), nil
	case "log":
		if !(g.Min > 0) {
			return nil, rmerr.Config("grid.min", "a log grid needs min > 0, got %g", g.Min)
		}
		return floats.LogSpan(dst, g.Min, g.Max), nil
	default:
		return nil, rmerr.Config("grid.spacing", "unknown grid spacing %q", g.Spacing)
	}
}

//EngineOptions returns the engine options set by the deck, on top of the defaults.
func (o OptionsConfig) EngineOptions() *rmatrix.Options {
	r := rmatrix.DefaultOptions()
	r.Cpus(o.Cpus)
	r.UnitarityTol(o.UnitarityTol)
	r.AdditivityTol(o.AdditivityTol)
	r.MaxCond(o.MaxCond)
	r.Debug(o.Debug)
	return r
}

//particles returns the particles of the deck by label.
func (d *Deck) particles() (map[string]rmatrix.Particle, error) {
	m := map[string]rmatrix.Particle{
		"n": rmatrix.Neutron(),
		"g": rmatrix.Photon(),
	}
	for i, pc := range d.Particles {
		if pc.Label == "" {
			return nil, rmerr.Config(fmt.Sprintf("particles[%d].label", i), "particle without label")
		}
		p, err := rmatrix.NewParticle(pc.Label, pc.A, pc.Z, pc.Sn, pc.Spin)
		if err != nil {
			return nil, rmerr.Decorate(err, fmt.Sprintf("particles[%d]", i))
		}
		m[pc.Label] = p
	}
	return m, nil
}

//Build computes every spin group in the deck. opts, if given, replaces the
//options in the deck. Spin groups are independent and are computed
//concurrently. The first failing spin group, in deck order, is reported.
func (d *Deck) Build(opts ...*rmatrix.Options) ([]Group, error) {
	if len(d.SpinGroups) == 0 {
		return nil, rmerr.Config("spin_groups", "the deck has no spin groups")
	}
	o := d.Options.EngineOptions()
	if len(opts) > 0 && opts[0] != nil {
		o = opts[0]
	}
	parts, err := d.particles()
	if err != nil {
		return nil, err
	}
	ret := make([]Group, len(d.SpinGroups))
	errs := make([]error, len(d.SpinGroups))
	p := pool.New().WithMaxGoroutines(runtime.NumCPU())
	for i := range d.SpinGroups {
		p.Go(func() {
			sg, err := d.buildGroup(i, parts, o)
			ret[i] = Group{Name: d.SpinGroups[i].Name, SpinGroup: sg}
			errs[i] = err
		})
	}
	p.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (d *Deck) buildGroup(i int, parts map[string]rmatrix.Particle, o *rmatrix.Options) (*rmatrix.SpinGroup, error) {
	sc := d.SpinGroups[i]
	where := fmt.Sprintf("spin_groups[%d]", i)
	if sc.Name != "" {
		where = fmt.Sprintf("spin group %s", sc.Name)
	}
	gc := d.Grid
	if sc.Grid != nil {
		gc = *sc.Grid
	}
	grid, err := gc.Energies()
	if err != nil {
		return nil, rmerr.Decorate(err, where)
	}
	if sc.Parity == 0 {
		sc.Parity = 1
	}
	light, target, err := lookup(parts, sc.Elastic.Light, sc.Elastic.Target, "n")
	if err != nil {
		return nil, rmerr.Decorate(err, where+".elastic")
	}
	el, err := rmatrix.NewElastic(light, target, sc.J, sc.Parity, sc.Elastic.Ell, sc.Elastic.Radius, sc.Elastic.Amplitudes)
	if err != nil {
		return nil, rmerr.Decorate(err, where+".elastic")
	}
	el, err = amplitudes(el, sc.Elastic, sc.Resonances)
	if err != nil {
		return nil, rmerr.Decorate(err, where+".elastic")
	}
	b := rmatrix.NewBuilder(sc.Resonances, el, grid, o)
	for j, cc := range sc.Captures {
		cw := fmt.Sprintf("%s.captures[%d]", where, j)
		photon, product, err := lookup(parts, cc.Light, cc.Product, "g")
		if err != nil {
			return nil, rmerr.Decorate(err, cw)
		}
		ch, err := rmatrix.NewCapture(photon, product, sc.J, sc.Parity, cc.Ell, cc.Radius, cc.Excitation, cc.Amplitudes)
		if err != nil {
			return nil, rmerr.Decorate(err, cw)
		}
		if ch, err = amplitudes(ch, cc, sc.Resonances); err != nil {
			return nil, rmerr.Decorate(err, cw)
		}
		if err := b.AddChannel(ch); err != nil {
			return nil, rmerr.Decorate(err, cw)
		}
	}
	sg, err := b.Build()
	if err != nil {
		return nil, rmerr.Decorate(err, where)
	}
	return sg, nil
}

func lookup(parts map[string]rmatrix.Particle, light, heavy, defLight string) (rmatrix.Particle, rmatrix.Particle, error) {
	if light == "" {
		light = defLight
	}
	l, ok := parts[light]
	if !ok {
		return l, l, rmerr.Config("light", "unknown particle %q", light)
	}
	h, ok := parts[heavy]
	if !ok {
		return l, h, rmerr.Config("target", "unknown particle %q", heavy)
	}
	return l, h, nil
}

func amplitudes(ch *rmatrix.Channel, cc ChannelConfig, resonances []float64) (*rmatrix.Channel, error) {
	switch {
	case len(cc.Amplitudes) > 0 && len(cc.PartialWidths) > 0:
		return nil, rmerr.Config("amplitudes", "give either amplitudes or partial widths, not both")
	case len(cc.PartialWidths) > 0:
		return ch.WithPartialWidths(cc.PartialWidths, resonances)
	case len(cc.Amplitudes) == 0:
		return nil, rmerr.Config("amplitudes", "no amplitudes or partial widths given")
	}
	return ch, nil
}
