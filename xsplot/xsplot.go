/*
 * xsplot.go, part of rmatrix.
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

//Package xsplot draws cross-section tables with gonum/plot.
package xsplot

import (
	"fmt"

	"github.com/rmera/rmatrix/xsio"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//Options controls the look of a plot.
type Options struct {
	Title   string
	LogX    bool
	LogY    bool
	Columns []string //the table columns to draw. All of them if empty.
	Width   vg.Length
	Height  vg.Length
}

//DefaultOptions returns options for a 6x4 inch plot of all the columns,
//with a logarithmic cross-section axis.
func DefaultOptions() Options {
	return Options{LogY: true, Width: 6 * vg.Inch, Height: 4 * vg.Inch}
}

func basicPlot(o Options) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = o.Title
	p.X.Label.Text = "E (eV)"
	p.Y.Label.Text = "σ (b)"
	if o.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if o.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

//Plot returns a plot with one line per column of the table. On logarithmic
//axes, points with non-positive values are left out.
func Plot(t *xsio.Table, o Options) (*plot.Plot, error) {
	if t == nil || len(t.Energy) == 0 {
		return nil, fmt.Errorf("xsplot: empty table")
	}
	cols := o.Columns
	if len(cols) == 0 {
		cols = t.Columns
	}
	p := basicPlot(o)
	drawn := 0
	for i, name := range cols {
		data := t.Column(name)
		if data == nil {
			return nil, fmt.Errorf("xsplot: no column %q in table", name)
		}
		pts := make(plotter.XYs, 0, len(data))
		for j, y := range data {
			x := t.Energy[j]
			if (o.LogY && y <= 0) || (o.LogX && x <= 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("xsplot: column %q: %w", name, err)
		}
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Dashes = plotutil.Dashes(i)
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add(name, l)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("xsplot: nothing to draw")
	}
	return p, nil
}

//Save draws the table to the file name. The format (png, svg, pdf, eps...)
//is taken from the suffix.
func Save(t *xsio.Table, name string, o Options) error {
	p, err := Plot(t, o)
	if err != nil {
		return err
	}
	w, h := o.Width, o.Height
	if w <= 0 || h <= 0 {
		d := DefaultOptions()
		w, h = d.Width, d.Height
	}
	return p.Save(w, h, name)
}
