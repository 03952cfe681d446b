/*
 * main.go, part of rmatrix.
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

//Command rmatrix computes R-matrix cross sections for the spin groups in a
//YAML deck, and writes them as tables and, optionally, plots.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/rmera/rmatrix/deck"
	"github.com/rmera/rmatrix/multigroup"
	"github.com/rmera/rmatrix/xs"
	"github.com/rmera/rmatrix/xsio"
	"github.com/rmera/rmatrix/xsplot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "rmatrix",
		Short:        "multichannel R-matrix cross sections",
		SilenceUsage: true,
	}
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/rmatrix/rmatrix.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	runCmd := &cobra.Command{
		Use:   "run [deck]",
		Short: "compute the spin groups of a deck and write their cross sections",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeck,
	}
	runCmd.Flags().Int("cpus", 0, "goroutines per spin group (0: all CPUs)")
	runCmd.Flags().Float64("unitarity-tol", 0, "unitarity tolerance")
	runCmd.Flags().Float64("additivity-tol", 0, "additivity tolerance, in units of g pi/k^2")
	runCmd.Flags().Float64("max-cond", 0, "largest condition number accepted for a level matrix")
	runCmd.Flags().Bool("debug", false, "log the matrices at the first energy of each spin group")
	runCmd.Flags().StringP("out", "o", ".", "output directory")
	runCmd.Flags().String("compression", "zst", "table compression: zst, gz, flate, lzw or none")
	runCmd.Flags().String("plot", "", "also draw each spin group in this format (png, svg, pdf)")
	runCmd.Flags().Bool("preview", true, "print a terminal preview of the total cross sections")
	bind(runCmd, map[string]string{
		"cpus":           keyCpus,
		"unitarity-tol":  keyUnitarityTol,
		"additivity-tol": keyAdditivityTol,
		"max-cond":       keyMaxCond,
		"debug":          keyDebug,
		"out":            keyOutDir,
		"compression":    keyCompression,
		"plot":           keyPlot,
		"preview":        keyPreview,
	})

	checkCmd := &cobra.Command{
		Use:   "check [deck]",
		Short: "compute the spin groups of a deck and report the invariant checks",
		Args:  cobra.ExactArgs(1),
		RunE:  checkDeck,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [table] [image]",
		Short: "draw a cross-section table",
		Args:  cobra.ExactArgs(2),
		RunE:  plotTable,
	}
	plotCmd.Flags().Bool("linear", false, "linear cross-section axis")
	plotCmd.Flags().Bool("logx", false, "logarithmic energy axis")
	plotCmd.Flags().String("title", "", "plot title")

	groupsCmd := &cobra.Command{
		Use:   "groups [table]",
		Short: "average the columns of a cross-section table over energy groups",
		Args:  cobra.ExactArgs(1),
		RunE:  groupTable,
	}
	groupsCmd.Flags().Float64Slice("bounds", nil, "group boundaries, in eV (required)")
	groupsCmd.Flags().String("weight", "flat", "weighting spectrum: flat or 1/E")
	groupsCmd.Flags().Bool("json", false, "print the groups as JSON")
	_ = groupsCmd.MarkFlagRequired("bounds")

	rootCmd.AddCommand(runCmd, checkCmd, plotCmd, groupsCmd)
	return rootCmd
}

func bind(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func load(path string) ([]deck.Group, error) {
	d, err := deck.Load(path)
	if err != nil {
		return nil, err
	}
	return d.Build(engineOptions(d))
}

func runDeck(cmd *cobra.Command, args []string) error {
	groups, err := load(args[0])
	if err != nil {
		return err
	}
	dir := viper.GetString(keyOutDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	out := cmd.OutOrStdout()
	for i, g := range groups {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("sg%d", i)
		}
		t := xsio.FromSpinGroup(name, g.SpinGroup)
		file := filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, sanitize(name), tableSuffix()))
		if err := xsio.Write(file, t); err != nil {
			return err
		}
		fmt.Fprintf(out, "spin group %s: %d levels, %d channels, %d energies -> %s\n", name, g.NLevels(), g.NChannels(), g.NEnergies(), file)
		if format := viper.GetString(keyPlot); format != "" {
			o := xsplot.DefaultOptions()
			o.Title = fmt.Sprintf("%s J=%g", name, g.J())
			img := strings.TrimSuffix(file, tableSuffix()) + "." + strings.TrimPrefix(format, ".")
			if err := xsplot.Save(t, img, o); err != nil {
				log.Printf("rmatrix: can't plot spin group %s: %v", name, err)
			}
		}
		if viper.GetBool(keyPreview) {
			fmt.Fprintln(out, asciigraph.Plot(g.TotalCrossSection(),
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("total cross section (b), %g to %g eV", g.EnergyGrid()[0], g.EnergyGrid()[g.NEnergies()-1])),
			))
		}
	}
	return nil
}

func checkDeck(cmd *cobra.Command, args []string) error {
	groups, err := load(args[0])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tJ\tPARITY\tg\tMAX|U+U-I|\tMAX|TOT-SUM|/(g pi/k^2)")
	for _, g := range groups {
		total := g.TotalCrossSection()
		partial := g.CrossSections()
		worst := 0.0
		for i := range total {
			sum := 0.0
			for c := range partial {
				sum += partial[c][i]
			}
			d := (total[i] - sum) / xs.Scale(g.StatisticalWeight(), g.Kinematics(i)[0].K)
			if d < 0 {
				d = -d
			}
			worst = max(worst, d)
		}
		fmt.Fprintf(w, "%s\t%g\t%+d\t%g\t%.3g\t%.3g\n", g.Name, g.J(), g.Parity(), g.StatisticalWeight(), g.MaxUnitarityDefect(), worst)
	}
	return w.Flush()
}

func plotTable(cmd *cobra.Command, args []string) error {
	t, err := xsio.Read(args[0])
	if err != nil {
		return err
	}
	o := xsplot.DefaultOptions()
	o.LogY = !mustBool(cmd, "linear")
	o.LogX = mustBool(cmd, "logx")
	o.Title, _ = cmd.Flags().GetString("title")
	if o.Title == "" {
		o.Title = t.Header["group"]
	}
	return xsplot.Save(t, args[1], o)
}

func groupTable(cmd *cobra.Command, args []string) error {
	t, err := xsio.Read(args[0])
	if err != nil {
		return err
	}
	bounds, _ := cmd.Flags().GetFloat64Slice("bounds")
	ws, _ := cmd.Flags().GetString("weight")
	w, err := multigroup.ParseWeight(ws)
	if err != nil {
		return err
	}
	groups := make([]*multigroup.Data, 0, len(t.Columns))
	for i, c := range t.Columns {
		g, err := multigroup.New(c, t.Energy, t.Data[i], bounds, w)
		if err != nil {
			return err
		}
		groups = append(groups, g)
	}
	out := cmd.OutOrStdout()
	if mustBool(cmd, "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}
	for _, g := range groups {
		fmt.Fprintln(out, g)
	}
	return nil
}

func mustBool(cmd *cobra.Command, name string) bool {
	b, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(err)
	}
	return b
}

//sanitize makes a spin group name usable in a file name.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, name)
}
