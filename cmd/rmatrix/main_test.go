package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/rmatrix/deck"
	"github.com/rmera/rmatrix/xsio"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ta181 = "../../deck/testdata/ta181.yaml"

func execute(Te *testing.T, args ...string) string {
	Te.Helper()
	viper.Reset()
	Te.Cleanup(viper.Reset)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(Te, cmd.Execute(), out.String())
	return out.String()
}

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	out := execute(Te, "run", ta181, "--out", dir, "--compression", "gz", "--preview=false")
	assert.Contains(Te, out, "spin group 3+")
	files, err := filepath.Glob(filepath.Join(dir, "ta181_*.dat.gz"))
	require.NoError(Te, err)
	assert.Len(Te, files, 2)
	t, err := xsio.Read(filepath.Join(dir, "ta181_3+.dat.gz"))
	require.NoError(Te, err)
	assert.Equal(Te, "3+", t.Header["group"])
	assert.NotEmpty(Te, t.Energy)
}

func TestRunPreviewAndPlot(Te *testing.T) {
	dir := Te.TempDir()
	out := execute(Te, "run", ta181, "-o", dir, "--compression", "none", "--plot", "png")
	assert.Contains(Te, out, "total cross section (b)")
	_, err := os.Stat(filepath.Join(dir, "ta181_3+.png"))
	assert.NoError(Te, err)
	_, err = os.Stat(filepath.Join(dir, "ta181_3+.dat"))
	assert.NoError(Te, err)
}

func TestCheck(Te *testing.T) {
	out := execute(Te, "check", ta181)
	assert.Contains(Te, out, "GROUP")
	assert.Contains(Te, out, "3+")
	assert.Contains(Te, out, "4+")
}

func TestEngineOptions(Te *testing.T) {
	viper.Reset()
	Te.Cleanup(viper.Reset)
	d, err := deck.Load(ta181)
	require.NoError(Te, err)
	base := d.Options.EngineOptions()
	o := engineOptions(d)
	assert.Equal(Te, base.UnitarityTol(), o.UnitarityTol())
	viper.Set(keyUnitarityTol, 1e-6)
	viper.Set(keyCpus, 3)
	o = engineOptions(d)
	assert.Equal(Te, 1e-6, o.UnitarityTol())
	assert.Equal(Te, 3, o.Cpus())
}

func TestTableSuffix(Te *testing.T) {
	viper.Reset()
	Te.Cleanup(viper.Reset)
	for in, want := range map[string]string{"zst": ".dat.zst", ".gz": ".dat.gz", "none": ".dat", "": ".dat"} {
		viper.Set(keyCompression, in)
		assert.Equal(Te, want, tableSuffix(), in)
	}
	assert.Equal(Te, "a_b_c", sanitize("a b/c"))
}

func TestGroups(Te *testing.T) {
	dir := Te.TempDir()
	execute(Te, "run", ta181, "--out", dir, "--preview=false")
	out := execute(Te, "groups", filepath.Join(dir, "ta181_3+.dat.zst"), "--bounds", "0.9e6,1e6,1.2e6", "--json")
	assert.Contains(Te, out, `"name": "total"`)
	assert.Contains(Te, out, `"weight": "flat"`)
	out = execute(Te, "groups", filepath.Join(dir, "ta181_3+.dat.zst"), "--bounds", "0.9e6,1.2e6", "--weight", "1/E")
	assert.Contains(Te, out, "total (1/E)")
}
