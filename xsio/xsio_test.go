package xsio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/rmatrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ta181(Te *testing.T) *rmatrix.SpinGroup {
	ta, err := rmatrix.NewParticle("181Ta", 181, 73, 0, 3.5)
	require.NoError(Te, err)
	ta182, err := rmatrix.NewParticle("182Ta", 182, 73, 6.8e6)
	require.NoError(Te, err)
	el, err := rmatrix.NewElastic(rmatrix.Neutron(), ta, 3, 1, 0, 0.2, []float64{106.78913185, 108.99600881})
	require.NoError(Te, err)
	capt, err := rmatrix.NewCapture(rmatrix.Photon(), ta182, 3, 1, 1, 0.2, 0, []float64{2.51487027e-06, 2.49890268e-06})
	require.NoError(Te, err)
	sg, err := rmatrix.New([]float64{1e6, 1.1e6}, el, []*rmatrix.Channel{capt}, []float64{0.9e6, 0.95e6, 1e6, 1.05e6})
	require.NoError(Te, err)
	return sg
}

func TestCompression(Te *testing.T) {
	assert.Equal(Te, Zstd, Compression("xs.dat.zst"))
	assert.Equal(Te, Gzip, Compression("xs.DAT.GZ"))
	assert.Equal(Te, Flate, Compression("xs.flate"))
	assert.Equal(Te, LZW, Compression("xs.lzw"))
	assert.Equal(Te, Plain, Compression("xs.dat"))
	assert.Equal(Te, Plain, Compression("xs"))
}

func TestRoundTrip(Te *testing.T) {
	sg := ta181(Te)
	t := FromSpinGroup("3+", sg)
	assert.Equal(Te, []string{"total", "n + 181Ta(0 MeV)", "g + 182Ta(0 MeV)"}, t.Columns)
	assert.Equal(Te, "0.4375", t.Header["g"])
	dir := Te.TempDir()
	for _, suffix := range []string{".dat", ".dat.zst", ".dat.gz", ".flate", ".lzw"} {
		Te.Run(suffix, func(Te *testing.T) {
			name := filepath.Join(dir, "xs"+suffix)
			require.NoError(Te, Write(name, t))
			r, err := Read(name)
			require.NoError(Te, err)
			assert.Equal(Te, t, r)
			assert.Equal(Te, sg.CrossSection(1), r.Column("g + 182Ta(0 MeV)"))
		})
	}
	plain, err := os.ReadFile(filepath.Join(dir, "xs.dat"))
	require.NoError(Te, err)
	assert.True(Te, strings.Contains(string(plain), "\n** 3\n"))
	zst, err := os.ReadFile(filepath.Join(dir, "xs.dat.zst"))
	require.NoError(Te, err)
	assert.NotEqual(Te, plain, zst)
}

func TestDecodeErrors(Te *testing.T) {
	bad := []string{
		"",
		"group=x\nno equal sign\n** 1\n",
		"columns=a\n** x\n",
		"columns=a\n** 1\n1 2 3\n",
		"columns=a\n** 1\n1 x\n",
		"columns=a;b\n** 1\n1 2\n",
	}
	for _, b := range bad {
		_, err := Decode(strings.NewReader(b))
		assert.Error(Te, err, "%q", b)
	}
	t, err := Decode(strings.NewReader("columns=\n** 0\n1\n2\n"))
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, 2}, t.Energy)
}

func TestEncodeChecks(Te *testing.T) {
	var b bytes.Buffer
	err := Encode(&b, &Table{Columns: []string{"a"}, Energy: []float64{1}, Data: [][]float64{{1, 2}}})
	assert.Error(Te, err)
	err = Encode(&b, &Table{Columns: []string{"a;b"}, Energy: []float64{1}, Data: [][]float64{{1}}})
	assert.Error(Te, err)
	err = Write(filepath.Join(Te.TempDir(), "missing", "xs.dat"), &Table{})
	var e Error
	require.ErrorAs(Te, err, &e)
	assert.True(Te, e.Critical())
	assert.Contains(Te, e.FileName(), "missing")
}
