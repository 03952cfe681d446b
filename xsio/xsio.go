/*
 * xsio.go, part of rmatrix.
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

//Package xsio writes and reads cross-section tables. A table is a text file
//with a header of key=value lines, a "** n" line giving the number of data
//columns, and then one line per energy: the energy in eV followed by the n
//columns, in barns. Files are compressed according to their suffix (see
//Compression).
package xsio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rmera/rmatrix"
)

//DefaultLevel is the compression level for gzip and flate.
const DefaultLevel = 9

//Table contains cross sections over an energy grid.
type Table struct {
	Header  map[string]string
	Columns []string    //names of the data columns
	Energy  []float64   //eV
	Data    [][]float64 //one slice per column, each as long as Energy.
}

//FromSpinGroup returns a table with the total cross section of sg followed by
//the partial cross section of each channel.
func FromSpinGroup(name string, sg *rmatrix.SpinGroup) *Table {
	t := &Table{
		Header: map[string]string{
			"group":  name,
			"J":      strconv.FormatFloat(sg.J(), 'g', -1, 64),
			"parity": strconv.Itoa(sg.Parity()),
			"g":      strconv.FormatFloat(sg.StatisticalWeight(), 'g', -1, 64),
			"units":  "eV barn",
		},
		Columns: []string{"total"},
		Energy:  sg.EnergyGrid(),
		Data:    [][]float64{sg.TotalCrossSection()},
	}
	for i, c := range sg.Channels() {
		t.Columns = append(t.Columns, c.String())
		t.Data = append(t.Data, sg.CrossSection(i))
	}
	return t
}

//Column returns the data column with the given name, or nil.
func (t *Table) Column(name string) []float64 {
	for i, v := range t.Columns {
		if v == name {
			return t.Data[i]
		}
	}
	return nil
}

func (t *Table) check() error {
	if len(t.Columns) != len(t.Data) {
		return Error{message: fmt.Sprintf("%d column names for %d columns", len(t.Columns), len(t.Data)), critical: true}
	}
	for i, d := range t.Data {
		if len(d) != len(t.Energy) {
			return Error{message: fmt.Sprintf("column %s has %d values for %d energies", t.Columns[i], len(d), len(t.Energy)), critical: true}
		}
	}
	for _, c := range t.Columns {
		if strings.ContainsAny(c, ";\n") {
			return Error{message: fmt.Sprintf("column name %q contains ';' or a newline", c), critical: true}
		}
	}
	return nil
}

//Write writes the table to the file name, compressed according to the suffix.
//The optional level is used for gzip and flate compression.
func Write(name string, t *Table, level ...int) error {
	l := DefaultLevel
	if len(level) > 0 {
		l = level[0]
	}
	f, err := os.Create(name)
	if err != nil {
		return Error{message: err.Error(), filename: name, deco: []string{"Write"}, critical: true}
	}
	defer f.Close()
	w, err := compressor(f, Compression(name), l)
	if err != nil {
		return Error{message: "can't compress: " + err.Error(), filename: name, deco: []string{"Write"}, critical: true}
	}
	if err := Encode(w, t); err != nil {
		w.Close()
		return errDecorate(err, name, "Write")
	}
	if err := w.Close(); err != nil {
		return Error{message: err.Error(), filename: name, deco: []string{"Write"}, critical: true}
	}
	return f.Close()
}

//Encode writes the table, uncompressed, to w.
func Encode(w io.Writer, t *Table) error {
	if err := t.check(); err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	keys := make([]string, 0, len(t.Header))
	for k := range t.Header {
		if k == "columns" || strings.ContainsAny(k, "=\n") || strings.HasPrefix(k, "**") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%s\n", k, strings.ReplaceAll(t.Header[k], "\n", " "))
	}
	fmt.Fprintf(b, "columns=%s\n", strings.Join(t.Columns, ";"))
	fmt.Fprintf(b, "** %d\n", len(t.Columns))
	for i, e := range t.Energy {
		b.WriteString(strconv.FormatFloat(e, 'g', -1, 64))
		for _, d := range t.Data {
			b.WriteString(" ")
			b.WriteString(strconv.FormatFloat(d[i], 'g', -1, 64))
		}
		b.WriteString("\n")
	}
	return b.Flush()
}

//Read reads a table from the file name, decompressing according to the suffix.
func Read(name string) (*Table, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{message: err.Error(), filename: name, deco: []string{"Read"}, critical: true}
	}
	defer f.Close()
	r, err := decompressor(bufio.NewReader(f), Compression(name))
	if err != nil {
		return nil, Error{message: "can't decompress: " + err.Error(), filename: name, deco: []string{"Read"}, critical: true}
	}
	defer r.Close()
	t, err := Decode(r)
	if err != nil {
		return nil, errDecorate(err, name, "Read")
	}
	return t, nil
}

//Decode reads an uncompressed table from r.
func Decode(r io.Reader) (*Table, error) {
	t := &Table{Header: make(map[string]string)}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	ncols := -1
	line := 0
	for s.Scan() {
		line++
		str := s.Text()
		if ncols < 0 {
			if strings.HasPrefix(str, "**") {
				f := strings.Fields(str)
				if len(f) != 2 {
					return nil, Error{message: fmt.Sprintf("line %d: malformed column count %q", line, str), critical: true}
				}
				n, err := strconv.Atoi(f[1])
				if err != nil || n < 0 {
					return nil, Error{message: fmt.Sprintf("line %d: malformed column count %q", line, str), critical: true}
				}
				ncols = n
				t.Data = make([][]float64, n)
				continue
			}
			k, v, ok := strings.Cut(str, "=")
			if !ok {
				return nil, Error{message: fmt.Sprintf("line %d: malformed header %q", line, str), critical: true}
			}
			if k == "columns" {
				if v != "" {
					t.Columns = strings.Split(v, ";")
				}
				continue
			}
			t.Header[k] = v
			continue
		}
		if strings.TrimSpace(str) == "" {
			continue
		}
		f := strings.Fields(str)
		if len(f) != ncols+1 {
			return nil, Error{message: fmt.Sprintf("line %d: %d fields, expected %d", line, len(f), ncols+1), critical: true}
		}
		for i, v := range f {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, Error{message: fmt.Sprintf("line %d: %v", line, err), critical: true}
			}
			if i == 0 {
				t.Energy = append(t.Energy, x)
			} else {
				t.Data[i-1] = append(t.Data[i-1], x)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, Error{message: err.Error(), critical: true}
	}
	if ncols < 0 {
		return nil, Error{message: "no column count line found", critical: true}
	}
	if len(t.Columns) != ncols {
		return nil, Error{message: fmt.Sprintf("%d column names for %d columns", len(t.Columns), ncols), critical: true}
	}
	for i := range t.Data {
		if t.Data[i] == nil {
			t.Data[i] = []float64{}
		}
	}
	return t, nil
}

//Error is the error type of the package.
type Error struct {
	message  string
	filename string //the file with problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return "xsio: " + err.message
	}
	return fmt.Sprintf("xsio: file %s: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

//errDecorate sets the file name of err, if it is an Error, and decorates it with the caller.
func errDecorate(err error, filename, caller string) error {
	e, ok := err.(Error)
	if !ok {
		return Error{message: err.Error(), filename: filename, deco: []string{caller}, critical: true}
	}
	if e.filename == "" {
		e.filename = filename
	}
	e.Decorate(caller)
	return e
}
