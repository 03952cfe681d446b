/*
 * compress.go, part of rmatrix.
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

package xsio

import (
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const lzwLitwidth = 8

//Compression formats, chosen from the file suffix.
const (
	Plain = iota
	Zstd
	Gzip
	Flate
	LZW
)

//Compression returns the compression format for a file name:
//.zst for zstd, .gz for gzip, .flate for raw deflate, .lzw for LZW.
//Any other suffix means no compression.
func Compression(name string) int {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst":
		return Zstd
	case ".gz":
		return Gzip
	case ".flate":
		return Flate
	case ".lzw":
		return LZW
	default:
		return Plain
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

//*zstd.Decoder doesn't implement io.ReadCloser: its Close returns nothing.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//compressor returns a WriteCloser that compresses into w in the format
//given. level is used by gzip and flate; zstd always uses its best compression.
func compressor(w io.Writer, format, level int) (io.WriteCloser, error) {
	switch format {
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case Gzip:
		return gzip.NewWriterLevel(w, level)
	case Flate:
		return flate.NewWriter(w, level)
	case LZW:
		return lzw.NewWriter(w, lzw.MSB, lzwLitwidth), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

func decompressor(r io.Reader, format int) (io.ReadCloser, error) {
	switch format {
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{d}, nil
	case Gzip:
		return gzip.NewReader(r)
	case Flate:
		return flate.NewReader(r), nil
	case LZW:
		return lzw.NewReader(r, lzw.MSB, lzwLitwidth), nil
	default:
		return io.NopCloser(r), nil
	}
}
