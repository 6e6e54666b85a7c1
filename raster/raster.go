// Package raster provides the in-memory pixel container shared by every
// codec in this module: a width x height grid of packed 32-bit ARGB words,
// top-down, row-major.
package raster

import (
	"fmt"
	"image"
	"image/color"
)

// MaxDimension is the largest width or height this package will allocate
// a Raster for. Decoders must reject larger declared dimensions before
// touching the pixel data.
const MaxDimension = 32768

// Raster owns a width x height grid of 32-bit ARGB samples. Each sample
// packs (A<<24 | R<<16 | G<<8 | B). Rows are stored top-down: Samples[0]
// is the top-left pixel, Samples[width-1] the top-right, and so on.
//
// A Raster is built once by a decoder and then transferred to the caller;
// nothing in this module mutates a Raster after returning it.
type Raster struct {
	Width, Height int
	Samples       []uint32
}

// New allocates a Raster of the given dimensions with all samples zeroed
// (fully transparent black). It returns an error if width or height falls
// outside [1, MaxDimension].
func New(width, height int) (*Raster, error) {
	if width < 1 || width > MaxDimension || height < 1 || height > MaxDimension {
		return nil, fmt.Errorf("raster: invalid dimensions %dx%d", width, height)
	}
	return &Raster{
		Width:   width,
		Height:  height,
		Samples: make([]uint32, width*height),
	}, nil
}

// Pack combines 8-bit channels into a single ARGB word.
func Pack(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits an ARGB word into its four 8-bit channels.
func Unpack(word uint32) (a, r, g, b uint8) {
	return uint8(word >> 24), uint8(word >> 16), uint8(word >> 8), uint8(word)
}

// AtWord returns the raw ARGB sample at (x, y).
func (r *Raster) AtWord(x, y int) uint32 {
	return r.Samples[y*r.Width+x]
}

// Set writes the ARGB sample at (x, y).
func (r *Raster) Set(x, y int, word uint32) {
	r.Samples[y*r.Width+x] = word
}

// Row returns the slice of samples making up row y, without copying.
func (r *Raster) Row(y int) []uint32 {
	return r.Samples[y*r.Width : (y+1)*r.Width]
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// At implements image.Image.
func (r *Raster) At(x, y int) color.Color {
	a, rr, g, b := Unpack(r.Samples[y*r.Width+x])
	return color.NRGBA{R: rr, G: g, B: b, A: a}
}
