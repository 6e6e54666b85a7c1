// Package bmp implements a decoder for the Windows/OS2 BMP image format,
// plus a minimal 32-bit ARGB bitfield encoder. It registers itself with the
// standard library's image package so that image.Decode can transparently
// read BMP files.
package bmp

import (
	"fmt"
	"image"
	"image/color"
	"io"

	bmpdec "github.com/pixelforge/rasterdec/internal/bmp"
	"github.com/pixelforge/rasterdec/raster"
)

func init() {
	image.RegisterFormat("bmp", "BM", Decode, DecodeConfig)
}

// readAll reads all of r. If r implements Len() int (e.g. *bytes.Reader), a
// single exact-sized allocation is used instead of io.ReadAll's doublings.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		if n := lr.Len(); n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads a BMP image from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("bmp: reading data: %w", err)
	}
	return bmpdec.Decode(data)
}

// DecodeConfig returns the color model and dimensions of a BMP image
// without decoding its pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("bmp: reading data: %w", err)
	}
	w, h, ok := bmpdec.Test(data)
	if !ok {
		return image.Config{}, fmt.Errorf("bmp: not a BMP file")
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: w, Height: h}, nil
}

// Encode writes img to w as a 32-bit ARGB bitfield BMP.
func Encode(w io.Writer, img image.Image) error {
	r := toRaster(img)
	data, err := bmpdec.Encode(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// toRaster converts an arbitrary image.Image into a *raster.Raster,
// taking the fast path when img already is one.
func toRaster(img image.Image) *raster.Raster {
	if r, ok := img.(*raster.Raster); ok {
		return r
	}
	b := img.Bounds()
	out := &raster.Raster{Width: b.Dx(), Height: b.Dy(), Samples: make([]uint32, b.Dx()*b.Dy())}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rr, gg, bb, aa := img.At(x, y).RGBA()
			out.Samples[(y-b.Min.Y)*out.Width+(x-b.Min.X)] = raster.Pack(uint8(aa>>8), uint8(rr>>8), uint8(gg>>8), uint8(bb>>8))
		}
	}
	return out
}
