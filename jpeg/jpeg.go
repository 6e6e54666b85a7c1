// Package jpeg implements a baseline and progressive JPEG decoder,
// producing a 32-bit ARGB raster. It registers itself with the standard
// library's image package so that image.Decode can transparently read
// JPEG files. Encoding is not implemented.
package jpeg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	jpegdec "github.com/pixelforge/rasterdec/internal/jpeg"
)

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", Decode, DecodeConfig)
}

// ErrEncodeUnsupported is returned by Encode: this package only decodes.
var ErrEncodeUnsupported = errors.New("jpeg: encoding is not implemented")

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

// Decode reads a JPEG image from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("jpeg: reading data: %w", err)
	}
	return jpegdec.Decode(data)
}

// DecodeConfig returns the color model and dimensions of a JPEG image
// without decoding its entropy-coded data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("jpeg: reading data: %w", err)
	}
	w, h, ok := jpegdec.Test(data)
	if !ok {
		return image.Config{}, fmt.Errorf("jpeg: not a JPEG file")
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: w, Height: h}, nil
}

// Encode always returns ErrEncodeUnsupported; this package is a decoder.
func Encode(w io.Writer, img image.Image) error {
	return ErrEncodeUnsupported
}
