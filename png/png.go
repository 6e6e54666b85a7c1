// Package png is a thin pass-through to the standard library's PNG codec.
// PNG decode/encode is out of scope for this module (see the top-level
// spec); this package exists only so callers can use the same
// test/decode/encode shape across bmp, jpeg, and png.
package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	stdpng "image/png"
	"io"

	"github.com/pixelforge/rasterdec/raster"
)

// ErrEncodeUnsupported is returned by Encode: per spec, PNG encode in this
// module is unimplemented (use image/png directly if you need it).
var ErrEncodeUnsupported = errors.New("png: encoding is not implemented")

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Test performs a cheap structural check: the 8-byte PNG signature plus
// the mandatory leading IHDR chunk, reporting declared dimensions without
// decoding any pixel data.
func Test(data []byte) (width, height int, ok bool) {
	if len(data) < 8+8+13 || !bytes.Equal(data[:8], pngSignature) {
		return 0, 0, false
	}
	chunkLen := binary.BigEndian.Uint32(data[8:12])
	chunkType := string(data[12:16])
	if chunkType != "IHDR" || chunkLen < 13 {
		return 0, 0, false
	}
	ihdr := data[16 : 16+13]
	w := int(binary.BigEndian.Uint32(ihdr[0:4]))
	h := int(binary.BigEndian.Uint32(ihdr[4:8]))
	if w < 1 || h < 1 {
		return 0, 0, false
	}
	return w, h, true
}

// Decode reads a PNG image from data and returns it as an ARGB raster,
// delegating the actual pixel decode to image/png.
func Decode(data []byte) (*raster.Raster, error) {
	img, err := stdpng.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("png: %w", err)
	}
	b := img.Bounds()
	out, err := raster.New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, a := img.At(x, y).RGBA()
			out.Set(x-b.Min.X, y-b.Min.Y, raster.Pack(uint8(a>>8), uint8(r>>8), uint8(g>>8), uint8(bb>>8)))
		}
	}
	return out, nil
}

// Encode always returns ErrEncodeUnsupported.
func Encode(w io.Writer, img image.Image) error {
	return ErrEncodeUnsupported
}
