package bmp

import (
	"fmt"

	"github.com/pixelforge/rasterdec/raster"
)

// Test performs a cheap structural check: parsing the file and DIB headers
// without touching pixel data or allocating a raster-sized buffer.
func Test(data []byte) (width, height int, ok bool) {
	h, err := ParseHeader(data)
	if err != nil {
		return 0, 0, false
	}
	return h.Width, h.Height, true
}

// Decode parses a full BMP byte stream into an ARGB raster.
func Decode(data []byte) (*raster.Raster, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	dst, err := raster.New(h.Width, h.Height)
	if err != nil {
		return nil, err
	}

	var palette []uint32
	if h.Format == FormatPalette || h.Format == FormatPaletteRLE {
		palette, err = ReadPalette(data, h)
		if err != nil {
			return nil, err
		}
	}

	switch h.Format {
	case FormatPaletteRLE:
		decodeRLE(data, h, palette, dst)
		return dst, nil
	default:
		if err := decodeUncompressed(data, h, palette, dst); err != nil {
			return nil, err
		}
		return dst, nil
	}
}

// destRow maps a source row index (0 = first row stored in the file) to the
// row it belongs at in the top-down output raster.
func destRow(h *Header, sourceRow int) int {
	if h.TopDown {
		return sourceRow
	}
	return h.Height - 1 - sourceRow
}

func decodeUncompressed(data []byte, h *Header, palette []uint32, dst *raster.Raster) error {
	switch h.Format {
	case FormatPalette:
		return decodePaletteRows(data, h, palette, dst)
	case FormatRgb24:
		return decodeRgb24Rows(data, h, dst)
	case FormatFixed16, FormatBitfield16:
		return decode16Rows(data, h, dst)
	case FormatFixed32, FormatBitfield32:
		return decode32Rows(data, h, dst)
	default:
		return fmt.Errorf("bmp: no uncompressed decoder for format %d", h.Format)
	}
}

func decodePaletteRows(data []byte, h *Header, palette []uint32, dst *raster.Raster) error {
	stride := (h.Width*h.BPP + 7) / 8
	padded := (stride + 3) &^ 3
	pos := h.Offset
	for src := 0; src < h.Height; src++ {
		if pos+padded > len(data) {
			return fmt.Errorf("bmp: pixel data truncated at row %d", src)
		}
		row := data[pos : pos+stride]
		out := dst.Row(destRow(h, src))
		x := 0
		for _, b := range row {
			perByte := 8 / h.BPP
			for k := 0; k < perByte && x < h.Width; k++ {
				shift := 8 - h.BPP*(k+1)
				idx := int(b>>uint(shift)) & ((1 << uint(h.BPP)) - 1)
				out[x] = paletteEntry(palette, idx)
				x++
			}
		}
		pos += padded
	}
	return nil
}

func paletteEntry(palette []uint32, idx int) uint32 {
	if idx < 0 || idx >= len(palette) {
		return raster.Pack(255, 0, 0, 0)
	}
	return palette[idx]
}

func decodeRgb24Rows(data []byte, h *Header, dst *raster.Raster) error {
	stride := h.Width * 3
	padded := (stride + 3) &^ 3
	pos := h.Offset
	for src := 0; src < h.Height; src++ {
		if pos+padded > len(data) {
			return fmt.Errorf("bmp: pixel data truncated at row %d", src)
		}
		row := data[pos : pos+stride]
		out := dst.Row(destRow(h, src))
		for x := 0; x < h.Width; x++ {
			b, g, r := row[x*3], row[x*3+1], row[x*3+2]
			out[x] = raster.Pack(255, r, g, b)
		}
		pos += padded
	}
	return nil
}

func decode16Rows(data []byte, h *Header, dst *raster.Raster) error {
	stride := h.Width * 2
	padded := (stride + 3) &^ 3
	pos := h.Offset
	for src := 0; src < h.Height; src++ {
		if pos+padded > len(data) {
			return fmt.Errorf("bmp: pixel data truncated at row %d", src)
		}
		row := data[pos : pos+stride]
		out := dst.Row(destRow(h, src))
		for x := 0; x < h.Width; x++ {
			word := uint32(row[x*2]) | uint32(row[x*2+1])<<8
			out[x] = packFromMasks(h, word)
		}
		pos += padded
	}
	return nil
}

func decode32Rows(data []byte, h *Header, dst *raster.Raster) error {
	stride := h.Width * 4
	pos := h.Offset
	for src := 0; src < h.Height; src++ {
		if pos+stride > len(data) {
			return fmt.Errorf("bmp: pixel data truncated at row %d", src)
		}
		row := data[pos : pos+stride]
		out := dst.Row(destRow(h, src))
		for x := 0; x < h.Width; x++ {
			off := x * 4
			word := uint32(row[off]) | uint32(row[off+1])<<8 | uint32(row[off+2])<<16 | uint32(row[off+3])<<24
			out[x] = packFromMasks(h, word)
		}
		pos += stride
	}
	return nil
}

func packFromMasks(h *Header, word uint32) uint32 {
	r := h.Masks[0].Get(word, 0)
	g := h.Masks[1].Get(word, 0)
	b := h.Masks[2].Get(word, 0)
	a := h.Masks[3].Get(word, 255)
	return raster.Pack(a, r, g, b)
}

// decodeRLE decodes an RLE4 or RLE8 pixel stream per the two-byte
// count/value control protocol. Structural problems (a run overflowing the
// row, or the stream running out) terminate decoding early and leave
// whatever has already been drawn in dst, rather than failing the whole
// decode — popular BMP decoders behave the same way, and some real-world
// files rely on it.
func decodeRLE(data []byte, h *Header, palette []uint32, dst *raster.Raster) {
	pos := h.Offset
	x, y := 0, 0

	readByte := func() (byte, bool) {
		if pos >= len(data) {
			return 0, false
		}
		b := data[pos]
		pos++
		return b, true
	}

	writePixel := func(idx int) bool {
		if x >= h.Width || y >= h.Height {
			return false
		}
		dst.Row(destRow(h, y))[x] = paletteEntry(palette, idx)
		x++
		return true
	}

	for {
		count, ok := readByte()
		if !ok {
			return
		}
		value, ok := readByte()
		if !ok {
			return
		}

		if count == 0 {
			switch {
			case value == 0: // end of line
				x = 0
				y++
			case value == 1: // end of image
				return
			case value == 2: // delta
				dx, ok1 := readByte()
				dy, ok2 := readByte()
				if !ok1 || !ok2 {
					return
				}
				x += int(dx)
				y += int(dy)
			default: // absolute run of `value` raw indices
				n := int(value)
				indices := make([]int, 0, n)
				if h.BPP == 8 {
					for i := 0; i < n; i++ {
						b, ok := readByte()
						if !ok {
							return
						}
						indices = append(indices, int(b))
					}
					if n%2 != 0 {
						if _, ok := readByte(); !ok {
							return
						}
					}
				} else {
					nbytes := (n + 1) / 2
					for i := 0; i < nbytes; i++ {
						b, ok := readByte()
						if !ok {
							return
						}
						indices = append(indices, int(b>>4), int(b&0x0F))
					}
					indices = indices[:n]
					if nbytes%2 != 0 {
						if _, ok := readByte(); !ok {
							return
						}
					}
				}
				for _, idx := range indices {
					if !writePixel(idx) {
						return
					}
				}
			}
			continue
		}

		// Encoded run of `count` pixels, nibble- or byte-packed in value.
		n := int(count)
		if h.BPP == 8 {
			for i := 0; i < n; i++ {
				if !writePixel(int(value)) {
					return
				}
			}
		} else {
			hi, lo := int(value>>4), int(value&0x0F)
			for i := 0; i < n; i++ {
				idx := hi
				if i%2 != 0 {
					idx = lo
				}
				if !writePixel(idx) {
					return
				}
			}
		}
	}
}
