package bmp

import (
	"encoding/binary"

	"github.com/pixelforge/rasterdec/raster"
)

const (
	encodeHeaderSize = 108 // BITMAPV4HEADER
	encodeBPP        = 32
	encodeCompression = 3 // BI_BITFIELDS
)

func put16le(dst []byte, v uint16) { binary.LittleEndian.PutUint16(dst, v) }
func put32le(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }

// Encode serializes r as a 32-bit ARGB bitfield BMP (BITMAPV4HEADER,
// top-down, one uncompressed word per pixel).
func Encode(r *raster.Raster) ([]byte, error) {
	stride := r.Width * 4
	imageSize := stride * r.Height
	offset := 14 + encodeHeaderSize
	fileSize := offset + imageSize

	out := make([]byte, fileSize)
	out[0], out[1] = 'B', 'M'
	put32le(out[2:6], uint32(fileSize))
	put32le(out[6:10], 0)
	put32le(out[10:14], uint32(offset))

	dib := out[14:]
	put32le(dib[0:4], encodeHeaderSize)
	put32le(dib[4:8], uint32(r.Width))
	put32le(dib[8:12], uint32(int32(-r.Height))) // negative height: top-down
	put16le(dib[12:14], 1)                       // planes
	put16le(dib[14:16], encodeBPP)
	put32le(dib[16:20], encodeCompression)
	put32le(dib[20:24], uint32(imageSize))
	put32le(dib[24:28], 1) // x pixels per meter
	put32le(dib[28:32], 1) // y pixels per meter
	put32le(dib[32:36], 0) // colors used
	put32le(dib[36:40], 0) // important colors
	put32le(dib[40:44], 0x00FF0000)
	put32le(dib[44:48], 0x0000FF00)
	put32le(dib[48:52], 0x000000FF)
	put32le(dib[52:56], 0xFF000000)
	put32le(dib[56:60], 0x57696E20) // "Win " colorspace tag
	// Remaining BITMAPV4HEADER fields (CIE endpoints, gamma) are left zero.

	pix := out[offset:]
	for y := 0; y < r.Height; y++ {
		row := r.Row(y)
		for x := 0; x < r.Width; x++ {
			a, red, green, blue := raster.Unpack(row[x])
			off := (y*r.Width + x) * 4
			pix[off+0] = blue
			pix[off+1] = green
			pix[off+2] = red
			pix[off+3] = a
		}
	}
	return out, nil
}
