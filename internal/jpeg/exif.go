package jpeg

import (
	"encoding/binary"
	"fmt"
)

// tagPhotometricInterpretation, when its value is 2 (RGB), means the scan
// data actually carries R/G/B samples through three equal-resolution
// components rather than Y/Cb/Cr — only meaningful on a 4:4:4 frame.
const tagPhotometricInterpretation = 0x0106

// tagColorSpace is recognized so a reader doesn't choke on it, but this
// package attaches no behavior to its value.
const tagColorSpace = 0xA001

var exifElementSize = [13]int{0, 1, 1, 2, 4, 8, 1, 0, 2, 4, 8, 4, 8}

// ParseAPP1 walks an APP1 payload (the bytes after the marker and its
// length field) looking for an embedded EXIF IFD0. It reports whether the
// PhotometricInterpretation tag declared the data as RGB (value 2).
//
// Field order follows the SOF convention honored elsewhere in this
// package: every multi-byte quantity here is read in the order the TIFF
// spec defines for that field, not by position alone — getting this
// backwards is the kind of bug that only shows up against a real camera
// file, which is why it's pinned by a dedicated test.
func ParseAPP1(payload []byte) (photometricRGB bool, err error) {
	if len(payload) < 6 || string(payload[0:4]) != "Exif" {
		return false, nil
	}
	tiff := payload[6:]
	if len(tiff) < 8 {
		return false, fmt.Errorf("jpeg: APP1 EXIF block truncated before TIFF header")
	}

	var order binary.ByteOrder
	switch {
	case tiff[0] == 'I' && tiff[1] == 'I':
		order = binary.LittleEndian
	case tiff[0] == 'M' && tiff[1] == 'M':
		order = binary.BigEndian
	default:
		return false, fmt.Errorf("jpeg: unrecognized EXIF byte-order mark %q", tiff[0:2])
	}

	ifdOffset := order.Uint32(tiff[4:8])
	if int(ifdOffset)+2 > len(tiff) {
		return false, fmt.Errorf("jpeg: EXIF IFD0 offset out of range")
	}
	p := int(ifdOffset)
	entries := int(order.Uint16(tiff[p : p+2]))
	p += 2

	for i := 0; i < entries; i++ {
		if p+12 > len(tiff) {
			return false, fmt.Errorf("jpeg: EXIF IFD0 entry %d truncated", i)
		}
		tag := order.Uint16(tiff[p : p+2])
		format := order.Uint16(tiff[p+2 : p+4])
		components := order.Uint32(tiff[p+4 : p+8])
		valueOffset := tiff[p+8 : p+12]
		p += 12

		if format > 12 {
			return false, fmt.Errorf("jpeg: EXIF entry for tag %#04x has invalid format %d", tag, format)
		}

		switch tag {
		case tagPhotometricInterpretation:
			total := exifElementSize[format] * int(components)
			var dataOff int
			if total <= 4 {
				dataOff = p - 4
			} else {
				dataOff = 8 + int(order.Uint32(valueOffset))
			}
			if dataOff+2 > len(tiff) {
				return false, fmt.Errorf("jpeg: EXIF PhotometricInterpretation value out of range")
			}
			pe := order.Uint16(tiff[dataOff : dataOff+2])
			photometricRGB = pe == 2
		case tagColorSpace:
			// Recognized, intentionally ignored.
		}
	}
	return photometricRGB, nil
}
