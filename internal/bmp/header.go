package bmp

import (
	"fmt"

	"github.com/pixelforge/rasterdec/internal/scalar"
)

var acceptedMagics = map[string]bool{
	"BM": true, "BA": true, "CI": true, "CP": true, "IC": true, "PT": true,
}

var acceptedHeaderSizes = map[int]bool{
	12: true, 40: true, 52: true, 56: true, 108: true, 124: true,
}

const maxDimension = 32768

// Header holds the parsed file header, DIB header, and derived pixel-format
// classification of a BMP image.
type Header struct {
	FileSize   int
	Offset     int
	HeaderSize int

	Width   int
	Height  int
	TopDown bool

	BPP         int
	Compression int
	Format      PixelFormat
	Masks       [4]ChannelMask // R, G, B, A

	PaletteOffset int
	PaletteCount  int
}

// ParseHeader validates and decodes a BMP file header plus DIB header. It
// never touches pixel data, so it's cheap enough to back both Test and the
// first stage of Decode.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("bmp: file too short for a header")
	}
	sr := scalar.New(data)

	magic := string(data[0:2])
	if !acceptedMagics[magic] {
		return nil, fmt.Errorf("bmp: unrecognized magic %q", magic)
	}

	fileSize32, err := sr.U32LE(2)
	if err != nil {
		return nil, fmt.Errorf("bmp: reading file size: %w", err)
	}
	fileSize := int(fileSize32)
	if fileSize != len(data) {
		return nil, fmt.Errorf("bmp: declared file size %d does not match buffer length %d", fileSize, len(data))
	}

	offset32, err := sr.U32LE(10)
	if err != nil {
		return nil, fmt.Errorf("bmp: reading pixel data offset: %w", err)
	}
	offset := int(offset32)

	headerSize32, err := sr.U32LE(14)
	if err != nil {
		return nil, fmt.Errorf("bmp: reading DIB header size: %w", err)
	}
	headerSize := int(headerSize32)
	if !acceptedHeaderSizes[headerSize] {
		return nil, fmt.Errorf("bmp: unsupported DIB header size %d", headerSize)
	}
	if offset < headerSize || offset > fileSize {
		return nil, fmt.Errorf("bmp: pixel data offset %d out of range [%d, %d]", offset, headerSize, fileSize)
	}

	h := &Header{FileSize: fileSize, Offset: offset, HeaderSize: headerSize}

	if headerSize == 12 {
		if len(data) < 14+12 {
			return nil, fmt.Errorf("bmp: BITMAPCOREHEADER truncated")
		}
		width, _ := sr.U16LE(18)
		height, _ := sr.U16LE(22)
		bpp, _ := sr.U16LE(26)
		h.Width = int(width)
		h.Height = int(height)
		h.BPP = int(bpp)
		h.Compression = 0
	} else {
		if len(data) < 14+headerSize {
			return nil, fmt.Errorf("bmp: DIB header truncated")
		}
		width32, _ := sr.U32LE(18)
		height32, _ := sr.U32LE(22)
		width := int(int32(width32))
		height := int(int32(height32))
		if height < 0 {
			h.Height = -height
			h.TopDown = true
		} else {
			h.Height = height
		}
		h.Width = width
		bpp, _ := sr.U16LE(28)
		h.BPP = int(bpp)
		compression, _ := sr.U32LE(30)
		h.Compression = int(compression)
	}

	if h.Width < 1 || h.Width > maxDimension || h.Height < 1 || h.Height > maxDimension {
		return nil, fmt.Errorf("bmp: dimensions %dx%d out of range", h.Width, h.Height)
	}

	if err := classify(h, sr); err != nil {
		return nil, err
	}

	h.PaletteOffset = 14 + headerSize
	if h.Format == FormatPalette || h.Format == FormatPaletteRLE {
		count := 0
		if headerSize >= 40 {
			if c, err := sr.U32LE(14 + 32); err == nil {
				count = int(c)
			}
		}
		if count == 0 {
			count = 1 << uint(h.BPP)
		}
		h.PaletteCount = count
	}
	return h, nil
}

func classify(h *Header, sr scalar.Reader) error {
	switch {
	case h.Compression == 0 && (h.BPP == 1 || h.BPP == 2 || h.BPP == 4 || h.BPP == 8):
		h.Format = FormatPalette
	case h.Compression == 1 && h.BPP == 8:
		h.Format = FormatPaletteRLE
	case h.Compression == 2 && h.BPP == 4:
		h.Format = FormatPaletteRLE
	case h.Compression == 0 && h.BPP == 16:
		h.Format = FormatFixed16
		h.Masks[0] = maskFromValue(0x7C00)
		h.Masks[1] = maskFromValue(0x03E0)
		h.Masks[2] = maskFromValue(0x001F)
		if h.HeaderSize >= 56 {
			h.Masks[3] = maskFromValue(0x8000)
		}
	case h.Compression == 0 && h.BPP == 24:
		h.Format = FormatRgb24
	case h.Compression == 0 && h.BPP == 32:
		h.Format = FormatFixed32
		h.Masks[0] = maskFromValue(0x00FF0000)
		h.Masks[1] = maskFromValue(0x0000FF00)
		h.Masks[2] = maskFromValue(0x000000FF)
		if h.HeaderSize >= 56 {
			h.Masks[3] = maskFromValue(0xFF000000)
		}
	case h.Compression == 3 && h.BPP == 16:
		h.Format = FormatBitfield16
		if err := readBitfieldMasks(h, sr); err != nil {
			return err
		}
	case h.Compression == 3 && h.BPP == 32:
		h.Format = FormatBitfield32
		if err := readBitfieldMasks(h, sr); err != nil {
			return err
		}
	default:
		return fmt.Errorf("bmp: no decoder for compression=%d bpp=%d", h.Compression, h.BPP)
	}
	return nil
}

// Bitfield masks sit at fixed absolute file offsets 54..66 (immediately
// after a 40-byte BITMAPINFOHEADER), regardless of the DIB header's actual
// declared size — this is where BI_BITFIELDS masks live by convention even
// when they're also duplicated inside a larger v4/v5 header.
func readBitfieldMasks(h *Header, sr scalar.Reader) error {
	r32, err := sr.U32LE(54)
	if err != nil {
		return fmt.Errorf("bmp: bitfield masks truncated: %w", err)
	}
	g32, err := sr.U32LE(58)
	if err != nil {
		return fmt.Errorf("bmp: bitfield masks truncated: %w", err)
	}
	b32, err := sr.U32LE(62)
	if err != nil {
		return fmt.Errorf("bmp: bitfield masks truncated: %w", err)
	}
	h.Masks[0] = maskFromValue(r32)
	h.Masks[1] = maskFromValue(g32)
	h.Masks[2] = maskFromValue(b32)
	if h.HeaderSize >= 56 {
		if a32, err := sr.U32LE(66); err == nil {
			h.Masks[3] = maskFromValue(a32)
		}
	}
	return nil
}

// ReadPalette extracts h.PaletteCount BGR_ entries starting at
// h.PaletteOffset into packed opaque ARGB words.
func ReadPalette(data []byte, h *Header) ([]uint32, error) {
	sr := scalar.New(data)
	palette := make([]uint32, h.PaletteCount)
	for i := 0; i < h.PaletteCount; i++ {
		entry, err := sr.Bytes(h.PaletteOffset+i*4, 4)
		if err != nil {
			return nil, fmt.Errorf("bmp: palette extends past end of buffer: %w", err)
		}
		b, g, r := entry[0], entry[1], entry[2]
		palette[i] = uint32(255)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}
	return palette, nil
}
