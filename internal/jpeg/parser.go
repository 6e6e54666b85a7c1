// Package jpeg implements a baseline and progressive JPEG decoder: marker
// walk, Huffman-coded entropy decode, dequantization, two-pass fixed-point
// IDCT and chroma upsampling into a 32-bit ARGB raster.
package jpeg

import (
	"fmt"

	"github.com/pixelforge/rasterdec/internal/bitio"
	"github.com/pixelforge/rasterdec/internal/huffman"
	"github.com/pixelforge/rasterdec/internal/scalar"
	"github.com/pixelforge/rasterdec/raster"
)

// readU16BE reads a big-endian uint16 at i, assuming the caller has already
// bounds-checked the marker-length framing around it (every call site in
// this file has). Reads that cross untrusted, not-yet-validated lengths go
// through scalar.Reader instead.
func readU16BE(b []byte, i int) int { return int(b[i])<<8 | int(b[i+1]) }

// skipFill advances past any run of 0xFF padding bytes a marker code may be
// preceded by, landing pos on the final 0xFF of the marker itself.
func skipFill(data []byte, pos int) int {
	for pos+1 < len(data) && data[pos] == 0xFF && data[pos+1] == 0xFF {
		pos++
	}
	return pos
}

// Test performs a cheap structural check: magic bytes plus a walk up
// through the first SOF segment, reporting the declared dimensions without
// touching any entropy-coded data or allocating a raster-sized buffer.
func Test(data []byte) (width, height int, ok bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, 0, false
	}
	sr := scalar.New(data)
	pos := 2
	for pos+2 <= len(data) {
		pos = skipFill(data, pos)
		if data[pos] != 0xFF {
			return 0, 0, false
		}
		marker := data[pos+1]
		switch {
		case marker == 0xD9:
			return 0, 0, false
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			pos += 2
			continue
		}
		lengthU16, err := sr.U16BE(pos + 2)
		if err != nil {
			return 0, 0, false
		}
		length := int(lengthU16)
		if length < 2 || pos+2+length > len(data) {
			return 0, 0, false
		}
		body := data[pos+4 : pos+2+length]
		switch marker {
		case 0xC0, 0xC1, 0xC2:
			if len(body) < 5 {
				return 0, 0, false
			}
			// SOF wire order is precision, height, then width — read in
			// that order, not by guessing from which field looks wider.
			h := readU16BE(body, 1)
			w := readU16BE(body, 3)
			return w, h, true
		case 0xDA:
			return 0, 0, false
		}
		pos += 2 + length
	}
	return 0, 0, false
}

type decoder struct {
	frame          *Frame
	compIDs        []int
	quant          [4][64]int16
	huff           Tables
	restart        int
	photometricRGB bool
}

func parseSOF(body []byte) (width, height int, components []Component, compIDs []int, err error) {
	if len(body) < 6 {
		return 0, 0, nil, nil, fmt.Errorf("jpeg: SOF segment truncated")
	}
	precision := body[0]
	if precision != 8 {
		return 0, 0, nil, nil, fmt.Errorf("jpeg: unsupported sample precision %d bits", precision)
	}
	// Height precedes width in the wire format; a prior bug in this
	// package's ancestor swapped the two labels without swapping the
	// offsets, which happened to read correctly anyway since it was
	// consistent between its test() and load() paths — this decoder reads
	// the true field order directly.
	height = readU16BE(body, 1)
	width = readU16BE(body, 3)
	count := int(body[5])
	if count != 1 && count != 3 {
		return 0, 0, nil, nil, fmt.Errorf("jpeg: unsupported component count %d", count)
	}
	if len(body) < 6+count*3 {
		return 0, 0, nil, nil, fmt.Errorf("jpeg: SOF component list truncated")
	}
	components = make([]Component, count)
	compIDs = make([]int, count)
	for i := 0; i < count; i++ {
		off := 6 + i*3
		compIDs[i] = int(body[off])
		components[i] = Component{
			SamplingH:     int(body[off+1] >> 4),
			SamplingV:     int(body[off+1] & 0x0F),
			QuantSelector: int(body[off+2]),
		}
	}
	return width, height, components, compIDs, nil
}

func parseDQT(body []byte, quant *[4][64]int16) error {
	for len(body) > 0 {
		precision16 := body[0]>>4 != 0
		slot := int(body[0] & 0x0F)
		if slot > 3 {
			return fmt.Errorf("jpeg: DQT table slot %d out of range", slot)
		}
		n, err := LoadQuantTable(body[1:], precision16, &quant[slot])
		if err != nil {
			return err
		}
		body = body[1+n:]
	}
	return nil
}

func parseDHT(body []byte, tables *Tables) error {
	for len(body) > 0 {
		class := body[0] >> 4
		slot := int(body[0] & 0x0F)
		if slot > 3 {
			return fmt.Errorf("jpeg: DHT table slot %d out of range", slot)
		}
		if len(body) < 17 {
			return fmt.Errorf("jpeg: DHT segment truncated")
		}
		var bits [16]byte
		copy(bits[:], body[1:17])
		total := 0
		for _, c := range bits {
			total += int(c)
		}
		if len(body) < 17+total {
			return fmt.Errorf("jpeg: DHT symbol list truncated")
		}
		huffval := body[17 : 17+total]
		table, err := huffman.Build(bits, huffval)
		if err != nil {
			return err
		}
		if class == 0 {
			tables.DC[slot] = table
		} else {
			tables.AC[slot] = table
		}
		body = body[17+total:]
	}
	return nil
}

func parseSOS(body []byte, compIDs []int) (scan ScanState, headerLen int, err error) {
	if len(body) < 1 {
		return scan, 0, fmt.Errorf("jpeg: SOS segment truncated")
	}
	n := int(body[0])
	if len(body) < 1+n*2+3 {
		return scan, 0, fmt.Errorf("jpeg: SOS component list truncated")
	}
	for i := 0; i < n; i++ {
		id := int(body[1+i*2])
		sel := body[1+i*2+1]
		idx := -1
		for ci, cid := range compIDs {
			if cid == id {
				idx = ci
				break
			}
		}
		if idx < 0 {
			return scan, 0, fmt.Errorf("jpeg: SOS references undeclared component id %d", id)
		}
		scan.ComponentMask |= 1 << uint(idx)
		scan.DCSelector[idx] = int(sel >> 4)
		scan.ACSelector[idx] = int(sel & 0x0F)
	}
	tail := body[1+n*2:]
	scan.SpectralStart = int(tail[0])
	scan.SpectralEnd = int(tail[1])
	scan.ApproxHigh = int(tail[2] >> 4)
	scan.ApproxLow = int(tail[2] & 0x0F)
	scan.Refine = scan.ApproxHigh != 0
	return scan, 1 + n*2 + 3, nil
}

// Decode parses a full JPEG byte stream into an ARGB raster.
func Decode(data []byte) (*raster.Raster, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, fmt.Errorf("jpeg: missing SOI marker")
	}
	d := &decoder{}
	sr := scalar.New(data)
	pos := 2

	for {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("jpeg: truncated stream before EOI")
		}
		pos = skipFill(data, pos)
		if data[pos] != 0xFF {
			return nil, fmt.Errorf("jpeg: expected marker at offset %d", pos)
		}
		marker := data[pos+1]
		if marker == 0xD9 {
			break
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			pos += 2
			continue
		}
		lengthU16, err := sr.U16BE(pos + 2)
		if err != nil {
			return nil, fmt.Errorf("jpeg: truncated marker segment: %w", err)
		}
		length := int(lengthU16)
		if length < 2 || pos+2+length > len(data) {
			return nil, fmt.Errorf("jpeg: marker segment length out of range")
		}
		body := data[pos+4 : pos+2+length]

		switch marker {
		case 0xC0, 0xC1, 0xC2:
			width, height, components, compIDs, err := parseSOF(body)
			if err != nil {
				return nil, err
			}
			frame, err := NewFrame(width, height, components)
			if err != nil {
				return nil, err
			}
			d.frame = frame
			d.compIDs = compIDs
		case 0xC3, 0xC5, 0xC6, 0xC7, 0xC9, 0xCA, 0xCB, 0xCD, 0xCE, 0xCF:
			return nil, fmt.Errorf("jpeg: unsupported SOF variant %#02x", marker)
		case 0xCC:
			return nil, fmt.Errorf("jpeg: arithmetic coding is not supported")
		case 0xDB:
			if err := parseDQT(body, &d.quant); err != nil {
				return nil, err
			}
		case 0xC4:
			if err := parseDHT(body, &d.huff); err != nil {
				return nil, err
			}
		case 0xDD:
			if len(body) < 2 {
				return nil, fmt.Errorf("jpeg: DRI segment truncated")
			}
			d.restart = readU16BE(body, 0)
		case 0xE1:
			rgb, err := ParseAPP1(body)
			if err != nil {
				return nil, err
			}
			if rgb {
				d.photometricRGB = true
			}
		case 0xDA:
			if d.frame == nil {
				return nil, fmt.Errorf("jpeg: SOS segment before SOF")
			}
			scan, headerLen, err := parseSOS(body, d.compIDs)
			if err != nil {
				return nil, err
			}
			scan.RestartInterval = d.restart
			scan.RestartLeft = d.restart
			entropyStart := pos + 4 + headerLen
			r := bitio.NewReader(data, entropyStart)
			for i := 0; i < d.frame.MBTotal; i++ {
				UnpackMacroblock(r, d.frame.MacroblockCoeffs(i), &d.huff, d.frame, &scan, data)
			}
			pos = r.Leave()
			continue
		default:
			// Unrecognized or uninteresting segment (APP0, COM, other
			// APPn): skip over it.
		}
		pos += 2 + length
	}

	if d.frame == nil {
		return nil, fmt.Errorf("jpeg: no SOF segment found")
	}
	if d.photometricRGB && d.frame.MBType == TypeYUV444 {
		d.frame.MBType = TypeRGB444
	}

	var qtable [4][64]int16
	for i, c := range d.frame.Components {
		qtable[i] = d.quant[c.QuantSelector]
	}
	for i := 0; i < d.frame.MBTotal; i++ {
		ConvertBlocks(d.frame.MacroblockCoeffs(i), d.frame.CoeffsPerMB/64, d.frame.MBType, &qtable)
	}

	out, err := raster.New(d.frame.Width, d.frame.Height)
	if err != nil {
		return nil, err
	}
	Upsample(d.frame, out)
	return out, nil
}
