package jpeg

// MBType discriminates the chroma subsampling layout of a frame. Each value
// also packs the macroblock's per-block quantization-table slots, two bits
// per block starting at the lowest bits, with a 2-bit group of 3 marking
// the end of the macroblock; ConvertBlocks walks it in that form.
type MBType uint16

const (
	TypeY       MBType = 0x000C
	TypeYUV420  MBType = 0x3900
	TypeYUV422  MBType = 0x0390
	TypeYUV440  MBType = 0x1390
	TypeYUV444  MBType = 0x00E4
	TypeRGB444  MBType = 0x01E4
)

// CoeffsPerMB returns how many i16 coefficients one macroblock of this type
// occupies in the flat coefficient plane.
func (t MBType) CoeffsPerMB() int {
	switch t {
	case TypeY:
		return 64
	case TypeYUV420:
		return 384
	case TypeYUV422, TypeYUV440:
		return 256
	case TypeYUV444, TypeRGB444:
		return 192
	default:
		return 0
	}
}

// Folding is the fixed 64-entry permutation composing zigzag scan order
// with the internal block layout the two-pass IDCT expects. Every place a
// coefficient is written by the entropy decoder, or read by the quant
// table loader, goes through this table.
var Folding = [64]uint8{
	56, 57, 8, 40, 9, 58, 59, 10,
	41, 0, 48, 1, 42, 11, 60, 61,
	12, 43, 2, 49, 16, 32, 17, 50,
	3, 44, 13, 62, 63, 14, 45, 4,
	51, 18, 33, 24, 25, 34, 19, 52,
	5, 46, 15, 47, 6, 53, 20, 35,
	26, 27, 36, 21, 54, 7, 55, 22,
	37, 28, 29, 38, 23, 39, 30, 31,
}

// Fix is the fractional-bit count the fixed-point cosine constants below
// are scaled by (2^Fix == one).
const Fix = 5

// The eight rational cosine constants cos(k*pi/16), each truncated to
// cos(k*pi/16) * 2^Fix (matching a float-to-int16 truncation, not a
// rounding conversion), used by the two-pass IDCT kernel.
const (
	C0 int16 = 32 // 1.0
	C1 int16 = 31 // 0.98078528
	C2 int16 = 29 // 0.92387953
	C3 int16 = 26 // 0.83146961
	C4 int16 = 22 // 0.70710678
	C5 int16 = 17 // 0.55557023
	C6 int16 = 12 // 0.38268343
	C7 int16 = 6  // 0.19509032
)

const (
	c7pc1 = C7 + C1
	c5pc3 = C5 + C3
	c7mc1 = C7 - C1
	c5mc3 = C5 - C3
	c0s   = C0 >> 1
	c6pc2 = C6 + C2
	c6mc2 = C6 - C2
)

// unswizzleTransposeSwizzle composes a transpose with the zigzag unfolding
// between the two IDCT passes.
var unswizzleTransposeSwizzle = [64]uint8{
	3, 11, 27, 19, 51, 59, 43, 35,
	1, 9, 25, 17, 49, 57, 41, 33,
	5, 13, 29, 21, 53, 61, 45, 37,
	7, 15, 31, 23, 55, 63, 47, 39,
	6, 14, 30, 22, 54, 62, 46, 38,
	2, 10, 26, 18, 50, 58, 42, 34,
	4, 12, 28, 20, 52, 60, 44, 36,
	0, 8, 24, 16, 48, 56, 40, 32,
}

// unswizzleTranspose restores natural-order output after the second IDCT
// pass: a transpose combined with undoing partialIDCT's output row order
// (no zigzag component left to undo).
var unswizzleTranspose = [64]uint8{
	0, 8, 24, 16, 48, 56, 40, 32,
	1, 9, 25, 17, 49, 57, 41, 33,
	2, 10, 26, 18, 50, 58, 42, 34,
	3, 11, 27, 19, 51, 59, 43, 35,
	4, 12, 28, 20, 52, 60, 44, 36,
	5, 13, 29, 21, 53, 61, 45, 37,
	6, 14, 30, 22, 54, 62, 46, 38,
	7, 15, 31, 23, 55, 63, 47, 39,
}

// Marker is a 2-byte JPEG marker code (the FFxx value, including the FF).
type Marker uint16

const (
	MarkerSOI  Marker = 0xFFD8
	MarkerSOF0 Marker = 0xFFC0
	MarkerSOF1 Marker = 0xFFC1
	MarkerSOF2 Marker = 0xFFC2
	MarkerDHT  Marker = 0xFFC4
	MarkerDQT  Marker = 0xFFDB
	MarkerSOS  Marker = 0xFFDA
	MarkerDRI  Marker = 0xFFDD
	MarkerAPP1 Marker = 0xFFE1
	MarkerEOI  Marker = 0xFFD9
	MarkerRST0 Marker = 0xFFD0
	MarkerRST7 Marker = 0xFFD7
)
