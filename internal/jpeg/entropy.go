package jpeg

import (
	"github.com/pixelforge/rasterdec/internal/bitio"
	"github.com/pixelforge/rasterdec/internal/huffman"
)

// makeCoeff reconstructs a signed coefficient from its category (bit
// length) and the raw bits just read: a set top bit means the value is
// the positive magnitude code itself; a clear top bit means the value is
// negative, offset down from -(2^cat - 1).
func makeCoeff(cat uint8, code uint32) int32 {
	mcat := cat - 1
	hmcat := int32(1) << mcat
	base := int32(code) & (hmcat - 1)
	if int32(code)&hmcat != 0 {
		return base + hmcat
	}
	return base + 1 - (int32(1) << cat)
}

// Tables bundles the four DC and four AC Huffman tables a frame can
// declare, addressed by DHT slot.
type Tables struct {
	DC [4]*huffman.Table
	AC [4]*huffman.Table
}

func unpackSequential(r *bitio.Reader, coeffs []int16, dcht, acht *huffman.Table, dc *int16) {
	cat := r.Decode(dcht)
	if cat > 0 {
		code := r.ReadBits(int(cat))
		*dc += int16(makeCoeff(cat, code))
	}
	coeffs[Folding[0]] = *dc

	i := 1
	for i < 64 {
		runcat := r.Decode(acht)
		run := int(runcat >> 4)
		cat := runcat & 15
		if cat > 0 {
			code := r.ReadBits(int(cat))
			coeff := int16(makeCoeff(cat, code))
			i += run
			coeffs[Folding[i]] = coeff
		} else if run == 15 {
			i += 15
		} else {
			break // EOB
		}
		i++
	}
}

func unpackProgressiveStartDC(r *bitio.Reader, coeffs []int16, dcht *huffman.Table, dc *int16, shift int) {
	cat := r.Decode(dcht)
	if cat > 0 {
		code := r.ReadBits(int(cat))
		*dc += int16(makeCoeff(cat, code))
	}
	coeffs[Folding[0]] = *dc << uint(shift)
}

func unpackProgressiveStartAC(r *bitio.Reader, coeffs []int16, acht *huffman.Table, start, end, shift int, eobrun *int) {
	if *eobrun != 0 {
		*eobrun--
		return
	}
	i := start
	for i <= end {
		runcat := r.Decode(acht)
		run := int(runcat >> 4)
		cat := runcat & 15
		if cat != 0 {
			code := r.ReadBits(int(cat))
			coeff := makeCoeff(cat, code)
			i += run
			coeffs[Folding[i]] = int16(coeff << uint(shift))
		} else if run == 15 {
			i += 15
		} else {
			*eobrun = 1 << uint(run)
			if run != 0 {
				*eobrun += int(r.ReadBits(run))
			}
			*eobrun--
			return
		}
		i++
	}
}

func unpackProgressiveRefineDC(r *bitio.Reader, coeffs []int16, shift int) {
	if r.ReadBit() != 0 {
		coeffs[Folding[0]] |= 1 << uint(shift)
	}
}

// updateNonzeros walks [start, end], refining every already-nonzero
// coefficient with one bit each, and returns the position at which count
// zero coefficients have been skipped over (used both to land on the
// slot a new coefficient belongs at, and to refine a full band on EOB).
func updateNonzeros(r *bitio.Reader, coeffs []int16, start, end, shift, count int) int {
	i := start
	k := count
	for i <= end {
		if coeffs[Folding[i]] != 0 {
			if r.ReadBit() != 0 {
				if coeffs[Folding[i]] > 0 {
					coeffs[Folding[i]] += int16(1 << uint(shift))
				} else {
					coeffs[Folding[i]] -= int16(1 << uint(shift))
				}
			}
		} else {
			if k == 0 {
				return i
			}
			k--
		}
		i++
	}
	return i
}

func unpackProgressiveRefineAC(r *bitio.Reader, coeffs []int16, acht *huffman.Table, start, end, shift int, eobrun *int) {
	if *eobrun != 0 {
		updateNonzeros(r, coeffs, start, end, shift, 64)
		*eobrun--
		return
	}
	i := start
	for i <= end {
		runcat := r.Decode(acht)
		run := int(runcat >> 4)
		cat := runcat & 15
		if cat != 0 {
			sb := r.ReadBit() != 0
			i = updateNonzeros(r, coeffs, i, end, shift, run)
			if sb {
				coeffs[Folding[i]] = int16(1 << uint(shift))
			} else {
				// Corrected from the buggy reference, which wrote
				// 11<<shift here instead of the negation.
				coeffs[Folding[i]] = -int16(1 << uint(shift))
			}
		} else if run == 15 {
			i = updateNonzeros(r, coeffs, i, end, shift, 15)
		} else {
			*eobrun = 1 << uint(run)
			if run != 0 {
				*eobrun += int(r.ReadBits(run))
			}
			*eobrun--
			updateNonzeros(r, coeffs, i, end, shift, 64)
			return
		}
		i++
	}
}

func unpackBlock(r *bitio.Reader, coeffs []int16, dcht, acht *huffman.Table, dc *int16, start, end, shift int, refine bool, eobrun *int) {
	if refine {
		if start == 0 {
			unpackProgressiveRefineDC(r, coeffs, shift)
		} else {
			unpackProgressiveRefineAC(r, coeffs, acht, start, end, shift, eobrun)
		}
		return
	}
	if start == 0 {
		if end == 63 && shift == 0 {
			unpackSequential(r, coeffs, dcht, acht, dc)
		} else {
			unpackProgressiveStartDC(r, coeffs, dcht, dc, shift)
		}
		return
	}
	unpackProgressiveStartAC(r, coeffs, acht, start, end, shift, eobrun)
}

// UnpackMacroblock decodes one macroblock's worth of entropy-coded blocks
// according to mbType, honoring scan's component mask and table
// selectors, then (if a restart interval is active) handles restart
// resynchronization after the last macroblock in the interval.
func UnpackMacroblock(r *bitio.Reader, coeffs []int16, tables *Tables, frame *Frame, scan *ScanState, data []byte) {
	dt, at := scan.DCSelector, scan.ACSelector
	start, end, shift, refine := scan.SpectralStart, scan.SpectralEnd, scan.ApproxLow, scan.Refine
	eobrun := &scan.EOBRun

	unpackComponent := func(blockOff, comp int) {
		unpackBlock(r, coeffs[blockOff:blockOff+64], tables.DC[dt[comp]], tables.AC[at[comp]],
			&scan.DCPredictors[comp], start, end, shift, refine, eobrun)
	}

	switch frame.MBType {
	case TypeY:
		if scan.ComponentMask&1 != 0 {
			unpackComponent(0, 0)
		}
	case TypeYUV420:
		if scan.ComponentMask&1 != 0 {
			unpackComponent(0, 0)
			unpackComponent(64, 0)
			unpackComponent(128, 0)
			unpackComponent(192, 0)
		}
		if scan.ComponentMask&2 != 0 {
			unpackComponent(256, 1)
		}
		if scan.ComponentMask&4 != 0 {
			unpackComponent(320, 2)
		}
	case TypeYUV422, TypeYUV440:
		if scan.ComponentMask&1 != 0 {
			unpackComponent(0, 0)
			unpackComponent(64, 0)
		}
		if scan.ComponentMask&2 != 0 {
			unpackComponent(128, 1)
		}
		if scan.ComponentMask&4 != 0 {
			unpackComponent(192, 2)
		}
	case TypeYUV444, TypeRGB444:
		if scan.ComponentMask&1 != 0 {
			unpackComponent(0, 0)
		}
		if scan.ComponentMask&2 != 0 {
			unpackComponent(64, 1)
		}
		if scan.ComponentMask&4 != 0 {
			unpackComponent(128, 2)
		}
	}

	if scan.RestartInterval == 0 {
		return
	}
	scan.RestartLeft--
	if scan.RestartLeft != 0 {
		return
	}
	pos := r.Leave()
	if pos+1 < len(data) && data[pos] == 0xFF && data[pos+1] >= 0xD0 && data[pos+1] < 0xD8 {
		pos += 2
		scan.RestartLeft = scan.RestartInterval
		scan.DCPredictors[0] = 0
		scan.DCPredictors[1] = 0
		scan.DCPredictors[2] = 0
	}
	r.Reset(pos)
}
