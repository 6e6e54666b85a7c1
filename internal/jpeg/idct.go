package jpeg

import "github.com/pixelforge/rasterdec/internal/pool"

// partialIDCT runs one 1-D pass of the fixed-point inverse DCT across the
// eight columns of an 8x8 block stored row-major in inp, writing the
// transformed columns to out. Two passes, separated by a transpose-like
// permutation, perform the full 2-D inverse transform.
func partialIDCT(out, in []int32) {
	for i := 0; i < 8; i++ {
		x3 := in[i]
		x1 := in[i+8]
		x5 := in[i+16]
		x7 := in[i+24]
		x6 := in[i+32]
		x2 := in[i+40]
		x4 := in[i+48]
		x0 := in[i+56]

		q17 := int32(C1) * (x1 + x7)
		q35 := int32(C3) * (x3 + x5)
		r3 := int32(c7pc1)*x1 - q17
		d3 := int32(c5pc3)*x3 - q35
		r0 := int32(c7mc1)*x7 + q17
		d0 := int32(c5mc3)*x5 + q35
		b0 := r0 + d0
		d2 := r3 + d3
		d1 := r0 - d0
		b3 := r3 - d3
		b1 := int32(C4) * ((d1 + d2) >> Fix)
		b2 := int32(C4) * ((d1 - d2) >> Fix)
		q26 := int32(C2) * (x2 + x6)
		p04 := int32(C4)*(x0+x4) + int32(c0s)
		n04 := int32(C4)*(x0-x4) + int32(c0s)
		p26 := int32(c6mc2)*x6 + q26
		n62 := int32(c6pc2)*x2 - q26
		a0 := p04 + p26
		a1 := n04 + n62
		a3 := p04 - p26
		a2 := n04 - n62

		out[i] = (a0 + b0) >> (Fix + 1)
		out[i+8] = (a1 + b1) >> (Fix + 1)
		out[i+16] = (a3 + b3) >> (Fix + 1)
		out[i+24] = (a2 + b2) >> (Fix + 1)
		out[i+32] = (a0 - b0) >> (Fix + 1)
		out[i+40] = (a1 - b1) >> (Fix + 1)
		out[i+48] = (a3 - b3) >> (Fix + 1)
		out[i+56] = (a2 - b2) >> (Fix + 1)
	}
}

func permute(out, in []int32, table *[64]uint8) {
	for i, src := range table {
		out[i] = in[src]
	}
}

// ConvertBlock dequantizes one 8x8 block (coefficients and quant table both
// already in Folding order) and runs the full two-pass IDCT in place,
// using temp0..temp3 and natural as scratch (each must have length 64).
func ConvertBlock(block *[64]int16, qtable *[64]int16, temp0, temp1, temp2, temp3, natural []int32) {
	for i := range temp0 {
		temp0[i] = int32(block[i]) * int32(qtable[i])
	}
	partialIDCT(temp1, temp0)
	permute(temp2, temp1, &unswizzleTransposeSwizzle)
	partialIDCT(temp3, temp2)
	permute(natural, temp3, &unswizzleTranspose)
	for i, v := range natural {
		block[i] = int16(v)
	}
}

// ConvertBlocks runs ConvertBlock over count consecutive 8x8 blocks packed
// in coeffs, selecting a quantization table per block according to
// pattern: the low 2 bits name a quant-table slot (0..2) for the current
// block, then pattern shifts right by 2; the pattern reloads from its
// original value whenever two slot-selector bits in a row both come up
// set (the sentinel marking "restart the per-macroblock component cycle").
//
// A full frame runs this over many thousands of blocks, so the five
// scratch buffers ConvertBlock needs are drawn from pool once and reused
// across every block rather than allocated per call.
func ConvertBlocks(coeffs []int16, count int, pattern MBType, qtable *[4][64]int16) {
	temp0 := pool.GetBlock()
	temp1 := pool.GetBlock()
	temp2 := pool.GetBlock()
	temp3 := pool.GetBlock()
	natural := pool.GetBlock()
	defer func() {
		pool.PutBlock(temp0)
		pool.PutBlock(temp1)
		pool.PutBlock(temp2)
		pool.PutBlock(temp3)
		pool.PutBlock(natural)
	}()

	curp := uint16(pattern)
	for i := 0; i < count; i++ {
		if curp&3 == 3 {
			curp = uint16(pattern)
		}
		block := (*[64]int16)(coeffs[i*64 : i*64+64])
		ConvertBlock(block, &qtable[curp&3], temp0, temp1, temp2, temp3, natural)
		curp >>= 2
	}
}
