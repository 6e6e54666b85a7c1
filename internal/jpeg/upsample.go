package jpeg

import "github.com/pixelforge/rasterdec/raster"

// layout describes how one macroblock's coefficient blocks are arranged
// in pixel space, derived purely from the luma sampling factors. Luma
// blocks tile a sampH x sampV grid of 8x8 blocks; a single chroma block
// (when present) covers the whole macroblock at 1/sampH x 1/sampV
// resolution, addressed by integer-dividing the local luma pixel
// coordinate by the sampling factor — this replaces indexing by a fixed
// "two rows of macroblocks" offset with one driven only by geometry, so
// it generalizes correctly to every subsampling ratio without needing a
// frame-wide stride.
type layout struct {
	sampH, sampV int
	hasChroma    bool
	rgb          bool // components are R,G,B directly, not Y,U,V
}

func layoutFor(t MBType) layout {
	switch t {
	case TypeY:
		return layout{sampH: 1, sampV: 1}
	case TypeYUV420:
		return layout{sampH: 2, sampV: 2, hasChroma: true}
	case TypeYUV422:
		return layout{sampH: 2, sampV: 1, hasChroma: true}
	case TypeYUV440:
		return layout{sampH: 1, sampV: 2, hasChroma: true}
	case TypeYUV444:
		return layout{sampH: 1, sampV: 1, hasChroma: true}
	case TypeRGB444:
		return layout{sampH: 1, sampV: 1, hasChroma: true, rgb: true}
	default:
		return layout{sampH: 1, sampV: 1}
	}
}

func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// yuvToRGB applies the fixed-point BT.601 inverse used throughout this
// package: y, u, v are already bias-shifted (y has +128 added by the
// caller; u, v are centered on 0).
func yuvToRGB(y, u, v int32) (r, g, b uint8) {
	r = clamp8((y<<8 + 359*v) >> 8)
	g = clamp8((y<<8 - 88*u - 183*v) >> 8)
	b = clamp8((y<<8 + 454*u) >> 8)
	return
}

// Upsample converts a fully IDCT-transformed coefficient plane into pixel
// samples written into dst.
func Upsample(frame *Frame, dst *raster.Raster) {
	lay := layoutFor(frame.MBType)
	mbPixelW := 8 * lay.sampH
	mbPixelH := 8 * lay.sampV
	lumaBlocks := lay.sampH * lay.sampV

	for mbY := 0; mbY < frame.MBRows; mbY++ {
		for mbX := 0; mbX < frame.MBCols; mbX++ {
			mb := frame.MacroblockCoeffs(mbY*frame.MBCols + mbX)
			originX := mbX * mbPixelW
			originY := mbY * mbPixelH

			maxLX := mbPixelW
			if originX+maxLX > frame.Width {
				maxLX = frame.Width - originX
			}
			maxLY := mbPixelH
			if originY+maxLY > frame.Height {
				maxLY = frame.Height - originY
			}
			if maxLX <= 0 || maxLY <= 0 {
				continue
			}

			var chromaA, chromaB []int16
			if lay.hasChroma {
				chromaA = mb[lumaBlocks*64 : lumaBlocks*64+64]
				chromaB = mb[lumaBlocks*64+64 : lumaBlocks*64+128]
			}

			for ly := 0; ly < maxLY; ly++ {
				for lx := 0; lx < maxLX; lx++ {
					blockIdx := (ly/8)*lay.sampH + (lx / 8)
					block := mb[blockIdx*64 : blockIdx*64+64]
					sample := int32(block[(ly%8)*8+(lx%8)]) + 128

					var r, g, b uint8
					if !lay.hasChroma {
						y := clamp8(sample)
						r, g, b = y, y, y
					} else if lay.rgb {
						cx, cy := lx/lay.sampH, ly/lay.sampV
						r = clamp8(sample)
						g = clamp8(int32(chromaA[cy*8+cx]) + 128)
						b = clamp8(int32(chromaB[cy*8+cx]) + 128)
					} else {
						cx, cy := lx/lay.sampH, ly/lay.sampV
						u := int32(chromaA[cy*8+cx])
						v := int32(chromaB[cy*8+cx])
						r, g, b = yuvToRGB(sample, u, v)
					}
					dst.Set(originX+lx, originY+ly, raster.Pack(255, r, g, b))
				}
			}
		}
	}
}
