package png

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	stdpng "image/png"
	"testing"

	"github.com/pixelforge/rasterdec/raster"
)

func encodeStdPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := stdpng.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTestReportsDimensions(t *testing.T) {
	data := encodeStdPNG(t, 3, 2)
	w, h, ok := Test(data)
	if !ok || w != 3 || h != 2 {
		t.Fatalf("Test() = (%d, %d, %v), want (3, 2, true)", w, h, ok)
	}
}

func TestTestRejectsNonPNG(t *testing.T) {
	if _, _, ok := Test([]byte("not a png")); ok {
		t.Fatal("Test() = true, want false")
	}
}

func TestDecodeProducesRaster(t *testing.T) {
	data := encodeStdPNG(t, 2, 2)
	r, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 2 || r.Height != 2 {
		t.Fatalf("decoded dims = %dx%d, want 2x2", r.Width, r.Height)
	}
}

func TestEncodeReturnsUnsupported(t *testing.T) {
	r, err := raster.New(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := Encode(&bytes.Buffer{}, r); !errors.Is(err, ErrEncodeUnsupported) {
		t.Fatalf("Encode() error = %v, want ErrEncodeUnsupported", err)
	}
}
