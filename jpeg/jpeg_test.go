package jpeg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pixelforge/rasterdec/raster"
)

func TestEncodeReturnsUnsupported(t *testing.T) {
	r, err := raster.New(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := Encode(&bytes.Buffer{}, r); !errors.Is(err, ErrEncodeUnsupported) {
		t.Fatalf("Encode() error = %v, want ErrEncodeUnsupported", err)
	}
}

func TestDecodeConfigRejectsNonJPEG(t *testing.T) {
	if _, err := DecodeConfig(bytes.NewReader([]byte("not a jpeg"))); err == nil {
		t.Fatal("DecodeConfig() error = nil, want error")
	}
}
