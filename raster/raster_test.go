package raster

import (
	"image/color"
	"testing"
)

func TestNewRejectsOutOfRangeDimensions(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"width too large", MaxDimension + 1, 4},
		{"height too large", 4, MaxDimension + 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := New(c.width, c.height); err == nil {
				t.Fatalf("New(%d, %d): want error, got nil", c.width, c.height)
			}
		})
	}
}

func TestNewSampleCount(t *testing.T) {
	r, err := New(3, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Samples) != 3*5 {
		t.Fatalf("len(Samples) = %d, want %d", len(r.Samples), 15)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	word := Pack(0x80, 0xFF, 0x00, 0x40)
	a, r, g, b := Unpack(word)
	if a != 0x80 || r != 0xFF || g != 0x00 || b != 0x40 {
		t.Fatalf("Unpack(Pack(...)) = %#x %#x %#x %#x", a, r, g, b)
	}
}

func TestRasterImplementsImageImage(t *testing.T) {
	r, err := New(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	r.Set(0, 0, Pack(255, 10, 20, 30))
	r.Set(1, 0, Pack(0, 0, 0, 0))

	bounds := r.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 1 {
		t.Fatalf("Bounds() = %v", bounds)
	}
	got := r.At(0, 0)
	want := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	if got != want {
		t.Fatalf("At(0,0) = %v, want %v", got, want)
	}
}

func TestRowIsAView(t *testing.T) {
	r, err := New(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	row := r.Row(1)
	row[0] = 0xAABBCCDD
	if r.AtWord(0, 1) != 0xAABBCCDD {
		t.Fatalf("Row() did not alias the underlying storage")
	}
}
