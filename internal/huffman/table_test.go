package huffman

import "testing"

func TestBuildRejectsMismatchedHistogram(t *testing.T) {
	var bits [16]byte
	bits[0] = 2 // claims two 1-bit codes
	if _, err := Build(bits, []byte{0x00}); err == nil {
		t.Fatal("want error when huffval is shorter than the bits histogram implies")
	}
}

func TestBuildSingleBitCodes(t *testing.T) {
	// Two 1-bit codes: symbol 0x00 -> code 0, symbol 0x01 -> code 1.
	var bits [16]byte
	bits[0] = 2
	table, err := Build(bits, []byte{0x00, 0x01})
	if err != nil {
		t.Fatal(err)
	}
	if sym, length := table.Lookup(0x0000); sym != 0x00 || length != 1 {
		t.Fatalf("Lookup(0x0000) = %#x, %d", sym, length)
	}
	if sym, length := table.Lookup(0xFFFF); sym != 0x01 || length != 1 {
		t.Fatalf("Lookup(0xFFFF) = %#x, %d", sym, length)
	}
	// Every 16-bit value with top bit 0 must resolve to the same entry.
	if sym, length := table.Lookup(0x4000); sym != 0x00 || length != 1 {
		t.Fatalf("Lookup(0x4000) = %#x, %d", sym, length)
	}
}

func TestBuildMixedLengthCodes(t *testing.T) {
	// Canonical JPEG-style table: one 2-bit code, two 3-bit codes.
	var bits [16]byte
	bits[1] = 1 // length 2
	bits[2] = 2 // length 3
	table, err := Build(bits, []byte{0xAA, 0xBB, 0xCC})
	if err != nil {
		t.Fatal(err)
	}
	// code 00 (length 2) -> 0xAA
	if sym, length := table.Lookup(0x0000); sym != 0xAA || length != 2 {
		t.Fatalf("Lookup(0x0000) = %#x, %d", sym, length)
	}
	// code 010 (length 3) -> 0xBB
	if sym, length := table.Lookup(0b0100_0000_0000_0000); sym != 0xBB || length != 3 {
		t.Fatalf("Lookup(010...) = %#x, %d", sym, length)
	}
	// code 011 (length 3) -> 0xCC
	if sym, length := table.Lookup(0b0110_0000_0000_0000); sym != 0xCC || length != 3 {
		t.Fatalf("Lookup(011...) = %#x, %d", sym, length)
	}
}

func TestBuildRejectsMissingSymbolForLength16Code(t *testing.T) {
	// bits[15] declares one length-16 code, which is valid, but huffval
	// supplies no symbol for it, so Build must fail on the huffval/bits
	// mismatch. (The length>16 branch is unreachable given a fixed-size
	// [16]byte, and is defensive.)
	var bits [16]byte
	bits[15] = 1
	if _, err := Build(bits, nil); err == nil {
		t.Fatal("want error when huffval is empty but bits claims a code")
	}
}
