package scalar

import "testing"

func TestLittleEndianReads(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03, 0x04})
	u16, err := r.U16LE(0)
	if err != nil || u16 != 0x0201 {
		t.Fatalf("U16LE(0) = %#x, %v", u16, err)
	}
	u32, err := r.U32LE(0)
	if err != nil || u32 != 0x04030201 {
		t.Fatalf("U32LE(0) = %#x, %v", u32, err)
	}
}

func TestBigEndianReads(t *testing.T) {
	r := New([]byte{0xFF, 0xD8, 0x00, 0x10})
	u16, err := r.U16BE(0)
	if err != nil || u16 != 0xFFD8 {
		t.Fatalf("U16BE(0) = %#x, %v", u16, err)
	}
}

func TestShortBufferIsAnErrorNotAPanic(t *testing.T) {
	r := New([]byte{0x01})
	if _, err := r.U16LE(0); err == nil {
		t.Fatal("want error reading 2 bytes from a 1-byte buffer")
	}
	if _, err := r.U32LE(-1); err == nil {
		t.Fatal("want error for negative offset")
	}
}
