// Package huffman builds the direct lookup tables JPEG entropy decoding
// uses to turn a DHT segment's (bits, huffval) pair into an O(1) symbol
// lookup keyed by the next 16 bits of the bitstream.
package huffman

import "fmt"

// entry packs a decoded symbol and the number of bits its code occupies.
// length 0 marks a slot that no assigned code covers (an incomplete
// table); every slot under a shorter code's prefix carries that code's
// real length.
type entry struct {
	symbol uint8
	length uint8
}

// Table is a direct 65536-entry Huffman decoding table: every possible
// 16-bit bitstream prefix maps straight to a symbol and the true length
// of the code that produced it, so decoding a symbol never walks a tree.
type Table struct {
	entries [65536]entry
}

// Build constructs a Table from a JPEG DHT segment's code-length histogram
// (bits[i] is the number of codes of length i+1, for i in 0..15) and the
// symbols themselves listed in canonical order (huffval). It returns an
// error if a code length exceeds 16 bits, the only length a 16-bit direct
// table can index.
func Build(bits [16]byte, huffval []byte) (*Table, error) {
	var codeLengths []uint8
	for length := 1; length <= 16; length++ {
		count := bits[length-1]
		for i := byte(0); i < count; i++ {
			codeLengths = append(codeLengths, uint8(length))
		}
	}
	if len(codeLengths) != len(huffval) {
		return nil, fmt.Errorf("huffman: bits histogram lists %d codes, huffval has %d symbols", len(codeLengths), len(huffval))
	}

	t := &Table{}
	var code uint32
	prevLength := uint8(0)
	for i, length := range codeLengths {
		if length > 16 {
			return nil, fmt.Errorf("huffman: code length %d exceeds the 16-bit direct table limit", length)
		}
		code <<= uint(length - prevLength)
		prevLength = length

		symbol := huffval[i]
		// The code occupies the top `length` bits of a 16-bit field;
		// every 16-bit value sharing that prefix decodes to it.
		prefix := uint16(code) << uint(16-length)
		fill := uint16(1) << uint(16-length)
		for v := prefix; ; v++ {
			t.entries[v] = entry{symbol: symbol, length: length}
			if v == prefix+fill-1 {
				break
			}
		}
		code++
	}
	return t, nil
}

// Lookup returns the symbol and code length encoded by the top 16 bits of
// the bitstream, peek16. A length of 0 means peek16 did not match any
// assigned code (a corrupt stream or a table built from bad DHT data).
func (t *Table) Lookup(peek16 uint16) (symbol uint8, length uint8) {
	e := t.entries[peek16]
	return e.symbol, e.length
}
