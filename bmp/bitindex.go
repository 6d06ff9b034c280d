package bmp

const bitsPerByte = 8

// bitIndex is a cursor over a byte slice yielding up to size successive
// nbits-wide unsigned values, packed MSB-first. nbits must be 1, 4 or 8:
// for those widths fields never straddle a byte boundary, which is the
// only packing BMP rows use.
type bitIndex struct {
	size     int
	nbits    int
	bitsLeft int
	mask     byte
	bytes    []byte
	index    int
}

func newBitIndex(bytes []byte, nbits, size int) *bitIndex {
	bitsLeft := bitsPerByte - nbits

	return &bitIndex{
		size:     size,
		nbits:    nbits,
		bitsLeft: bitsLeft,
		mask:     0xFF >> bitsLeft,
		bytes:    bytes,
	}
}

// Next yields the next field value. ok is false once size values have
// been produced, or earlier if the byte slice runs out first; an
// exhausted cursor never resumes.
func (bi *bitIndex) Next() (val int, ok bool) {
	n := bi.index / bitsPerByte
	offset := bi.bitsLeft - bi.index%bitsPerByte
	bi.index += bi.nbits

	if bi.size == 0 {
		return 0, false
	}
	bi.size--

	if n >= len(bi.bytes) {
		return 0, false
	}
	block := bi.bytes[n]

	return int((block & (bi.mask << offset)) >> offset), true
}
