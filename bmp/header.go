package bmp

// On-disk header layout, little-endian throughout. The two magic bytes
// "BM" precede BmpHeader but are not part of the struct: the decoder
// checks them before any other field is consumed, and the encoder writes
// them separately.

const (
	bmpMagic = "BM"

	// Byte offsets dictated by the file format: 2 magic bytes, a
	// 12-byte file header and a 40-byte version 3 DIB header.
	magicSize       = 2
	bmpHeaderSize   = 12
	dibV2HeaderSize = 12
	dibV3HeaderSize = 40
	dibV4HeaderSize = 108
	dibV5HeaderSize = 124

	fileHeaderSize = magicSize + bmpHeaderSize
	fullHeaderSize = fileHeaderSize + dibV3HeaderSize
)

// BmpHeader is the file header following the "BM" magic bytes.
type BmpHeader struct {
	FileSize    uint32 `struc:"uint32,little"`
	Creator1    uint16 `struc:"uint16,little"`
	Creator2    uint16 `struc:"uint16,little"`
	PixelOffset uint32 `struc:"uint32,little"`
}

func newBmpHeader(headerSize, dataSize uint32) BmpHeader {
	return BmpHeader{
		FileSize:    headerSize + dataSize,
		Creator1:    0,
		Creator2:    0,
		PixelOffset: headerSize,
	}
}

// BmpDibHeader is the device-independent bitmap header. Only the common
// 40-byte prefix is modelled; the extra fields of the 108- and 124-byte
// variants (color masks, gamma, ICC profile data) are never read.
type BmpDibHeader struct {
	HeaderSize   uint32 `struc:"uint32,little"`
	Width        int32  `struc:"int32,little"`
	Height       int32  `struc:"int32,little"`
	NumPlanes    uint16 `struc:"uint16,little"`
	BitsPerPixel uint16 `struc:"uint16,little"`
	CompressType uint32 `struc:"uint32,little"`
	DataSize     uint32 `struc:"uint32,little"`
	HRes         int32  `struc:"int32,little"`
	VRes         int32  `struc:"int32,little"`
	NumColors    uint32 `struc:"uint32,little"`
	NumImpColors uint32 `struc:"uint32,little"`
}

// newDibHeader builds the version 3 header the encoder emits: 24 bits
// per pixel, uncompressed, no palette, fixed 1000 px/m resolution.
func newDibHeader(width, height int) BmpDibHeader {
	return BmpDibHeader{
		HeaderSize:   dibV3HeaderSize,
		Width:        int32(width),
		Height:       int32(height),
		NumPlanes:    1,
		BitsPerPixel: 24,
		CompressType: 0,
		DataSize:     uint32(rowSize(24, width) * height),
		HRes:         1000,
		VRes:         1000,
		NumColors:    0,
		NumImpColors: 0,
	}
}

// rowSize returns the byte length of one pixel row including padding to
// a 4-byte boundary.
func rowSize(bpp, width int) int {
	return (bpp*width + 31) / 32 * 4
}

type bmpVersion int

const (
	versionTwo bmpVersion = iota
	versionThree
	versionThreeNT
	versionFour
	versionFive
)

// versionFromDibHeader classifies the header size. A 40-byte header with
// compress type 3 is the NT variant, which carries bitfield masks after
// the palette slot and is not supported.
func versionFromDibHeader(dh *BmpDibHeader) (bmpVersion, bool) {
	switch {
	case dh.HeaderSize == dibV2HeaderSize:
		return versionTwo, true
	case dh.HeaderSize == dibV3HeaderSize && dh.CompressType == 3:
		return versionThreeNT, true
	case dh.HeaderSize == dibV3HeaderSize:
		return versionThree, true
	case dh.HeaderSize == dibV4HeaderSize:
		return versionFour, true
	case dh.HeaderSize == dibV5HeaderSize:
		return versionFive, true
	}

	return 0, false
}

func (v bmpVersion) String() string {
	switch v {
	case versionTwo:
		return "BMP Version 2"
	case versionThree:
		return "BMP Version 3"
	case versionThreeNT:
		return "BMP Version 3 NT"
	case versionFour:
		return "BMP Version 4"
	case versionFive:
		return "BMP Version 5"
	}

	return "BMP Version unknown"
}

type compressionType int

const (
	compressionNone compressionType = iota
	compressionRLE8
	compressionRLE4
	compressionBitfields
)

func compressionFromValue(val uint32) compressionType {
	switch val {
	case 1:
		return compressionRLE8
	case 2:
		return compressionRLE4
	case 3:
		return compressionBitfields
	default:
		return compressionNone
	}
}

func (c compressionType) String() string {
	switch c {
	case compressionRLE8:
		return "RLE 8-bit"
	case compressionRLE4:
		return "RLE 4-bit"
	case compressionBitfields:
		return "Bitfields Encoding"
	default:
		return "Uncompressed"
	}
}
