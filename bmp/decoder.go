package bmp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lunixbochs/struc"
)

// decodeImage parses a complete BMP byte stream. Each step fails fast:
// no partial Image is ever returned.
func decodeImage(bmpData *bytes.Reader) (*Image, error) {
	if err := readBmpMagic(bmpData); err != nil {
		return nil, err
	}

	header, err := readBmpHeader(bmpData)
	if err != nil {
		return nil, err
	}

	dibHeader, err := readBmpDibHeader(bmpData)
	if err != nil {
		return nil, err
	}

	colorPalette, err := readColorPalette(bmpData, dibHeader)
	if err != nil {
		return nil, err
	}

	width := absInt(int(dibHeader.Width))
	height := absInt(int(dibHeader.Height))
	padding := width % 4

	var data []Pixel
	if colorPalette != nil {
		data, err = readIndexes(bmpData, colorPalette, width, height, int(dibHeader.BitsPerPixel), int64(header.PixelOffset))
	} else {
		data, err = readPixels(bmpData, width, height, int64(header.PixelOffset), int64(padding))
	}
	if err != nil {
		return nil, err
	}

	// The DIB header is normalized to the 24-bit shape the encoder
	// emits; re-saving never reuses the source bit depth or palette.
	return &Image{
		header:       *header,
		dibHeader:    newDibHeader(width, height),
		colorPalette: colorPalette,
		width:        width,
		height:       height,
		padding:      padding,
		data:         data,
	}, nil
}

func readBmpMagic(bmpData *bytes.Reader) error {
	bm := make([]byte, magicSize)
	if _, err := io.ReadFull(bmpData, bm); err != nil {
		return fmt.Errorf("read magic numbers: %w", err)
	}

	if string(bm) != bmpMagic {
		return fmt.Errorf("%w: expected [66 77], was %v", ErrWrongMagicNumbers, bm)
	}

	return nil
}

func readBmpHeader(bmpData *bytes.Reader) (*BmpHeader, error) {
	header := &BmpHeader{}
	if err := struc.Unpack(bmpData, header); err != nil {
		return nil, fmt.Errorf("read file header: %w", err)
	}

	return header, nil
}

func readBmpDibHeader(bmpData *bytes.Reader) (*BmpDibHeader, error) {
	dibHeader := &BmpDibHeader{}
	if err := struc.Unpack(bmpData, dibHeader); err != nil {
		return nil, fmt.Errorf("read dib header: %w", err)
	}

	version, known := versionFromDibHeader(dibHeader)
	switch {
	case !known:
		return nil, fmt.Errorf("%w: only BMP versions 3, 4 and 5 are supported, cannot decode an image with header %+v", ErrUnsupportedHeader, *dibHeader)
	case version == versionTwo || version == versionThreeNT:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBmpVersion, version)
	}

	switch dibHeader.BitsPerPixel {
	case 1, 4, 8, 24:
	default:
		return nil, fmt.Errorf("%w: only 1, 4, 8 and 24 bits per pixel are supported, was %d", ErrUnsupportedBitsPerPixel, dibHeader.BitsPerPixel)
	}

	// Version 3 NT is already gone at this point, but version 4 and 5
	// headers can still declare RLE or bitfields compression on their
	// own, so the compression check stays independent.
	if compression := compressionFromValue(dibHeader.CompressType); compression != compressionNone {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompressionType, compression)
	}

	return dibHeader, nil
}

// readColorPalette reads the color table when one is present: always for
// indexed depths, and for any depth when the header declares a nonzero
// color count. Returns nil for plain 24-bit images.
func readColorPalette(bmpData *bytes.Reader, dibHeader *BmpDibHeader) ([]Pixel, error) {
	var numEntries int
	switch {
	case dibHeader.NumColors != 0:
		numEntries = int(dibHeader.NumColors)
	case dibHeader.BitsPerPixel == 1 || dibHeader.BitsPerPixel == 4 || dibHeader.BitsPerPixel == 8:
		numEntries = 1 << dibHeader.BitsPerPixel
	default:
		return nil, nil
	}

	// Version 2 files store 3-byte palette entries, but version 2 is
	// rejected before the palette is reached: entries here are always
	// 4 bytes, blue/green/red plus a reserved byte that is discarded.
	if _, err := bmpData.Seek(fileHeaderSize+int64(dibHeader.HeaderSize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek color palette: %w", err)
	}

	entry := make([]byte, 4)
	colorPalette := make([]Pixel, 0, numEntries)
	for i := 0; i < numEntries; i++ {
		if _, err := io.ReadFull(bmpData, entry); err != nil {
			return nil, fmt.Errorf("read color palette entry %d: %w", i, err)
		}
		colorPalette = append(colorPalette, Pixel{R: entry[2], G: entry[1], B: entry[0]})
	}

	return colorPalette, nil
}

// readIndexes reads the bit-packed pixel plane of a 1, 4 or 8 bpp image
// and resolves every index through the palette. Rows are stored bottom
// first on disk and appended in that order; the coordinate accessors
// account for it.
func readIndexes(bmpData *bytes.Reader, palette []Pixel, width, height, bpp int, offset int64) ([]Pixel, error) {
	bytesPerRow := (width*bpp + bitsPerByte - 1) / bitsPerByte
	padding := 0
	if rem := bytesPerRow % 4; rem != 0 {
		padding = 4 - rem
	}

	row := make([]byte, bytesPerRow)
	data := make([]Pixel, 0, width*height)

	for y := 0; y < height; y++ {
		start := offset + int64(y)*int64(bytesPerRow+padding)
		if _, err := bmpData.Seek(start, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek pixel row %d: %w", y, err)
		}
		if _, err := io.ReadFull(bmpData, row); err != nil {
			return nil, fmt.Errorf("read pixel row %d: %w", y, err)
		}

		bi := newBitIndex(row, bpp, width)
		for {
			i, ok := bi.Next()
			if !ok {
				break
			}
			// An out-of-range index cannot come from a header that
			// passed validation; indexing panics on broken invariants
			// instead of clamping.
			data = append(data, palette[i])
		}
	}

	return data, nil
}

// readPixels reads the direct 24-bit pixel plane: 3-byte BGR triples,
// each row followed by the padding bytes that align it to 4 bytes.
func readPixels(bmpData *bytes.Reader, width, height int, offset, padding int64) ([]Pixel, error) {
	if _, err := bmpData.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek pixel data: %w", err)
	}

	px := make([]byte, 3)
	data := make([]Pixel, 0, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if _, err := io.ReadFull(bmpData, px); err != nil {
				return nil, fmt.Errorf("read pixel (%d, %d): %w", x, y, err)
			}
			data = append(data, Pixel{R: px[2], G: px[1], B: px[0]})
		}
		if _, err := bmpData.Seek(padding, io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("skip row padding: %w", err)
		}
	}

	return data, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
