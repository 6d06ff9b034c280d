package bmp

import (
	"bytes"
	"fmt"

	"github.com/lunixbochs/struc"
)

// encodeImage serializes an image as an uncompressed 24-bit version 3
// file: magic bytes, file header, 40-byte DIB header, then pixel rows
// bottom first in BGR order, each padded to a 4-byte boundary. The
// source palette and bit depth are never carried over.
func encodeImage(img *Image) ([]byte, error) {
	dataSize := rowSize(24, img.width) * img.height
	header := newBmpHeader(fullHeaderSize, uint32(dataSize))
	dibHeader := newDibHeader(img.width, img.height)

	buf := bytes.NewBuffer(make([]byte, 0, fullHeaderSize+dataSize))
	buf.WriteString(bmpMagic)

	if err := struc.Pack(buf, &header); err != nil {
		return nil, fmt.Errorf("write file header: %w", err)
	}
	if err := struc.Pack(buf, &dibHeader); err != nil {
		return nil, fmt.Errorf("write dib header: %w", err)
	}

	// Row 0 of the buffer is the bottom scanline, already the order the
	// file wants.
	padding := make([]byte, img.width%4)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			px := img.data[y*img.width+x]
			buf.Write([]byte{px.B, px.G, px.R})
		}
		buf.Write(padding)
	}

	return buf.Bytes(), nil
}
