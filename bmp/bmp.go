// Package bmp implements reading and writing of uncompressed BMP images.
//
// Decoding supports 1, 4, 8 and 24 bits per pixel for BMP versions 3, 4
// and 5. Run-length and bitfield compressed files are rejected. Encoding
// always produces an uncompressed 24-bit version 3 file, regardless of
// the bit depth of the decoded source.
package bmp

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Image is an in-memory bitmap: a dense pixel buffer plus the headers it
// was decoded with (or synthesized 24-bit headers for images built with
// New). The buffer is row-major with row 0 holding the bottom scanline,
// matching BMP's bottom-up storage; the coordinate accessors take y=0 at
// the top and translate.
type Image struct {
	header       BmpHeader
	dibHeader    BmpDibHeader
	colorPalette []Pixel
	width        int
	height       int
	padding      int
	data         []Pixel
}

// New returns a width x height image with every pixel black and headers
// shaped for 24-bit uncompressed output.
func New(width, height int) *Image {
	dataSize := rowSize(24, width) * height

	return &Image{
		header:    newBmpHeader(fullHeaderSize, uint32(dataSize)),
		dibHeader: newDibHeader(width, height),
		width:     width,
		height:    height,
		padding:   width % 4,
		data:      make([]Pixel, width*height),
	}
}

// Width returns the image width in pixels.
func (img *Image) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image) Height() int {
	return img.height
}

// GetPixel returns the pixel at (x, y), with y=0 at the top of the image.
func (img *Image) GetPixel(x, y int) Pixel {
	return img.data[(img.height-y-1)*img.width+x]
}

// SetPixel overwrites the pixel at (x, y), with y=0 at the top of the image.
func (img *Image) SetPixel(x, y int, val Pixel) {
	img.data[(img.height-y-1)*img.width+x] = val
}

// Coordinates returns a fresh iterator over every (x, y) of the image in
// row-major order, starting at the top-left corner.
func (img *Image) Coordinates() *ImageIndex {
	return &ImageIndex{width: img.width, height: img.height}
}

// Save encodes the image and writes it to path.
func (img *Image) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bmp: create %s: %w", path, err)
	}

	if err := img.ToWriter(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ToWriter encodes the image as an uncompressed 24-bit BMP file and
// writes the bytes to w.
func (img *Image) ToWriter(w io.Writer) error {
	data, err := encodeImage(img)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("bmp: write image: %w", err)
	}

	return nil
}

// Open reads and decodes the BMP file at path.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bmp: open %s: %w", path, err)
	}
	defer f.Close()

	return FromReader(f)
}

// FromReader reads source to the end and decodes it as a BMP image.
func FromReader(source io.Reader) (*Image, error) {
	data, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("bmp: read source: %w", err)
	}

	return decodeImage(bytes.NewReader(data))
}

// ImageIndex walks image coordinates in row-major order: (0,0), (1,0),
// ... (0,1) and so on. Obtain one with Image.Coordinates.
type ImageIndex struct {
	width  int
	height int
	x      int
	y      int
}

// Next returns the next coordinate pair. ok is false once every
// coordinate has been produced.
func (it *ImageIndex) Next() (x, y int, ok bool) {
	if it.x >= it.width || it.y >= it.height {
		return 0, 0, false
	}

	x, y = it.x, it.y
	it.x++
	if it.x == it.width {
		it.x = 0
		it.y++
	}

	return x, y, true
}
