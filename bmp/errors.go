package bmp

import "errors"

// Decode failure kinds. Every decode error wraps exactly one of these,
// with observed-versus-expected detail appended at the failure site, so
// callers can match the kind with errors.Is. I/O failures from the byte
// source are wrapped with the parsing step that hit them instead.
var (
	ErrWrongMagicNumbers          = errors.New("bmp: wrong magic numbers")
	ErrUnsupportedBitsPerPixel    = errors.New("bmp: unsupported bits per pixel")
	ErrUnsupportedCompressionType = errors.New("bmp: unsupported compression type")
	ErrUnsupportedBmpVersion      = errors.New("bmp: unsupported bmp version")
	ErrUnsupportedHeader          = errors.New("bmp: unsupported header")
)
