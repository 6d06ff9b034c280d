package bmp

import "fmt"

// Pixel is a single RGB color value with 8 bits per channel.
type Pixel struct {
	R, G, B uint8
}

// RGB builds a pixel from its three channel values.
func RGB(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

func (p Pixel) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", p.R, p.G, p.B)
}

// The sixteen basic named colors.
var (
	Black   = Pixel{0, 0, 0}
	White   = Pixel{255, 255, 255}
	Red     = Pixel{255, 0, 0}
	Lime    = Pixel{0, 255, 0}
	Blue    = Pixel{0, 0, 255}
	Yellow  = Pixel{255, 255, 0}
	Cyan    = Pixel{0, 255, 255}
	Magenta = Pixel{255, 0, 255}
	Silver  = Pixel{192, 192, 192}
	Gray    = Pixel{128, 128, 128}
	Maroon  = Pixel{128, 0, 0}
	Olive   = Pixel{128, 128, 0}
	Green   = Pixel{0, 128, 0}
	Purple  = Pixel{128, 0, 128}
	Teal    = Pixel{0, 128, 128}
	Navy    = Pixel{0, 0, 128}
)
