package frame

import "fmt"

const (
	Rows  = 4
	Cols  = 4
	Slots = 4
)

// Slot is the position of a color channel within a pixel.
type Slot int

const (
	R Slot = iota
	G
	B
	W
)

func (s Slot) String() string {
	switch s {
	case R:
		return "R"
	case G:
		return "G"
	case B:
		return "B"
	case W:
		return "W"
	}
	return "N/A"
}

// RGBW is a four channel color. Each value is a grayscale level in the range of the output it is
// sent to.
type RGBW struct {
	R uint16 `yaml:"r"`
	G uint16 `yaml:"g"`
	B uint16 `yaml:"b"`
	W uint16 `yaml:"w"`
}

// White returns a color with every channel at the given level.
func White(level uint16) RGBW {
	return RGBW{R: level, G: level, B: level, W: level}
}

func (c RGBW) String() string {
	return fmt.Sprintf("rgbw(%#04x,%#04x,%#04x,%#04x)", c.R, c.G, c.B, c.W)
}

// Max returns the largest channel value that can be represented with the given bit width.
func Max(bits int) uint16 {
	return uint16(uint32(1)<<uint(bits) - 1)
}

// Frame is one full panel of channel values, indexed by row, column and slot.
type Frame [Rows][Cols][Slots]uint16

func (f *Frame) SetPixel(row, col int, c RGBW) {
	checkBounds(row, col)
	f[row][col] = [Slots]uint16{R: c.R, G: c.G, B: c.B, W: c.W}
}

func (f *Frame) Pixel(row, col int) RGBW {
	checkBounds(row, col)
	p := f[row][col]
	return RGBW{R: p[R], G: p[G], B: p[B], W: p[W]}
}

// Channel returns a single channel value of a pixel.
func (f *Frame) Channel(row, col int, s Slot) uint16 {
	checkBounds(row, col)
	return f[row][col][s]
}

// Fill sets every pixel to the same color.
func (f *Frame) Fill(c RGBW) {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			f.SetPixel(row, col, c)
		}
	}
}

func (f *Frame) Clear() {
	f.Fill(RGBW{})
}

func checkBounds(row, col int) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		panic(fmt.Sprintf("frame: pixel (%d,%d) out of range %dx%d", row, col, Rows, Cols))
	}
}
