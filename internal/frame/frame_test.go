package frame

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSetPixel(t *testing.T) {
	var f Frame
	c := RGBW{R: 1, G: 2, B: 3, W: 4}
	f.SetPixel(2, 3, c)

	assert.Equal(t, c, f.Pixel(2, 3))
	assert.Equal(t, [Slots]uint16{1, 2, 3, 4}, f[2][3])
	assert.Equal(t, uint16(3), f.Channel(2, 3, B))
	assert.Equal(t, RGBW{}, f.Pixel(3, 2))
}

func TestSetPixelOutOfRange(t *testing.T) {
	var f Frame
	tt := []struct {
		row, col int
	}{
		{-1, 0},
		{0, -1},
		{Rows, 0},
		{0, Cols},
	}

	for _, tc := range tt {
		assert.Panics(t, func() { f.SetPixel(tc.row, tc.col, RGBW{}) })
	}
}

func TestFillAndClear(t *testing.T) {
	var f Frame
	c := White(0x8000)
	f.Fill(c)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			assert.Equal(t, c, f.Pixel(row, col))
		}
	}

	f.Clear()
	assert.Equal(t, Frame{}, f)
}

func TestMax(t *testing.T) {
	assert.Equal(t, uint16(0x0fff), Max(12))
	assert.Equal(t, uint16(0xffff), Max(16))
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "R", R.String())
	assert.Equal(t, "W", W.String())
	assert.Equal(t, "N/A", Slot(7).String())
}
