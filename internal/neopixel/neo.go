// Package neopixel renders frames on an SK6812 RGBW strip, one LED per frame pixel in row order.
package neopixel

import (
	"errors"
	"fmt"
	"github.com/callebjorkell/hyperion/internal/frame"
)

const (
	ledCounts = frame.Rows * frame.Cols

	DefaultBrightness = 90
)

var ErrValueRange = errors.New("channel value out of range")

type wsEngine interface {
	Init() error
	Render() error
	Wait() error
	Fini()
	Leds(channel int) []uint32
}

// Strip accepts grayscale values of the given bit width and scales them down to the 8 bits per channel
// of the strip.
type Strip struct {
	ws   wsEngine
	bits int
	max  uint16
}

func newStrip(ws wsEngine, bits int) (*Strip, error) {
	if bits < 8 || bits > 16 {
		return nil, fmt.Errorf("unsupported channel width of %d bits", bits)
	}
	return &Strip{
		ws:   ws,
		bits: bits,
		max:  frame.Max(bits),
	}, nil
}

func (s *Strip) MaxValue() uint16 {
	return s.max
}

func (s *Strip) SendFrame(f *frame.Frame) error {
	leds := s.ws.Leds(0)
	for row := 0; row < frame.Rows; row++ {
		for col := 0; col < frame.Cols; col++ {
			i := row*frame.Cols + col
			if i >= len(leds) {
				break
			}
			c, err := s.color(f.Pixel(row, col))
			if err != nil {
				return fmt.Errorf("pixel (%d,%d): %w", row, col, err)
			}
			leds[i] = c
		}
	}
	return s.render()
}

func (s *Strip) SetUniformBrightness(value uint16) error {
	c, err := s.color(frame.White(value))
	if err != nil {
		return err
	}
	leds := s.ws.Leds(0)
	for i := range leds {
		leds[i] = c
	}
	return s.render()
}

// Close turns the strip off and releases it.
func (s *Strip) Close() error {
	leds := s.ws.Leds(0)
	for i := range leds {
		leds[i] = 0
	}
	err := s.render()
	s.ws.Fini()
	return err
}

func (s *Strip) render() error {
	if err := s.ws.Render(); err != nil {
		return err
	}
	return s.ws.Wait()
}

// color packs c into the 0xWWRRGGBB layout of the strip.
func (s *Strip) color(c frame.RGBW) (uint32, error) {
	if c.R > s.max || c.G > s.max || c.B > s.max || c.W > s.max {
		return 0, fmt.Errorf("%w: %v exceeds %d bits", ErrValueRange, c, s.bits)
	}
	shift := uint(s.bits - 8)
	w, r, g, b := uint32(c.W>>shift), uint32(c.R>>shift), uint32(c.G>>shift), uint32(c.B>>shift)

	return (w << 24) | (r << 16) | (g << 8) | b, nil
}
