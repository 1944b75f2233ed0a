// Package animation renders time varying patterns onto an Output. Every animation is a single blocking
// invocation that sends its frames and returns; looping is left to the caller (see Player).
package animation

import (
	"errors"
	"fmt"
	"github.com/callebjorkell/hyperion/internal/clock"
	"github.com/callebjorkell/hyperion/internal/frame"
	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
	"math"
	"time"
)

const (
	// PulseSteps is the number of brightness steps in each half of a pulse.
	PulseSteps = 50
	// MinPulseFrequency is the slowest pulse, one cycle every 1000 seconds.
	MinPulseFrequency = 0.001
	// OffDelay keeps a caller repeatedly invoking Off from spinning.
	OffDelay = 10 * time.Millisecond

	RainbowHueStep = 2.0
	RainbowDelay   = 20 * time.Millisecond
)

var ErrInvalidFrequency = errors.New("pulse frequency out of range")

// Output is something frames can be sent to.
type Output interface {
	SendFrame(f *frame.Frame) error
	SetUniformBrightness(value uint16) error
	MaxValue() uint16
}

type Sequencer struct {
	out   Output
	clock clock.Sleeper
}

type Option func(s *Sequencer)

// WithClock replaces the clock used to pace frames.
func WithClock(c clock.Sleeper) Option {
	return func(s *Sequencer) {
		s.clock = c
	}
}

func New(out Output, opts ...Option) *Sequencer {
	s := &Sequencer{
		out:   out,
		clock: clock.Host{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pulse fades all outputs from off to full brightness and back to off. A full cycle takes about
// 1/frequency seconds.
func (s *Sequencer) Pulse(frequency float64) error {
	period, err := PulsePeriod(frequency)
	if err != nil {
		return err
	}
	delay := period / (2 * PulseSteps)
	log.Debugf("Pulsing at %vHz (%v per step)", frequency, delay)

	for _, level := range PulseLevels(s.out.MaxValue()) {
		if err := s.out.SetUniformBrightness(level); err != nil {
			return err
		}
		s.clock.Sleep(delay)
	}
	return nil
}

// PulsePeriod returns the duration of one pulse cycle at frequency, which must be at least
// MinPulseFrequency.
func PulsePeriod(frequency float64) (time.Duration, error) {
	if !(frequency >= MinPulseFrequency) || math.IsInf(frequency, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrequency, frequency)
	}
	return time.Duration(float64(time.Second) / frequency), nil
}

// PulseLevels returns the brightness levels of one pulse, rising from 0 to max and falling back to 0.
// Both ends are always included.
func PulseLevels(max uint16) []uint16 {
	step := (uint32(max) + PulseSteps - 1) / PulseSteps
	if step == 0 {
		step = 1
	}

	levels := make([]uint16, 0, 2*PulseSteps+1)
	for l := uint32(0); ; l += step {
		if l >= uint32(max) {
			levels = append(levels, max)
			break
		}
		levels = append(levels, uint16(l))
	}
	for l := int64(max) - int64(step); ; l -= int64(step) {
		if l <= 0 {
			levels = append(levels, 0)
			break
		}
		levels = append(levels, uint16(l))
	}
	return levels
}

// Checkerboard shows both phases of a checkerboard of a and b, holding each for interval.
func (s *Sequencer) Checkerboard(a, b frame.RGBW, interval time.Duration) error {
	log.Debugf("Checkerboard %v / %v every %v", a, b, interval)
	for phase := 0; phase < 2; phase++ {
		f := CheckerboardFrame(phase, a, b)
		if err := s.out.SendFrame(&f); err != nil {
			return err
		}
		s.clock.Sleep(interval)
	}
	return nil
}

// CheckerboardFrame returns a frame with a on the cells where row+col is even and b on the others. Odd
// phases swap the two colors.
func CheckerboardFrame(phase int, a, b frame.RGBW) frame.Frame {
	if phase%2 != 0 {
		a, b = b, a
	}

	var f frame.Frame
	for row := 0; row < frame.Rows; row++ {
		for col := 0; col < frame.Cols; col++ {
			if (row+col)%2 == 0 {
				f.SetPixel(row, col, a)
			} else {
				f.SetPixel(row, col, b)
			}
		}
	}
	return f
}

// Off turns every output off.
func (s *Sequencer) Off() error {
	var f frame.Frame
	if err := s.out.SendFrame(&f); err != nil {
		return err
	}
	s.clock.Sleep(OffDelay)
	return nil
}

// Rainbow shows a single fully saturated hue (degrees) at the given value (0-1) on every pixel and
// returns the hue to show next.
func (s *Sequencer) Rainbow(hue, value float64) (float64, error) {
	f := RainbowFrame(hue, value, s.out.MaxValue())
	if err := s.out.SendFrame(&f); err != nil {
		return hue, err
	}
	s.clock.Sleep(RainbowDelay)
	return math.Mod(hue+RainbowHueStep, 360), nil
}

// RainbowFrame returns a frame with the RGB channels of every pixel set to the hue. White stays off.
func RainbowFrame(hue, value float64, max uint16) frame.Frame {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	c := colorful.Hsv(hue, 1, value).Clamped()
	scale := func(v float64) uint16 {
		return uint16(math.Round(v * float64(max)))
	}

	var f frame.Frame
	f.Fill(frame.RGBW{R: scale(c.R), G: scale(c.G), B: scale(c.B)})
	return f
}
