// Package mbi5043 drives a daisy chain of Macroblock MBI5043 16-channel constant current LED drivers
// over a bit-banged serial bus.
//
// The bus has four outputs: SDI (serial data), DCLK (data clock, SDI is sampled on its rising edge),
// LE (latch enable) and GCLK (the free running grayscale PWM clock). SDO, the serial output of the last
// device, is configured as an input but not used by the protocol.
//
// A frame is sent by shifting the grayscale value of every output, last device in the chain first,
// followed by a latch (LE high around a single DCLK pulse) and an output commit (LE high around three
// DCLK pulses). The pulse count is the only difference between the two and the devices do not
// acknowledge anything, so getting it wrong silently corrupts the following frames.
package mbi5043

import (
	"errors"
	"fmt"
	"github.com/callebjorkell/hyperion/internal/clock"
	"github.com/callebjorkell/hyperion/internal/frame"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

const (
	latchPulses  = 1
	commitPulses = 3
)

var (
	ErrInvalidConfig      = errors.New("invalid chain configuration")
	ErrNotInitialized     = errors.New("chain is not initialized")
	ErrAlreadyInitialized = errors.New("chain is already initialized")
	ErrValueRange         = errors.New("grayscale value out of range")
)

// Pins holds the bus lines. SDO is optional.
type Pins struct {
	SDI  gpio.PinOut
	DCLK gpio.PinOut
	GCLK gpio.PinOut
	LE   gpio.PinOut
	SDO  gpio.PinIn
}

// Chain is a chain of MBI5043 devices. It is not safe for concurrent use, all operations block until the
// full bus sequence has been clocked out.
type Chain struct {
	pins        Pins
	cfg         Config
	clock       clock.Sleeper
	max         uint16
	initialized bool
}

type Option func(c *Chain)

// WithClock replaces the clock used for the bus timing.
func WithClock(s clock.Sleeper) Option {
	return func(c *Chain) {
		c.clock = s
	}
}

func New(pins Pins, cfg Config, opts ...Option) (*Chain, error) {
	if pins.SDI == nil || pins.DCLK == nil || pins.GCLK == nil || pins.LE == nil {
		return nil, fmt.Errorf("%w: SDI, DCLK, GCLK and LE pins are required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Layout = cfg.Layout.copy()

	c := &Chain{
		pins:  pins,
		cfg:   cfg,
		clock: clock.Host{},
		max:   frame.Max(cfg.Bits),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns a copy of the chain configuration.
func (c *Chain) Config() Config {
	cfg := c.cfg
	cfg.Layout = cfg.Layout.copy()
	return cfg
}

// MaxValue is the largest grayscale value the chain accepts.
func (c *Chain) MaxValue() uint16 {
	return c.max
}

// Init puts all outputs in their idle state, starts the grayscale clock and clears every device. It
// must be called once before anything else.
func (c *Chain) Init() error {
	if c.initialized {
		return ErrAlreadyInitialized
	}
	log.Debugf("Initializing chain of %d devices (%d bit, GCLK %v)", c.cfg.Devices, c.cfg.Bits, c.cfg.GCLK)

	if c.pins.SDO != nil {
		if err := c.pins.SDO.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return fmt.Errorf("unable to configure %s as input: %w", c.pins.SDO, err)
		}
	}
	for _, p := range []gpio.PinOut{c.pins.SDI, c.pins.DCLK, c.pins.LE} {
		if err := c.out(p, gpio.Low); err != nil {
			return err
		}
	}
	if err := c.pins.GCLK.PWM(gpio.DutyHalf, c.cfg.GCLK); err != nil {
		return fmt.Errorf("unable to start grayscale clock on %s: %w", c.pins.GCLK, err)
	}

	if err := c.clear(); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Halt stops the grayscale clock and leaves every output low.
func (c *Chain) Halt() error {
	if err := c.pins.GCLK.Halt(); err != nil {
		return fmt.Errorf("unable to halt grayscale clock on %s: %w", c.pins.GCLK, err)
	}
	for _, p := range []gpio.PinOut{c.pins.SDI, c.pins.DCLK, c.pins.LE, c.pins.GCLK} {
		if err := c.out(p, gpio.Low); err != nil {
			return err
		}
	}
	c.initialized = false
	return nil
}

// ShiftBit clocks a single bit into the first device of the chain.
func (c *Chain) ShiftBit(bit bool) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	return c.shiftBit(bit)
}

// ShiftValue shifts the lowest width bits of value into the chain, most significant bit first.
func (c *Chain) ShiftValue(value uint16, width int) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if width < 1 || width > 16 {
		return fmt.Errorf("%w: cannot shift %d bits", ErrValueRange, width)
	}
	if uint32(value) > uint32(frame.Max(width)) {
		return fmt.Errorf("%w: %#x does not fit in %d bits", ErrValueRange, value, width)
	}
	return c.shiftValue(value, width)
}

// Latch moves the shifted data into the output latches of every device.
func (c *Chain) Latch() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	return c.strobe(latchPulses)
}

// CommitOutputs moves the latched data to the PWM output stage.
func (c *Chain) CommitOutputs() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	return c.strobe(commitPulses)
}

// Clear zeroes every output of every device.
func (c *Chain) Clear() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	return c.clear()
}

// SendFrame shifts out the channel values of f according to the chain layout, then latches and commits
// them. Nothing is sent if any of the wired values exceeds the chain bit width.
func (c *Chain) SendFrame(f *frame.Frame) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	for d, w := range c.cfg.Layout {
		for ch, cell := range w {
			if v := f[cell.Row][cell.Col][cell.Slot]; v > c.max {
				return fmt.Errorf("%w: %#x at (%d,%d,%v) for device %d OUT%d exceeds %d bits",
					ErrValueRange, v, cell.Row, cell.Col, cell.Slot, d, ch, c.cfg.Bits)
			}
		}
	}

	// the first value shifted ends up in the device furthest down the chain
	for d := c.cfg.Devices - 1; d >= 0; d-- {
		w := &c.cfg.Layout[d]
		for ch := Channels - 1; ch >= 0; ch-- {
			cell := w[ch]
			if err := c.shiftValue(f[cell.Row][cell.Col][cell.Slot], c.cfg.Bits); err != nil {
				return err
			}
		}
	}
	return c.update()
}

// SetUniformBrightness sets every output of every device to the same value.
func (c *Chain) SetUniformBrightness(value uint16) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if value > c.max {
		return fmt.Errorf("%w: %#x exceeds %d bits", ErrValueRange, value, c.cfg.Bits)
	}

	for i := 0; i < c.cfg.Devices*Channels; i++ {
		if err := c.shiftValue(value, c.cfg.Bits); err != nil {
			return err
		}
	}
	return c.update()
}

func (c *Chain) clear() error {
	log.Debug("Clearing all devices")
	// one latch per device
	for d := 0; d < c.cfg.Devices; d++ {
		for ch := 0; ch < Channels; ch++ {
			if err := c.shiftValue(0, c.cfg.Bits); err != nil {
				return err
			}
		}
		if err := c.strobe(latchPulses); err != nil {
			return err
		}
	}
	return c.strobe(commitPulses)
}

func (c *Chain) update() error {
	if err := c.strobe(latchPulses); err != nil {
		return err
	}
	return c.strobe(commitPulses)
}

func (c *Chain) shiftValue(value uint16, width int) error {
	for i := width - 1; i >= 0; i-- {
		if err := c.shiftBit((value>>uint(i))&0x01 == 1); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chain) shiftBit(bit bool) error {
	if err := c.out(c.pins.SDI, gpio.Level(bit)); err != nil {
		return err
	}
	c.clock.Sleep(BitDelay)
	if err := c.out(c.pins.DCLK, gpio.High); err != nil {
		return err
	}
	c.clock.Sleep(BitDelay)
	if err := c.out(c.pins.DCLK, gpio.Low); err != nil {
		return err
	}
	c.clock.Sleep(BitDelay)
	return nil
}

// strobe raises LE around the given number of DCLK pulses.
func (c *Chain) strobe(pulses int) error {
	if err := c.out(c.pins.DCLK, gpio.Low); err != nil {
		return err
	}
	c.clock.Sleep(SettleDelay)
	if err := c.out(c.pins.LE, gpio.High); err != nil {
		return err
	}
	c.clock.Sleep(SettleDelay)

	for i := 0; i < pulses; i++ {
		if err := c.out(c.pins.DCLK, gpio.High); err != nil {
			return err
		}
		c.clock.Sleep(SettleDelay)
		if err := c.out(c.pins.DCLK, gpio.Low); err != nil {
			return err
		}
		c.clock.Sleep(SettleDelay)
	}

	if err := c.out(c.pins.LE, gpio.Low); err != nil {
		return err
	}
	c.clock.Sleep(SettleDelay)
	return nil
}

func (c *Chain) out(p gpio.PinOut, l gpio.Level) error {
	if err := p.Out(l); err != nil {
		return fmt.Errorf("unable to drive %s %v: %w", p, l, err)
	}
	return nil
}
