// Package mbi5043test provides a simulated MBI5043 bus that records every line transition and
// decodes the recording back into protocol operations.
package mbi5043test

import (
	"fmt"
	"github.com/callebjorkell/hyperion/internal/mbi5043"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"sync"
	"time"
)

type Line int

const (
	SDI Line = iota
	DCLK
	GCLK
	LE
	// Wait marks a delay in the recording rather than a line transition.
	Wait
)

func (l Line) String() string {
	switch l {
	case SDI:
		return "SDI"
	case DCLK:
		return "DCLK"
	case GCLK:
		return "GCLK"
	case LE:
		return "LE"
	case Wait:
		return "wait"
	}
	return "N/A"
}

// Event is a single entry of the recording.
type Event struct {
	Line  Line
	Level gpio.Level
	Delay time.Duration
}

func (e Event) String() string {
	if e.Line == Wait {
		return fmt.Sprintf("wait %v", e.Delay)
	}
	return fmt.Sprintf("%v %v", e.Line, e.Level)
}

// Bus records the traffic of a chain. It also implements clock.Sleeper so delays end up in the same
// recording as the transitions they separate.
type Bus struct {
	mu     sync.Mutex
	events []Event

	sdi, dclk, gclk, le *Pin
	sdo                 *gpiotest.Pin
}

// Pin is an output line that reports every level it is driven to.
type Pin struct {
	*gpiotest.Pin
	line Line
	bus  *Bus
}

func (p *Pin) Out(l gpio.Level) error {
	p.bus.record(Event{Line: p.line, Level: l})
	return p.Pin.Out(l)
}

func NewBus() *Bus {
	b := &Bus{
		sdo: &gpiotest.Pin{N: "SDO", Num: 4},
	}
	b.sdi = b.newPin("SDI", 0, SDI)
	b.dclk = b.newPin("DCLK", 1, DCLK)
	b.gclk = b.newPin("GCLK", 2, GCLK)
	b.le = b.newPin("LE", 3, LE)
	return b
}

func (b *Bus) newPin(name string, num int, l Line) *Pin {
	return &Pin{
		Pin:  &gpiotest.Pin{N: name, Num: num},
		line: l,
		bus:  b,
	}
}

// Pins returns the simulated lines to hand to mbi5043.New.
func (b *Bus) Pins() mbi5043.Pins {
	return mbi5043.Pins{
		SDI:  b.sdi,
		DCLK: b.dclk,
		GCLK: b.gclk,
		LE:   b.le,
		SDO:  b.sdo,
	}
}

func (b *Bus) Sleep(d time.Duration) {
	b.record(Event{Line: Wait, Delay: d})
}

func (b *Bus) record(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, e)
}

// Events returns a copy of the recording.
func (b *Bus) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Event(nil), b.events...)
}

// Reset drops the recording. Line levels are kept.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = nil
}

// Level returns the current level of an output line.
func (b *Bus) Level(l Line) gpio.Level {
	switch l {
	case SDI:
		return b.sdi.Read()
	case DCLK:
		return b.dclk.Read()
	case GCLK:
		return b.gclk.Read()
	case LE:
		return b.le.Read()
	}
	return gpio.Low
}

// GrayscaleClock returns the PWM duty and frequency last set on GCLK.
func (b *Bus) GrayscaleClock() (gpio.Duty, physic.Frequency) {
	b.gclk.Lock()
	defer b.gclk.Unlock()

	return b.gclk.D, b.gclk.F
}

// SDOPull returns the pull configured on the SDO input.
func (b *Bus) SDOPull() gpio.Pull {
	return b.sdo.Pull()
}

// Decode turns the recording into protocol operations.
func (b *Bus) Decode() Trace {
	return Decode(b.Events())
}
