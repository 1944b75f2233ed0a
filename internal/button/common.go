// Package button reports presses of the panel push button.
package button

import (
	"fmt"
	"periph.io/x/conn/v3/gpio"
	"time"
)

const (
	debounce    = 15 * time.Millisecond
	edgeTimeout = time.Second
)

// ButtonEvent is a debounced change of the button state.
type ButtonEvent struct {
	Pressed bool
}

func (b ButtonEvent) String() string {
	action := "pressed"
	if !b.Pressed {
		action = "released"
	}
	return fmt.Sprintf("Button was %v", action)
}

type edgeReader interface {
	Read() gpio.Level
	WaitForEdge(timeout time.Duration) bool
}

// debouncer turns the edges of a pulled up button pin into events. A new level only counts once it
// still reads the same after the debounce time.
type debouncer struct {
	pin   edgeReader
	sleep func(time.Duration)
	last  gpio.Level
}

func newDebouncer(pin edgeReader) *debouncer {
	return &debouncer{
		pin:   pin,
		sleep: time.Sleep,
		last:  pin.Read(),
	}
}

// next blocks until the button has settled in a new state.
func (d *debouncer) next() ButtonEvent {
	for {
		if !d.pin.WaitForEdge(edgeTimeout) {
			continue
		}
		l := d.pin.Read()
		if l == d.last {
			continue
		}

		d.sleep(debounce)
		if l == d.pin.Read() {
			d.last = l
			return ButtonEvent{
				Pressed: l == gpio.Low,
			}
		}
	}
}
