package main

import (
	"github.com/callebjorkell/hyperion/internal/clock"
	"github.com/callebjorkell/hyperion/internal/mbi5043"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"time"
)

const identifyPeriod = 500 * time.Millisecond

var hostClock clock.Sleeper = clock.Host{}

// pulseLines toggles the bus lines one at a time, slow enough to follow with a probe or a LED.
func pulseLines(pins mbi5043.Pins, cycles int, c clock.Sleeper) error {
	lines := []struct {
		role string
		pin  gpio.PinOut
	}{
		{"SDI", pins.SDI},
		{"DCLK", pins.DCLK},
		{"LE", pins.LE},
		{"GCLK", pins.GCLK},
	}

	for _, l := range lines {
		log.Infof("Pulsing %s on %s %d times", l.role, l.pin, cycles)
		for i := 0; i < cycles; i++ {
			if err := l.pin.Out(gpio.High); err != nil {
				return err
			}
			c.Sleep(identifyPeriod / 2)
			if err := l.pin.Out(gpio.Low); err != nil {
				return err
			}
			c.Sleep(identifyPeriod / 2)
		}
	}
	return nil
}
