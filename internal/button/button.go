//go:build pi

package button

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// InitButton sets up the push button on the named pin and fetches a button event channel. The pin is
// pulled up, so pressing the button pulls it low.
func InitButton(pin string) (<-chan ButtonEvent, error) {
	log.Infof("Initializing button handler on %v", pin)
	button := gpioreg.ByName(pin)
	if button == nil {
		return nil, fmt.Errorf("no such pin: %v", pin)
	}
	if err := button.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("could not set up button pin %v: %w", pin, err)
	}

	c := make(chan ButtonEvent, 5)
	go handleButton(button, c)
	return c, nil
}

func handleButton(b gpio.PinIn, c chan<- ButtonEvent) {
	d := newDebouncer(b)
	for {
		c <- d.next()
	}
}
