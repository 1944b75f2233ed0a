//go:build pi

package main

import (
	"fmt"
	"github.com/callebjorkell/hyperion/internal/animation"
	"github.com/callebjorkell/hyperion/internal/config"
	"github.com/callebjorkell/hyperion/internal/mbi5043"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type hardware struct{}

func openHardware() (*hardware, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize periph: %w", err)
	}
	for _, d := range state.Failed {
		log.Debugf("Driver %s failed to load: %v", d.D, d.Err)
	}
	return &hardware{}, nil
}

func (h *hardware) pins(p config.Pins) (mbi5043.Pins, error) {
	pins := mbi5043.Pins{}
	for _, l := range []struct {
		name string
		out  *gpio.PinOut
	}{
		{p.SDI, &pins.SDI},
		{p.DCLK, &pins.DCLK},
		{p.GCLK, &pins.GCLK},
		{p.LE, &pins.LE},
	} {
		pin := gpioreg.ByName(l.name)
		if pin == nil {
			return mbi5043.Pins{}, fmt.Errorf("no such pin: %v", l.name)
		}
		*l.out = pin
	}
	if sdo := gpioreg.ByName(p.SDO); sdo != nil {
		pins.SDO = sdo
	}
	return pins, nil
}

func (h *hardware) chainOptions() []mbi5043.Option {
	return nil
}

func (h *hardware) output(c *mbi5043.Chain) animation.Output {
	return c
}
