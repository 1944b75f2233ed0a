package main

import (
	"fmt"
	"github.com/callebjorkell/hyperion/internal/animation"
	"github.com/callebjorkell/hyperion/internal/config"
	"github.com/callebjorkell/hyperion/internal/mbi5043"
	"github.com/callebjorkell/hyperion/internal/neopixel"
	log "github.com/sirupsen/logrus"
)

// device is an output that holds on to hardware until closed.
type device interface {
	animation.Output
	Close() error
}

// chainDevice halts the bus on close, leaving the LEDs dark.
type chainDevice struct {
	animation.Output
	chain *mbi5043.Chain
}

func (d chainDevice) Close() error {
	if err := d.chain.Clear(); err != nil {
		log.Warnf("Unable to clear chain: %v", err)
	}
	return d.chain.Halt()
}

func openDevice(conf *config.Config, hw *hardware) (device, error) {
	switch conf.Output {
	case config.OutputNeopixel:
		strip, err := neopixel.NewStrip(conf.Neopixel.GPIO, conf.Neopixel.Brightness, conf.Chain.Bits)
		if err != nil {
			return nil, err
		}
		return strip, nil
	case config.OutputChain:
		cfg, err := conf.Chain.Config()
		if err != nil {
			return nil, err
		}
		pins, err := hw.pins(conf.Chain.Bus())
		if err != nil {
			return nil, err
		}
		chain, err := mbi5043.New(pins, cfg, hw.chainOptions()...)
		if err != nil {
			return nil, err
		}
		if err := chain.Init(); err != nil {
			return nil, err
		}
		log.Infof("Initialized chain of %d devices", cfg.Devices)
		return chainDevice{Output: hw.output(chain), chain: chain}, nil
	}
	return nil, fmt.Errorf("unknown output %q", conf.Output)
}
