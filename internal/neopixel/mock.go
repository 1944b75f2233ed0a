//go:build !pi

package neopixel

import (
	"fmt"
	log "github.com/sirupsen/logrus"
)

type mockEngine struct {
	colors []uint32
}

func (d mockEngine) Init() error {
	return nil
}

func (d mockEngine) Render() error {
	log.Debugf("neopixel: colors %08x", d.colors)
	return nil
}

func (d mockEngine) Wait() error {
	return nil
}

func (d mockEngine) Fini() {
	fmt.Println("neopixel: Fini")
}

func (d mockEngine) Leds(_ int) []uint32 {
	return d.colors
}

func NewStrip(gpio, _, bits int) (*Strip, error) {
	log.Infof("Using mock RGBW strip instead of GPIO%d", gpio)
	return newStrip(mockEngine{
		colors: make([]uint32, ledCounts),
	}, bits)
}
