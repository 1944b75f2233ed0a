//go:build pi

package neopixel

import (
	ws "github.com/rpi-ws281x/rpi-ws281x-go"
	log "github.com/sirupsen/logrus"
)

// NewStrip sets up an SK6812 RGBW strip on the given GPIO (must be PWM, PCM or SPI capable).
func NewStrip(gpio, brightness, bits int) (*Strip, error) {
	opt := ws.DefaultOptions
	opt.Channels[0].GpioPin = gpio
	opt.Channels[0].Brightness = brightness
	opt.Channels[0].LedCount = ledCounts
	opt.Channels[0].StripeType = ws.SK6812StripRGBW

	dev, err := ws.MakeWS2811(&opt)
	if err != nil {
		return nil, err
	}
	err = dev.Init()
	if err != nil {
		return nil, err
	}
	log.Infof("Initialized RGBW strip of %d LEDs on GPIO%d", ledCounts, gpio)

	return newStrip(dev, bits)
}
