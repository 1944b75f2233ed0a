//go:build !pi

package main

import (
	"github.com/callebjorkell/hyperion/internal/animation"
	"github.com/callebjorkell/hyperion/internal/config"
	"github.com/callebjorkell/hyperion/internal/frame"
	"github.com/callebjorkell/hyperion/internal/mbi5043"
	"github.com/callebjorkell/hyperion/internal/mbi5043/mbi5043test"
	log "github.com/sirupsen/logrus"
)

// hardware is a simulated bus. Nothing is driven, every frame is decoded and logged instead.
type hardware struct {
	bus *mbi5043test.Bus
}

func openHardware() (*hardware, error) {
	log.Info("Using simulated bus")
	return &hardware{bus: mbi5043test.NewBus()}, nil
}

func (h *hardware) pins(p config.Pins) (mbi5043.Pins, error) {
	log.Debugf("Simulating SDI=%s DCLK=%s GCLK=%s LE=%s SDO=%s", p.SDI, p.DCLK, p.GCLK, p.LE, p.SDO)
	return h.bus.Pins(), nil
}

// chainOptions records the bus delays instead of waiting them out.
func (h *hardware) chainOptions() []mbi5043.Option {
	return []mbi5043.Option{mbi5043.WithClock(h.bus)}
}

func (h *hardware) output(c *mbi5043.Chain) animation.Output {
	h.bus.Reset()
	return &tracingOutput{Output: c, bus: h.bus}
}

type tracingOutput struct {
	animation.Output
	bus *mbi5043test.Bus
}

func (t *tracingOutput) SendFrame(f *frame.Frame) error {
	err := t.Output.SendFrame(f)
	t.flush()
	return err
}

func (t *tracingOutput) SetUniformBrightness(value uint16) error {
	err := t.Output.SetUniformBrightness(value)
	t.flush()
	return err
}

func (t *tracingOutput) flush() {
	trace := t.bus.Decode()
	t.bus.Reset()
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("bus: %v (%d bits)", trace, len(trace.Bits()))
	}
}
