package button

import (
	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/gpio"
	"testing"
	"time"
)

func TestButtonEventString(t *testing.T) {
	assert.Equal(t, "Button was pressed", ButtonEvent{Pressed: true}.String())
	assert.Equal(t, "Button was released", ButtonEvent{}.String())
}

// scriptedPin plays back a fixed sequence of edges and reads.
type scriptedPin struct {
	edges []bool
	reads []gpio.Level
}

func (p *scriptedPin) WaitForEdge(time.Duration) bool {
	if len(p.edges) == 0 {
		panic("no more edges")
	}
	e := p.edges[0]
	p.edges = p.edges[1:]
	return e
}

func (p *scriptedPin) Read() gpio.Level {
	if len(p.reads) == 0 {
		panic("no more reads")
	}
	l := p.reads[0]
	p.reads = p.reads[1:]
	return l
}

func newTestDebouncer(p *scriptedPin) (*debouncer, *[]time.Duration) {
	var slept []time.Duration
	d := newDebouncer(p)
	d.sleep = func(t time.Duration) {
		slept = append(slept, t)
	}
	return d, &slept
}

func TestDebouncer(t *testing.T) {
	tt := []struct {
		name   string
		pin    *scriptedPin
		events []ButtonEvent
		sleeps int
	}{
		{
			name: "press and release",
			pin: &scriptedPin{
				edges: []bool{true, true},
				reads: []gpio.Level{gpio.High, gpio.Low, gpio.Low, gpio.High, gpio.High},
			},
			events: []ButtonEvent{{Pressed: true}, {Pressed: false}},
			sleeps: 2,
		},
		{
			name: "timeouts are skipped",
			pin: &scriptedPin{
				edges: []bool{false, false, true},
				reads: []gpio.Level{gpio.High, gpio.Low, gpio.Low},
			},
			events: []ButtonEvent{{Pressed: true}},
			sleeps: 1,
		},
		{
			name: "bounce is ignored",
			pin: &scriptedPin{
				edges: []bool{true, true},
				reads: []gpio.Level{gpio.High, gpio.Low, gpio.High, gpio.Low, gpio.Low},
			},
			events: []ButtonEvent{{Pressed: true}},
			sleeps: 2,
		},
		{
			name: "edge without change is ignored",
			pin: &scriptedPin{
				edges: []bool{true, true},
				reads: []gpio.Level{gpio.High, gpio.High, gpio.Low, gpio.Low},
			},
			events: []ButtonEvent{{Pressed: true}},
			sleeps: 1,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			d, slept := newTestDebouncer(tc.pin)
			for _, e := range tc.events {
				assert.Equal(t, e, d.next())
			}
			assert.Len(t, *slept, tc.sleeps)
			for _, s := range *slept {
				assert.Equal(t, debounce, s)
			}
			assert.Empty(t, tc.pin.edges)
			assert.Empty(t, tc.pin.reads)
		})
	}
}
