package config

import (
	"errors"
	"github.com/callebjorkell/hyperion/internal/frame"
	"github.com/callebjorkell/hyperion/internal/mbi5043"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"periph.io/x/conn/v3/physic"
	"testing"
	"time"
)

const fullConfig = `
output: mbi5043
button: GPIO21
chain:
  devices: 2
  bits: 12
  gclk: 1MHz
  swapClocks: true
  pins:
    sdi: GPIO5
    dclk: GPIO6
    gclk: GPIO13
    le: GPIO19
neopixel:
  gpio: 12
  brightness: 40
animations:
  - name: pulse
    frequency: 2
  - name: checkerboard
    interval: 250ms
    colorA:
      r: 4095
    colorB:
      w: 100
  - name: off
  - name: rainbow
    value: 0.25
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, OutputChain, c.Output)
	assert.Equal(t, "GPIO21", c.Button)
	assert.Equal(t, 2, c.Chain.Devices)
	assert.Equal(t, 12, c.Chain.Bits)
	assert.Equal(t, "GPIO5", c.Chain.Pins.SDI)
	assert.Equal(t, "GPIO23", c.Chain.Pins.SDO, "unset pins should fall back to the default")
	assert.Equal(t, Neopixel{GPIO: 12, Brightness: 40}, c.Neopixel)

	require.Len(t, c.Animations, 4)
	assert.Equal(t, 2.0, c.Animations[0].Frequency)
	assert.Equal(t, 250*time.Millisecond, c.Animations[1].Interval)
	assert.Equal(t, frame.RGBW{R: 4095}, c.Animations[1].ColorA)
	assert.Equal(t, frame.RGBW{W: 100}, c.Animations[1].ColorB)
	assert.Equal(t, AnimationOff, c.Animations[2].Name)
	assert.Equal(t, 0.25, c.Animations[3].Value)

	f, err := c.Chain.Frequency()
	require.NoError(t, err)
	assert.Equal(t, physic.MegaHertz, f)
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, OutputChain, c.Output)
	assert.Equal(t, "GPIO20", c.Button)
	assert.Equal(t, DefaultPins(), c.Chain.Pins)
	assert.Equal(t, Neopixel{GPIO: 18, Brightness: 90}, c.Neopixel)
	assert.Equal(t, DefaultAnimations(16), c.Animations)

	cfg, err := c.Chain.Config()
	require.NoError(t, err)
	assert.Equal(t, mbi5043.DefaultConfig(), cfg)
}

func TestParseAnimationDefaults(t *testing.T) {
	c, err := Parse([]byte(`
animations:
  - name: pulse
  - name: checkerboard
  - name: rainbow
`))
	require.NoError(t, err)

	assert.Equal(t, 0.5, c.Animations[0].Frequency)
	assert.Equal(t, 500*time.Millisecond, c.Animations[1].Interval)
	assert.Equal(t, 1.0, c.Animations[2].Value)
}

func TestParseErrors(t *testing.T) {
	tt := []struct {
		name    string
		content string
	}{
		{"bad yaml", "output: [mbi5043"},
		{"unknown output", "output: lcd"},
		{"bits", "chain:\n  bits: 8"},
		{"negative devices", "chain:\n  devices: -1"},
		{"devices outside frame", "chain:\n  devices: 5"},
		{"gclk", "chain:\n  gclk: fast"},
		{"brightness", "neopixel:\n  brightness: 256"},
		{"unnamed animation", "animations:\n  - frequency: 1"},
		{"unknown animation", "animations:\n  - name: sparkle"},
		{"negative frequency", "animations:\n  - name: pulse\n    frequency: -1"},
		{"frequency too low", "animations:\n  - name: pulse\n    frequency: 1e-10"},
		{"negative interval", "animations:\n  - name: checkerboard\n    interval: -1s"},
		{"rainbow value", "animations:\n  - name: rainbow\n    value: 2"},
		{"color too wide", "chain:\n  bits: 12\nanimations:\n  - name: checkerboard\n    colorA:\n      g: 4096"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.content))
			assert.Error(t, err)
		})
	}
}

func TestChainConfigInvalid(t *testing.T) {
	_, err := Chain{Devices: 5, Bits: 16, GCLK: "800kHz"}.Config()
	assert.True(t, errors.Is(err, mbi5043.ErrInvalidConfig))
}

func TestBus(t *testing.T) {
	c := Chain{Pins: DefaultPins()}
	assert.Equal(t, DefaultPins(), c.Bus())

	c.SwapClocks = true
	p := c.Bus()
	assert.Equal(t, "GPIO18", p.DCLK)
	assert.Equal(t, "GPIO27", p.GCLK)
	assert.Equal(t, "GPIO17", p.SDI)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("output: neopixel\n"), 0600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, OutputNeopixel, c.Output)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
