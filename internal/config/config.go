// Package config reads the yaml configuration of the panel.
package config

import (
	"fmt"
	"github.com/callebjorkell/hyperion/internal/animation"
	"github.com/callebjorkell/hyperion/internal/frame"
	"github.com/callebjorkell/hyperion/internal/mbi5043"
	"gopkg.in/yaml.v3"
	"os"
	"periph.io/x/conn/v3/physic"
	"time"
)

const (
	OutputChain    = "mbi5043"
	OutputNeopixel = "neopixel"

	AnimationPulse        = "pulse"
	AnimationCheckerboard = "checkerboard"
	AnimationOff          = "off"
	AnimationRainbow      = "rainbow"

	DefaultFile = "config.yaml"

	defaultGCLK               = "800kHz"
	defaultButton             = "GPIO20"
	defaultNeopixelGPIO       = 18
	defaultNeopixelBrightness = 90
	defaultFrequency          = 0.5
	defaultInterval           = 500 * time.Millisecond
	defaultRainbowValue       = 1.0
)

// Pins names the GPIO lines of the bus, as known to the periph registry.
type Pins struct {
	SDI  string `yaml:"sdi"`
	DCLK string `yaml:"dclk"`
	GCLK string `yaml:"gclk"`
	LE   string `yaml:"le"`
	SDO  string `yaml:"sdo"`
}

type Chain struct {
	Devices int    `yaml:"devices"`
	Bits    int    `yaml:"bits"`
	GCLK    string `yaml:"gclk"`
	// SwapClocks exchanges the DCLK and GCLK pins, for boards that route them the other way around.
	SwapClocks bool `yaml:"swapClocks"`
	Pins       Pins `yaml:"pins"`
}

type Neopixel struct {
	GPIO       int `yaml:"gpio"`
	Brightness int `yaml:"brightness"`
}

type Animation struct {
	Name      string        `yaml:"name"`
	Frequency float64       `yaml:"frequency"`
	ColorA    frame.RGBW    `yaml:"colorA"`
	ColorB    frame.RGBW    `yaml:"colorB"`
	Interval  time.Duration `yaml:"interval"`
	Value     float64       `yaml:"value"`
}

type Config struct {
	Output     string      `yaml:"output"`
	Chain      Chain       `yaml:"chain"`
	Neopixel   Neopixel    `yaml:"neopixel"`
	Button     string      `yaml:"button"`
	Animations []Animation `yaml:"animations"`
}

// DefaultPins is the wiring of the panel on a Raspberry Pi header.
func DefaultPins() Pins {
	return Pins{
		SDI:  "GPIO17",
		DCLK: "GPIO27",
		GCLK: "GPIO18",
		LE:   "GPIO22",
		SDO:  "GPIO23",
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// Parse reads the configuration, fills in the defaults and validates the result.
func Parse(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}

	if c.Output == "" {
		c.Output = OutputChain
	}
	if c.Output != OutputChain && c.Output != OutputNeopixel {
		return nil, fmt.Errorf("unknown output %q", c.Output)
	}
	if c.Button == "" {
		c.Button = defaultButton
	}

	if err := c.Chain.defaults(); err != nil {
		return nil, err
	}
	if c.Neopixel.GPIO == 0 {
		c.Neopixel.GPIO = defaultNeopixelGPIO
	}
	if c.Neopixel.Brightness == 0 {
		c.Neopixel.Brightness = defaultNeopixelBrightness
	}
	if c.Neopixel.Brightness < 0 || c.Neopixel.Brightness > 255 {
		return nil, fmt.Errorf("neopixel brightness must be between 0 and 255, got %d", c.Neopixel.Brightness)
	}

	if len(c.Animations) == 0 {
		c.Animations = DefaultAnimations(c.Chain.Bits)
	}
	max := frame.Max(c.Chain.Bits)
	for i, a := range c.Animations {
		switch a.Name {
		case AnimationPulse:
			if a.Frequency == 0 {
				c.Animations[i].Frequency = defaultFrequency
			}
			if _, err := animation.PulsePeriod(c.Animations[i].Frequency); err != nil {
				return nil, fmt.Errorf("frequency of pulse for entry %d: %w", i, err)
			}
		case AnimationCheckerboard:
			if a.Interval < 0 {
				return nil, fmt.Errorf("interval of checkerboard must be positive for entry %d", i)
			}
			if a.Interval == 0 {
				c.Animations[i].Interval = defaultInterval
			}
			if !fits(a.ColorA, max) || !fits(a.ColorB, max) {
				return nil, fmt.Errorf("colors of checkerboard must fit in %d bits for entry %d", c.Chain.Bits, i)
			}
		case AnimationRainbow:
			if a.Value < 0 || a.Value > 1 {
				return nil, fmt.Errorf("value of rainbow must be between 0 and 1 for entry %d", i)
			}
			if a.Value == 0 {
				c.Animations[i].Value = defaultRainbowValue
			}
		case AnimationOff:
		case "":
			return nil, fmt.Errorf("name of animation must be specified for entry %d", i)
		default:
			return nil, fmt.Errorf("unknown animation %q for entry %d", a.Name, i)
		}
	}

	return c, nil
}

func (c *Chain) defaults() error {
	if c.Devices == 0 {
		c.Devices = mbi5043.DefaultDevices
	}
	if c.Devices < 0 {
		return fmt.Errorf("number of devices must be positive, got %d", c.Devices)
	}
	if c.Bits == 0 {
		c.Bits = mbi5043.DefaultBits
	}
	if c.Bits != 12 && c.Bits != 16 {
		return fmt.Errorf("grayscale width must be 12 or 16 bits, got %d", c.Bits)
	}
	if c.GCLK == "" {
		c.GCLK = defaultGCLK
	}

	def := DefaultPins()
	if c.Pins.SDI == "" {
		c.Pins.SDI = def.SDI
	}
	if c.Pins.DCLK == "" {
		c.Pins.DCLK = def.DCLK
	}
	if c.Pins.GCLK == "" {
		c.Pins.GCLK = def.GCLK
	}
	if c.Pins.LE == "" {
		c.Pins.LE = def.LE
	}
	if c.Pins.SDO == "" {
		c.Pins.SDO = def.SDO
	}

	_, err := c.Config()
	return err
}

// Frequency parses the grayscale clock frequency, e.g. "800kHz".
func (c Chain) Frequency() (physic.Frequency, error) {
	var f physic.Frequency
	if err := f.Set(c.GCLK); err != nil {
		return 0, fmt.Errorf("invalid grayscale clock frequency %q: %w", c.GCLK, err)
	}
	return f, nil
}

// Bus returns the pins with DCLK and GCLK exchanged if SwapClocks is set.
func (c Chain) Bus() Pins {
	p := c.Pins
	if c.SwapClocks {
		p.DCLK, p.GCLK = p.GCLK, p.DCLK
	}
	return p
}

// Config builds the driver configuration, with every device wired to a 2x2 pixel cluster.
func (c Chain) Config() (mbi5043.Config, error) {
	f, err := c.Frequency()
	if err != nil {
		return mbi5043.Config{}, err
	}
	cfg := mbi5043.Config{
		Devices: c.Devices,
		Bits:    c.Bits,
		GCLK:    f,
		Layout:  mbi5043.ClusterLayout(c.Devices),
	}
	return cfg, cfg.Validate()
}

// DefaultAnimations is the program used when the configuration has none: a slow pulse, a white
// checkerboard and a rainbow.
func DefaultAnimations(bits int) []Animation {
	return []Animation{
		{Name: AnimationPulse, Frequency: defaultFrequency},
		{Name: AnimationCheckerboard, ColorA: frame.White(frame.Max(bits)), Interval: defaultInterval},
		{Name: AnimationRainbow, Value: defaultRainbowValue},
	}
}

func fits(c frame.RGBW, max uint16) bool {
	return c.R <= max && c.G <= max && c.B <= max && c.W <= max
}
