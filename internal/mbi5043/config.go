package mbi5043

import (
	"fmt"
	"github.com/callebjorkell/hyperion/internal/frame"
	"periph.io/x/conn/v3/physic"
	"time"
)

const (
	// Channels is the number of constant current outputs (OUT0..OUT15) per device.
	Channels = 16

	// BitDelay is the minimum setup and hold time around each DCLK edge while shifting.
	BitDelay = time.Microsecond
	// SettleDelay is the minimum time around LE transitions.
	SettleDelay = 2 * time.Microsecond

	DefaultDevices = 4
	DefaultBits    = 16
	DefaultGCLK    = 800 * physic.KiloHertz
)

// Cell addresses the frame channel that a single device output is wired to.
type Cell struct {
	Row  int
	Col  int
	Slot frame.Slot
}

// Wiring maps every output of one device to a frame cell, indexed by output number.
type Wiring [Channels]Cell

// Layout holds the wiring of every device, indexed by the device position in the chain. Device 0 is
// the one connected directly to the controller.
type Layout []Wiring

// clusterWiring is the output wiring of one device driving a 2x2 pixel cluster, relative to the top
// left pixel of the cluster.
var clusterWiring = Wiring{
	0:  {0, 0, frame.W},
	1:  {0, 0, frame.B},
	2:  {0, 0, frame.G},
	3:  {0, 0, frame.R},
	4:  {0, 1, frame.W},
	5:  {0, 1, frame.B},
	6:  {0, 1, frame.G},
	7:  {0, 1, frame.R},
	8:  {1, 1, frame.R},
	9:  {1, 1, frame.G},
	10: {1, 1, frame.B},
	11: {1, 1, frame.W},
	12: {1, 0, frame.W},
	13: {1, 0, frame.B},
	14: {1, 0, frame.G},
	15: {1, 0, frame.R},
}

// ClusterLayout wires each device to a 2x2 cluster of RGBW pixels. Clusters fill the frame left to
// right, top to bottom in chain order.
func ClusterLayout(devices int) Layout {
	perRow := frame.Cols / 2
	l := make(Layout, devices)
	for d := range l {
		row, col := 2*(d/perRow), 2*(d%perRow)
		for ch, c := range clusterWiring {
			l[d][ch] = Cell{Row: row + c.Row, Col: col + c.Col, Slot: c.Slot}
		}
	}
	return l
}

func (l Layout) copy() Layout {
	return append(Layout(nil), l...)
}

// Config describes the device chain. It is fixed for the lifetime of a Chain.
type Config struct {
	Devices int
	Bits    int
	GCLK    physic.Frequency
	Layout  Layout
}

// DefaultConfig is a chain of four 16-bit devices, each driving a 2x2 pixel cluster.
func DefaultConfig() Config {
	return Config{
		Devices: DefaultDevices,
		Bits:    DefaultBits,
		GCLK:    DefaultGCLK,
		Layout:  ClusterLayout(DefaultDevices),
	}
}

func (c Config) Validate() error {
	if c.Devices < 1 {
		return fmt.Errorf("%w: at least one device is required, got %d", ErrInvalidConfig, c.Devices)
	}
	if c.Bits != 12 && c.Bits != 16 {
		return fmt.Errorf("%w: grayscale width must be 12 or 16 bits, got %d", ErrInvalidConfig, c.Bits)
	}
	if c.GCLK <= 0 {
		return fmt.Errorf("%w: grayscale clock frequency must be positive, got %v", ErrInvalidConfig, c.GCLK)
	}
	if len(c.Layout) != c.Devices {
		return fmt.Errorf("%w: layout has wiring for %d devices, chain has %d", ErrInvalidConfig, len(c.Layout), c.Devices)
	}
	for d, w := range c.Layout {
		for ch, cell := range w {
			if cell.Row < 0 || cell.Row >= frame.Rows || cell.Col < 0 || cell.Col >= frame.Cols {
				return fmt.Errorf("%w: device %d OUT%d wired outside the frame (%d,%d)", ErrInvalidConfig, d, ch, cell.Row, cell.Col)
			}
			if cell.Slot < frame.R || cell.Slot > frame.W {
				return fmt.Errorf("%w: device %d OUT%d wired to unknown slot %d", ErrInvalidConfig, d, ch, cell.Slot)
			}
		}
	}
	return nil
}
