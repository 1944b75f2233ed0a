package mbi5043test

import (
	"fmt"
	"periph.io/x/conn/v3/gpio"
	"strings"
)

type Kind int

const (
	// Shift is a run of bits clocked in while LE was low.
	Shift Kind = iota
	// Strobe is an LE high window. Pulses counts the DCLK rising edges inside it.
	Strobe
)

type Op struct {
	Kind   Kind
	Bits   []bool
	Pulses int
}

// IsLatch reports whether the op is a single pulse latch.
func (o Op) IsLatch() bool {
	return o.Kind == Strobe && o.Pulses == 1
}

// IsCommit reports whether the op is a three pulse output commit.
func (o Op) IsCommit() bool {
	return o.Kind == Strobe && o.Pulses == 3
}

func (o Op) String() string {
	switch {
	case o.Kind == Shift:
		return fmt.Sprintf("shift(%d)", len(o.Bits))
	case o.IsLatch():
		return "latch"
	case o.IsCommit():
		return "commit"
	}
	return fmt.Sprintf("strobe(%d)", o.Pulses)
}

// Words splits the bits into width sized values, most significant bit first. Trailing bits that do not
// make up a full word are dropped.
func (o Op) Words(width int) []uint16 {
	words := make([]uint16, 0, len(o.Bits)/width)
	for i := 0; i+width <= len(o.Bits); i += width {
		var w uint16
		for _, b := range o.Bits[i : i+width] {
			w <<= 1
			if b {
				w |= 1
			}
		}
		words = append(words, w)
	}
	return words
}

// Trace is a decoded recording.
type Trace struct {
	Ops []Op
	// Unstable counts SDI changes made while DCLK was high, where the devices may sample the wrong bit.
	Unstable int
}

func (t Trace) String() string {
	s := make([]string, len(t.Ops))
	for i, o := range t.Ops {
		s[i] = o.String()
	}
	return strings.Join(s, " ")
}

// Latches counts the single pulse strobes.
func (t Trace) Latches() int {
	n := 0
	for _, o := range t.Ops {
		if o.IsLatch() {
			n++
		}
	}
	return n
}

// Commits counts the three pulse strobes.
func (t Trace) Commits() int {
	n := 0
	for _, o := range t.Ops {
		if o.IsCommit() {
			n++
		}
	}
	return n
}

// Bits returns every shifted bit in order, across all shift ops.
func (t Trace) Bits() []bool {
	var bits []bool
	for _, o := range t.Ops {
		if o.Kind == Shift {
			bits = append(bits, o.Bits...)
		}
	}
	return bits
}

// Words returns every shifted value in order.
func (t Trace) Words(width int) []uint16 {
	return Op{Kind: Shift, Bits: t.Bits()}.Words(width)
}

// Decode replays events from an all-low bus.
func Decode(events []Event) Trace {
	var (
		sdi, dclk, le = gpio.Low, gpio.Low, gpio.Low
		trace         Trace
		shifting      = -1
		pulses        int
	)

	for _, e := range events {
		switch e.Line {
		case SDI:
			if dclk == gpio.High && e.Level != sdi {
				trace.Unstable++
			}
			sdi = e.Level
		case DCLK:
			rising := dclk == gpio.Low && e.Level == gpio.High
			dclk = e.Level
			if !rising {
				continue
			}
			if le == gpio.High {
				pulses++
				continue
			}
			if shifting < 0 {
				trace.Ops = append(trace.Ops, Op{Kind: Shift})
				shifting = len(trace.Ops) - 1
			}
			trace.Ops[shifting].Bits = append(trace.Ops[shifting].Bits, bool(sdi))
		case LE:
			if le == gpio.Low && e.Level == gpio.High {
				shifting = -1
				pulses = 0
			}
			if le == gpio.High && e.Level == gpio.Low {
				trace.Ops = append(trace.Ops, Op{Kind: Strobe, Pulses: pulses})
			}
			le = e.Level
		}
	}
	return trace
}
