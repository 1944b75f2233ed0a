package clock

import (
	"periph.io/x/host/v3/cpu"
	"sync"
	"time"
)

// spinLimit is the longest delay that is busy-waited instead of handed to the scheduler.
const spinLimit = time.Millisecond

// Sleeper blocks the caller for at least the given duration.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Host is the Sleeper used on real hardware. Sub-millisecond delays are spun on the CPU since the
// scheduler cannot honour microsecond sleeps, everything longer is a regular sleep.
type Host struct{}

func (Host) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if d < spinLimit {
		cpu.Nanospin(d)
		return
	}
	time.Sleep(d)
}

// Fake records requested delays without waiting.
type Fake struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (f *Fake) Sleep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.delays = append(f.delays, d)
}

// Delays returns a copy of all the delays requested so far.
func (f *Fake) Delays() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]time.Duration(nil), f.delays...)
}

// Total is the sum of all requested delays.
func (f *Fake) Total() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	var total time.Duration
	for _, d := range f.delays {
		total += d
	}
	return total
}

// Reset forgets all recorded delays.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.delays = nil
}
