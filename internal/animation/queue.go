package animation

import (
	"errors"
	"github.com/callebjorkell/hyperion/internal/frame"
	log "github.com/sirupsen/logrus"
	"sync"
)

var ErrReleased = errors.New("output has been handed over")

// Queue hands exclusive use of an Output from one owner to the next. Acquiring flags the current owner
// as interrupted and blocks until it has released the output.
type Queue struct {
	out  Output
	hold sync.Mutex

	mu      sync.Mutex
	waiting int
}

func NewQueue(out Output) *Queue {
	return &Queue{out: out}
}

// Acquire waits for the output to become free and leases it to the caller.
func (q *Queue) Acquire() *Lease {
	q.mu.Lock()
	q.waiting++
	log.Debugf("%d waiting for output", q.waiting)
	q.mu.Unlock()

	q.hold.Lock()

	q.mu.Lock()
	q.waiting--
	q.mu.Unlock()
	return &Lease{q: q}
}

// Lease is the exclusive use of the output. It is itself an Output, and stops passing anything on once
// released. Release waits for a frame in flight to be fully sent.
type Lease struct {
	q        *Queue
	mu       sync.Mutex
	released bool
}

// Interrupted reports whether someone is waiting to take the output over.
func (l *Lease) Interrupted() bool {
	l.q.mu.Lock()
	defer l.q.mu.Unlock()

	return l.q.waiting > 0
}

// Release hands the output to the next owner in line. Releasing twice is a no-op.
func (l *Lease) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return
	}
	l.released = true
	l.q.hold.Unlock()
}

func (l *Lease) SendFrame(f *frame.Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return ErrReleased
	}
	return l.q.out.SendFrame(f)
}

func (l *Lease) SetUniformBrightness(value uint16) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return ErrReleased
	}
	return l.q.out.SetUniformBrightness(value)
}

func (l *Lease) MaxValue() uint16 {
	return l.q.out.MaxValue()
}
