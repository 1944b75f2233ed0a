package animation

import (
	"errors"
	"fmt"
	"github.com/callebjorkell/hyperion/internal/frame"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

var ErrNoSuchStep = errors.New("no such program step")

// Step is one entry of a program. Run performs a single invocation of the animation and is called
// repeatedly while the step is playing.
type Step struct {
	Name string
	Run  func(s *Sequencer) error
}

func PulseStep(frequency float64) Step {
	return Step{
		Name: fmt.Sprintf("pulse %vHz", frequency),
		Run: func(s *Sequencer) error {
			return s.Pulse(frequency)
		},
	}
}

func CheckerboardStep(a, b frame.RGBW, interval time.Duration) Step {
	return Step{
		Name: fmt.Sprintf("checkerboard %v", interval),
		Run: func(s *Sequencer) error {
			return s.Checkerboard(a, b, interval)
		},
	}
}

func OffStep() Step {
	return Step{
		Name: "off",
		Run: func(s *Sequencer) error {
			return s.Off()
		},
	}
}

// RainbowStep cycles through the hues at the given value. The hue carries over between invocations.
func RainbowStep(value float64) Step {
	hue := 0.0
	return Step{
		Name: fmt.Sprintf("rainbow %.2f", value),
		Run: func(s *Sequencer) (err error) {
			hue, err = s.Rainbow(hue, value)
			return err
		},
	}
}

// Player loops one step of a program at a time on an output.
type Player struct {
	queue   *Queue
	opts    []Option
	program []Step
	wg      sync.WaitGroup

	mu      sync.Mutex
	current int
}

// NewPlayer plays program on out. The options are applied to the sequencer of every step.
func NewPlayer(out Output, program []Step, opts ...Option) *Player {
	return &Player{
		queue:   NewQueue(out),
		opts:    opts,
		program: program,
		current: -1,
	}
}

// Current returns the index of the step that was last started, or -1.
func (p *Player) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}

// Play interrupts whatever is playing and starts looping the step at index in the background.
func (p *Player) Play(index int) error {
	if index < 0 || index >= len(p.program) {
		return fmt.Errorf("%w: %d of %d", ErrNoSuchStep, index, len(p.program))
	}
	lease := p.queue.Acquire()

	p.mu.Lock()
	p.current = index
	p.mu.Unlock()

	step := p.program[index]
	seq := New(lease, p.opts...)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer lease.Release()

		log.Infof("Playing %s", step.Name)
		for !lease.Interrupted() {
			if err := step.Run(seq); err != nil {
				log.Warnf("Stopping %s: %v", step.Name, err)
				return
			}
		}
		log.Debugf("%s was interrupted", step.Name)
	}()
	return nil
}

// Next plays the step after the current one, wrapping around at the end of the program.
func (p *Player) Next() error {
	if len(p.program) == 0 {
		return fmt.Errorf("%w: program is empty", ErrNoSuchStep)
	}
	return p.Play((p.Current() + 1) % len(p.program))
}

// Stop interrupts the playing step and turns the output off.
func (p *Player) Stop() error {
	lease := p.queue.Acquire()
	defer lease.Release()

	p.mu.Lock()
	p.current = -1
	p.mu.Unlock()

	return New(lease, p.opts...).Off()
}

// Close stops playback and waits for the background loop to exit.
func (p *Player) Close() error {
	err := p.Stop()
	p.wg.Wait()
	return err
}
