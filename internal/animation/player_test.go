package animation

import (
	"errors"
	"github.com/callebjorkell/hyperion/internal/clock"
	"github.com/callebjorkell/hyperion/internal/frame"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func countingStep(name string, n *int32) Step {
	return Step{
		Name: name,
		Run: func(s *Sequencer) error {
			atomic.AddInt32(n, 1)
			time.Sleep(time.Millisecond)
			return nil
		},
	}
}

func TestPlayerSwitchesSteps(t *testing.T) {
	setDebug()

	var first, second int32
	out := &recorder{max: 0xffff}
	p := NewPlayer(out, []Step{countingStep("first", &first), countingStep("second", &second)}, WithClock(&clock.Fake{}))
	assert.Equal(t, -1, p.Current())

	require.NoError(t, p.Play(0))
	assert.Equal(t, 0, p.Current())
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&first) > 2 }, time.Second, time.Millisecond)

	require.NoError(t, p.Next())
	assert.Equal(t, 1, p.Current())
	stopped := atomic.LoadInt32(&first)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&second) > 2 }, time.Second, time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&first), "first step should not run after being interrupted")

	require.NoError(t, p.Next())
	assert.Equal(t, 0, p.Current())

	require.NoError(t, p.Close())
	assert.Equal(t, -1, p.Current())

	frames := out.Frames()
	require.NotEmpty(t, frames)
	assert.Equal(t, frame.Frame{}, frames[len(frames)-1], "output should be turned off")
}

func TestPlayerStopsOnError(t *testing.T) {
	var runs int32
	p := NewPlayer(&recorder{max: 0xffff}, []Step{{
		Name: "failing",
		Run: func(s *Sequencer) error {
			atomic.AddInt32(&runs, 1)
			return errors.New("broken")
		},
	}})

	require.NoError(t, p.Play(0))
	<-time.After(20 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	require.NoError(t, p.Close())
}

func TestPlayerInvalidStep(t *testing.T) {
	out := &recorder{max: 0xffff}
	p := NewPlayer(out, nil)

	assert.ErrorIs(t, p.Play(0), ErrNoSuchStep)
	assert.ErrorIs(t, p.Next(), ErrNoSuchStep)
	assert.ErrorIs(t, NewPlayer(out, []Step{OffStep()}).Play(1), ErrNoSuchStep)
}

func TestSteps(t *testing.T) {
	s, out, c := newSequencer(0x0fff)

	require.NoError(t, PulseStep(1).Run(s))
	assert.Equal(t, PulseLevels(0x0fff), out.levels)

	require.NoError(t, CheckerboardStep(frame.White(1), frame.White(2), time.Second).Run(s))
	require.NoError(t, OffStep().Run(s))
	assert.Len(t, out.Frames(), 3)

	c.Reset()
	rainbow := RainbowStep(1)
	require.NoError(t, rainbow.Run(s))
	require.NoError(t, rainbow.Run(s))
	frames := out.Frames()
	require.Len(t, frames, 5)
	assert.Equal(t, RainbowFrame(0, 1, 0x0fff), frames[3])
	assert.Equal(t, RainbowFrame(RainbowHueStep, 1, 0x0fff), frames[4])
	assert.Equal(t, []time.Duration{RainbowDelay, RainbowDelay}, c.Delays())
}

func TestQueueHandOver(t *testing.T) {
	out := &recorder{max: 0xffff}
	q := NewQueue(out)

	first := q.Acquire()
	assert.False(t, first.Interrupted())
	assert.Equal(t, uint16(0xffff), first.MaxValue())

	acquired := make(chan *Lease)
	go func() {
		acquired <- q.Acquire()
	}()

	assert.Eventually(t, first.Interrupted, time.Second, time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("second owner should wait for the first one")
	default:
	}
	require.NoError(t, first.SetUniformBrightness(1))

	first.Release()
	var second *Lease
	select {
	case second = <-acquired:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hand-over")
	}
	assert.False(t, second.Interrupted())

	var f frame.Frame
	assert.ErrorIs(t, first.SendFrame(&f), ErrReleased)
	assert.ErrorIs(t, first.SetUniformBrightness(2), ErrReleased)
	first.Release()

	require.NoError(t, second.SendFrame(&f))
	second.Release()

	assert.Equal(t, []uint16{1}, out.levels)
	assert.Len(t, out.Frames(), 1)
}

func TestPlayerReleasesOutputOnHandOver(t *testing.T) {
	out := &recorder{max: 0xffff}
	var leased Output
	var once sync.Once
	started := make(chan struct{})
	p := NewPlayer(out, []Step{{
		Name: "capture",
		Run: func(s *Sequencer) error {
			once.Do(func() {
				leased = s.out
				close(started)
			})
			time.Sleep(time.Millisecond)
			return nil
		},
	}}, WithClock(&clock.Fake{}))

	require.NoError(t, p.Play(0))
	<-started
	require.NoError(t, p.Stop())

	var f frame.Frame
	assert.ErrorIs(t, leased.SendFrame(&f), ErrReleased, "an interrupted step should no longer reach the output")
	require.NoError(t, p.Close())
}

func setDebug() {
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	log.SetLevel(log.DebugLevel)
}
