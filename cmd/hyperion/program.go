package main

import (
	"fmt"
	"github.com/callebjorkell/hyperion/internal/animation"
	"github.com/callebjorkell/hyperion/internal/config"
)

func buildProgram(animations []config.Animation) ([]animation.Step, error) {
	program := make([]animation.Step, 0, len(animations))
	for i, a := range animations {
		switch a.Name {
		case config.AnimationPulse:
			program = append(program, animation.PulseStep(a.Frequency))
		case config.AnimationCheckerboard:
			program = append(program, animation.CheckerboardStep(a.ColorA, a.ColorB, a.Interval))
		case config.AnimationOff:
			program = append(program, animation.OffStep())
		case config.AnimationRainbow:
			program = append(program, animation.RainbowStep(a.Value))
		default:
			return nil, fmt.Errorf("unknown animation %q for entry %d", a.Name, i)
		}
	}
	if len(program) == 0 {
		return nil, fmt.Errorf("no animations to play")
	}
	return program, nil
}
