package servo

import (
	"context"

	"potservo/core"
)

// Sampler is the main-loop half of the controller. Each Step debounces the
// mode button on its release edge and publishes one fresh conversion.
//
// A conversion that never completes stalls Step forever. The stall is
// logged once the spin budget is exceeded but is not recovered.
type Sampler struct {
	state *SharedState
	gpio  core.GPIODriver
	adc   core.ADCDriver
	wait  core.WaitFunc

	button    core.GPIOPin
	activeLow bool

	pressed     bool // button_state
	prevPressed bool // prev_button_state

	iterations uint32
	stalls     uint32
}

// NewSampler builds the main-loop sampler. wait nil means core.SpinWait.
func NewSampler(state *SharedState, gpio core.GPIODriver, adc core.ADCDriver, cfg Config, wait core.WaitFunc) *Sampler {
	s := &Sampler{
		state:     state,
		gpio:      gpio,
		adc:       adc,
		button:    cfg.ButtonPin,
		activeLow: cfg.ButtonActiveLow,
	}
	s.wait = core.CountingWait(wait, cfg.StallSpins, s.onStall)
	return s
}

// Step runs one iteration of the main loop
func (s *Sampler) Step() {
	s.pressed = s.readButton()

	// Release edge: was pressed, now released
	if s.prevPressed && !s.pressed {
		s.advanceMode()
	}
	s.prevPressed = s.pressed

	s.adc.StartConversion()
	s.wait(s.adc.ConversionDone)
	s.state.PublishSample(s.adc.ReadResult())
	s.iterations++
}

// Run repeats Step until ctx is cancelled. On hardware ctx is never done.
func (s *Sampler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Step()
	}
}

func (s *Sampler) readButton() bool {
	level := s.gpio.ReadPin(s.button)
	if s.activeLow {
		return !level
	}
	return level
}

func (s *Sampler) advanceMode() {
	old := s.state.Mode()
	next := old.Next()
	s.state.SetMode(next)
	core.RecordTiming(core.EvtModeChange, uint32(old), uint32(next))
	core.DebugPrintln("[SERVO] mode " + old.String() + " -> " + next.String())
}

func (s *Sampler) onStall(spins uint32) {
	s.stalls++
	core.RecordTiming(core.EvtStall, spins, uint32(s.iterations))
	core.DebugPrintln("[SERVO] ADC conversion stalled after " + core.Utoa(spins) + " polls, still waiting")
}

// Pressed returns the button state seen by the last Step
func (s *Sampler) Pressed() bool { return s.pressed }

// Iterations returns how many conversions have been published
func (s *Sampler) Iterations() uint32 { return s.iterations }

// Stalls returns how many conversions exceeded the spin budget
func (s *Sampler) Stalls() uint32 { return s.stalls }
