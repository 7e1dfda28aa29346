package servo

import (
	"context"
	"testing"

	"potservo/core"
)

const testButton core.GPIOPin = 5

func newTestSampler(t *testing.T, activeLow bool) (*Sampler, *SharedState, *fakeGPIO, *fakeADC) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ButtonPin = testButton
	cfg.ButtonActiveLow = activeLow

	gpio := newFakeGPIO()
	if activeLow {
		gpio.levels[testButton] = true // released, held up by the pull-up
	}
	adc := &fakeADC{value: 512}
	state := NewSharedState()
	return NewSampler(state, gpio, adc, cfg, nil), state, gpio, adc
}

func TestSamplerModeChangesOnRelease(t *testing.T) {
	s, state, gpio, _ := newTestSampler(t, false)

	s.Step()
	gpio.levels[testButton] = true
	s.Step()
	s.Step()
	if state.Mode() != ModeWide {
		t.Fatalf("mode changed while held: %v", state.Mode())
	}
	if !s.Pressed() {
		t.Error("Pressed() = false while button held")
	}

	gpio.levels[testButton] = false
	s.Step()
	if state.Mode() != ModeMedium {
		t.Errorf("mode after release = %v, want medium", state.Mode())
	}

	// Idle steps after the release do not advance again
	s.Step()
	s.Step()
	if state.Mode() != ModeMedium {
		t.Errorf("mode drifted to %v without a press", state.Mode())
	}
}

func TestSamplerThreeCyclesWrap(t *testing.T) {
	s, state, gpio, _ := newTestSampler(t, false)

	want := []Mode{ModeMedium, ModeNarrow, ModeWide}
	for i, w := range want {
		gpio.levels[testButton] = true
		s.Step()
		gpio.levels[testButton] = false
		s.Step()
		if state.Mode() != w {
			t.Fatalf("after press %d mode = %v, want %v", i+1, state.Mode(), w)
		}
	}
}

func TestSamplerActiveLowButton(t *testing.T) {
	s, state, gpio, _ := newTestSampler(t, true)

	s.Step()
	if s.Pressed() {
		t.Fatal("released active-low button read as pressed")
	}

	gpio.levels[testButton] = false
	s.Step()
	gpio.levels[testButton] = true
	s.Step()
	if state.Mode() != ModeMedium {
		t.Errorf("mode = %v, want medium", state.Mode())
	}
}

func TestSamplerPublishesEachConversion(t *testing.T) {
	s, state, _, adc := newTestSampler(t, false)

	for _, v := range []core.ADCValue{0, 300, 1023} {
		adc.value = v
		s.Step()
		if state.Sample() != v {
			t.Errorf("published %d, want %d", state.Sample(), v)
		}
	}
	if adc.starts != 3 || s.Iterations() != 3 {
		t.Errorf("starts=%d iterations=%d, want 3 and 3", adc.starts, s.Iterations())
	}
}

func TestSamplerLogsStall(t *testing.T) {
	core.ClearTimingRing()
	defer core.ClearTimingRing()

	cfg := DefaultConfig()
	cfg.StallSpins = 5
	adc := &fakeADC{value: 700, pollsPerConversion: 20}
	state := NewSharedState()
	s := NewSampler(state, newFakeGPIO(), adc, cfg, nil)

	s.Step()
	if s.Stalls() != 1 {
		t.Errorf("Stalls() = %d, want 1", s.Stalls())
	}
	if state.Sample() != 700 {
		t.Errorf("sample = %d, want 700 once the slow conversion completes", state.Sample())
	}

	found := false
	for _, evt := range core.TimingSnapshot() {
		if evt.EventType == core.EvtStall {
			found = true
		}
	}
	if !found {
		t.Error("no stall event recorded")
	}

	adc.pollsPerConversion = 2
	s.Step()
	if s.Stalls() != 1 {
		t.Errorf("fast conversion counted as stall: Stalls() = %d", s.Stalls())
	}
}

func TestSamplerRunStopsOnCancel(t *testing.T) {
	s, _, _, adc := newTestSampler(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	steps := 0
	s.wait = func(cond func() bool) {
		steps++
		if steps == 10 {
			cancel()
		}
		for !cond() {
		}
	}

	if err := s.Run(ctx); err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if adc.starts != 10 {
		t.Errorf("ran %d steps, want 10", adc.starts)
	}
}
