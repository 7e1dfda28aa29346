package servo

import (
	"sync/atomic"

	"potservo/core"
)

// SharedState is the only data crossing from the main loop into the frame
// interrupt. The Sampler is its sole writer and the PulseGenerator its sole
// reader; each field is a single atomic word, so no lock is taken and a
// reader never observes a half-written sample.
type SharedState struct {
	sample atomic.Uint32
	mode   atomic.Uint32
}

// NewSharedState returns state initialised to sample 0, ModeWide
func NewSharedState() *SharedState {
	return &SharedState{}
}

// PublishSample stores a completed conversion. Sampler only.
func (s *SharedState) PublishSample(v core.ADCValue) {
	if v > core.ADCMax {
		v = core.ADCMax
	}
	s.sample.Store(uint32(v))
}

// Sample returns the most recently completed conversion
func (s *SharedState) Sample() core.ADCValue {
	return core.ADCValue(s.sample.Load())
}

// SetMode stores the selected mode. Sampler only.
func (s *SharedState) SetMode(m Mode) {
	s.mode.Store(uint32(m % modeCount))
}

// Mode returns the selected mode
func (s *SharedState) Mode() Mode {
	return Mode(s.mode.Load())
}
