package sim

import (
	"errors"

	"potservo/core"
)

var ErrUnknownChannel = errors.New("sim: unknown ADC channel")

// ADC is a scripted analog converter. Each conversion takes Latency ticks
// of simulated time and latches its value when started, like a
// sample-and-hold front end.
type ADC struct {
	clock    *Clock
	Latency  uint32
	Channels uint8 // number of valid channels

	// Stuck makes ConversionDone report false until cleared
	Stuck bool

	channel    core.ADCChannelID
	configured bool

	script []core.ADCValue
	value  core.ADCValue
	source func(now uint32) core.ADCValue

	converting  bool
	startedAt   uint32
	latched     core.ADCValue
	conversions uint32
}

// NewADC returns a converter on clock with the given conversion latency
func NewADC(clock *Clock, latency uint32) *ADC {
	return &ADC{clock: clock, Latency: latency, Channels: 8}
}

func (a *ADC) ConfigureChannel(ch core.ADCChannelID) error {
	if uint8(ch) >= a.Channels {
		return ErrUnknownChannel
	}
	a.channel = ch
	a.configured = true
	return nil
}

func (a *ADC) StartConversion() {
	a.converting = true
	a.startedAt = a.clock.Now()
	a.latched = a.next()
	a.conversions++
}

func (a *ADC) ConversionDone() bool {
	if !a.converting || a.Stuck {
		return false
	}
	return a.clock.Now()-a.startedAt >= a.Latency
}

func (a *ADC) ReadResult() core.ADCValue {
	a.converting = false
	return a.latched
}

// Set fixes the potentiometer reading for every following conversion
func (a *ADC) Set(v core.ADCValue) {
	a.script = nil
	a.source = nil
	a.value = v
}

// Script queues one reading per conversion; the last value then repeats
func (a *ADC) Script(values ...core.ADCValue) {
	a.source = nil
	a.script = append(a.script[:0], values...)
}

// Follow derives each reading from the absolute start tick
func (a *ADC) Follow(fn func(now uint32) core.ADCValue) {
	a.script = nil
	a.source = fn
}

// Conversions returns how many conversions were started
func (a *ADC) Conversions() uint32 { return a.conversions }

// Channel returns the configured channel
func (a *ADC) Channel() (core.ADCChannelID, bool) { return a.channel, a.configured }

func (a *ADC) next() core.ADCValue {
	var v core.ADCValue
	switch {
	case a.source != nil:
		v = a.source(a.clock.Now())
	case len(a.script) > 0:
		v = a.script[0]
		if len(a.script) > 1 {
			a.script = a.script[1:]
		} else {
			a.value = v
			a.script = nil
		}
	default:
		v = a.value
	}
	if v > core.ADCMax {
		v = core.ADCMax
	}
	return v
}
