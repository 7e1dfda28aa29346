package servo

import (
	"math"

	"potservo/core"
)

// Calibration maps a potentiometer reading onto a pulse width in timer ticks.
//
//	width = Base + (sample - 512) / Divisors[mode]
//
// Base is the neutral pulse. MinPulse and MaxPulse are the servo's
// mechanical end stops; widths outside them are clamped.
type Calibration struct {
	TickHz   uint32     `json:"tick_hz"`
	Base     uint32     `json:"base"`
	MinPulse uint32     `json:"min_pulse"`
	MaxPulse uint32     `json:"max_pulse"`
	Divisors [3]float64 `json:"divisors"`
}

// DefaultCalibration returns the bench calibration at the reference
// 312.5 kHz tick: 380 ticks neutral (1.216 ms), end stops at 170 and 560
// ticks (0.544 ms and 1.792 ms).
func DefaultCalibration() Calibration {
	return Calibration{
		TickHz:   core.RefTickHz,
		Base:     380,
		MinPulse: 170,
		MaxPulse: 560,
		Divisors: [3]float64{2.50366, 5.00733, 15.0220},
	}
}

// Scale returns the same calibration expressed for a timer running at tickHz
func (c Calibration) Scale(tickHz uint32) Calibration {
	if tickHz == 0 || c.TickHz == 0 || tickHz == c.TickHz {
		return c
	}
	f := float64(tickHz) / float64(c.TickHz)
	out := Calibration{
		TickHz:   tickHz,
		Base:     uint32(math.Round(float64(c.Base) * f)),
		MinPulse: uint32(math.Round(float64(c.MinPulse) * f)),
		MaxPulse: uint32(math.Round(float64(c.MaxPulse) * f)),
	}
	for i, d := range c.Divisors {
		out.Divisors[i] = d / f
	}
	return out
}

// Validate checks the calibration is usable. Divisors must grow with the
// mode so each press makes the servo less sensitive.
func (c Calibration) Validate() error {
	if c.TickHz == 0 {
		return invalid(ErrInvalidCalibration, "tick_hz", "must be > 0")
	}
	if c.MaxPulse == 0 || c.MinPulse > c.MaxPulse {
		return invalid(ErrInvalidCalibration, "min_pulse", "must be <= max_pulse and max_pulse > 0")
	}
	if c.Base < c.MinPulse || c.Base > c.MaxPulse {
		return invalid(ErrInvalidCalibration, "base", "must lie within [min_pulse, max_pulse]")
	}
	prev := 0.0
	for _, d := range c.Divisors {
		if !(d > prev) || math.IsInf(d, 0) {
			return invalid(ErrInvalidCalibration, "divisors", "must be positive and increasing")
		}
		prev = d
	}
	return nil
}

// RawWidth applies the mode's affine transform without clamping. The
// result is truncated toward zero.
func (c Calibration) RawWidth(sample core.ADCValue, m Mode) int32 {
	d := c.Divisors[m%modeCount]
	offset := float64(int32(sample)-int32(core.ADCMid)) / d
	return int32(float64(c.Base) + offset)
}

// PulseWidth returns the width to drive for sample in mode m, clamped to
// the end stops, and whether clamping was needed.
func (c Calibration) PulseWidth(sample core.ADCValue, m Mode) (uint32, bool) {
	return c.Clamp(c.RawWidth(sample, m))
}

// Clamp limits a raw width to [MinPulse, MaxPulse]
func (c Calibration) Clamp(raw int32) (uint32, bool) {
	switch {
	case raw < int32(c.MinPulse):
		return c.MinPulse, true
	case raw > int32(c.MaxPulse):
		return c.MaxPulse, true
	}
	return uint32(raw), false
}
