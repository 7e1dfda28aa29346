package sim

import (
	"errors"

	"potservo/core"
)

var ErrPinMode = errors.New("sim: pin already configured in another mode")

// Pulse is one high period seen on an output pin
type Pulse struct {
	Rise     uint32 // absolute tick the pin went high
	Fall     uint32 // absolute tick the pin went low
	FrameEnd uint32 // frame counter value when the pin went low
}

// High returns how long the pin stayed high
func (p Pulse) High() uint32 { return p.Fall - p.Rise }

type pinMode uint8

const (
	pinUnused pinMode = iota
	pinInput
	pinOutput
)

// GPIO is a simulated pin bank that records every pulse on its outputs.
type GPIO struct {
	clock  *Clock
	levels map[core.GPIOPin]bool
	modes  map[core.GPIOPin]pinMode
	pulls  map[core.GPIOPin]core.Pull
	rise   map[core.GPIOPin]uint32
	pulses map[core.GPIOPin][]Pulse
}

// NewGPIO returns a pin bank timed by clock
func NewGPIO(clock *Clock) *GPIO {
	return &GPIO{
		clock:  clock,
		levels: make(map[core.GPIOPin]bool),
		modes:  make(map[core.GPIOPin]pinMode),
		pulls:  make(map[core.GPIOPin]core.Pull),
		rise:   make(map[core.GPIOPin]uint32),
		pulses: make(map[core.GPIOPin][]Pulse),
	}
}

func (g *GPIO) claim(pin core.GPIOPin, mode pinMode) error {
	if cur := g.modes[pin]; cur != pinUnused && cur != mode {
		return ErrPinMode
	}
	g.modes[pin] = mode
	return nil
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	if err := g.claim(pin, pinOutput); err != nil {
		return err
	}
	g.levels[pin] = false
	return nil
}

func (g *GPIO) ConfigureInput(pin core.GPIOPin, pull core.Pull) error {
	if err := g.claim(pin, pinInput); err != nil {
		return err
	}
	g.pulls[pin] = pull
	g.levels[pin] = pull == core.PullUp
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) {
	if g.modes[pin] != pinOutput {
		return
	}
	prev := g.levels[pin]
	g.levels[pin] = value
	switch {
	case value && !prev:
		g.rise[pin] = g.clock.Now()
	case !value && prev:
		g.pulses[pin] = append(g.pulses[pin], Pulse{
			Rise:     g.rise[pin],
			Fall:     g.clock.Now(),
			FrameEnd: g.clock.CurrentTick(),
		})
	}
}

func (g *GPIO) ReadPin(pin core.GPIOPin) bool {
	return g.levels[pin]
}

// Drive sets the level an external circuit applies to an input pin
func (g *GPIO) Drive(pin core.GPIOPin, level bool) {
	g.levels[pin] = level
}

// Pulses returns the pulses recorded on pin
func (g *GPIO) Pulses(pin core.GPIOPin) []Pulse {
	return g.pulses[pin]
}

// ClearPulses forgets the pulses recorded on pin
func (g *GPIO) ClearPulses(pin core.GPIOPin) {
	delete(g.pulses, pin)
}

// IsOutput reports whether pin was configured as an output
func (g *GPIO) IsOutput(pin core.GPIOPin) bool { return g.modes[pin] == pinOutput }

// Pull returns the bias configured on an input pin
func (g *GPIO) Pull(pin core.GPIOPin) core.Pull { return g.pulls[pin] }
