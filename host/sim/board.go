// Package sim runs the servo controller against simulated hardware: a
// clear-on-compare frame timer, a scripted ADC and a recording pin bank.
// Busy-waits become "advance one simulated tick" so a whole session runs
// deterministically on one goroutine.
package sim

import (
	"errors"

	"potservo/core"
	"potservo/servo"
)

// ErrWaitLimit is the panic value raised when a wait exceeds Board.WaitLimit
var ErrWaitLimit = errors.New("sim: wait exceeded limit")

// Board bundles the simulated collaborators
type Board struct {
	Clock *Clock
	ADC   *ADC
	GPIO  *GPIO

	// WaitLimit bounds a single wait in ticks; 0 waits forever
	WaitLimit uint32
}

// NewBoard returns a board whose timer counts at hz and whose conversions
// take adcLatency ticks
func NewBoard(hz, adcLatency uint32) *Board {
	clock := NewClock(hz)
	return &Board{
		Clock: clock,
		ADC:   NewADC(clock, adcLatency),
		GPIO:  NewGPIO(clock),
	}
}

// Wait advances simulated time one tick at a time until cond holds
func (b *Board) Wait(cond func() bool) {
	var waited uint32
	for !cond() {
		if b.WaitLimit > 0 && waited >= b.WaitLimit {
			panic(ErrWaitLimit)
		}
		b.Clock.Advance(1)
		waited++
	}
}

// Hardware returns the collaborators in the form servo.New expects
func (b *Board) Hardware() servo.Hardware {
	return servo.Hardware{
		GPIO:  b.GPIO,
		ADC:   b.ADC,
		Timer: b.Clock,
		Wait:  b.Wait,
	}
}

// At runs fn at absolute tick
func (b *Board) At(tick uint32, fn func()) {
	b.Clock.At(tick, fn)
}

// Press drives an active-high button pressed at tick
func (b *Board) Press(pin core.GPIOPin, tick uint32) {
	b.At(tick, func() { b.GPIO.Drive(pin, true) })
}

// Release drives an active-high button released at tick
func (b *Board) Release(pin core.GPIOPin, tick uint32) {
	b.At(tick, func() { b.GPIO.Drive(pin, false) })
}

// RunUntil repeats step, the main-loop iteration, until the clock reaches tick
func (b *Board) RunUntil(step func(), tick uint32) {
	for b.Clock.Now() < tick {
		before := b.Clock.Now()
		step()
		if b.Clock.Now() == before {
			// A main loop that never waits would not let time pass
			b.Clock.Advance(1)
		}
	}
}

// RunFrames repeats step until n more frame interrupts have run
func (b *Board) RunFrames(step func(), n uint32) {
	target := b.Clock.Frames() + n
	for b.Clock.Frames() < target {
		before := b.Clock.Now()
		step()
		if b.Clock.Now() == before {
			b.Clock.Advance(1)
		}
	}
}
