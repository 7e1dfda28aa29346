//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"runtime/interrupt"
	"runtime/volatile"

	"potservo/core"
)

// The RP2040 TIMER counts microseconds. TinyGo's runtime owns alarm 0 for
// sleeping, so the frame timer uses alarm 3.
const timerHz = 1000000

var errPeriod = errors.New("timer: period must be > 0")

// frameTimer is the single FrameTimer instance the alarm interrupt serves
var frameTimer *FrameTimer

// FrameTimer implements core.TimerDriver with TIMER alarm 3. The ISR
// re-arms the alarm one period after the previous frame start, so frames
// do not drift with interrupt latency.
type FrameTimer struct {
	period     uint32
	frameStart volatile.Register32
	callback   func()
	overrun    volatile.Register8
}

// NewFrameTimer creates the frame timer; the alarm is armed by ConfigurePeriod
func NewFrameTimer() *FrameTimer {
	frameTimer = &FrameTimer{}
	return frameTimer
}

// RegisterCallback installs the function run at every frame start
func (t *FrameTimer) RegisterCallback(fn func()) {
	t.callback = fn
}

// ConfigurePeriod arms alarm 3 and enables its interrupt
func (t *FrameTimer) ConfigurePeriod(ticks uint32) error {
	if ticks == 0 {
		return errPeriod
	}
	t.period = ticks
	now := rp.TIMER.TIMERAWL.Get()
	t.frameStart.Set(now)

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_3, frameTimerISR)
	intr.SetPriority(0x00)
	rp.TIMER.INTE.SetBits(rp.TIMER_INTE_ALARM_3)
	rp.TIMER.ALARM3.Set(now + ticks)
	intr.Enable()
	return nil
}

// CurrentTick returns microseconds since the current frame started
func (t *FrameTimer) CurrentTick() uint32 {
	return rp.TIMER.TIMERAWL.Get() - t.frameStart.Get()
}

// TickRate returns the counter frequency
func (t *FrameTimer) TickRate() uint32 { return timerHz }

// TakeOverrun reports and clears the missed-frame flag
func (t *FrameTimer) TakeOverrun() bool {
	if t.overrun.Get() != 0 {
		t.overrun.Set(0)
		return true
	}
	return false
}

func frameTimerISR(interrupt.Interrupt) {
	t := frameTimer
	rp.TIMER.INTR.Set(rp.TIMER_INTR_ALARM_3)

	start := t.frameStart.Get() + t.period
	t.frameStart.Set(start)
	core.SetTime(start)

	if t.callback != nil {
		t.callback()
	}

	// Arm the next frame; if it already passed, skip to the one after and
	// flag the missed compare for the next callback
	next := start + t.period
	if int32(rp.TIMER.TIMERAWL.Get()-next) >= 0 {
		t.overrun.Set(1)
		next += t.period
		t.frameStart.Set(start + t.period)
	}
	rp.TIMER.ALARM3.Set(next)
}
