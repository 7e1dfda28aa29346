package sim

import (
	"errors"

	"potservo/core"
)

var ErrZeroPeriod = errors.New("sim: period must be > 0")

// Clock is a simulated clear-on-compare frame timer. The counter restarts
// at every period boundary and the compare event runs the registered
// callback as an interrupt: with interrupts disabled, so ticks that pass
// inside the callback cannot dispatch anything. A compare that passes
// while the callback is still running stays pending, fires once the
// callback returns, and is reported through TakeOverrun.
type Clock struct {
	hz       uint32
	period   uint32
	callback func()

	now        uint32 // absolute ticks since the simulation started
	frameStart uint32 // absolute tick of the last counter reset
	running    bool
	overrun    bool
	frames     uint32

	sched core.Scheduler
	frame core.Timer
}

// NewClock returns a stopped clock counting at hz
func NewClock(hz uint32) *Clock {
	c := &Clock{hz: hz}
	c.frame.Handler = c.onCompare
	return c
}

// ConfigurePeriod (re)starts the frame counter with the given period
func (c *Clock) ConfigurePeriod(ticks uint32) error {
	if ticks == 0 {
		return ErrZeroPeriod
	}
	c.sched.Cancel(&c.frame)
	c.period = ticks
	c.frameStart = c.now
	c.frame.WakeTime = c.now + ticks
	c.running = true
	c.sched.Schedule(&c.frame)
	return nil
}

// RegisterCallback installs the compare interrupt handler
func (c *Clock) RegisterCallback(fn func()) {
	c.callback = fn
}

// CurrentTick returns the frame counter
func (c *Clock) CurrentTick() uint32 {
	if !c.running {
		return 0
	}
	return c.now - c.frameStart
}

// TickRate returns the counter frequency in Hz
func (c *Clock) TickRate() uint32 { return c.hz }

// TakeOverrun reports and clears the missed-compare flag
func (c *Clock) TakeOverrun() bool {
	o := c.overrun
	c.overrun = false
	return o
}

// Now returns absolute simulated ticks
func (c *Clock) Now() uint32 { return c.now }

// Frames returns how many compare interrupts ran
func (c *Clock) Frames() uint32 { return c.frames }

// Period returns the configured period
func (c *Clock) Period() uint32 { return c.period }

// Advance moves simulated time forward n ticks, one tick at a time.
func (c *Clock) Advance(n uint32) {
	for i := uint32(0); i < n; i++ {
		c.now++
		core.SetTime(c.now)

		if c.running && c.now-c.frameStart >= c.period {
			c.frameStart += c.period
			if core.InterruptsDisabled() {
				c.overrun = true
			}
		}
		if !core.InterruptsDisabled() {
			c.sched.Dispatch(c.now)
		}
	}
}

// At schedules fn to run at absolute tick, in interrupt context
func (c *Clock) At(tick uint32, fn func()) {
	t := &core.Timer{
		WakeTime: tick,
		Handler: func(*core.Timer) uint8 {
			fn()
			return core.SF_DONE
		},
	}
	c.sched.Schedule(t)
}

// Stop halts the frame counter and drops all scripted events
func (c *Clock) Stop() {
	c.running = false
	c.sched.Reset()
}

func (c *Clock) onCompare(t *core.Timer) uint8 {
	t.WakeTime += c.period
	c.frames++
	if c.callback != nil {
		c.callback()
	}
	// A compare that passed while the callback ran is latched once
	if t.WakeTime <= c.now {
		t.WakeTime = c.frameStart
	}
	return core.SF_RESCHEDULE
}
