package servo

import (
	"sync/atomic"

	"potservo/core"
)

// PulseOutput drives one servo pulse per frame.
type PulseOutput interface {
	// Emit holds the output high until the frame counter reaches width
	// ticks, then drops it low. Called from interrupt context.
	Emit(width uint32)
}

// GPIOPulse bit-bangs the pulse: raise the pin, spin on the frame counter,
// lower the pin. Because the counter restarts at every frame boundary the
// pulse ends at tick width regardless of how late it started.
type GPIOPulse struct {
	gpio  core.GPIODriver
	pin   core.GPIOPin
	timer core.TimerDriver
	wait  core.WaitFunc
}

// NewGPIOPulse returns the reference busy-wait output. wait nil means core.SpinWait.
func NewGPIOPulse(gpio core.GPIODriver, pin core.GPIOPin, timer core.TimerDriver, wait core.WaitFunc) *GPIOPulse {
	if wait == nil {
		wait = core.SpinWait
	}
	return &GPIOPulse{gpio: gpio, pin: pin, timer: timer, wait: wait}
}

func (p *GPIOPulse) Emit(width uint32) {
	p.gpio.SetPin(p.pin, true)
	p.wait(func() bool { return p.timer.CurrentTick() >= width })
	p.gpio.SetPin(p.pin, false)
}

// Stats is a snapshot of the pulse generator counters
type Stats struct {
	Frames    uint32
	Clamps    uint32
	Overruns  uint32
	LastWidth uint32
}

// PulseGenerator is the frame-interrupt half of the controller. Fire is
// registered as the timer callback and runs once per period.
type PulseGenerator struct {
	state  *SharedState
	timer  core.TimerDriver
	out    PulseOutput
	cal    Calibration
	budget uint32

	frames    atomic.Uint32
	clamps    atomic.Uint32
	overruns  atomic.Uint32
	lastWidth atomic.Uint32
}

// NewPulseGenerator builds the frame callback. A zero latency budget
// disables late-entry detection.
func NewPulseGenerator(state *SharedState, timer core.TimerDriver, out PulseOutput, cal Calibration, budget uint32) *PulseGenerator {
	return &PulseGenerator{
		state:  state,
		timer:  timer,
		out:    out,
		cal:    cal,
		budget: budget,
	}
}

// Fire computes this frame's width from the shared state and emits it.
// It never blocks on anything but the pulse itself.
func (g *PulseGenerator) Fire() {
	entry := g.timer.CurrentTick()
	mode := g.state.Mode()
	sample := g.state.Sample()

	g.frames.Add(1)
	core.RecordTiming(core.EvtFrame, entry, uint32(mode))

	if g.late(entry) {
		g.overruns.Add(1)
		core.RecordTiming(core.EvtOverrun, entry, g.budget)
		core.DebugAsync("[SERVO] frame overrun: entered at tick " + core.Utoa(entry))
	}

	raw := g.cal.RawWidth(sample, mode)
	width, clamped := g.cal.Clamp(raw)
	if clamped {
		g.clamps.Add(1)
		core.RecordTiming(core.EvtClamp, uint32(raw), width)
	}

	g.out.Emit(width)
	g.lastWidth.Store(width)
	core.RecordTiming(core.EvtPulse, width, uint32(sample))
}

func (g *PulseGenerator) late(entry uint32) bool {
	if r, ok := g.timer.(core.OverrunReporter); ok && r.TakeOverrun() {
		return true
	}
	return g.budget > 0 && entry >= g.budget
}

// Stats returns the counters; safe to call from the main loop
func (g *PulseGenerator) Stats() Stats {
	return Stats{
		Frames:    g.frames.Load(),
		Clamps:    g.clamps.Load(),
		Overruns:  g.overruns.Load(),
		LastWidth: g.lastWidth.Load(),
	}
}
