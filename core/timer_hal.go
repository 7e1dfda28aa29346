package core

// TimerDriver is the periodic frame timer the pulse generator runs from.
// The hardware counts ticks from zero at the start of every period and fires
// the registered callback once per period, never re-entrantly.
type TimerDriver interface {
	// ConfigurePeriod sets the frame length in ticks
	ConfigurePeriod(ticks uint32) error

	// RegisterCallback installs the function run at every period boundary
	RegisterCallback(fn func())

	// CurrentTick returns ticks elapsed since the current frame started
	CurrentTick() uint32

	// TickRate returns the counter frequency in Hz
	TickRate() uint32
}

// OverrunReporter is implemented by timer drivers that can tell whether a
// compare event was missed while the callback was still running.
type OverrunReporter interface {
	// TakeOverrun reports and clears the missed-compare flag
	TakeOverrun() bool
}

// Global singleton used by target code.
var timerDriver TimerDriver

// SetTimerDriver is called by target-specific code to register its driver.
func SetTimerDriver(d TimerDriver) {
	timerDriver = d
}

// MustTimer returns the configured driver or panics if missing.
func MustTimer() TimerDriver {
	if timerDriver == nil {
		panic("timer driver not configured")
	}
	return timerDriver
}
