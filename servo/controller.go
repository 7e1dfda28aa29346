package servo

import (
	"context"
	"errors"

	"potservo/core"
)

// Hardware bundles the collaborators a Controller runs on.
type Hardware struct {
	GPIO  core.GPIODriver
	ADC   core.ADCDriver
	Timer core.TimerDriver

	// Wait replaces the busy-waits; nil spins on the condition
	Wait core.WaitFunc

	// Output overrides the pulse output. Required when Config.Output is
	// not OutputGPIO, since those outputs are board specific.
	Output PulseOutput
}

// Controller wires the Sampler and PulseGenerator around one SharedState.
type Controller struct {
	cfg     Config
	hw      Hardware
	state   *SharedState
	sampler *Sampler
	pulse   *PulseGenerator
}

// New validates cfg and builds a controller. Nothing touches the hardware
// until Setup.
func New(cfg Config, hw Hardware) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hw.GPIO == nil || hw.ADC == nil || hw.Timer == nil {
		return nil, errors.New("servo: GPIO, ADC and timer drivers are required")
	}

	out := hw.Output
	if out == nil {
		if cfg.Output != OutputGPIO {
			return nil, invalid(ErrUnknownOutput, "output", cfg.Output+" needs a board-provided output")
		}
		out = NewGPIOPulse(hw.GPIO, cfg.ServoPin, hw.Timer, hw.Wait)
	}

	state := NewSharedState()
	return &Controller{
		cfg:     cfg,
		hw:      hw,
		state:   state,
		sampler: NewSampler(state, hw.GPIO, hw.ADC, cfg, hw.Wait),
		pulse:   NewPulseGenerator(state, hw.Timer, out, cfg.Calibration, cfg.LatencyBudgetTicks),
	}, nil
}

// Setup configures the pins, the analog channel and the frame timer, then
// arms the pulse callback.
func (c *Controller) Setup() error {
	if rate := c.hw.Timer.TickRate(); rate != c.cfg.Calibration.TickHz {
		return &SetupError{Step: "timer", Err: invalid(ErrInvalidPeriod, "calibration.tick_hz",
			"is "+core.Utoa(c.cfg.Calibration.TickHz)+" but the timer runs at "+core.Utoa(rate))}
	}
	if err := c.hw.GPIO.ConfigureInput(c.cfg.ButtonPin, c.cfg.ButtonPull()); err != nil {
		return &SetupError{Step: "button pin", Err: err}
	}
	if c.cfg.Output == OutputGPIO {
		if err := c.hw.GPIO.ConfigureOutput(c.cfg.ServoPin); err != nil {
			return &SetupError{Step: "servo pin", Err: err}
		}
		c.hw.GPIO.SetPin(c.cfg.ServoPin, false)
	}
	if err := c.hw.ADC.ConfigureChannel(c.cfg.ADCChannel); err != nil {
		return &SetupError{Step: "adc channel", Err: err}
	}

	c.hw.Timer.RegisterCallback(c.pulse.Fire)
	if err := c.hw.Timer.ConfigurePeriod(c.cfg.PeriodTicks); err != nil {
		return &SetupError{Step: "frame timer", Err: err}
	}

	core.DebugPrintln("[SERVO] ready: period=" + core.Utoa(c.cfg.PeriodTicks) +
		" base=" + core.Utoa(c.cfg.Calibration.Base) +
		" output=" + c.cfg.Output)
	return nil
}

// Step runs one main-loop iteration
func (c *Controller) Step() { c.sampler.Step() }

// Run runs the main loop until ctx is cancelled
func (c *Controller) Run(ctx context.Context) error { return c.sampler.Run(ctx) }

// Mode returns the selected mode
func (c *Controller) Mode() Mode { return c.state.Mode() }

// Sample returns the last published conversion
func (c *Controller) Sample() core.ADCValue { return c.state.Sample() }

// Stats returns the pulse generator counters
func (c *Controller) Stats() Stats { return c.pulse.Stats() }

// Sampler exposes the main-loop half for diagnostics
func (c *Controller) Sampler() *Sampler { return c.sampler }

// Config returns the configuration the controller was built with
func (c *Controller) Config() Config { return c.cfg }
