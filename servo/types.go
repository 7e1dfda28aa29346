package servo

import "potservo/core"

// Pulse outputs selectable in Config.Output
const (
	OutputGPIO = "gpio" // busy-wait on the frame counter, the reference behaviour
	OutputPIO  = "pio"  // PIO state machine times the pulse (RP2040)
	OutputPWM  = "pwm"  // hardware PWM slice at 50 Hz (RP2040)
)

// Config describes one potentiometer-to-servo channel
type Config struct {
	ButtonPin       core.GPIOPin      `json:"button_pin"`
	ButtonActiveLow bool              `json:"button_active_low"` // pressed == low, enables the pull-up
	ServoPin        core.GPIOPin      `json:"servo_pin"`
	ADCChannel      core.ADCChannelID `json:"adc_channel"`

	PeriodTicks        uint32 `json:"period_ticks"`         // frame length, 0 = 20ms at Calibration.TickHz
	LatencyBudgetTicks uint32 `json:"latency_budget_ticks"` // later frame entry counts as an overrun, 0 = off
	StallSpins         uint32 `json:"stall_spins"`          // conversion polls before a stall is logged

	Output      string      `json:"output"`
	Calibration Calibration `json:"calibration"`
}

// DefaultConfig returns the reference bench wiring: button on pin 5,
// servo on pin 8, potentiometer on ADC0, 312.5 kHz frame timer.
func DefaultConfig() Config {
	cal := DefaultCalibration()
	return Config{
		ButtonPin:          5,
		ServoPin:           8,
		ADCChannel:         0,
		PeriodTicks:        core.RefFrameTicks,
		LatencyBudgetTicks: cal.MinPulse / 2,
		StallSpins:         50000,
		Output:             OutputGPIO,
		Calibration:        cal,
	}
}

// ForTickRate rescales the calibration and timing fields for a timer
// running at hz. The frame stays 20ms long.
func (c Config) ForTickRate(hz uint32) Config {
	old := c.Calibration.TickHz
	c.Calibration = c.Calibration.Scale(hz)
	if old != 0 && old != hz {
		c.PeriodTicks = uint32(uint64(c.PeriodTicks) * uint64(hz) / uint64(old))
		c.LatencyBudgetTicks = uint32(uint64(c.LatencyBudgetTicks) * uint64(hz) / uint64(old))
	}
	return c
}

// Validate checks the configuration is consistent
func (c Config) Validate() error {
	if err := c.Calibration.Validate(); err != nil {
		return err
	}
	if c.ButtonPin == c.ServoPin {
		return invalid(ErrInvalidPin, "servo_pin", "must differ from button_pin")
	}
	if c.PeriodTicks <= c.Calibration.MaxPulse {
		return invalid(ErrInvalidPeriod, "period_ticks", "must be longer than max_pulse")
	}
	if c.LatencyBudgetTicks > 0 && c.LatencyBudgetTicks >= c.Calibration.MinPulse {
		return invalid(ErrInvalidPeriod, "latency_budget_ticks", "must be shorter than min_pulse")
	}
	switch c.Output {
	case OutputGPIO, OutputPIO, OutputPWM:
	default:
		return invalid(ErrUnknownOutput, "output", c.Output)
	}
	return nil
}

// ButtonPull returns the bias resistor the button input needs
func (c Config) ButtonPull() core.Pull {
	if c.ButtonActiveLow {
		return core.PullUp
	}
	return core.PullNone
}
