package config

import (
	"encoding/json"

	"potservo/core"
	"potservo/servo"
)

// timingFields records which derived timing fields the JSON set explicitly
type timingFields struct {
	PeriodTicks        *uint32 `json:"period_ticks"`
	LatencyBudgetTicks *uint32 `json:"latency_budget_ticks"`
}

// LoadConfig parses a JSON configuration and returns a validated servo.Config.
// Fields missing from the JSON keep their DefaultConfig values, except
// period_ticks and latency_budget_ticks: when absent they are derived from
// the calibration (a 20ms frame at tick_hz, and min_pulse/2). A
// period_ticks of 0 also means 20ms; a latency_budget_ticks of 0 disables
// late-entry detection.
func LoadConfig(jsonData []byte) (*servo.Config, error) {
	config := servo.DefaultConfig()

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	var set timingFields
	if err := json.Unmarshal(jsonData, &set); err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config, set)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in values that were left out or that depend on
// other fields
func applyDefaults(config *servo.Config, set timingFields) {
	if config.Output == "" {
		config.Output = servo.OutputGPIO
	}

	if config.Calibration.TickHz == 0 {
		config.Calibration.TickHz = core.RefTickHz
	}

	// Default frame: 20ms at the configured tick rate
	if set.PeriodTicks == nil || *set.PeriodTicks == 0 {
		config.PeriodTicks = core.FrameTicks(config.Calibration.TickHz)
	}

	if set.LatencyBudgetTicks == nil {
		config.LatencyBudgetTicks = config.Calibration.MinPulse / 2
	}
}

// ForBoard loads jsonData (or the defaults when empty) and rescales it for a
// board whose frame timer runs at tickHz.
func ForBoard(jsonData []byte, tickHz uint32) (*servo.Config, error) {
	if len(jsonData) == 0 {
		cfg := servo.DefaultConfig().ForTickRate(tickHz)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	cfg, err := LoadConfig(jsonData)
	if err != nil {
		return nil, err
	}
	scaled := cfg.ForTickRate(tickHz)
	if err := scaled.Validate(); err != nil {
		return nil, err
	}
	return &scaled, nil
}
