package config

import (
	"errors"
	"testing"

	"potservo/core"
	"potservo/servo"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := servo.DefaultConfig()
	if *cfg != def {
		t.Errorf("LoadConfig({}) = %+v, want %+v", *cfg, def)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{
		"button_pin": 14,
		"button_active_low": true,
		"servo_pin": 15,
		"adc_channel": 1,
		"output": "pio"
	}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ButtonPin != 14 || !cfg.ButtonActiveLow || cfg.ServoPin != 15 || cfg.ADCChannel != 1 {
		t.Errorf("pins = %+v", cfg)
	}
	if cfg.Output != servo.OutputPIO {
		t.Errorf("output = %q, want pio", cfg.Output)
	}
	if cfg.Calibration != servo.DefaultCalibration() {
		t.Errorf("calibration changed: %+v", cfg.Calibration)
	}
}

func TestLoadConfigZeroedFields(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{"period_ticks": 0, "latency_budget_ticks": 0, "output": ""}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PeriodTicks != core.RefFrameTicks {
		t.Errorf("period = %d, want %d", cfg.PeriodTicks, core.RefFrameTicks)
	}
	// An explicit zero budget turns late-entry detection off
	if cfg.LatencyBudgetTicks != 0 {
		t.Errorf("latency budget = %d, want 0", cfg.LatencyBudgetTicks)
	}
	if cfg.Output != servo.OutputGPIO {
		t.Errorf("output = %q, want gpio", cfg.Output)
	}
}

func TestLoadConfigDerivesTimingFromTickRate(t *testing.T) {
	const microsecondCal = `{"calibration": {"tick_hz": 1000000, "base": 1216, "min_pulse": 544, "max_pulse": 1792}}`

	cfg, err := LoadConfig([]byte(microsecondCal))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PeriodTicks != 20000 {
		t.Errorf("period = %d ticks at 1MHz, want 20000", cfg.PeriodTicks)
	}
	if cfg.LatencyBudgetTicks != 272 {
		t.Errorf("latency budget = %d, want 272", cfg.LatencyBudgetTicks)
	}

	cfg, err = ForBoard([]byte(microsecondCal), 1000000)
	if err != nil {
		t.Fatalf("ForBoard: %v", err)
	}
	if cfg.PeriodTicks != 20000 || cfg.LatencyBudgetTicks != 272 {
		t.Errorf("ForBoard period=%d budget=%d, want 20000 and 272", cfg.PeriodTicks, cfg.LatencyBudgetTicks)
	}
}

func TestLoadConfigKeepsExplicitTiming(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{"period_ticks": 7000, "latency_budget_ticks": 40}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PeriodTicks != 7000 || cfg.LatencyBudgetTicks != 40 {
		t.Errorf("period=%d budget=%d, want 7000 and 40", cfg.PeriodTicks, cfg.LatencyBudgetTicks)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"shared pin", `{"button_pin": 8, "servo_pin": 8}`, servo.ErrInvalidPin},
		{"short period", `{"period_ticks": 500}`, servo.ErrInvalidPeriod},
		{"unknown output", `{"output": "dac"}`, servo.ErrUnknownOutput},
		{"bad divisors", `{"calibration": {"divisors": [5, 2, 1]}}`, servo.ErrInvalidCalibration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig([]byte(tt.json))
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadConfig() = %v, want %v", err, tt.want)
			}
			if cfg != nil {
				t.Error("config returned alongside an error")
			}
		})
	}

	if _, err := LoadConfig([]byte(`{`)); err == nil {
		t.Error("LoadConfig accepted malformed JSON")
	}
}

func TestForBoardScalesToTimer(t *testing.T) {
	cfg, err := ForBoard(nil, 1000000)
	if err != nil {
		t.Fatalf("ForBoard: %v", err)
	}
	if cfg.PeriodTicks != 20000 {
		t.Errorf("period = %d, want 20000", cfg.PeriodTicks)
	}
	if cfg.LatencyBudgetTicks != 272 {
		t.Errorf("latency budget = %d, want 272", cfg.LatencyBudgetTicks)
	}
	cal := cfg.Calibration
	if cal.TickHz != 1000000 || cal.Base != 1216 || cal.MinPulse != 544 || cal.MaxPulse != 1792 {
		t.Errorf("calibration = %+v", cal)
	}

	cfg, err = ForBoard([]byte(`{"output": "pwm"}`), 1000000)
	if err != nil {
		t.Fatalf("ForBoard with JSON: %v", err)
	}
	if cfg.Output != servo.OutputPWM || cfg.PeriodTicks != 20000 {
		t.Errorf("ForBoard with JSON = %+v", cfg)
	}
}

func TestForBoardReferenceRate(t *testing.T) {
	cfg, err := ForBoard(nil, core.RefTickHz)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != servo.DefaultConfig() {
		t.Errorf("ForBoard at the reference rate = %+v", *cfg)
	}
}
