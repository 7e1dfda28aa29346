//go:build rp2040

package main

import (
	"machine"

	"potservo/core"

	hwservo "tinygo.org/x/drivers/servo"
)

// pwmOutput drives the servo from a hardware PWM slice at 50 Hz through
// the TinyGo servo driver. The frame interrupt only updates the compare
// value; the slice produces the pulse itself.
type pwmOutput struct {
	servo  hwservo.Servo
	tickHz uint32
}

func newPWMOutput(pin machine.Pin, tickHz uint32) (*pwmOutput, error) {
	s, err := hwservo.New(pwmSlice(pin), pin)
	if err != nil {
		return nil, err
	}
	return &pwmOutput{servo: s, tickHz: tickHz}, nil
}

func (o *pwmOutput) Emit(width uint32) {
	o.servo.SetMicroseconds(int16(core.TicksToUS(width, o.tickHz)))
}

// pwmSlice returns the PWM slice serving pin.
// RP2040: GPIO N is on slice (N >> 1) & 7
func pwmSlice(pin machine.Pin) hwservo.PWM {
	switch (uint8(pin) >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
