//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"machine"

	"potservo/core"
)

const rpADCBits = 12

var errADCChannel = errors.New("adc: RP2040 external channels are 0-3")

// RpAdcDriver implements core.ADCDriver on the RP2040 SAR ADC using the
// one-shot start / ready flow of the CS register, so the caller owns the wait.
type RpAdcDriver struct {
	channel core.ADCChannelID
}

// NewRPAdcDriver constructs the driver and powers up the ADC
func NewRPAdcDriver() *RpAdcDriver {
	machine.InitADC()
	return &RpAdcDriver{}
}

// ConfigureChannel puts the channel's pin in analog mode and selects it
func (d *RpAdcDriver) ConfigureChannel(ch core.ADCChannelID) error {
	var pin machine.Pin
	switch ch {
	case 0:
		pin = machine.ADC0
	case 1:
		pin = machine.ADC1
	case 2:
		pin = machine.ADC2
	case 3:
		pin = machine.ADC3
	default:
		return errADCChannel
	}

	adc := machine.ADC{Pin: pin}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}

	d.channel = ch
	rp.ADC.CS.ReplaceBits(
		uint32(ch)<<rp.ADC_CS_AINSEL_Pos,
		rp.ADC_CS_AINSEL_Msk,
		0,
	)
	return nil
}

// StartConversion starts a single conversion
func (d *RpAdcDriver) StartConversion() {
	rp.ADC.CS.SetBits(rp.ADC_CS_START_ONCE)
}

// ConversionDone reports the READY flag
func (d *RpAdcDriver) ConversionDone() bool {
	return rp.ADC.CS.HasBits(rp.ADC_CS_READY)
}

// ReadResult returns the 12-bit result reduced to 10 bits
func (d *RpAdcDriver) ReadResult() core.ADCValue {
	return core.ScaleToADC(rp.ADC.RESULT.Get(), rpADCBits)
}
