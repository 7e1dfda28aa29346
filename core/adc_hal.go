package core

// ADCChannelID identifies a logical ADC channel.
type ADCChannelID uint8

// ADCValue is the raw ADC reading as seen by the rest of the firmware.
// Convention here: 10-bit value (0..ADCMax), whatever the hardware resolution.
type ADCValue uint16

const (
	// ADCBits is the resolution the control loop works in
	ADCBits = 10
	// ADCMax is the largest ADCValue a driver may return
	ADCMax ADCValue = 1<<ADCBits - 1
	// ADCMid is the analog midpoint used as the neutral reading
	ADCMid ADCValue = 1 << (ADCBits - 1)
)

// ADCDriver is the abstract ADC interface that core code uses.
// Conversions are split into start / poll / read so the caller owns the wait.
type ADCDriver interface {
	// ConfigureChannel prepares a channel for analog input and selects it
	// for subsequent conversions.
	ConfigureChannel(ch ADCChannelID) error

	// StartConversion begins a single conversion on the selected channel.
	StartConversion()

	// ConversionDone reports whether the last started conversion finished.
	ConversionDone() bool

	// ReadResult returns the completed conversion, scaled to 10 bits.
	ReadResult() ADCValue
}

// Global singleton used by target code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}

// CombineLeftAdjusted joins the two halves of a left-adjusted 10-bit result
// (8 high bits in hi, 2 low bits in the top of lo) into one value.
// The low half must be read from the hardware first.
func CombineLeftAdjusted(hi, lo uint8) ADCValue {
	return ADCValue(hi)<<2 | ADCValue(lo)>>6
}

// ScaleToADC reduces a reading of the given bit width to the 10-bit range.
func ScaleToADC(raw uint32, bits uint8) ADCValue {
	switch {
	case bits > ADCBits:
		raw >>= bits - ADCBits
	case bits < ADCBits:
		raw <<= ADCBits - bits
	}
	if raw > uint32(ADCMax) {
		return ADCMax
	}
	return ADCValue(raw)
}
