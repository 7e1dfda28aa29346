package pio

import "errors"

var errTickRate = errors.New("pio: tick rate must divide the system clock to at most 65535")

// clockDivider returns the integer state machine divider that runs the PIO
// at tickHz from a cpuHz system clock.
func clockDivider(cpuHz, tickHz uint32) (uint32, error) {
	if tickHz == 0 {
		return 0, errTickRate
	}
	div := cpuHz / tickHz
	if div == 0 || div > 0xFFFF {
		return 0, errTickRate
	}
	return div, nil
}
