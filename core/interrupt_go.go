//go:build !tinygo

package core

import "sync/atomic"

// State is the saved interrupt nesting depth on regular Go
type State uint32

// irqDepth stands in for the global interrupt-enable bit so the host
// simulator can tell when a compare event would have been held off.
var irqDepth uint32

// disableInterrupts enters a critical section and returns the previous depth
func disableInterrupts() State {
	return State(atomic.AddUint32(&irqDepth, 1) - 1)
}

// restoreInterrupts leaves the critical section entered by disableInterrupts
func restoreInterrupts(state State) {
	atomic.StoreUint32(&irqDepth, uint32(state))
}

// InterruptsDisabled reports whether a critical section or handler is running
func InterruptsDisabled() bool {
	return atomic.LoadUint32(&irqDepth) > 0
}
