package core

import "sync/atomic"

// Reference timer: 20 MHz core clock with a /64 prescaler
const (
	RefTickHz       = 312500 // 3.2us per tick
	RefFrameTicks   = 6250   // 20ms servo frame at RefTickHz
	FramePeriodUS   = 20000
	MicrosPerSecond = 1000000
)

var systemTicks uint32

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTime sets the current system time. Written from the timer interrupt on
// hardware and from the simulated clock on the host.
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// TicksFromUS converts microseconds to ticks of a timer running at hz
func TicksFromUS(us, hz uint32) uint32 {
	return uint32(uint64(us) * uint64(hz) / MicrosPerSecond)
}

// TicksToUS converts ticks of a timer running at hz to microseconds
func TicksToUS(ticks, hz uint32) uint32 {
	if hz == 0 {
		return 0
	}
	return uint32(uint64(ticks) * MicrosPerSecond / uint64(hz))
}

// FrameTicks returns the 20ms frame length for a timer running at hz
func FrameTicks(hz uint32) uint32 {
	return TicksFromUS(FramePeriodUS, hz)
}
