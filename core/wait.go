package core

// WaitFunc blocks until cond reports true. On hardware this spins on a
// register; the host simulator advances simulated ticks between polls.
type WaitFunc func(cond func() bool)

// SpinWait busy-waits on cond without yielding.
func SpinWait(cond func() bool) {
	for !cond() {
	}
}

// CountingWait wraps a WaitFunc and calls onStall once per wait when cond
// has been polled more than budget times. The wait itself is never abandoned.
func CountingWait(inner WaitFunc, budget uint32, onStall func(spins uint32)) WaitFunc {
	if inner == nil {
		inner = SpinWait
	}
	if budget == 0 || onStall == nil {
		return inner
	}
	return func(cond func() bool) {
		var spins uint32
		warned := false
		inner(func() bool {
			if cond() {
				return true
			}
			spins++
			if !warned && spins > budget {
				warned = true
				onStall(spins)
			}
			return false
		})
	}
}
