package core

import "testing"

func TestCountingWaitReportsStallOnce(t *testing.T) {
	polls := 0
	var stalls []uint32

	wait := CountingWait(SpinWait, 10, func(spins uint32) {
		stalls = append(stalls, spins)
	})
	wait(func() bool {
		polls++
		return polls > 50
	})

	if len(stalls) != 1 {
		t.Fatalf("onStall called %d times, want 1", len(stalls))
	}
	if stalls[0] != 11 {
		t.Errorf("stall reported after %d spins, want 11", stalls[0])
	}
	if polls != 51 {
		t.Errorf("condition polled %d times, want 51", polls)
	}
}

func TestCountingWaitQuietWithinBudget(t *testing.T) {
	polls := 0
	called := false
	wait := CountingWait(nil, 10, func(uint32) { called = true })
	wait(func() bool {
		polls++
		return polls > 5
	})
	if called {
		t.Error("onStall called for a wait within budget")
	}
}

func TestCountingWaitDisabled(t *testing.T) {
	inner := 0
	base := WaitFunc(func(cond func() bool) {
		inner++
		for !cond() {
		}
	})
	wait := CountingWait(base, 0, func(uint32) { t.Error("onStall called with zero budget") })
	n := 0
	wait(func() bool { n++; return n > 100 })
	if inner != 1 {
		t.Errorf("inner wait used %d times, want 1", inner)
	}
}
