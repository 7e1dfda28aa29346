package core

import "testing"

func TestSchedulerDispatchOrder(t *testing.T) {
	var s Scheduler
	var order []uint32

	record := func(tm *Timer) uint8 {
		order = append(order, tm.WakeTime)
		return SF_DONE
	}

	for _, wake := range []uint32{30, 10, 20, 10} {
		s.Schedule(&Timer{WakeTime: wake, Handler: record})
	}
	if got := s.Pending(); got != 4 {
		t.Fatalf("Pending() = %d, want 4", got)
	}

	if ran := s.Dispatch(15); ran != 2 {
		t.Errorf("Dispatch(15) ran %d timers, want 2", ran)
	}
	if ran := s.Dispatch(30); ran != 2 {
		t.Errorf("Dispatch(30) ran %d timers, want 2", ran)
	}

	want := []uint32{10, 10, 20, 30}
	if len(order) != len(want) {
		t.Fatalf("dispatch order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("dispatch order = %v, want %v", order, want)
			break
		}
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after dispatch, want 0", s.Pending())
	}
}

func TestSchedulerEqualWakeKeepsInsertionOrder(t *testing.T) {
	var s Scheduler
	var order []string

	mk := func(name string) *Timer {
		return &Timer{WakeTime: 5, Handler: func(*Timer) uint8 {
			order = append(order, name)
			return SF_DONE
		}}
	}
	s.Schedule(mk("a"))
	s.Schedule(mk("b"))
	s.Schedule(mk("c"))
	s.Dispatch(5)

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestSchedulerReschedule(t *testing.T) {
	var s Scheduler
	fired := 0

	periodic := &Timer{WakeTime: 100}
	periodic.Handler = func(tm *Timer) uint8 {
		fired++
		tm.WakeTime += 100
		return SF_RESCHEDULE
	}
	s.Schedule(periodic)

	for now := uint32(0); now <= 1000; now += 10 {
		s.Dispatch(now)
	}
	if fired != 10 {
		t.Errorf("periodic timer fired %d times, want 10", fired)
	}
	if wake, ok := s.NextWake(); !ok || wake != 1100 {
		t.Errorf("NextWake() = %d, %v; want 1100, true", wake, ok)
	}
}

func TestSchedulerCancelAndReset(t *testing.T) {
	var s Scheduler
	noop := func(*Timer) uint8 { return SF_DONE }

	a := &Timer{WakeTime: 1, Handler: noop}
	b := &Timer{WakeTime: 2, Handler: noop}
	c := &Timer{WakeTime: 3, Handler: noop}
	s.Schedule(a)
	s.Schedule(b)
	s.Schedule(c)

	if !s.Cancel(b) {
		t.Fatal("Cancel(b) = false, want true")
	}
	if s.Cancel(b) {
		t.Error("second Cancel(b) = true, want false")
	}
	if s.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", s.Pending())
	}

	s.Reset()
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after Reset, want 0", s.Pending())
	}
	if _, ok := s.NextWake(); ok {
		t.Error("NextWake() reported a timer after Reset")
	}
}

func TestHandlersRunWithInterruptsDisabled(t *testing.T) {
	var s Scheduler
	var inside bool
	s.Schedule(&Timer{WakeTime: 0, Handler: func(*Timer) uint8 {
		inside = InterruptsDisabled()
		return SF_DONE
	}})
	s.Dispatch(0)

	if !inside {
		t.Error("handler ran with interrupts enabled")
	}
	if InterruptsDisabled() {
		t.Error("interrupts still disabled after Dispatch")
	}
}

func TestRunCriticalNests(t *testing.T) {
	RunCritical(func() {
		RunCritical(func() {})
		if !InterruptsDisabled() {
			t.Error("inner critical section re-enabled interrupts")
		}
	})
	if InterruptsDisabled() {
		t.Error("interrupts disabled after RunCritical returned")
	}
}
