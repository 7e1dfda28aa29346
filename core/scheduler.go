package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps timers sorted by WakeTime and runs them once due.
// Handlers run with interrupts disabled and may set t.WakeTime and
// return SF_RESCHEDULE to be queued again.
type Scheduler struct {
	list *Timer
	now  uint32
}

// Schedule adds a timer to the schedule
func (s *Scheduler) Schedule(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.insert(t)
}

// insert places t in sorted order by WakeTime. Equal wake times keep
// insertion order.
func (s *Scheduler) insert(t *Timer) {
	if s.list == nil || t.WakeTime < s.list.WakeTime {
		t.Next = s.list
		s.list = t
		return
	}

	current := s.list
	for current.Next != nil && current.Next.WakeTime <= t.WakeTime {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Cancel removes t from the schedule. It reports whether t was queued.
func (s *Scheduler) Cancel(t *Timer) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	prev := &s.list
	for cur := s.list; cur != nil; cur = cur.Next {
		if cur == t {
			*prev = cur.Next
			cur.Next = nil
			return true
		}
		prev = &cur.Next
	}
	return false
}

// Dispatch processes every timer with WakeTime <= now and returns how many
// handlers ran.
func (s *Scheduler) Dispatch(now uint32) int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.now = now
	ran := 0
	for s.list != nil && s.list.WakeTime <= s.now {
		timer := s.list
		s.list = timer.Next
		timer.Next = nil // Clear Next pointer to avoid circular references

		result := timer.Handler(timer)
		ran++

		if result == SF_RESCHEDULE {
			s.insert(timer)
		}
	}
	return ran
}

// NextWake returns the earliest pending wake time
func (s *Scheduler) NextWake() (uint32, bool) {
	if s.list == nil {
		return 0, false
	}
	return s.list.WakeTime, true
}

// Pending returns the number of queued timers
func (s *Scheduler) Pending() int {
	n := 0
	for t := s.list; t != nil; t = t.Next {
		n++
	}
	return n
}

// Reset drops every queued timer
func (s *Scheduler) Reset() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for t := s.list; t != nil; {
		next := t.Next
		t.Next = nil
		t = next
	}
	s.list = nil
}

// RunCritical runs fn with interrupts disabled, the way a hardware
// interrupt handler runs.
func RunCritical(fn func()) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	fn()
}
