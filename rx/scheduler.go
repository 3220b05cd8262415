package rx

import (
	"container/heap"
	"time"
)

// Scheduler runs fn once after delay. The returned cancel func prevents fn
// from running if it has not run yet; calling it later is a no-op.
type Scheduler interface {
	ScheduleOnce(delay time.Duration, fn func()) (cancel func())
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(delay time.Duration, fn func()) (cancel func())

// ScheduleOnce calls f(delay, fn).
func (f SchedulerFunc) ScheduleOnce(delay time.Duration, fn func()) func() {
	return f(delay, fn)
}

// VirtualScheduler is a Scheduler driven by a manual clock. Nothing runs
// until Advance or Flush is called, which makes time-based stages
// deterministic in tests.
type VirtualScheduler struct {
	now    time.Duration
	seq    uint64
	timers timerQueue
}

// NewVirtualScheduler returns a scheduler whose clock starts at zero.
func NewVirtualScheduler() *VirtualScheduler {
	return &VirtualScheduler{}
}

// Now returns the virtual time elapsed since creation.
func (s *VirtualScheduler) Now() time.Duration { return s.now }

// ScheduleOnce registers fn to run when the clock reaches Now()+delay.
// Negative delays are treated as zero.
func (s *VirtualScheduler) ScheduleOnce(delay time.Duration, fn func()) func() {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	t := &virtualTimer{due: s.now + delay, seq: s.seq, fn: fn}
	heap.Push(&s.timers, t)
	return func() { t.canceled = true }
}

// Advance moves the clock forward by d, running every timer that becomes
// due in deadline order. Timers with equal deadlines run in the order they
// were scheduled. Timers scheduled by a running timer also fire if they
// fall within the window.
func (s *VirtualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for s.timers.Len() > 0 && s.timers[0].due <= target {
		t := heap.Pop(&s.timers).(*virtualTimer)
		if t.canceled {
			continue
		}
		s.now = t.due
		t.fn()
	}
	s.now = target
}

// Flush runs timers until none are pending, advancing the clock to each
// deadline in turn.
func (s *VirtualScheduler) Flush() {
	for s.timers.Len() > 0 {
		s.Advance(s.timers[0].due - s.now)
	}
}

// Pending returns the number of timers that have not fired or been canceled.
func (s *VirtualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.canceled {
			n++
		}
	}
	return n
}

type virtualTimer struct {
	due      time.Duration
	seq      uint64
	fn       func()
	canceled bool
}

// timerQueue is a min-heap ordered by (due, seq).
type timerQueue []*virtualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*virtualTimer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
