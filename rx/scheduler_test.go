package rx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtualScheduler_RunsInDeadlineOrder(t *testing.T) {
	s := NewVirtualScheduler()
	var got []string
	at := func(name string) func() {
		return func() { got = append(got, name+"@"+s.Now().String()) }
	}
	s.ScheduleOnce(30*ms, at("c"))
	s.ScheduleOnce(10*ms, at("a"))
	s.ScheduleOnce(20*ms, at("b"))
	assert.Equal(t, 3, s.Pending())

	s.Advance(15 * ms)
	assert.Equal(t, []string{"a@10ms"}, got)
	assert.Equal(t, 15*ms, s.Now())

	s.Advance(100 * ms)
	assert.Equal(t, []string{"a@10ms", "b@20ms", "c@30ms"}, got)
	assert.Equal(t, 115*ms, s.Now())
	assert.Zero(t, s.Pending())
}

func TestVirtualScheduler_TiesRunInScheduleOrder(t *testing.T) {
	s := NewVirtualScheduler()
	var got []int
	for i := range 5 {
		s.ScheduleOnce(ms, func() { got = append(got, i) })
	}
	s.Advance(ms)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestVirtualScheduler_NestedTimers(t *testing.T) {
	s := NewVirtualScheduler()
	var got []time.Duration
	s.ScheduleOnce(10*ms, func() {
		got = append(got, s.Now())
		s.ScheduleOnce(5*ms, func() { got = append(got, s.Now()) })
		s.ScheduleOnce(50*ms, func() { got = append(got, s.Now()) })
	})

	s.Advance(20 * ms)
	assert.Equal(t, []time.Duration{10 * ms, 15 * ms}, got)
	assert.Equal(t, 1, s.Pending())

	s.Flush()
	assert.Equal(t, []time.Duration{10 * ms, 15 * ms, 60 * ms}, got)
	assert.Equal(t, 60*ms, s.Now())
}

func TestVirtualScheduler_Cancel(t *testing.T) {
	s := NewVirtualScheduler()
	ran := false
	cancel := s.ScheduleOnce(ms, func() { ran = true })
	cancel()
	assert.Zero(t, s.Pending())

	s.Flush()
	assert.False(t, ran)
	cancel()
}

func TestVirtualScheduler_NegativeDelay(t *testing.T) {
	s := NewVirtualScheduler()
	s.Advance(10 * ms)
	ran := false
	s.ScheduleOnce(-5*ms, func() { ran = true })

	s.Advance(0)
	assert.True(t, ran)
	assert.Equal(t, 10*ms, s.Now())
}

func TestSchedulerFunc(t *testing.T) {
	var delays []time.Duration
	s := SchedulerFunc(func(d time.Duration, fn func()) func() {
		delays = append(delays, d)
		fn()
		return func() {}
	})

	r, _ := record(NewDelayedComplete(s, 7*ms, "x").Pipe())
	assert.Equal(t, []time.Duration{7 * ms}, delays)
	assert.Equal(t, []string{"x", "complete"}, r.events)
}
