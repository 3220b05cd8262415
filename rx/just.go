package rx

import (
	"time"
)

// JustComplete is a source that is complete from the start. Subscribers
// receive the optional value, then completion.
type JustComplete[V any] struct {
	Publisher[V]
	value    V
	hasValue bool
}

// NewJustComplete returns a completed source holding at most one value.
func NewJustComplete[V any](value ...V) *JustComplete[V] {
	j := &JustComplete[V]{}
	if len(value) > 0 {
		j.value, j.hasValue = value[0], true
	}
	j.init(j.replayTo)
	j.complete = true
	return j
}

func (j *JustComplete[V]) replayTo(p *pipeline) {
	if j.hasValue {
		p.send(j.value, false)
	}
	p.sendComplete(false)
}

// JustError is a completed source that replays one error, then completion.
type JustError[V any] struct {
	Publisher[V]
	err error
}

// NewJustError returns a completed source holding err.
func NewJustError[V any](err error) *JustError[V] {
	j := &JustError[V]{err: err}
	j.init(j.replayTo)
	j.complete = true
	return j
}

func (j *JustError[V]) replayTo(p *pipeline) {
	p.sendError(j.err, false)
	p.sendComplete(false)
}

// DelayedComplete sends its optional value and completes after a delay.
// Until then subscribers receive nothing; afterwards it behaves like
// JustComplete.
type DelayedComplete[V any] struct {
	JustComplete[V]
	cancel func()
}

// NewDelayedComplete schedules the value and completion on s after d.
func NewDelayedComplete[V any](s Scheduler, d time.Duration, value ...V) *DelayedComplete[V] {
	dc := &DelayedComplete[V]{}
	if len(value) > 0 {
		dc.value, dc.hasValue = value[0], true
	}
	dc.init(dc.replayTo)
	dc.cancel = s.ScheduleOnce(d, dc.fire)
	return dc
}

func (dc *DelayedComplete[V]) replayTo(p *pipeline) {
	if dc.complete {
		dc.JustComplete.replayTo(p)
	}
}

func (dc *DelayedComplete[V]) fire() {
	if dc.hasValue {
		dc.send(dc.value)
	}
	dc.sendComplete()
}

// Cancel stops the pending timer. The source then never completes.
func (dc *DelayedComplete[V]) Cancel() { dc.cancel() }

// DelayedError sends err and completes after a delay.
type DelayedError[V any] struct {
	JustError[V]
	cancel func()
}

// NewDelayedError schedules err and completion on s after d.
func NewDelayedError[V any](s Scheduler, d time.Duration, err error) *DelayedError[V] {
	de := &DelayedError[V]{}
	de.err = err
	de.init(de.replayTo)
	de.cancel = s.ScheduleOnce(d, de.fire)
	return de
}

func (de *DelayedError[V]) replayTo(p *pipeline) {
	if de.complete {
		de.JustError.replayTo(p)
	}
}

func (de *DelayedError[V]) fire() {
	de.sendError(de.err)
	de.sendComplete()
}

// Cancel stops the pending timer. The source then never completes.
func (de *DelayedError[V]) Cancel() { de.cancel() }

// From replays every element of a fixed list, then completion.
type From[V any] struct {
	Publisher[V]
	values []V
}

// NewFrom returns a completed source over values.
func NewFrom[V any](values []V) *From[V] {
	f := &From[V]{values: values}
	f.init(f.replayTo)
	f.complete = true
	return f
}

func (f *From[V]) replayTo(p *pipeline) {
	for _, v := range f.values {
		p.send(v, false)
	}
	p.sendComplete(false)
}
