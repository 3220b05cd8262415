package rx

// Emitter is a hot source driven by its owner. A late subscriber receives
// the last error if one was ever sent, otherwise the last value if any,
// then completion if the emitter is complete.
type Emitter[V any] struct {
	Publisher[V]
	value    V
	hasValue bool
	err      error
	hasErr   bool
}

// NewEmitter returns an open emitter with no value.
func NewEmitter[V any]() *Emitter[V] {
	e := &Emitter[V]{}
	e.init(e.replayTo)
	return e
}

func (e *Emitter[V]) replayTo(p *pipeline) {
	switch {
	case e.hasErr:
		p.sendError(e.err, false)
	case e.hasValue:
		p.send(e.value, false)
	}
	if e.complete {
		p.sendComplete(false)
	}
}

// Send records v and broadcasts it.
func (e *Emitter[V]) Send(v V) {
	if e.complete {
		return
	}
	e.value, e.hasValue = v, true
	e.send(v)
}

// SendError records err and broadcasts it. The error is replayed in place
// of the value from then on.
func (e *Emitter[V]) SendError(err error) {
	if e.complete {
		return
	}
	e.err, e.hasErr = err, true
	e.sendError(err)
}

// SendComplete completes the emitter.
func (e *Emitter[V]) SendComplete() { e.sendComplete() }

// Value returns the last sent value and whether one was sent.
func (e *Emitter[V]) Value() (V, bool) { return e.value, e.hasValue }

// Err returns the last sent error.
func (e *Emitter[V]) Err() error { return e.err }

// Subject is a hot source that always has a current value. A late
// subscriber receives the current error if one was ever sent, otherwise
// the current value, then completion if complete.
type Subject[V any] struct {
	Publisher[V]
	value  V
	err    error
	hasErr bool
}

// NewSubject returns an open subject holding initial.
func NewSubject[V any](initial V) *Subject[V] {
	s := &Subject[V]{value: initial}
	s.init(s.replayTo)
	return s
}

func (s *Subject[V]) replayTo(p *pipeline) {
	if s.hasErr {
		p.sendError(s.err, false)
	} else {
		p.send(s.value, false)
	}
	if s.complete {
		p.sendComplete(false)
	}
}

// Send replaces the current value and broadcasts it.
func (s *Subject[V]) Send(v V) {
	if s.complete {
		return
	}
	s.value = v
	s.send(v)
}

// Resend broadcasts the current value again.
func (s *Subject[V]) Resend() { s.send(s.value) }

// SendError records err and broadcasts it.
func (s *Subject[V]) SendError(err error) {
	if s.complete {
		return
	}
	s.err, s.hasErr = err, true
	s.sendError(err)
}

// SendComplete completes the subject.
func (s *Subject[V]) SendComplete() { s.sendComplete() }

// Value returns the current value.
func (s *Subject[V]) Value() V { return s.value }

// Err returns the last sent error.
func (s *Subject[V]) Err() error { return s.err }

// Buffer records every value and error it sends and replays the whole
// history, in order, to each new subscriber.
type Buffer[V any] struct {
	Publisher[V]
	history []notification
}

// NewBuffer returns an empty open buffer.
func NewBuffer[V any]() *Buffer[V] {
	b := &Buffer[V]{}
	b.init(b.replayTo)
	return b
}

func (b *Buffer[V]) replayTo(p *pipeline) {
	for _, n := range b.history {
		if n.isErr {
			p.sendError(n.err, false)
		} else {
			p.send(n.value, false)
		}
	}
	if b.complete {
		p.sendComplete(false)
	}
}

// Send appends v to the history and broadcasts it.
func (b *Buffer[V]) Send(v V) {
	if b.complete {
		return
	}
	b.history = append(b.history, notification{value: v})
	b.send(v)
}

// SendError appends err to the history and broadcasts it.
func (b *Buffer[V]) SendError(err error) {
	if b.complete {
		return
	}
	b.history = append(b.history, notification{err: err, isErr: true})
	b.sendError(err)
}

// SendComplete completes the buffer.
func (b *Buffer[V]) SendComplete() { b.sendComplete() }

// Len returns the number of recorded events.
func (b *Buffer[V]) Len() int { return len(b.history) }

// Value is an observable holder of a comparable value. It replays the
// current value to every subscriber and broadcasts only actual changes.
type Value[V comparable] struct {
	Publisher[V]
	value V
}

// NewValue returns a Value holding initial.
func NewValue[V comparable](initial V) *Value[V] {
	v := &Value[V]{value: initial}
	v.init(v.replayTo)
	return v
}

func (v *Value[V]) replayTo(p *pipeline) {
	p.send(v.value, false)
	if v.complete {
		p.sendComplete(false)
	}
}

// Get returns the current value.
func (v *Value[V]) Get() V { return v.value }

// Set stores x and broadcasts it if it differs from the current value.
func (v *Value[V]) Set(x V) {
	if v.complete || x == v.value {
		return
	}
	v.value = x
	v.send(x)
}

// SendComplete completes the value; later Set calls are ignored.
func (v *Value[V]) SendComplete() { v.sendComplete() }
