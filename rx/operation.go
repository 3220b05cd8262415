package rx

// Operation is a single-shot source: it resolves once, with a value via
// Success or an error via Fail, and completes at the same time. Later
// resolutions are ignored. Subscribers that arrive before resolution
// receive nothing until it happens.
type Operation[V any] struct {
	Publisher[V]
	value  V
	err    error
	hasErr bool
}

// NewOperation returns an unresolved operation.
func NewOperation[V any]() *Operation[V] {
	o := &Operation[V]{}
	o.init(o.replayTo)
	return o
}

func (o *Operation[V]) replayTo(p *pipeline) {
	if !o.complete {
		return
	}
	if o.hasErr {
		p.sendError(o.err, false)
	} else {
		p.send(o.value, false)
	}
	p.sendComplete(false)
}

// Success resolves the operation with v.
func (o *Operation[V]) Success(v V) {
	if o.complete {
		return
	}
	o.value = v
	o.send(v)
	o.sendComplete()
}

// Fail resolves the operation with err. A nil err still counts as a
// failure and is replayed as one.
func (o *Operation[V]) Fail(err error) {
	if o.complete {
		return
	}
	o.err, o.hasErr = err, true
	o.sendError(err)
	o.sendComplete()
}

// Value returns the resolved value; it is the zero value until Success.
func (o *Operation[V]) Value() V { return o.value }

// Err returns the resolution error, if any.
func (o *Operation[V]) Err() error { return o.err }
