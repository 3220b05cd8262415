package rx

import (
	"slices"
)

// Combine merges sources of any element type into snapshots. Each value
// from source i replaces slot i and the whole snapshot is broadcast.
// Errors are forwarded as they arrive without ending the combination;
// completion follows once every source has completed.
type Combine struct {
	Publisher[[]any]
	values   []any
	reported bool
	err      error
}

// NewCombine subscribes to every source immediately. With no sources the
// result is already complete and replays an empty snapshot.
func NewCombine(sources ...Source) *Combine {
	c := &Combine{values: make([]any, len(sources))}
	c.init(c.replayTo)
	remaining := len(sources)
	for i, src := range sources {
		listen(src.tail(),
			func(v any) {
				c.values[i] = v
				c.reported = true
				c.send(slices.Clone(c.values))
			},
			func(err error) {
				c.err = err
				c.sendError(err)
			},
			func() {
				remaining--
				if remaining == 0 {
					c.sendComplete()
				}
			})
	}
	if len(sources) == 0 {
		c.sendComplete()
	}
	return c
}

func (c *Combine) replayTo(p *pipeline) {
	switch {
	case c.err != nil:
		p.sendError(c.err, false)
	case c.reported || c.complete:
		p.send(slices.Clone(c.values), false)
	}
	if c.complete {
		p.sendComplete(false)
	}
}

// Values returns a copy of the current snapshot.
func (c *Combine) Values() []any { return slices.Clone(c.values) }

// Err returns the last error forwarded from a source.
func (c *Combine) Err() error { return c.err }

// WaitUntilComplete is a barrier: it forwards source errors right away
// and waits for every source to complete. Then, if a result source was
// given, it mirrors that source; otherwise it completes with no value.
type WaitUntilComplete[V any] struct {
	Publisher[V]
	result   Observable[V]
	value    V
	hasValue bool
	err      error
}

// NewWaitUntilComplete subscribes to every source immediately. result may
// be nil.
func NewWaitUntilComplete[V any](result Observable[V], sources ...Source) *WaitUntilComplete[V] {
	w := &WaitUntilComplete[V]{result: result}
	w.init(w.replayTo)
	remaining := len(sources)
	for _, src := range sources {
		listen(src.tail(), nil, w.fail, func() {
			remaining--
			if remaining == 0 {
				w.open()
			}
		})
	}
	if len(sources) == 0 {
		w.open()
	}
	return w
}

func (w *WaitUntilComplete[V]) fail(err error) {
	w.err = err
	w.sendError(err)
}

func (w *WaitUntilComplete[V]) open() {
	if w.result == nil {
		w.sendComplete()
		return
	}
	w.result.Pipe().
		OnReceive(func(v V) {
			w.value, w.hasValue = v, true
			w.send(v)
		}).
		OnError(w.fail).
		OnComplete(w.sendComplete).
		Subscribe()
}

func (w *WaitUntilComplete[V]) replayTo(p *pipeline) {
	switch {
	case w.err != nil:
		p.sendError(w.err, false)
	case w.complete && w.hasValue:
		p.send(w.value, false)
	}
	if w.complete {
		p.sendComplete(false)
	}
}

// Value returns the value received from the result source and whether
// there was one.
func (w *WaitUntilComplete[V]) Value() (V, bool) { return w.value, w.hasValue }

// Err returns the last forwarded error.
func (w *WaitUntilComplete[V]) Err() error { return w.err }
