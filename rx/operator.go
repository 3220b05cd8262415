package rx

import (
	"time"
)

// Operator is the build surface of one pipeline. Each stage method appends
// a stage and returns the new tail; a chain is built once, front to back,
// and ends in a terminal subscriber or Fork.
type Operator[V any] struct {
	stage stage
}

func (o *Operator[V]) tail() stage { return o.stage }

func then[T any](op string, tail stage, next stage) *Operator[T] {
	return &Operator[T]{stage: attach(op, tail, next)}
}

// IsComplete reports whether the chain tail has seen completion.
func (o *Operator[V]) IsComplete() bool { return o.stage.base().complete }

// SkipFirst drops values replayed on subscribe and keeps only live broadcasts.
func (o *Operator[V]) SkipFirst() *Operator[V] {
	return then[V]("SkipFirst", o.stage, &skipFirstStage{})
}

// SkipNullable drops nil values: nil interfaces and nil pointers, maps,
// slices, channels and funcs.
func (o *Operator[V]) SkipNullable() *Operator[V] {
	return then[V]("SkipNullable", o.stage, &skipNullableStage{})
}

// RemoveDuplicates forwards a value only if it differs from the last
// forwarded one. An optional seed is used as the initial comparison value.
// Comparable values are compared with ==, others with reflect.DeepEqual.
func (o *Operator[V]) RemoveDuplicates(seed ...V) *Operator[V] {
	s := &removeDuplicatesStage{}
	if len(seed) > 0 {
		s.last, s.hasLast = seed[0], true
	}
	return then[V]("RemoveDuplicates", o.stage, s)
}

// Debounce holds values and errors for window after the first one arrives,
// then forwards only the most recent. A completion arriving meanwhile is
// forwarded after that flush.
func (o *Operator[V]) Debounce(s Scheduler, window time.Duration) *Operator[V] {
	return then[V]("Debounce", o.stage, &debounceStage{scheduler: s, window: window})
}

// Filter forwards values for which keep returns true.
func (o *Operator[V]) Filter(keep func(V) bool) *Operator[V] {
	return then[V]("Filter", o.stage, &filterStage{keep: func(v any) bool { return keep(as[V](v)) }})
}

// ReplaceError turns an error into a value when f reports ok; otherwise
// the original error is forwarded.
func (o *Operator[V]) ReplaceError(f func(error) (V, bool)) *Operator[V] {
	return then[V]("ReplaceError", o.stage, &replaceErrorStage{replace: func(err error) (any, bool) { return f(err) }})
}

// Hooks observe a chain without altering it. Any hook may be nil.
type Hooks[V any] struct {
	Value    func(v V, broadcast bool)
	Error    func(err error, broadcast bool)
	Complete func(broadcast bool)
}

// Tap calls the hooks for each event and forwards it unchanged.
func (o *Operator[V]) Tap(h Hooks[V]) *Operator[V] {
	s := &tapStage{onError: h.Error, onComplete: h.Complete}
	if h.Value != nil {
		s.onValue = func(v any, broadcast bool) { h.Value(as[V](v), broadcast) }
	}
	return then[V]("Tap", o.stage, s)
}

// Fork subscribes the chain into a new Emitter and returns it, turning the
// chain's output into a source of its own.
func (o *Operator[V]) Fork() Observable[V] {
	e := NewEmitter[V]()
	o.OnReceive(e.Send).OnError(e.SendError).OnComplete(e.SendComplete).Subscribe()
	return e
}

// OnReceive registers the value callback and attaches the terminal subscriber.
func (o *Operator[V]) OnReceive(f func(V)) ErrorStep {
	s := newSubscriber[V]("OnReceive", o.stage)
	s.onReceive = f
	return s
}

// OnError registers the error callback and attaches the terminal subscriber.
func (o *Operator[V]) OnError(f func(error)) CompleteStep {
	return newSubscriber[V]("OnError", o.stage).OnError(f)
}

// OnComplete registers the completion callback and attaches the terminal subscriber.
func (o *Operator[V]) OnComplete(f func()) Subscription {
	return newSubscriber[V]("OnComplete", o.stage).OnComplete(f)
}

// Subscribe attaches a subscriber without callbacks, keeping the chain's
// side effects alive.
func (o *Operator[V]) Subscribe() func() {
	return newSubscriber[V]("Subscribe", o.stage).Subscribe()
}

// Map replaces each value with f(value).
func Map[V, T any](o *Operator[V], f func(V) T) *Operator[T] {
	return then[T]("Map", o.stage, &mapStage{fn: func(v any) any { return f(as[V](v)) }})
}

// Spread forwards each element of a slice value as its own value.
func Spread[V any](o *Operator[[]V]) *Operator[V] {
	return then[V]("Spread", o.stage, &spreadStage{each: func(v any, yield func(any)) {
		for _, e := range as[[]V](v) {
			yield(e)
		}
	}})
}

// FlatMap subscribes to f(value) for every value and forwards the inner
// values and errors. Inner completion is not forwarded; inner sources may
// overlap and are never canceled.
func FlatMap[V, T any](o *Operator[V], f func(V) Observable[T]) *Operator[T] {
	return then[T]("FlatMap", o.stage, &flatMapStage{inner: innerOf(f)})
}

// Sequent runs f(value) for one value at a time, in arrival order. Values
// and errors arriving while an inner source is running are buffered;
// completion is forwarded once the buffer is drained.
func Sequent[V, T any](o *Operator[V], f func(V) Observable[T]) *Operator[T] {
	return then[T]("Sequent", o.stage, &sequentStage{inner: innerOf(f)})
}

// Parallel subscribes to f(value) for every value at once and forwards
// inner events as they arrive. Completion is forwarded once it has been
// requested and every inner source has completed.
func Parallel[V, T any](o *Operator[V], f func(V) Observable[T]) *Operator[T] {
	return then[T]("Parallel", o.stage, &parallelStage{inner: innerOf(f)})
}

func innerOf[V, T any](f func(V) Observable[T]) func(any) stage {
	return func(v any) stage { return f(as[V](v)).Pipe().stage }
}
