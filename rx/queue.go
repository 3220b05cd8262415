package rx

// Queue chains asynchronous steps. Each step receives the previous step's
// last value, runs one inner source and hands its last value on when that
// source completes. The first inner error fails the queue's result and
// stops the remaining steps.
//
//	q := rx.NewQueue[int]()
//	step := rx.Next(q.Head(), func(struct{}) rx.Observable[int] { return fetchCount() })
//	step = rx.Next(step, func(n int) rx.Observable[int] { return double(n) })
//	result := rx.Complete(step)
type Queue[R any] struct {
	head *QueueStep[R, struct{}]
}

// NewQueue returns an empty queue whose head is ready to run.
func NewQueue[R any]() *Queue[R] {
	return &Queue[R]{head: &QueueStep[R, struct{}]{op: NewOperation[R](), idle: true}}
}

// Head returns the first step. Steps appended to it start immediately.
func (q *Queue[R]) Head() *QueueStep[R, struct{}] { return q.head }

// Result returns the single-shot source resolved by Complete, Success or Fail.
func (q *Queue[R]) Result() Observable[R] { return q.head.op }

// IsComplete reports whether the result has resolved.
func (q *Queue[R]) IsComplete() bool { return q.head.op.IsComplete() }

// Success resolves the result directly, skipping any remaining steps.
func (q *Queue[R]) Success(v R) { q.head.op.Success(v) }

// Fail resolves the result with err, skipping any remaining steps.
func (q *Queue[R]) Fail(err error) { q.head.op.Fail(err) }

// Complete resolves a queue that has no steps with the zero value of R and
// returns the result. A queue with steps is completed through its last
// step with the Complete function; calling this method on it is a protocol
// violation.
func (q *Queue[R]) Complete() Observable[R] {
	if q.head.child != nil {
		violation("Queue.Complete", "queue has steps, complete its last step")
	}
	var zero R
	q.head.op.Success(zero)
	return q.head.op
}

// QueueStep is one step of a Queue producing values of type V.
type QueueStep[R, V any] struct {
	op    *Operation[R]
	child func(V)
	idle  bool
	value V
}

// Next appends a step that runs f with s's last value once s has finished.
// If s has already finished, f runs immediately.
func Next[R, V, T any](s *QueueStep[R, V], f func(V) Observable[T]) *QueueStep[R, T] {
	next := &QueueStep[R, T]{op: s.op}
	s.child = func(v V) {
		if next.op.IsComplete() {
			return
		}
		f(v).Pipe().
			OnReceive(func(t T) { next.value = t }).
			OnError(next.op.Fail).
			OnComplete(func() {
				next.idle = true
				next.forward()
			}).
			Subscribe()
	}
	if s.idle {
		s.forward()
	}
	return next
}

func (s *QueueStep[R, V]) forward() {
	if s.child != nil && !s.op.IsComplete() {
		s.child(s.value)
	}
}

// Complete appends the terminal step, which resolves the queue's result
// with the last value of s, and returns the result.
func Complete[R any](s *QueueStep[R, R]) Observable[R] {
	if !s.op.IsComplete() {
		Next(s, func(v R) Observable[R] {
			s.op.Success(v)
			return s.op
		})
	}
	return s.op
}
