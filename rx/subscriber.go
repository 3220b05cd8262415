package rx

// ErrorStep is returned by OnReceive. Callbacks must be registered in
// order: receive, error, complete, then Subscribe.
type ErrorStep interface {
	OnError(f func(error)) CompleteStep
	OnComplete(f func()) Subscription
	Subscribe() (unsubscribe func())
}

// CompleteStep is returned by OnError.
type CompleteStep interface {
	OnComplete(f func()) Subscription
	Subscribe() (unsubscribe func())
}

// Subscription is returned by OnComplete.
type Subscription interface {
	Subscribe() (unsubscribe func())
}

// Subscriber is the terminal consumer of a chain. It turns events into
// callbacks and unsubscribes itself on completion.
//
// Registering a callback after Subscribe or after completion, registering
// the same callback twice, or subscribing twice panics with a
// PROTOCOL_VIOLATION error.
type Subscriber[V any] struct {
	pipe         *pipeline
	onReceive    func(V)
	onError      func(error)
	onComplete   func()
	complete     bool
	subscribed   bool
	unsubscribed bool
}

func newSubscriber[V any](op string, tail stage) *Subscriber[V] {
	b := tail.base()
	if b.next != nil {
		violation(op, "operator already has a downstream consumer")
	}
	s := &Subscriber[V]{pipe: b.pipe}
	b.next = s
	return s
}

func (s *Subscriber[V]) guard(op string) {
	switch {
	case s.subscribed:
		violation(op, "callbacks cannot be registered after Subscribe")
	case s.complete:
		violation(op, "callbacks cannot be registered after completion")
	}
}

// OnError registers the error callback.
func (s *Subscriber[V]) OnError(f func(error)) CompleteStep {
	s.guard("OnError")
	if s.onError != nil {
		violation("OnError", "error callback already registered")
	}
	s.onError = f
	return s
}

// OnComplete registers the completion callback.
func (s *Subscriber[V]) OnComplete(f func()) Subscription {
	s.guard("OnComplete")
	if s.onComplete != nil {
		violation("OnComplete", "complete callback already registered")
	}
	s.onComplete = f
	return s
}

// Subscribe activates the chain. The source replays synchronously to this
// pipeline before Subscribe returns. The returned func detaches the
// pipeline and drops all callbacks; calling it more than once is harmless.
func (s *Subscriber[V]) Subscribe() func() {
	if s.subscribed {
		violation("Subscribe", "subscriber is already subscribed")
	}
	s.subscribed = true
	if !s.complete {
		s.pipe.source.didSubscribe(s.pipe)
	}
	return s.unsubscribe
}

func (s *Subscriber[V]) unsubscribe() {
	if s.unsubscribed {
		return
	}
	s.unsubscribed = true
	s.onReceive, s.onError, s.onComplete = nil, nil, nil
	s.pipe.source.didUnsubscribe(s.pipe)
}

func (s *Subscriber[V]) send(v any, _ bool) {
	if s.complete || s.onReceive == nil {
		return
	}
	s.onReceive(as[V](v))
}

func (s *Subscriber[V]) sendError(err error, _ bool) {
	if s.complete || s.onError == nil {
		return
	}
	s.onError(err)
}

func (s *Subscriber[V]) sendComplete(_ bool) {
	if s.complete {
		return
	}
	s.complete = true
	if s.onComplete != nil {
		s.onComplete()
	}
	s.unsubscribe()
}
