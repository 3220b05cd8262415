package rx

// listen subscribes an untyped subscriber to the chain ending at tail.
// Any callback may be nil.
func listen(tail stage, onValue func(any), onError func(error), onComplete func()) func() {
	s := newSubscriber[any]("listen", tail)
	s.onReceive, s.onError, s.onComplete = onValue, onError, onComplete
	return s.Subscribe()
}

type flatMapStage struct {
	node
	inner func(any) stage
}

func (s *flatMapStage) send(v any, broadcast bool) {
	if s.complete {
		return
	}
	listen(s.inner(v),
		func(x any) { s.node.send(x, broadcast) },
		func(err error) { s.node.sendError(err, broadcast) },
		nil)
}

// sequentStage runs one inner source at a time. Notifications queue in
// arrival order; an error is forwarded when it reaches the front, a value
// starts the next inner source.
type sequentStage struct {
	node
	inner func(any) stage

	queue             []notification
	active            bool
	draining          bool
	completeRequested bool
	completeBroadcast bool
}

func (s *sequentStage) send(v any, broadcast bool) {
	if s.complete {
		return
	}
	s.queue = append(s.queue, notification{value: v, broadcast: broadcast})
	s.drain()
}

func (s *sequentStage) sendError(err error, broadcast bool) {
	if s.complete {
		return
	}
	s.queue = append(s.queue, notification{err: err, isErr: true, broadcast: broadcast})
	s.drain()
}

func (s *sequentStage) sendComplete(broadcast bool) {
	if s.complete {
		return
	}
	s.completeRequested = true
	s.completeBroadcast = s.completeBroadcast || broadcast
	s.drain()
}

func (s *sequentStage) drain() {
	if s.draining {
		return
	}
	s.draining = true
	defer func() { s.draining = false }()

	for !s.active && !s.complete {
		if len(s.queue) == 0 {
			if s.completeRequested {
				s.node.sendComplete(s.completeBroadcast)
			}
			return
		}
		n := s.queue[0]
		s.queue[0] = notification{}
		s.queue = s.queue[1:]
		if n.isErr {
			s.node.sendError(n.err, n.broadcast)
			continue
		}
		s.active = true
		listen(s.inner(n.value),
			func(x any) { s.node.send(x, n.broadcast) },
			func(err error) { s.node.sendError(err, n.broadcast) },
			func() {
				s.active = false
				s.drain()
			})
	}
}

// parallelStage subscribes to every inner source at once and counts the
// ones still running.
type parallelStage struct {
	node
	inner func(any) stage

	inFlight          int
	completeRequested bool
	completeBroadcast bool
}

func (s *parallelStage) send(v any, broadcast bool) {
	if s.complete {
		return
	}
	s.inFlight++
	listen(s.inner(v),
		func(x any) { s.node.send(x, broadcast) },
		func(err error) { s.node.sendError(err, broadcast) },
		func() {
			s.inFlight--
			s.tryComplete()
		})
}

func (s *parallelStage) sendComplete(broadcast bool) {
	if s.complete {
		return
	}
	s.completeRequested = true
	s.completeBroadcast = s.completeBroadcast || broadcast
	s.tryComplete()
}

func (s *parallelStage) tryComplete() {
	if s.completeRequested && s.inFlight == 0 {
		s.node.sendComplete(s.completeBroadcast)
	}
}
