package rx

import (
	"time"
)

// notification is a buffered value or error with the broadcast flag it
// arrived with.
type notification struct {
	value     any
	err       error
	isErr     bool
	broadcast bool
}

func (n notification) deliver(to *node) {
	if n.isErr {
		to.sendError(n.err, n.broadcast)
		return
	}
	to.send(n.value, n.broadcast)
}

// debounceStage keeps only the latest notification. The first buffered
// event starts the single window timer; the timer is not restarted by
// later events.
type debounceStage struct {
	node
	scheduler Scheduler
	window    time.Duration

	last              notification
	hasLast           bool
	timerPending      bool
	completeRequested bool
	completeBroadcast bool
}

func (s *debounceStage) send(v any, broadcast bool) {
	s.buffer(notification{value: v, broadcast: broadcast})
}

func (s *debounceStage) sendError(err error, broadcast bool) {
	s.buffer(notification{err: err, isErr: true, broadcast: broadcast})
}

func (s *debounceStage) sendComplete(broadcast bool) {
	if s.complete || s.completeRequested {
		return
	}
	s.completeRequested = true
	s.completeBroadcast = broadcast
	s.startTimer()
}

func (s *debounceStage) buffer(n notification) {
	if s.complete {
		return
	}
	s.last, s.hasLast = n, true
	s.startTimer()
}

func (s *debounceStage) startTimer() {
	if s.timerPending {
		return
	}
	s.timerPending = true
	s.scheduler.ScheduleOnce(s.window, s.fire)
}

func (s *debounceStage) fire() {
	s.timerPending = false
	if s.hasLast {
		n := s.last
		s.last, s.hasLast = notification{}, false
		n.deliver(&s.node)
	}
	if s.completeRequested {
		s.node.sendComplete(s.completeBroadcast)
	}
}
