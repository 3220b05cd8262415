package rx

import (
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
)

// sender is the forwarding contract shared by pipelines, stages and
// subscribers. broadcast is true for a live push from the source and false
// for a replay sent to a single newly subscribed pipeline.
type sender interface {
	send(v any, broadcast bool)
	sendError(err error, broadcast bool)
	sendComplete(broadcast bool)
}

// stage is one node of an operator chain.
type stage interface {
	sender
	base() *node
}

// node is embedded by every stage kind. It links to the single next
// consumer and latches completion; a stage overrides only the events it
// alters and forwards the rest through node.
type node struct {
	pipe     *pipeline
	next     sender
	complete bool
}

func (n *node) base() *node { return n }

func (n *node) send(v any, broadcast bool) {
	if n.complete || n.next == nil {
		return
	}
	n.next.send(v, broadcast)
}

func (n *node) sendError(err error, broadcast bool) {
	if n.complete || n.next == nil {
		return
	}
	n.next.sendError(err, broadcast)
}

func (n *node) sendComplete(broadcast bool) {
	if n.complete {
		return
	}
	n.complete = true
	if n.next != nil {
		n.next.sendComplete(broadcast)
	}
}

// attach links next after tail and returns next. A stage accepts one
// downstream consumer only.
func attach(op string, tail, next stage) stage {
	b := tail.base()
	if b.next != nil {
		violation(op, "operator already has a downstream consumer")
	}
	next.base().pipe = b.pipe
	b.next = next
	return next
}

// owner is the publisher side of a pipeline.
type owner interface {
	ID() SessionID
	didSubscribe(p *pipeline)
	didUnsubscribe(p *pipeline)
}

// pipeline bridges one publisher to one operator chain.
type pipeline struct {
	source owner
	head   *node
}

func newPipeline(source owner) *pipeline {
	p := &pipeline{source: source}
	p.head = &node{pipe: p}
	return p
}

func (p *pipeline) send(v any, broadcast bool)          { p.head.send(v, broadcast) }
func (p *pipeline) sendError(err error, broadcast bool) { p.head.sendError(err, broadcast) }
func (p *pipeline) sendComplete(broadcast bool)         { p.head.sendComplete(broadcast) }

// as unboxes a value travelling through the untyped chain. A nil interface
// becomes the zero value of V.
func as[V any](v any) V {
	if v == nil {
		var zero V
		return zero
	}
	return v.(V)
}

func log() *logger.Logger {
	return logger.Get("rx")
}

// violation reports a misuse of the fluent API. It never returns.
func violation(op, reason string) {
	err := errors.ProtocolViolation(op, reason)
	log().Error("stream protocol violation", logger.ErrorFields(op, err))
	panic(err)
}
