package rx

import (
	"slices"

	"github.com/kbukum/rxkit/logger"
)

// Observable is a source that can be piped into an operator chain.
type Observable[V any] interface {
	ID() SessionID
	IsComplete() bool
	Pipe() *Operator[V]
}

// Source is any publisher or operator chain, regardless of its element
// type. Fan-in constructors such as NewCombine accept it.
type Source interface {
	tail() stage
}

// Publisher is the base of every source variant. It keeps the attached
// pipelines in subscription order and fans events out to them.
//
// Detach requests made while a broadcast is running are queued and applied
// in request order once the outermost broadcast returns, so iteration never
// sees a mutated set.
type Publisher[V any] struct {
	id        SessionID
	pipelines []*pipeline
	pending   []*pipeline
	sending   int
	complete  bool
	replay    func(p *pipeline)
}

// init assigns an id and the variant's replay policy. A nil replay replays
// only completion.
func (p *Publisher[V]) init(replay func(p *pipeline)) {
	p.id = nextSessionID()
	p.replay = replay
}

// ID returns the source's session id.
func (p *Publisher[V]) ID() SessionID { return p.id }

// IsComplete reports whether the source has completed.
func (p *Publisher[V]) IsComplete() bool { return p.complete }

// Pipe attaches a new pipeline and returns its chain head. A completed
// source does not attach the pipeline, since no live event can follow,
// but still replays on Subscribe.
func (p *Publisher[V]) Pipe() *Operator[V] {
	return &Operator[V]{stage: p.tail()}
}

func (p *Publisher[V]) tail() stage {
	pl := newPipeline(p)
	if !p.complete {
		p.pipelines = append(p.pipelines, pl)
	}
	return pl.head
}

func (p *Publisher[V]) didSubscribe(pl *pipeline) {
	if logger.DebugEnabled() {
		log().Debug("pipeline subscribed", logger.Fields(logger.FieldSessionID, p.id.String(), "attached", len(p.pipelines)))
	}
	if p.replay != nil {
		p.replay(pl)
		return
	}
	if p.complete {
		pl.sendComplete(false)
	}
}

func (p *Publisher[V]) didUnsubscribe(pl *pipeline) {
	if p.sending > 0 {
		p.pending = append(p.pending, pl)
		return
	}
	p.detach(pl)
}

func (p *Publisher[V]) detach(pl *pipeline) {
	p.pipelines = slices.DeleteFunc(p.pipelines, func(x *pipeline) bool { return x == pl })
}

func (p *Publisher[V]) broadcast(fn func(pl *pipeline)) {
	p.sending++
	defer func() {
		p.sending--
		if p.sending == 0 && len(p.pending) > 0 {
			pending := p.pending
			p.pending = nil
			for _, pl := range pending {
				p.detach(pl)
			}
		}
	}()
	for _, pl := range p.pipelines {
		fn(pl)
	}
}

func (p *Publisher[V]) send(v V) {
	if p.complete {
		return
	}
	p.broadcast(func(pl *pipeline) { pl.send(v, true) })
}

func (p *Publisher[V]) sendError(err error) {
	if p.complete {
		return
	}
	p.broadcast(func(pl *pipeline) { pl.sendError(err, true) })
}

func (p *Publisher[V]) sendComplete() {
	if p.complete {
		return
	}
	p.complete = true
	p.broadcast(func(pl *pipeline) { pl.sendComplete(true) })
	p.pipelines = nil
	if logger.DebugEnabled() {
		log().Debug("source completed", logger.Fields(logger.FieldSessionID, p.id.String()))
	}
}
