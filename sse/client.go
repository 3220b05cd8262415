package sse

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kbukum/rxkit/logger"
)

// DefaultBufferSize is the per-client event buffer.
const DefaultBufferSize = 64

// Client is one connected event stream. Send never blocks: when the buffer
// is full the event is dropped and counted.
type Client struct {
	id      string
	events  chan Event
	done    chan struct{}
	once    sync.Once
	final   *Event
	dropped atomic.Int64
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	id     string
	buffer int
}

// WithID sets the client id. By default a UUID is assigned.
func WithID(id string) ClientOption {
	return func(o *clientOptions) { o.id = id }
}

// WithBuffer sets the event buffer size.
func WithBuffer(n int) ClientOption {
	return func(o *clientOptions) { o.buffer = n }
}

// NewClient creates a client ready to receive events.
func NewClient(opts ...ClientOption) *Client {
	o := clientOptions{buffer: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.buffer <= 0 {
		o.buffer = DefaultBufferSize
	}
	return &Client{
		id:     o.id,
		events: make(chan Event, o.buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the client's id.
func (c *Client) ID() string { return c.id }

// Events returns the pending events.
func (c *Client) Events() <-chan Event { return c.events }

// Done is closed by Close.
func (c *Client) Done() <-chan struct{} { return c.done }

// Dropped returns how many events were dropped on a full buffer.
func (c *Client) Dropped() int64 { return c.dropped.Load() }

// Send queues ev. It reports false if the client is closed or its buffer
// is full.
func (c *Client) Send(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	default:
		n := c.dropped.Add(1)
		logger.Warn("sse client buffer full, dropping event", logger.Fields(logger.FieldWatcher, c.id, "dropped", n))
		return false
	}
}

// Close ends the stream once the events already queued are written. It is
// safe to call more than once and from any goroutine.
func (c *Client) Close() {
	c.once.Do(func() { close(c.done) })
}

// CloseWith is Close with a last event written after the queued ones. The
// last event bypasses the buffer, so a full buffer cannot drop it. Only
// the first Close or CloseWith takes effect.
func (c *Client) CloseWith(ev Event) {
	c.once.Do(func() {
		c.final = &ev
		close(c.done)
	})
}

// finalEvent returns the CloseWith event. It is only valid after Done.
func (c *Client) finalEvent() (Event, bool) {
	if c.final == nil {
		return Event{}, false
	}
	return *c.final, true
}
