package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/resilience"
	"github.com/kbukum/rxkit/rx"
	"github.com/kbukum/rxkit/validation"
)

// Update is delivered to watchers: a channel value, or the channel's
// completion when Complete is set.
type Update struct {
	Channel  string
	Payload  json.RawMessage
	Complete bool
}

// ChannelInfo describes an open channel.
type ChannelInfo struct {
	Name     string `json:"name"`
	Watchers int    `json:"watchers"`
	HasValue bool   `json:"has_value"`
}

type channel struct {
	subject  *rx.Subject[json.RawMessage]
	limiter  *resilience.RateLimiter
	watchers int
}

// Hub is a set of named channels. Each channel holds the latest JSON value
// published to it and pushes changes to its watchers. All channel state
// lives on the loop; Hub methods are safe for concurrent use.
type Hub struct {
	loop     *rx.Loop
	cfg      Config
	metrics  *observability.StreamMetrics
	log      *logger.Logger
	channels map[string]*channel
}

var (
	_ component.Component   = (*Hub)(nil)
	_ component.Describable = (*Hub)(nil)
)

// NewHub creates a hub whose channels live on loop. metrics may be nil.
func NewHub(loop *rx.Loop, cfg Config, metrics *observability.StreamMetrics) *Hub {
	cfg.ApplyDefaults()
	return &Hub{
		loop:     loop,
		cfg:      cfg,
		metrics:  metrics,
		log:      logger.Get("relay"),
		channels: make(map[string]*channel),
	}
}

// Config returns the hub's effective configuration.
func (h *Hub) Config() Config { return h.cfg }

func validName(name string) error {
	return validation.Var("name", name, "required,max=128,printascii")
}

// open returns the named channel, creating it if needed. Loop only.
func (h *Hub) open(name string) (*channel, error) {
	if ch, ok := h.channels[name]; ok {
		return ch, nil
	}
	if h.cfg.MaxChannels > 0 && len(h.channels) >= h.cfg.MaxChannels {
		return nil, errors.LimitExceeded("channels", h.cfg.MaxChannels)
	}
	ch := &channel{subject: rx.NewSubject[json.RawMessage](nil)}
	if h.cfg.PublishRate > 0 {
		ch.limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:    "channel " + name,
			Rate:    h.cfg.PublishRate,
			Burst:   h.cfg.PublishBurst,
			OnLimit: func(string) {
				h.log.Debug("publish throttled", logger.Fields(logger.FieldChannel, name))
			},
		})
	}
	h.channels[name] = ch
	h.log.Debug("channel opened", logger.Fields(logger.FieldChannel, name))
	return ch, nil
}

// do runs fn on the loop and returns fn's error or the loop's. When ctx
// ends before the loop reaches fn, fn is skipped.
func (h *Hub) do(ctx context.Context, fn func() error) error {
	var err error
	if doErr := h.loop.Do(ctx, func() { err = fn() }); doErr != nil {
		return doErr
	}
	return err
}

// Publish stores payload as the channel's value, creating the channel on
// first use. payload must be valid JSON. With PublishRate set, publishes
// over the channel's rate fail with RATE_LIMITED.
func (h *Hub) Publish(ctx context.Context, name string, payload []byte) error {
	if err := checkPublish(name, payload); err != nil {
		return err
	}
	value := json.RawMessage(slices.Clone(payload))
	return h.do(ctx, func() error { return h.publish(name, value) })
}

func checkPublish(name string, payload []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if !json.Valid(payload) {
		return errors.InvalidInput("payload", "must be valid JSON")
	}
	return nil
}

// publish runs on the loop.
func (h *Hub) publish(name string, value json.RawMessage) error {
	ch, err := h.open(name)
	if err != nil {
		return err
	}
	if ch.limiter != nil {
		if err := ch.limiter.Check(); err != nil {
			return err
		}
	}
	ch.subject.Send(value)
	return nil
}

// Snapshot returns the channel's current value.
func (h *Hub) Snapshot(ctx context.Context, name string) (json.RawMessage, error) {
	var out json.RawMessage
	err := h.do(ctx, func() error {
		ch, ok := h.channels[name]
		if !ok || ch.subject.Value() == nil {
			return errors.NotFound("channel", name)
		}
		out = ch.subject.Value()
		return nil
	})
	return out, err
}

// Watch calls fn with the channel's current value, if any, and then with
// every distinct change, debounced by DebounceWindow. Unknown channels are
// created so watchers can wait for the first publish. fn runs on the loop
// and must not block. The returned cancel stops delivery; it is safe to
// call more than once.
func (h *Hub) Watch(ctx context.Context, name string, fn func(Update)) (func(), error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	var (
		unsubscribe func()
		ch          *channel
	)
	err := h.do(ctx, func() error {
		var err error
		if ch, err = h.open(name); err != nil {
			return err
		}
		op := ch.subject.Pipe().SkipNullable().RemoveDuplicates()
		if h.cfg.DebounceWindow > 0 {
			op = op.Debounce(h.loop, h.cfg.DebounceWindow)
		}
		unsubscribe = observability.Instrument(op, h.metrics, name).
			OnReceive(func(v json.RawMessage) { fn(Update{Channel: name, Payload: v}) }).
			OnComplete(func() { fn(Update{Channel: name, Complete: true}) }).
			Subscribe()
		ch.watchers++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if h.metrics != nil {
		h.metrics.WatcherAdded(ctx, name)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if h.metrics != nil {
				h.metrics.WatcherRemoved(context.Background(), name)
			}
			err := h.loop.Post(func() {
				unsubscribe()
				ch.watchers--
			})
			if err != nil {
				h.log.Debug("watch cancel after loop stop", logger.Fields(logger.FieldChannel, name))
			}
		})
	}, nil
}

// Close completes the channel and removes it. Watchers receive the final
// value, if a debounce is pending, and then the completion.
func (h *Hub) Close(ctx context.Context, name string) error {
	return h.do(ctx, func() error {
		ch, ok := h.channels[name]
		if !ok {
			return errors.NotFound("channel", name)
		}
		delete(h.channels, name)
		ch.subject.SendComplete()
		h.log.Debug("channel closed", logger.Fields(logger.FieldChannel, name, "watchers", ch.watchers))
		return nil
	})
}

// Channels lists open channels sorted by name.
func (h *Hub) Channels(ctx context.Context) ([]ChannelInfo, error) {
	var out []ChannelInfo
	err := h.do(ctx, func() error {
		out = make([]ChannelInfo, 0, len(h.channels))
		for name, ch := range h.channels {
			out = append(out, ChannelInfo{Name: name, Watchers: ch.watchers, HasValue: ch.subject.Value() != nil})
		}
		return nil
	})
	slices.SortFunc(out, func(a, b ChannelInfo) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

// Name returns the component name used for registration.
func (h *Hub) Name() string { return "relay-hub" }

// Start is a no-op; the hub runs on its loop.
func (h *Hub) Start(context.Context) error { return nil }

// Stop completes every channel so open event streams end before the
// server shuts down.
func (h *Hub) Stop(ctx context.Context) error {
	return h.do(ctx, func() error {
		for name, ch := range h.channels {
			delete(h.channels, name)
			ch.subject.SendComplete()
		}
		return nil
	})
}

// Health reports the loop's health under the hub's name.
func (h *Hub) Health(ctx context.Context) component.Health {
	lh := h.loop.Health(ctx)
	return component.Health{Name: h.Name(), Status: lh.Status, Message: lh.Message}
}

// Describe returns the startup summary line.
func (h *Hub) Describe() component.Description {
	return component.Description{
		Name:    "Relay Hub",
		Type:    "hub",
		Details: fmt.Sprintf("debounce=%s max_channels=%d queue=%d publish_rate=%g", h.cfg.DebounceWindow, h.cfg.MaxChannels, h.cfg.QueueSize, h.cfg.PublishRate),
	}
}
