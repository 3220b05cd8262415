package rx

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
)

// LoopConfig configures a Loop.
type LoopConfig struct {
	// Name identifies the loop in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`
	// MaxPending caps the number of queued tasks; 0 means unbounded.
	MaxPending int `yaml:"max_pending" mapstructure:"max_pending" validate:"gte=0"`
}

// ApplyDefaults sets default values for unset fields.
func (c *LoopConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "rx-loop"
	}
}

// Loop runs tasks one at a time on a single goroutine. Every source and
// chain touched only from inside Loop tasks is safe to use from many
// goroutines, since the core itself is single-threaded. Loop also
// implements Scheduler by posting real timer callbacks back onto itself.
type Loop struct {
	cfg LoopConfig
	log *logger.Logger

	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

var _ component.Component = (*Loop)(nil)
var _ Scheduler = (*Loop)(nil)

// NewLoop creates a loop. It accepts tasks immediately and runs them once
// Run or Start is called.
func NewLoop(cfg LoopConfig) *Loop {
	cfg.ApplyDefaults()
	return &Loop{
		cfg:  cfg,
		log:  logger.Get("rx").WithFields(logger.Fields("loop", cfg.Name)),
		wake: make(chan struct{}, 1),
	}
}

// Post queues fn to run on the loop. It fails once the loop is stopped or
// when MaxPending tasks are already queued.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	switch {
	case l.stopped:
		l.mu.Unlock()
		return errors.Unavailable(l.cfg.Name)
	case l.cfg.MaxPending > 0 && len(l.queue) >= l.cfg.MaxPending:
		l.mu.Unlock()
		return errors.LimitExceeded(l.cfg.Name+" queue", l.cfg.MaxPending)
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Do task states.
const (
	doPending int32 = iota
	doRunning
	doAbandoned
)

// Do runs fn on the loop and waits for it. A panic in fn is returned as an
// INTERNAL error. Do must not be called from a loop task.
//
// fn runs either to completion or not at all: when ctx ends before the loop
// picks the task up, Do returns the context error and fn is skipped. Once
// fn has started, Do waits for it even if ctx ends.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	var state atomic.Int32
	result := make(chan error, 1)
	err := l.Post(func() {
		if !state.CompareAndSwap(doPending, doRunning) {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				result <- errors.Internal(fmt.Errorf("loop task panic: %v", r))
			}
		}()
		fn()
		result <- nil
	})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		if state.CompareAndSwap(doPending, doAbandoned) {
			return errors.FromContext("loop.do", ctx.Err())
		}
		return <-result
	}
}

// ScheduleOnce runs fn on the loop after delay. Cancel is honored even if
// the timer has already fired but the task has not run yet.
func (l *Loop) ScheduleOnce(delay time.Duration, fn func()) func() {
	var canceled atomic.Bool
	t := time.AfterFunc(delay, func() {
		err := l.Post(func() {
			if !canceled.Load() {
				fn()
			}
		})
		if err != nil {
			l.log.Warn("dropping timer callback", logger.ErrorFields("schedule", err))
		}
	})
	return func() {
		canceled.Store(true)
		t.Stop()
	}
}

// Run executes queued tasks until ctx is canceled or Stop is called. It
// returns nil on a clean shutdown.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.ProtocolViolation("Run", "loop is already running")
	}
	defer l.running.Store(false)

	l.log.Info("loop started")
	defer l.log.Info("loop stopped")

	for {
		for _, fn := range l.take() {
			l.exec(fn)
		}
		if l.isStopped() && l.pending() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

func (l *Loop) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) isStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			fields := logger.Fields("panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			var appErr *errors.AppError
			if err, ok := r.(error); ok && stderrors.As(err, &appErr) {
				fields["code"] = string(appErr.Code)
			}
			l.log.Error("recovered loop task panic", fields)
		}
	}()
	fn()
}

// Name returns the configured loop name.
func (l *Loop) Name() string { return l.cfg.Name }

// Start runs the loop on its own goroutine.
func (l *Loop) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	l.mu.Lock()
	l.cancel, l.done = cancel, done
	l.mu.Unlock()

	go func() {
		defer close(done)
		if err := l.Run(runCtx); err != nil {
			l.log.Error("loop exited", logger.ErrorFields("run", err))
		}
	}()
	return nil
}

// Stop refuses new tasks, lets already queued ones finish and waits for the
// loop goroutine started by Start to exit.
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	l.stopped = true
	cancel, done := l.cancel, l.done
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		cancel()
		return errors.FromContext("loop.stop", ctx.Err())
	}
}

// Health reports healthy while the loop is running.
func (l *Loop) Health(_ context.Context) component.Health {
	h := component.Health{Name: l.cfg.Name, Status: component.StatusHealthy}
	if !l.running.Load() {
		h.Status = component.StatusUnhealthy
		h.Message = "loop is not running"
	} else if n := l.pending(); n > 0 {
		h.Message = fmt.Sprintf("%d tasks pending", n)
	}
	return h
}

// Collect subscribes to obs on loop and waits for completion, returning
// every received value. Stream errors do not stop collection; they are
// joined into the returned error. When ctx ends first the subscription is
// dropped, and if the loop had not reached it yet obs is never subscribed.
func Collect[V any](ctx context.Context, loop *Loop, obs Observable[V]) ([]V, error) {
	var (
		values    []V
		errs      []error
		unsub     func()
		abandoned atomic.Bool
	)
	done := make(chan struct{})
	err := loop.Post(func() {
		if abandoned.Load() {
			return
		}
		unsub = obs.Pipe().
			OnReceive(func(v V) { values = append(values, v) }).
			OnError(func(err error) { errs = append(errs, err) }).
			OnComplete(func() { close(done) }).
			Subscribe()
	})
	if err != nil {
		return nil, err
	}
	select {
	case <-done:
		return values, stderrors.Join(errs...)
	case <-ctx.Done():
		abandoned.Store(true)
		_ = loop.Post(func() {
			if unsub != nil {
				unsub()
			}
		})
		return nil, errors.FromContext("collect", ctx.Err())
	}
}
