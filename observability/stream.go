package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/rxkit/rx"
)

// StreamMetrics counts events flowing through instrumented chains.
type StreamMetrics struct {
	values      metric.Int64Counter
	errors      metric.Int64Counter
	completions metric.Int64Counter
	watchers    metric.Int64UpDownCounter
}

// NewStreamMetrics creates the rx.* instruments on meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	values, err := meter.Int64Counter("rx.values",
		metric.WithDescription("Values delivered through instrumented streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.values counter: %w", err)
	}
	errs, err := meter.Int64Counter("rx.errors",
		metric.WithDescription("Errors delivered through instrumented streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.errors counter: %w", err)
	}
	completions, err := meter.Int64Counter("rx.completions",
		metric.WithDescription("Completed instrumented streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.completions counter: %w", err)
	}
	watchers, err := meter.Int64UpDownCounter("rx.watchers",
		metric.WithDescription("Currently subscribed watchers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rx.watchers counter: %w", err)
	}
	return &StreamMetrics{values: values, errors: errs, completions: completions, watchers: watchers}, nil
}

// WatcherAdded increments the watcher gauge for stream.
func (m *StreamMetrics) WatcherAdded(ctx context.Context, stream string) {
	m.watchers.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStream, stream)))
}

// WatcherRemoved decrements the watcher gauge for stream.
func (m *StreamMetrics) WatcherRemoved(ctx context.Context, stream string) {
	m.watchers.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrStream, stream)))
}

// Instrument appends a Tap stage that counts every event on op. Replayed
// and live events are told apart by the rx.broadcast attribute. A nil
// metrics returns op unchanged.
func Instrument[V any](op *rx.Operator[V], m *StreamMetrics, stream string) *rx.Operator[V] {
	if m == nil {
		return op
	}
	ctx := context.Background()
	attrs := func(broadcast bool) metric.AddOption {
		return metric.WithAttributes(
			attribute.String(AttrStream, stream),
			attribute.Bool(AttrBroadcast, broadcast),
		)
	}
	return op.Tap(rx.Hooks[V]{
		Value:    func(_ V, broadcast bool) { m.values.Add(ctx, 1, attrs(broadcast)) },
		Error:    func(_ error, broadcast bool) { m.errors.Add(ctx, 1, attrs(broadcast)) },
		Complete: func(broadcast bool) { m.completions.Add(ctx, 1, attrs(broadcast)) },
	})
}

// TraceStep wraps a mapper for Sequent, Parallel, FlatMap or Queue steps.
// Each call starts a span named name that ends when the inner source
// completes; inner errors are recorded on it. The returned source replays
// every event of the inner one, so nothing is lost if it finishes
// synchronously.
func TraceStep[V, T any](name string, f func(V) rx.Observable[T]) func(V) rx.Observable[T] {
	return func(v V) rx.Observable[T] {
		_, span := StartSpan(context.Background(), name)
		out := rx.NewBuffer[T]()
		values := 0
		f(v).Pipe().
			OnReceive(func(t T) {
				values++
				out.Send(t)
			}).
			OnError(func(err error) {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				out.SendError(err)
			}).
			OnComplete(func() {
				span.SetAttributes(attribute.String(AttrStep, name), attribute.Int("rx.values", values))
				span.End()
				out.SendComplete()
			}).
			Subscribe()
		return out
	}
}
