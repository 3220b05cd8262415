package relay

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/rx"
)

func useTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func TestHub_PublishBatch(t *testing.T) {
	exporter := useTestTracer(t)
	hub, _ := newTestHub(t, Config{})
	ctx := context.Background()

	u := make(updates, 16)
	_, err := hub.Watch(ctx, "a", u.push)
	require.NoError(t, err)

	results, err := hub.PublishBatch(ctx, []BatchItem{
		{Name: "a", Payload: []byte(`1`)},
		{Name: "", Payload: []byte(`2`)},
		{Name: "b", Payload: []byte(`3`)},
		{Name: "a", Payload: []byte(`4`)},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, []string{"a", "", "b", "a"}, []string{results[0].Name, results[1].Name, results[2].Name, results[3].Name})
	assert.Nil(t, results[0].Error)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, errors.ErrCodeInvalidInput, results[1].Error.Code)
	assert.Nil(t, results[2].Error)

	assert.Equal(t, `1`, string(u.next(t).Payload))
	assert.Equal(t, `4`, string(u.next(t).Payload))

	got, err := hub.Snapshot(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, `3`, string(got))

	spans := exporter.GetSpans()
	require.Len(t, spans, 4)
	for _, span := range spans {
		assert.Equal(t, SpanPublish, span.Name)
		assert.Equal(t, codes.Unset, span.Status.Code)
	}
}

func TestHub_PublishBatchLimits(t *testing.T) {
	hub, _ := newTestHub(t, Config{})
	ctx := context.Background()

	_, err := hub.PublishBatch(ctx, nil)
	requireCode(t, err, errors.ErrCodeInvalidInput)

	items := make([]BatchItem, MaxBatchSize+1)
	_, err = hub.PublishBatch(ctx, items)
	requireCode(t, err, errors.ErrCodeLimitExceeded)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	idle := NewHub(rx.NewLoop(rx.LoopConfig{}), Config{}, nil)
	_, err = idle.PublishBatch(canceled, []BatchItem{{Name: "a", Payload: []byte(`1`)}})
	requireCode(t, err, errors.ErrCodeCanceled)
}

func TestRoutes_PublishBatch(t *testing.T) {
	ts := newTestAPI(t, Config{})
	base := ts.URL + "/channels"

	resp, body := call(t, http.MethodPost, base, `[{"name":"a","payload":1},{"name":"","payload":2}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"name":"a"}`)
	assert.Contains(t, body, `"code":"INVALID_INPUT"`)

	resp, body = call(t, http.MethodPost, base, `{"name":"a"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, body))

	big := strings.TrimSuffix(strings.Repeat(`{"name":"a","payload":1},`, 4), ",")
	resp, body = call(t, http.MethodPost, base, "["+big+"]")
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "LIMIT_EXCEEDED", errorCode(t, body))
}
