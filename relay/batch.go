package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/rx"
)

// MaxBatchSize bounds the items of one PublishBatch call.
const MaxBatchSize = 100

// SpanPublish names the span of each batch item.
const SpanPublish = "relay.publish"

// BatchItem is one entry of a batch publish.
type BatchItem struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// BatchResult reports the outcome of one BatchItem. Error is nil when the
// item was published.
type BatchResult struct {
	Name  string            `json:"name"`
	Error *errors.ErrorBody `json:"error,omitempty"`
}

// PublishBatch publishes items in order, each in its own span. A failed
// item does not stop the rest; its error is reported in its result. The
// batch runs as one loop task, so watchers never see a partial batch
// interleaved with other publishes.
func (h *Hub) PublishBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	if len(items) == 0 {
		return nil, errors.InvalidInput("items", "must not be empty")
	}
	if len(items) > MaxBatchSize {
		return nil, errors.New(errors.ErrCodeLimitExceeded,
			fmt.Sprintf("batch exceeds %d items", MaxBatchSize), http.StatusRequestEntityTooLarge)
	}

	step := observability.TraceStep(SpanPublish, func(it BatchItem) rx.Observable[BatchResult] {
		res := BatchResult{Name: it.Name}
		err := checkPublish(it.Name, it.Payload)
		if err == nil {
			err = h.publish(it.Name, json.RawMessage(slices.Clone(it.Payload)))
		}
		if err != nil {
			res.Error = errorBody(err)
		}
		return rx.NewJustComplete(res)
	})

	var results []BatchResult
	err := h.do(ctx, func() error {
		rx.Sequent(rx.NewFrom(items).Pipe(), step).
			OnReceive(func(r BatchResult) { results = append(results, r) }).
			Subscribe()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func errorBody(err error) *errors.ErrorBody {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	body := appErr.ToResponse().Error
	return &body
}
