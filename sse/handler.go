package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kbukum/rxkit/logger"
)

// DefaultKeepAlive is the interval between keep-alive comments. It stays
// under common proxy idle timeouts.
const DefaultKeepAlive = 30 * time.Second

// ServeOptions tune Serve.
type ServeOptions struct {
	// KeepAlive is the comment interval; 0 means DefaultKeepAlive.
	KeepAlive time.Duration
}

type connectedEvent struct {
	ClientID string `json:"client_id"`
}

// Serve streams client's events to w until the request context ends or
// the client is closed. After Close, events already queued are still
// written, followed by the CloseWith event if there is one. The caller
// owns registration: subscribe before calling Serve and unsubscribe after
// it returns.
func Serve(w http.ResponseWriter, r *http.Request, client *Client, opts ...ServeOptions) {
	log := logger.GetGlobalLogger().WithContext(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("sse streaming not supported", logger.Fields(logger.FieldWatcher, client.ID()))
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	keepAlive := DefaultKeepAlive
	if len(opts) > 0 && opts[0].KeepAlive > 0 {
		keepAlive = opts[0].KeepAlive
	}

	// Event streams outlive the server's WriteTimeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("sse write deadline not cleared", logger.ErrorFields("sse.serve", err))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	connected, _ := json.Marshal(connectedEvent{ClientID: client.ID()})
	_ = WriteEvent(w, Event{Name: EventTypeConnected, Data: connected})
	flusher.Flush()

	log.Debug("sse client connected", logger.Fields(logger.FieldWatcher, client.ID(), "remote_addr", r.RemoteAddr))

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("sse client disconnected", logger.Fields(logger.FieldWatcher, client.ID()))
			return
		case ev := <-client.Events():
			if err := WriteEvent(w, ev); err != nil {
				log.Debug("sse write failed", logger.ErrorFields("sse.write", err))
				return
			}
			flusher.Flush()
		case <-client.Done():
			if drain(w, client) {
				if ev, ok := client.finalEvent(); ok {
					_ = WriteEvent(w, ev)
				}
			}
			flusher.Flush()
			return
		case <-ticker.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

// drain writes the queued events and reports whether every write succeeded.
func drain(w io.Writer, client *Client) bool {
	for {
		select {
		case ev := <-client.Events():
			if WriteEvent(w, ev) != nil {
				return false
			}
		default:
			return true
		}
	}
}

// WriteEvent writes ev in text/event-stream framing. Multi-line data is
// split into several data fields.
func WriteEvent(w io.Writer, ev Event) error {
	var b bytes.Buffer
	if ev.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", ev.ID)
	}
	if ev.Name != "" {
		fmt.Fprintf(&b, "event: %s\n", ev.Name)
	}
	for _, line := range bytes.Split(ev.Data, []byte("\n")) {
		b.WriteString("data: ")
		b.Write(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := w.Write(b.Bytes())
	return err
}
