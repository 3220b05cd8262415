package relay

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/server"
	"github.com/kbukum/rxkit/sse"
)

// RegisterRoutes mounts the channel API on r:
//
//	PUT    /channels/:name         publish the request body
//	GET    /channels/:name         current value
//	DELETE /channels/:name         complete and remove
//	GET    /channels               list open channels
//	POST   /channels               publish a JSON array of {name, payload}
//	GET    /channels/:name/events  server-sent event stream of changes
func RegisterRoutes(r gin.IRouter, hub *Hub) {
	h := &handler{hub: hub}
	g := r.Group("/channels")
	g.GET("", h.list)
	g.POST("", h.publishBatch)
	g.PUT("/:name", h.publish)
	g.GET("/:name", h.snapshot)
	g.DELETE("/:name", h.close)
	g.GET("/:name/events", h.events)
}

type handler struct {
	hub *Hub
}

func (h *handler) publish(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			server.RespondWithError(c, errors.New(errors.ErrCodeLimitExceeded, "request body too large", http.StatusRequestEntityTooLarge))
			return
		}
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	if err := h.hub.Publish(c.Request.Context(), c.Param("name"), body); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *handler) publishBatch(c *gin.Context) {
	var items []BatchItem
	if err := c.ShouldBindJSON(&items); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			server.RespondWithError(c, errors.New(errors.ErrCodeLimitExceeded, "request body too large", http.StatusRequestEntityTooLarge))
			return
		}
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	results, err := h.hub.PublishBatch(c.Request.Context(), items)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, results)
}

func (h *handler) snapshot(c *gin.Context) {
	value, err := h.hub.Snapshot(c.Request.Context(), c.Param("name"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", value)
}

func (h *handler) close(c *gin.Context) {
	if err := h.hub.Close(c.Request.Context(), c.Param("name")); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *handler) list(c *gin.Context) {
	channels, err := h.hub.Channels(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, channels)
}

func (h *handler) events(c *gin.Context) {
	cfg := h.hub.Config()
	client := sse.NewClient(sse.WithBuffer(cfg.QueueSize))

	// seq is only touched by the watch callback, which runs on the loop.
	seq := 0
	cancel, err := h.hub.Watch(c.Request.Context(), c.Param("name"), func(u Update) {
		if u.Complete {
			client.CloseWith(sse.Event{Name: sse.EventTypeComplete, Data: completeData(u.Channel)})
			return
		}
		seq++
		client.Send(sse.Event{ID: strconv.Itoa(seq), Name: sse.EventTypeMessage, Data: u.Payload})
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	defer cancel()

	sse.Serve(c.Writer, c.Request, client, sse.ServeOptions{KeepAlive: cfg.KeepAlive})
}

func completeData(channel string) []byte {
	data, _ := json.Marshal(map[string]string{"channel": channel})
	return data
}
