package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/boardsync/backend/internal/hub"
	"github.com/boardsync/backend/internal/middleware"
	"github.com/boardsync/backend/pkg/httpcontext"
)

type EventsHandler struct {
	baseHandler
	hub       *hub.Hub
	heartbeat time.Duration
}

func NewEventsHandler(h *hub.Hub, adapter *httpcontext.Adapter, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		hub:         h,
		heartbeat:   25 * time.Second,
	}
}

// @Summary Subscribe to board events
// @Tags events
// @Router /api/v1/events [get]
//
// Streams taskCreated/taskUpdated/taskDeleted/activityAdded as server-sent
// events. The token may come from the Authorization header or, because
// EventSource cannot set headers, the token query parameter.
func (h *EventsHandler) Stream(ctx *fasthttp.RequestCtx) {
	token := string(ctx.QueryArgs().Peek("token"))
	if token == "" {
		token = middleware.ExtractToken(ctx)
	}

	bindCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	sub, err := h.hub.Bind(bindCtx, token)
	cancel()
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")

	// The server arms its write deadline once per response, which would
	// sever a long-lived stream. Push the deadline ahead of each frame
	// instead; a stalled client still times out one heartbeat later.
	conn := ctx.Conn()

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unbind(sub)

		heartbeat := time.NewTicker(h.heartbeat)
		defer heartbeat.Stop()

		for {
			_ = conn.SetWriteDeadline(nextStreamDeadline(time.Now(), h.heartbeat))
			select {
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := writeEvent(w, event); err != nil {
					return
				}
			case <-heartbeat.C:
				// comment frame keeps intermediaries from closing idle streams
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}

// nextStreamDeadline leaves room for a full heartbeat interval plus slack
// for the write itself, so an idle but healthy stream is never cut between
// heartbeats.
func nextStreamDeadline(now time.Time, heartbeat time.Duration) time.Time {
	return now.Add(heartbeat + 5*time.Second)
}

func writeEvent(w *bufio.Writer, event hub.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, payload); err != nil {
		return err
	}
	return w.Flush()
}
