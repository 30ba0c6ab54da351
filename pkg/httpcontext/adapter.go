package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// RequestIDKey is the fasthttp user value under which the request id is
// stamped. Handlers read it when logging failures.
const RequestIDKey = "request_id"

// Adapter bounds fasthttp requests with a stdlib context. The request ctx is
// the parent, so an aborted connection cancels downstream work instead of
// letting it run to the timeout.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs an Adapter with the per-request timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach derives a deadline context from the request and tags the request
// with an id, honoring one the client already carries. The id is echoed in
// the response for correlation.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	reqID := requestID(ctx)
	ctx.SetUserValue(RequestIDKey, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	return context.WithTimeout(ctx, a.timeout)
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
		return header
	}
	return uuid.NewString()
}
