package httpcontext

import (
	"testing"
	"time"

	"github.com/valyala/fasthttp"
)

func TestAttach_GeneratesAndEchoesRequestID(t *testing.T) {
	adapter := NewAdapter(time.Second)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&fasthttp.Request{}, nil, nil)

	stdCtx, cancel := adapter.Attach(ctx)
	defer cancel()

	reqID, _ := ctx.UserValue(RequestIDKey).(string)
	if reqID == "" {
		t.Fatalf("expected generated request id")
	}
	if echoed := string(ctx.Response.Header.Peek("X-Request-ID")); echoed != reqID {
		t.Fatalf("expected %q echoed in response, got %q", reqID, echoed)
	}

	deadline, ok := stdCtx.Deadline()
	if !ok {
		t.Fatalf("expected a deadline")
	}
	if until := time.Until(deadline); until > time.Second {
		t.Fatalf("deadline %v exceeds the configured timeout", until)
	}
}

func TestAttach_HonorsClientRequestID(t *testing.T) {
	adapter := NewAdapter(time.Second)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&fasthttp.Request{}, nil, nil)
	ctx.Request.Header.Set("X-Request-ID", "client-supplied")

	_, cancel := adapter.Attach(ctx)
	defer cancel()

	if reqID, _ := ctx.UserValue(RequestIDKey).(string); reqID != "client-supplied" {
		t.Fatalf("expected client id kept, got %q", reqID)
	}
}

func TestNewAdapter_DefaultTimeout(t *testing.T) {
	adapter := NewAdapter(0)
	if adapter.timeout != 5*time.Second {
		t.Fatalf("expected 5s default, got %v", adapter.timeout)
	}
}
