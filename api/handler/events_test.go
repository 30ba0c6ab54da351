package handler

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/boardsync/backend/internal/hub"
)

func TestNextStreamDeadline_OutlivesHeartbeat(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	heartbeat := 25 * time.Second

	deadline := nextStreamDeadline(now, heartbeat)
	if !deadline.After(now.Add(heartbeat)) {
		t.Fatalf("deadline %v must leave room for a full heartbeat interval", deadline.Sub(now))
	}
}

func TestWriteEvent_Framing(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	event := hub.Event{Name: "taskDeleted", Payload: map[string]string{"id": "t1"}}
	if err := writeEvent(w, event); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "event: taskDeleted\ndata: {\"id\":\"t1\"}\n\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestWriteEvent_UnmarshalablePayloadSkipsFrame(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	event := hub.Event{Name: "taskUpdated", Payload: make(chan int)}
	if err := writeEvent(w, event); err != nil {
		t.Fatalf("expected skipped frame, got error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for unserializable payload, got %q", buf.String())
	}
}
