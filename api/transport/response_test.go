package transport

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewError_NestsCodeMessageDetails(t *testing.T) {
	env := NewError("CONFLICT", "task was modified by another user", map[string]string{"field": "title"})

	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := string(body)
	for _, want := range []string{`"status":"error"`, `"code":"CONFLICT"`, `"message":"task was modified by another user"`, `"details":{"field":"title"}`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}
	if strings.Contains(got, `"data"`) {
		t.Fatalf("error envelope must not carry data, got %s", got)
	}
}

func TestNewList_CarriesCount(t *testing.T) {
	env := NewList([]string{"a", "b"}, 2)

	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := string(body)
	if !strings.Contains(got, `"meta":{"count":2}`) {
		t.Fatalf("expected count meta, got %s", got)
	}
	if !strings.Contains(got, `"status":"success"`) || strings.Contains(got, `"error"`) {
		t.Fatalf("unexpected envelope shape: %s", got)
	}
}
