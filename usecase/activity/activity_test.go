package activity

import (
	"fmt"
	"sync"
	"testing"

	"github.com/boardsync/backend/domain"
)

type captureSink struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (s *captureSink) Archive(entry domain.ActivityEntry) {
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
}

func TestRecord_ReturnsCompleteEntry(t *testing.T) {
	log := New(20, nil, nil)

	actor := domain.UserRef{ID: "u1", Name: "User One"}
	view := &domain.TaskView{ID: "t1", Title: "A task"}
	entry := log.Record("created task \"A task\"", actor, "t1", view)

	if entry.ID == "" {
		t.Fatalf("expected assigned entry id")
	}
	if entry.Actor.ID != "u1" || entry.TaskID != "t1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Timestamp.IsZero() {
		t.Fatalf("expected stamped timestamp")
	}
	if entry.Task == nil || entry.Task.Title != "A task" {
		t.Fatalf("expected task snapshot on entry")
	}
}

func TestRecord_EvictsPastCapacity(t *testing.T) {
	log := New(20, nil, nil)

	for i := 0; i < 25; i++ {
		log.Record(fmt.Sprintf("action %d", i), domain.UserRef{ID: "u1"}, "t1", nil)
	}

	recent := log.Recent(0)
	if len(recent) != 20 {
		t.Fatalf("expected exactly 20 entries, got %d", len(recent))
	}
	// newest first: actions 24 down to 5
	if recent[0].Action != "action 24" {
		t.Fatalf("expected newest entry first, got %q", recent[0].Action)
	}
	if recent[19].Action != "action 5" {
		t.Fatalf("expected oldest surviving entry last, got %q", recent[19].Action)
	}
}

func TestRecent_ClampsLimit(t *testing.T) {
	log := New(5, nil, nil)
	for i := 0; i < 5; i++ {
		log.Record(fmt.Sprintf("action %d", i), domain.UserRef{ID: "u1"}, "t1", nil)
	}

	if got := len(log.Recent(3)); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
	if got := len(log.Recent(0)); got != 5 {
		t.Fatalf("zero limit must clamp to capacity, got %d", got)
	}
	if got := len(log.Recent(100)); got != 5 {
		t.Fatalf("oversized limit must clamp to capacity, got %d", got)
	}
	if got := len(log.Recent(-1)); got != 5 {
		t.Fatalf("negative limit must clamp to capacity, got %d", got)
	}
}

func TestRecent_ReturnsCopy(t *testing.T) {
	log := New(5, nil, nil)
	log.Record("original", domain.UserRef{ID: "u1"}, "t1", nil)

	recent := log.Recent(0)
	recent[0].Action = "tampered"

	if log.Recent(0)[0].Action != "original" {
		t.Fatalf("Recent must return a copy of the entries")
	}
}

func TestRecord_ForwardsToSink(t *testing.T) {
	sink := &captureSink{}
	log := New(3, sink, nil)

	// more than capacity: the sink still sees every entry
	for i := 0; i < 6; i++ {
		log.Record(fmt.Sprintf("action %d", i), domain.UserRef{ID: "u1"}, "t1", nil)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.entries) != 6 {
		t.Fatalf("expected sink to receive all 6 entries, got %d", len(sink.entries))
	}
	if len(log.Recent(0)) != 3 {
		t.Fatalf("expected live window of 3 entries")
	}
}
