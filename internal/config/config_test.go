package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Address() != "0.0.0.0:8080" {
		t.Fatalf("unexpected default address %q", cfg.Address())
	}
	if cfg.Board.ConflictWindow != 5*time.Second {
		t.Fatalf("expected 5s conflict window, got %v", cfg.Board.ConflictWindow)
	}
	if cfg.Board.ActivityCapacity != 20 {
		t.Fatalf("expected activity capacity 20, got %d", cfg.Board.ActivityCapacity)
	}
	if len(cfg.Board.Columns) != 3 || cfg.Board.Columns[2] != "Done" {
		t.Fatalf("unexpected default columns %v", cfg.Board.Columns)
	}
	if cfg.Directory.Backend != BackendMemory || cfg.Sessions.Backend != BackendMemory {
		t.Fatalf("expected memory backends by default")
	}
	if cfg.Database.URL == "" {
		t.Fatalf("expected composed database url")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("BOARD_CONFLICT_WINDOW", "30")
	t.Setenv("BOARD_COLUMNS", "Backlog, Doing ,Shipped")
	t.Setenv("DIRECTORY_BACKEND", BackendPostgres)
	t.Setenv("ARCHIVE_RETENTION", "72h")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x?sslmode=disable")
	t.Setenv("SEED_DEMO_USERS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTP.Port != "9999" {
		t.Fatalf("expected port 9999, got %q", cfg.HTTP.Port)
	}
	// bare integers are read as seconds
	if cfg.Board.ConflictWindow != 30*time.Second {
		t.Fatalf("expected 30s, got %v", cfg.Board.ConflictWindow)
	}
	want := []string{"Backlog", "Doing", "Shipped"}
	if len(cfg.Board.Columns) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Board.Columns)
	}
	for i := range want {
		if cfg.Board.Columns[i] != want[i] {
			t.Fatalf("column %d: expected %q, got %q", i, want[i], cfg.Board.Columns[i])
		}
	}
	if cfg.Directory.Backend != BackendPostgres {
		t.Fatalf("expected postgres backend, got %q", cfg.Directory.Backend)
	}
	if cfg.Archive.Retention != 72*time.Hour {
		t.Fatalf("expected 72h retention, got %v", cfg.Archive.Retention)
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/x?sslmode=disable" {
		t.Fatalf("explicit DATABASE_URL must win, got %q", cfg.Database.URL)
	}
	if !cfg.SeedDemoUsers {
		t.Fatalf("expected demo seeding enabled")
	}
}

func TestGetDuration_Formats(t *testing.T) {
	t.Setenv("TEST_DURATION", "1m30s")
	if got := getDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	t.Setenv("TEST_DURATION", "45")
	if got := getDuration("TEST_DURATION", time.Second); got != 45*time.Second {
		t.Fatalf("expected 45s, got %v", got)
	}
	t.Setenv("TEST_DURATION", "garbage")
	if got := getDuration("TEST_DURATION", 2*time.Second); got != 2*time.Second {
		t.Fatalf("expected fallback, got %v", got)
	}
}
