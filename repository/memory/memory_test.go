package memory

import (
	"context"
	"testing"
	"time"

	"github.com/boardsync/backend/domain"
)

func TestUserDirectory_ListPreservesRegistrationOrder(t *testing.T) {
	dir := NewUserDirectory()

	ids := []string{"u3", "u1", "u2"}
	for i, id := range ids {
		user := &domain.User{ID: id, Name: "User " + id, Email: id + "@example.com"}
		if err := dir.Create(context.Background(), user); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	users, err := dir.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for i, id := range ids {
		if users[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, users[i].ID)
		}
	}
}

func TestUserDirectory_EmailUniquenessCaseInsensitive(t *testing.T) {
	dir := NewUserDirectory()

	if err := dir.Create(context.Background(), &domain.User{ID: "u1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err := dir.Create(context.Background(), &domain.User{ID: "u2", Email: " ADA@example.com "})
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected CONFLICT for duplicate email, got %v", err)
	}

	user, err := dir.GetByEmail(context.Background(), "Ada@Example.COM")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("expected u1, got %s", user.ID)
	}
}

func TestUserDirectory_ReturnsCopies(t *testing.T) {
	dir := NewUserDirectory()
	if err := dir.Create(context.Background(), &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	user, err := dir.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	user.Name = "Tampered"

	again, _ := dir.GetByID(context.Background(), "u1")
	if again.Name != "Ada" {
		t.Fatalf("stored user mutated through returned copy")
	}
}

func TestUserDirectory_Unknown(t *testing.T) {
	dir := NewUserDirectory()
	if _, err := dir.GetByID(context.Background(), "missing"); !domain.IsDomainError(err, domain.ErrCodeUnknownUser) {
		t.Fatalf("expected UNKNOWN_USER, got %v", err)
	}
	if _, err := dir.GetByEmail(context.Background(), "missing@example.com"); !domain.IsDomainError(err, domain.ErrCodeUnknownUser) {
		t.Fatalf("expected UNKNOWN_USER, got %v", err)
	}
}

func TestSessionRepository_RoundTripAndDelete(t *testing.T) {
	repo := NewSessionRepository()

	session := &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Save(context.Background(), session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := repo.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.UserID != "u1" {
		t.Fatalf("expected u1, got %s", got.UserID)
	}

	if err := repo.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(context.Background(), "s1"); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED after delete, got %v", err)
	}
}

func TestSessionRepository_ExpiredSessionsVanish(t *testing.T) {
	repo := NewSessionRepository()

	session := &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := repo.Save(context.Background(), session); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := repo.Get(context.Background(), "s1"); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED for expired session, got %v", err)
	}
}
