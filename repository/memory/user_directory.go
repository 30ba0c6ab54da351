package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/boardsync/backend/domain"
	"github.com/boardsync/backend/repository"
)

type userDirectory struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	order   []string
}

// NewUserDirectory creates the in-memory user directory. Users are listed in
// registration order.
func NewUserDirectory() repository.UserDirectory {
	return &userDirectory{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (d *userDirectory) GetByID(_ context.Context, id string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (d *userDirectory) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (d *userDirectory) List(_ context.Context) ([]domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	users := make([]domain.User, 0, len(d.order))
	for _, id := range d.order {
		users = append(users, *d.byID[id])
	}
	return users, nil
}

func (d *userDirectory) Create(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, exists := d.byEmail[email]; exists {
		return domain.ErrEmailTaken
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	copied := *user
	d.byID[copied.ID] = &copied
	d.byEmail[email] = &copied
	d.order = append(d.order, copied.ID)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
