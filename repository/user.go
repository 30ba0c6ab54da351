package repository

import (
	"context"

	"github.com/boardsync/backend/domain"
)

// UserDirectory is the external identity directory the board core reads
// from. List must return users in a stable registration order; smart
// assignment tie-breaking depends on it.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
