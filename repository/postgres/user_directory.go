package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boardsync/backend/domain"
	"github.com/boardsync/backend/repository"
)

type userDirectory struct {
	pool *pgxpool.Pool
}

// NewUserDirectory returns a Postgres-backed implementation of UserDirectory.
// The position column keeps List in registration order across restarts.
func NewUserDirectory(pool *pgxpool.Pool) repository.UserDirectory {
	return &userDirectory{pool: pool}
}

func (d *userDirectory) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
	SELECT id, name, email, password_hash, created_at
	FROM users
	WHERE id = $1
	`
	return scanUser(d.pool.QueryRow(ctx, query, id))
}

func (d *userDirectory) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT id, name, email, password_hash, created_at
	FROM users
	WHERE lower(email) = lower($1)
	`
	return scanUser(d.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
}

func (d *userDirectory) List(ctx context.Context) ([]domain.User, error) {
	const query = `
	SELECT id, name, email, password_hash, created_at
	FROM users
	ORDER BY position
	`
	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (d *userDirectory) Create(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, name, email, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	err := d.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		strings.TrimSpace(user.Email),
		user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
