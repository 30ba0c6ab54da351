package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/boardsync/backend/domain"
	"github.com/boardsync/backend/repository"
)

const bcryptCost = 12

// Config carries token issuance settings.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// UseCase owns registration, login, and identity-token resolution. A token
// resolves only while its backing session exists.
type UseCase struct {
	directory repository.UserDirectory
	sessions  repository.SessionRepository
	secret    []byte
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func New(directory repository.UserDirectory, sessions repository.SessionRepository, cfg Config, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &UseCase{
		directory: directory,
		sessions:  sessions,
		secret:    []byte(cfg.Secret),
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a user and returns it with a fresh identity token.
func (uc *UseCase) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, "", domain.NewError(domain.ErrCodeValidation, "name, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeInternal, "password hashing failed", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    uc.now(),
	}
	if err := uc.directory.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := uc.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", domain.NewError(domain.ErrCodeValidation, "email and password are required")
	}

	user, err := uc.directory.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeUnknownUser) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := uc.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Resolve maps an identity token to a user id. It is the resolver both the
// HTTP middleware and the broadcast hub bind through.
func (uc *UseCase) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return uc.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	userID, _ := claims["user_id"].(string)
	sessionID, _ := claims["session_id"].(string)
	if userID == "" || sessionID == "" {
		return "", domain.ErrUnauthorized
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil || session.UserID != userID {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}

// Logout revokes the session behind the token. An already-invalid token is
// not an error.
func (uc *UseCase) Logout(ctx context.Context, token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return uc.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	if sessionID, _ := claims["session_id"].(string); sessionID != "" {
		return uc.sessions.Delete(ctx, sessionID)
	}
	return nil
}

func (uc *UseCase) issueToken(ctx context.Context, userID string) (string, error) {
	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"session_id": session.ID,
		"exp":        session.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(uc.secret)
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "token signing failed", err)
	}
	return signed, nil
}

// SeedDemoUsers registers a fixed demo roster when the directory is empty.
// Useful for local development; guarded by configuration.
func (uc *UseCase) SeedDemoUsers(ctx context.Context) error {
	existing, err := uc.directory.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	demo := []struct{ name, email string }{
		{"John Doe", "john@example.com"},
		{"Jane Smith", "jane@example.com"},
		{"Bob Johnson", "bob@example.com"},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcryptCost)
	if err != nil {
		return err
	}
	for _, d := range demo {
		user := &domain.User{
			ID:           uuid.NewString(),
			Name:         d.name,
			Email:        d.email,
			PasswordHash: string(hash),
			CreatedAt:    uc.now(),
		}
		if err := uc.directory.Create(ctx, user); err != nil {
			return err
		}
	}
	uc.logger.Info("demo users seeded", zap.Int("count", len(demo)))
	return nil
}
