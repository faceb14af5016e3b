package auth

import (
	"context"
	"time"

	"taskmanager/internal/domain"
)

// UserRepositoryInterface — only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	SetTokensValidFrom(ctx context.Context, userID int64, t time.Time) error
}

// RevocationLedger records revoked token identifiers.
type RevocationLedger interface {
	Revoke(ctx context.Context, jti string, tokenType domain.TokenType, userID int64, expiresAt time.Time) error
}

// ResetTokenRepository stores one-time password-reset secrets.
type ResetTokenRepository interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (*domain.PasswordResetToken, error)
	GetValid(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	Consume(ctx context.Context, tokenID int64, userID int64, newPasswordHash string) error
}

type tokenIssuer interface {
	GenerateAccessToken(userID int64, role string) (string, error)
	GenerateRefreshToken(userID int64, role string) (string, error)
}
