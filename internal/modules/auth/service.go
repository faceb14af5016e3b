package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskmanager/internal/domain"
	jwtsvc "taskmanager/internal/pkg/jwt"
	"taskmanager/internal/pkg/mail"
	"taskmanager/internal/repository"
)

// Service contains all business logic for authentication and sessions.
type Service struct {
	users    UserRepositoryInterface
	ledger   RevocationLedger
	resets   ResetTokenRepository
	jwt      tokenIssuer
	mailer   mail.Mailer
	resetTTL time.Duration
	log      *slog.Logger
}

func NewService(
	users UserRepositoryInterface,
	ledger RevocationLedger,
	resets ResetTokenRepository,
	jwt tokenIssuer,
	mailer mail.Mailer,
	resetTTL time.Duration,
	log *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		ledger:   ledger,
		resets:   resets,
		jwt:      jwt,
		mailer:   mailer,
		resetTTL: resetTTL,
		log:      log,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, *TokenPair, error) {
	// Normalize before the uniqueness checks so they probe the exact
	// values that get stored.
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	emailTaken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if emailTaken {
		return nil, nil, ErrEmailExists
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if usernameTaken {
		return nil, nil, ErrUsernameExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	role := domain.UserRole(req.Role)
	if !role.Valid() {
		role = domain.RoleUser
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh mints a new access token for a verified refresh token.
func (s *Service) Refresh(_ context.Context, claims *jwtsvc.Claims) (string, error) {
	userID, err := claims.UserID()
	if err != nil {
		return "", err
	}
	return s.jwt.GenerateAccessToken(userID, claims.Role)
}

// Logout records the presented token in the revocation ledger.
func (s *Service) Logout(ctx context.Context, claims *jwtsvc.Claims) error {
	userID, err := claims.UserID()
	if err != nil {
		return err
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.ledger.Revoke(ctx, claims.ID, claims.TokenType, userID, expiresAt)
}

// LogoutAll revokes the current token and moves the user's validity
// cutoff forward, invalidating every token issued before now.
func (s *Service) LogoutAll(ctx context.Context, claims *jwtsvc.Claims) error {
	if err := s.Logout(ctx, claims); err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return err
	}
	return s.users.SetTokensValidFrom(ctx, userID, time.Now().UTC())
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != user.Username {
			taken, err := s.users.ExistsByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUsernameExists
			}
			user.Username = username
		}
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			taken, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailExists
			}
			user.Email = email
		}
	}

	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset creates and mails a one-time token when the email
// matches an account. The caller always answers with the same generic
// message either way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil, nil
		}
		return nil, err
	}

	token, err := s.resets.Create(ctx, user.ID, s.resetTTL)
	if err != nil {
		return nil, err
	}

	if mailErr := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, token.Token); mailErr != nil {
		s.log.Error("password reset email failed", "user_id", user.ID, "error", mailErr)
	}
	return user, nil
}

// VerifyResetToken is a read-only validity probe.
func (s *Service) VerifyResetToken(ctx context.Context, token string) bool {
	_, err := s.resets.GetValid(ctx, token)
	return err == nil
}

// ResetPassword spends the token and swaps the password atomically.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, error) {
	reset, err := s.resets.GetValid(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := s.resets.Consume(ctx, reset.ID, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrResetTokenSpent) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}

	if mailErr := s.mailer.SendPasswordResetConfirmation(ctx, user.Email, user.Username); mailErr != nil {
		s.log.Error("password reset confirmation email failed", "user_id", user.ID, "error", mailErr)
	}
	return user, nil
}

func (s *Service) issueTokens(user *domain.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
