package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskmanager/internal/domain"
	jwtsvc "taskmanager/internal/pkg/jwt"
	"taskmanager/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) SetTokensValidFrom(ctx context.Context, userID int64, t time.Time) error {
	args := m.Called(ctx, userID, t)
	return args.Error(0)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Revoke(ctx context.Context, jti string, tokenType domain.TokenType, userID int64, expiresAt time.Time) error {
	args := m.Called(ctx, jti, tokenType, userID, expiresAt)
	return args.Error(0)
}

type mockResetRepo struct {
	mock.Mock
}

func (m *mockResetRepo) Create(ctx context.Context, userID int64, ttl time.Duration) (*domain.PasswordResetToken, error) {
	args := m.Called(ctx, userID, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordResetToken), args.Error(1)
}

func (m *mockResetRepo) GetValid(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordResetToken), args.Error(1)
}

func (m *mockResetRepo) Consume(ctx context.Context, tokenID int64, userID int64, newPasswordHash string) error {
	args := m.Called(ctx, tokenID, userID, newPasswordHash)
	return args.Error(0)
}

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateAccessToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) GenerateRefreshToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, email, username, token string) error {
	args := m.Called(ctx, email, username, token)
	return args.Error(0)
}

func (m *mockMailer) SendPasswordResetConfirmation(ctx context.Context, email, username string) error {
	args := m.Called(ctx, email, username)
	return args.Error(0)
}

type serviceMocks struct {
	users  *mockUserRepo
	ledger *mockLedger
	resets *mockResetRepo
	jwt    *mockJWTService
	mailer *mockMailer
}

func newTestService(t *testing.T) (*Service, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		users:  new(mockUserRepo),
		ledger: new(mockLedger),
		resets: new(mockResetRepo),
		jwt:    new(mockJWTService),
		mailer: new(mockMailer),
	}
	svc := NewService(m.users, m.ledger, m.resets, m.jwt, m.mailer, 24*time.Hour, slog.Default())
	return svc, m
}

func TestService_Register_Success(t *testing.T) {
	svc, m := newTestService(t)

	m.users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	m.users.On("ExistsByUsername", mock.Anything, "alice").Return(false, nil)
	m.users.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.jwt.On("GenerateAccessToken", mock.Anything, "user").Return("access", nil)
	m.jwt.On("GenerateRefreshToken", mock.Anything, "user").Return("refresh", nil)

	// Mixed-case email and padded username must be normalized before the
	// uniqueness checks run, not only when the row is built.
	user, tokens, err := svc.Register(context.Background(), RegisterRequest{
		Username: "  alice ",
		Email:    "Alice@Example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "refresh", tokens.RefreshToken)
	m.users.AssertExpectations(t)
}

func TestService_Register_EmailTaken(t *testing.T) {
	svc, m := newTestService(t)

	m.users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
	m.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_UsernameTaken(t *testing.T) {
	svc, m := newTestService(t)

	m.users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	m.users.On("ExistsByUsername", mock.Anything, "alice").Return(true, nil)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestService_Login_Success(t *testing.T) {
	svc, m := newTestService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	m.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}, nil)
	m.jwt.On("GenerateAccessToken", int64(1), "user").Return("access", nil)
	m.jwt.On("GenerateRefreshToken", int64(1), "user").Return("refresh", nil)

	user, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "access", tokens.AccessToken)
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc, m := newTestService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	m.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID:           1,
		PasswordHash: string(hash),
	}, nil)

	_, _, err = svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc, m := newTestService(t)

	m.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Logout_RevokesPresentedToken(t *testing.T) {
	svc, m := newTestService(t)

	expires := time.Now().Add(time.Hour)
	claims := &jwtsvc.Claims{
		Role:      "user",
		TokenType: domain.TokenTypeAccess,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "42",
			ID:        "jti-1",
			ExpiresAt: jwtlib.NewNumericDate(expires),
		},
	}

	m.ledger.On("Revoke", mock.Anything, "jti-1", domain.TokenTypeAccess, int64(42), mock.Anything).Return(nil)

	err := svc.Logout(context.Background(), claims)

	require.NoError(t, err)
	m.ledger.AssertExpectations(t)
}

func TestService_LogoutAll_MovesCutoff(t *testing.T) {
	svc, m := newTestService(t)

	claims := &jwtsvc.Claims{
		Role:      "user",
		TokenType: domain.TokenTypeAccess,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "42",
			ID:        "jti-1",
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	m.ledger.On("Revoke", mock.Anything, "jti-1", domain.TokenTypeAccess, int64(42), mock.Anything).Return(nil)
	m.users.On("SetTokensValidFrom", mock.Anything, int64(42), mock.Anything).Return(nil)

	err := svc.LogoutAll(context.Background(), claims)

	require.NoError(t, err)
	m.users.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
}

func TestService_RequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	svc, m := newTestService(t)

	m.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	user, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")

	require.NoError(t, err)
	assert.Nil(t, user)
	m.resets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	m.mailer.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_RequestPasswordReset_KnownEmailSendsMail(t *testing.T) {
	svc, m := newTestService(t)

	m.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
	}, nil)
	m.resets.On("Create", mock.Anything, int64(1), 24*time.Hour).Return(&domain.PasswordResetToken{
		ID:     7,
		UserID: 1,
		Token:  "raw-token",
	}, nil)
	m.mailer.On("SendPasswordReset", mock.Anything, "alice@example.com", "alice", "raw-token").Return(nil)

	user, err := svc.RequestPasswordReset(context.Background(), "alice@example.com")

	require.NoError(t, err)
	require.NotNil(t, user)
	m.mailer.AssertExpectations(t)
}

func TestService_ResetPassword_Success(t *testing.T) {
	svc, m := newTestService(t)

	m.resets.On("GetValid", mock.Anything, "raw-token").Return(&domain.PasswordResetToken{
		ID:     7,
		UserID: 1,
	}, nil)
	m.users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
	}, nil)
	m.resets.On("Consume", mock.Anything, int64(7), int64(1), mock.Anything).Return(nil)
	m.mailer.On("SendPasswordResetConfirmation", mock.Anything, "alice@example.com", "alice").Return(nil)

	user, err := svc.ResetPassword(context.Background(), "raw-token", "new-password-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	m.resets.AssertExpectations(t)
}

func TestService_ResetPassword_InvalidToken(t *testing.T) {
	svc, m := newTestService(t)

	m.resets.On("GetValid", mock.Anything, "bad-token").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ResetPassword(context.Background(), "bad-token", "new-password-1")

	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestService_ResetPassword_AlreadySpent(t *testing.T) {
	svc, m := newTestService(t)

	m.resets.On("GetValid", mock.Anything, "raw-token").Return(&domain.PasswordResetToken{
		ID:     7,
		UserID: 1,
	}, nil)
	m.users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)
	m.resets.On("Consume", mock.Anything, int64(7), int64(1), mock.Anything).Return(repository.ErrResetTokenSpent)

	_, err := svc.ResetPassword(context.Background(), "raw-token", "new-password-1")

	assert.ErrorIs(t, err, ErrInvalidResetToken)
	m.mailer.AssertNotCalled(t, "SendPasswordResetConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateProfile_ConflictOnEmail(t *testing.T) {
	svc, m := newTestService(t)

	m.users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
	}, nil)
	m.users.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(true, nil)

	newEmail := "bob@example.com"
	_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileRequest{Email: &newEmail})

	assert.ErrorIs(t, err, ErrEmailExists)
	m.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateProfile_ConflictOnPaddedUsername(t *testing.T) {
	svc, m := newTestService(t)

	m.users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
	}, nil)
	// The uniqueness check must see the trimmed value, otherwise the
	// padded duplicate only fails later on the DB unique index.
	m.users.On("ExistsByUsername", mock.Anything, "bob").Return(true, nil)

	newUsername := " bob "
	_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileRequest{Username: &newUsername})

	assert.ErrorIs(t, err, ErrUsernameExists)
	m.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
