package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/gameflow/api/internal/model"
	"github.com/gameflow/api/pkg/jwt"
)

// mockUserRepo implements UserRepository with function fields
type mockUserRepo struct {
	createFunc         func(ctx context.Context, user *model.User) error
	getByIDFunc        func(ctx context.Context, id string) (*model.User, error)
	getByEmailFunc     func(ctx context.Context, email string) (*model.User, error)
	updatePasswordFunc func(ctx context.Context, userID, hash string) error
	touchLoginFunc     func(ctx context.Context, userID string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "user:new"
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, userID, hash)
	}
	return nil
}

func (m *mockUserRepo) TouchLogin(ctx context.Context, userID string) error {
	if m.touchLoginFunc != nil {
		return m.touchLoginFunc(ctx, userID)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return nil
}

// memoryTokenRepo is an in-memory TokenRepository for rotation tests
type memoryTokenRepo struct {
	tokens map[string]*RefreshToken
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (m *memoryTokenRepo) CreateRefreshToken(ctx context.Context, token *RefreshToken) error {
	token.ID = "refresh_token:" + token.TokenHash[:8]
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *memoryTokenRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	return m.tokens[hash], nil
}

func (m *memoryTokenRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	if t, ok := m.tokens[hash]; ok {
		t.Revoked = true
	}
	return nil
}

func (m *memoryTokenRepo) RevokeAllUserTokens(ctx context.Context, userID string) error {
	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (m *memoryTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	return nil
}

func newTestTokenService(t *testing.T, repo TokenRepository) *TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return NewTokenService(TokenServiceConfig{
		JWTService: jwt.NewTestService(key, "api.gameflow.dev", 15*time.Minute),
		TokenRepo:  repo,
	})
}

func newTestAuthService(t *testing.T, userRepo UserRepository, tokenRepo TokenRepository) *AuthService {
	t.Helper()
	return NewAuthService(AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: newTestTokenService(t, tokenRepo),
	})
}

// ============================================================================
// Register
// ============================================================================

func TestRegister_CreatesUserAndTokens(t *testing.T) {
	userRepo := &mockUserRepo{}
	svc := newTestAuthService(t, userRepo, newMemoryTokenRepo())

	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if result.User.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %s", result.User.Email)
	}
	if result.User.Hash == nil || *result.User.Hash == "correct-horse" {
		t.Error("expected password to be hashed")
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Error("expected token pair")
	}
}

func TestRegister_DuplicateEmail_Rejected(t *testing.T) {
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user:existing", Email: email}, nil
		},
	}
	svc := newTestAuthService(t, userRepo, newMemoryTokenRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "alice@example.com", Password: "correct-horse"})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegister_ValidatesInput(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepo{}, newMemoryTokenRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "correct-horse"}); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.com", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.com", Password: ""}); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

// ============================================================================
// Login
// ============================================================================

func registeredUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &model.User{ID: "user:alice", Email: "alice@example.com", Hash: &hash}
}

func TestLogin_CorrectPassword_IssuesTokens(t *testing.T) {
	user := registeredUser(t, "correct-horse")
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(t, userRepo, newMemoryTokenRepo())

	result, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.TokenPair.AccessToken == "" {
		t.Error("expected access token")
	}

	claims, err := svc.ValidateAccessToken(result.TokenPair.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims.UserID != "user:alice" {
		t.Errorf("expected user:alice in claims, got %s", claims.UserID)
	}
}

func TestLogin_WrongPassword_Rejected(t *testing.T) {
	user := registeredUser(t, "correct-horse")
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(t, userRepo, newMemoryTokenRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail_SameErrorAsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepo{}, newMemoryTokenRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ============================================================================
// Refresh rotation
// ============================================================================

func TestRefreshTokens_RotatesSingleUse(t *testing.T) {
	user := registeredUser(t, "correct-horse")
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) { return user, nil },
		getByIDFunc:    func(ctx context.Context, id string) (*model.User, error) { return user, nil },
	}
	svc := newTestAuthService(t, userRepo, newMemoryTokenRepo())
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	refreshed, err := svc.RefreshTokens(ctx, login.TokenPair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshTokens returned error: %v", err)
	}
	if refreshed.RefreshToken == login.TokenPair.RefreshToken {
		t.Error("expected a new refresh token after rotation")
	}

	// The spent token no longer works
	_, err = svc.RefreshTokens(ctx, login.TokenPair.RefreshToken)
	if !errors.Is(err, ErrRefreshTokenRevoked) {
		t.Errorf("expected ErrRefreshTokenRevoked on reuse, got %v", err)
	}
}

func TestRefreshTokens_ReuseRevokesWholeFamily(t *testing.T) {
	user := registeredUser(t, "correct-horse")
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) { return user, nil },
		getByIDFunc:    func(ctx context.Context, id string) (*model.User, error) { return user, nil },
	}
	svc := newTestAuthService(t, userRepo, newMemoryTokenRepo())
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	refreshed, err := svc.RefreshTokens(ctx, login.TokenPair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshTokens returned error: %v", err)
	}

	// Replaying the old token burns every live token for the user
	_, _ = svc.RefreshTokens(ctx, login.TokenPair.RefreshToken)

	_, err = svc.RefreshTokens(ctx, refreshed.RefreshToken)
	if !errors.Is(err, ErrRefreshTokenRevoked) {
		t.Errorf("expected the rotated token to be revoked too, got %v", err)
	}
}

func TestRefreshTokens_UnknownToken_Rejected(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepo{}, newMemoryTokenRepo())

	_, err := svc.RefreshTokens(context.Background(), "never-issued")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

// ============================================================================
// ChangePassword
// ============================================================================

func TestChangePassword_RevokesAllTokens(t *testing.T) {
	user := registeredUser(t, "correct-horse")
	var newHash string
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) { return user, nil },
		getByIDFunc:    func(ctx context.Context, id string) (*model.User, error) { return user, nil },
		updatePasswordFunc: func(ctx context.Context, userID, hash string) error {
			newHash = hash
			return nil
		},
	}
	tokenRepo := newMemoryTokenRepo()
	svc := newTestAuthService(t, userRepo, tokenRepo)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := svc.ChangePassword(ctx, "user:alice", "correct-horse", "battery-staple"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if !checkPassword("battery-staple", newHash) {
		t.Error("expected new hash to match new password")
	}

	_, err = svc.RefreshTokens(ctx, login.TokenPair.RefreshToken)
	if !errors.Is(err, ErrRefreshTokenRevoked) {
		t.Errorf("expected refresh tokens revoked after password change, got %v", err)
	}
}

func TestChangePassword_WrongOldPassword_Rejected(t *testing.T) {
	user := registeredUser(t, "correct-horse")
	userRepo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) { return user, nil },
	}
	svc := newTestAuthService(t, userRepo, newMemoryTokenRepo())

	err := svc.ChangePassword(context.Background(), "user:alice", "wrong", "battery-staple")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
