package usecase

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"therapist-crm/config"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	items map[uuid.UUID]*entity.User
}

func (r *memUsers) Create(ctx context.Context, user *entity.User) error {
	for _, u := range r.items {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	user.ID = uuid.New()
	cp := *user
	r.items[user.ID] = &cp
	return nil
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	if u, ok := r.items[id]; ok {
		u.Password = hash
	}
	return nil
}

// memTokens is an in-memory allow-list keyed like the redis store.
type memTokens struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemTokens() *memTokens { return &memTokens{keys: map[string]bool{}} }

func (s *memTokens) Store(ctx context.Context, kind, userID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[kind+":"+userID+":"+tokenID] = true
	return nil
}

func (s *memTokens) Exists(ctx context.Context, kind, userID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[kind+":"+userID+":"+tokenID], nil
}

func (s *memTokens) Revoke(ctx context.Context, kind, userID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, kind+":"+userID+":"+tokenID)
	return nil
}

func (s *memTokens) RevokeAll(ctx context.Context, kind, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.keys {
		if strings.HasPrefix(k, kind+":"+userID+":") {
			delete(s.keys, k)
		}
	}
	return nil
}

type authFixture struct {
	users    *memUsers
	profiles *memProfiles
	tokens   *memTokens
	notify   *fakeNotifications
	audit    *fakeAudit
	jwt      *jwt.JWTService
	uc       AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    &memUsers{items: map[uuid.UUID]*entity.User{}},
		profiles: newMemProfiles(),
		tokens:   newMemTokens(),
		notify:   &fakeNotifications{},
		audit:    &fakeAudit{},
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
	f.uc = NewAuthUsecase(testLogger(), f.users, f.profiles, f.jwt, f.tokens, f.notify, f.audit, "https://crm.example")
	return f
}

func TestRegisterCreatesStudentLeadProfile(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, err := f.uc.Register(ctx, &dto.RegisterRequest{Email: " Dana@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, entity.RoleStudentLead, user.Role)
	assert.Equal(t, "dana", user.FullName)
	assert.Contains(t, f.audit.actions(), entity.AuditActionUserRegister)

	_, err = f.uc.Register(ctx, &dto.RegisterRequest{Email: "dana@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLoginIssuesStoredTokens(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.uc.Register(ctx, &dto.RegisterRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.uc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.uc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, PageHome, tokens.RedirectTo)
	assert.Equal(t, int64(60), tokens.ExpiresIn)

	claims, err := f.jwt.Parse(tokens.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	ok, _ := f.tokens.Exists(ctx, tokenKindAccess, claims.UserID.String(), claims.TokenID)
	assert.True(t, ok)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.uc.Register(ctx, &dto.RegisterRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)
	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	next, err := f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	_, err = f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.uc.Register(ctx, &dto.RegisterRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)
	session, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	// Unknown emails are accepted silently.
	require.NoError(t, f.uc.RequestPasswordReset(ctx, &dto.PasswordResetRequest{Email: "ghost@example.com"}))
	assert.Empty(t, f.notify.byType(entity.NotificationPasswordReset))

	require.NoError(t, f.uc.RequestPasswordReset(ctx, &dto.PasswordResetRequest{Email: "dana@example.com"}))
	sent := f.notify.byType(entity.NotificationPasswordReset)
	require.Len(t, sent, 1)

	link, err := url.Parse(sent[0].Data["resetLink"].(string))
	require.NoError(t, err)
	assert.Equal(t, "/reset-password.html", link.Path)
	recovery := link.Query().Get("token")

	require.NoError(t, f.uc.UpdatePassword(ctx, nil, &dto.UpdatePasswordRequest{Password: "newpass1", RecoveryToken: recovery}))
	assert.ErrorIs(t, f.uc.UpdatePassword(ctx, nil, &dto.UpdatePasswordRequest{Password: "again1", RecoveryToken: recovery}), ErrTokenRevoked)

	// Every earlier session is signed out.
	_, err = f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: session.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.uc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "newpass1"})
	assert.NoError(t, err)
}

func TestUpdatePasswordNeedsUserOrToken(t *testing.T) {
	f := newAuthFixture()
	err := f.uc.UpdatePassword(context.Background(), nil, &dto.UpdatePasswordRequest{Password: "newpass1"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesBothTokens(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.uc.Register(ctx, &dto.RegisterRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)
	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	access, err := f.jwt.Parse(tokens.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	refresh, err := f.jwt.Parse(tokens.RefreshToken, jwt.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(ctx, access.UserID, access.TokenID, refresh.TokenID))
	assert.Empty(t, f.tokens.keys)
	assert.Contains(t, f.audit.actions(), entity.AuditActionUserLogout)
}
