package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"therapist-crm/internal/converter"
	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"
	"therapist-crm/internal/service"
	"therapist-crm/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const recoveryTokenTTL = 24 * time.Hour

// Token kinds as stored in the allow-list.
const (
	tokenKindAccess   = "access"
	tokenKindRefresh  = "refresh"
	tokenKindRecovery = "recovery"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
)

// TokenStore is the allow-list of issued tokens.
type TokenStore interface {
	Store(ctx context.Context, kind, userID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, kind, userID, tokenID string) (bool, error)
	Revoke(ctx context.Context, kind, userID, tokenID string) error
	RevokeAll(ctx context.Context, kind, userID string) error
}

// RecoveryLinkIssuer builds a one-time password link for an existing account.
type RecoveryLinkIssuer interface {
	IssueRecoveryLink(ctx context.Context, email string) (string, error)
}

type AuthUsecase interface {
	RecoveryLinkIssuer
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	EnsureProfile(ctx context.Context, user *entity.User) (*entity.Profile, error)
	RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error
	UpdatePassword(ctx context.Context, userID *uuid.UUID, req *dto.UpdatePasswordRequest) error
}

type authUsecase struct {
	log           *logrus.Logger
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	jwtService    *jwt.JWTService
	tokenStore    TokenStore
	notifications service.NotificationService
	auditService  service.AuditService
	siteURL       string
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	jwtService *jwt.JWTService,
	tokenStore TokenStore,
	notifications service.NotificationService,
	auditService service.AuditService,
	siteURL string,
) AuthUsecase {
	return &authUsecase{
		log:           log,
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		jwtService:    jwtService,
		tokenStore:    tokenStore,
		notifications: notifications,
		auditService:  auditService,
		siteURL:       siteURL,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile, err := u.EnsureProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
		"email": user.Email,
	})

	return converter.ProfileToResponse(profile), nil
}

// EnsureProfile returns the user's profile, creating it on first sign-in.
func (u *authUsecase) EnsureProfile(ctx context.Context, user *entity.User) (*entity.Profile, error) {
	profile, err := u.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &entity.Profile{
		ID:       user.ID,
		Email:    user.Email,
		FullName: defaultProfileName(user),
		Role:     entity.RoleStudentLead,
	}
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		if isDuplicateKeyError(err, "profiles_pkey") {
			// Created by a concurrent sign-in.
			return u.profileRepo.FindByID(ctx, user.ID)
		}
		u.log.Warnf("Failed to create profile: %+v", err)
		return nil, err
	}
	return profile, nil
}

// defaultProfileName: account name, then email local part, then a placeholder.
func defaultProfileName(user *entity.User) string {
	if name := strings.TrimSpace(user.FullName); name != "" {
		return name
	}
	if at := strings.Index(user.Email, "@"); at > 0 {
		return user.Email[:at]
	}
	return entity.DefaultProfileName
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := u.EnsureProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	tokens.RedirectTo = RedirectForRole(profile.Role)

	u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil)

	return tokens, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, tokenKindAccess, userID.String(), accessTokenID, u.jwtService.AccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, tokenKindRefresh, userID.String(), refreshTokenID, u.jwtService.RefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.AccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	if err := u.tokenStore.Revoke(ctx, tokenKindAccess, userID.String(), accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if refreshTokenID != "" {
		if err := u.tokenStore.Revoke(ctx, tokenKindRefresh, userID.String(), refreshTokenID); err != nil {
			u.log.Warnf("Failed to delete refresh token: %+v", err)
			return err
		}
	}

	u.auditService.LogCreate(ctx, &userID, entity.AuditActionUserLogout, "user", userID.String(), nil)
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.Parse(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, tokenKindRefresh, claims.UserID.String(), claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use.
	if err := u.tokenStore.Revoke(ctx, tokenKindRefresh, claims.UserID.String(), claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile, err := u.EnsureProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	return converter.ProfileToResponse(profile), nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	profile, err := u.profileRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrUserNotFound
	}

	fields := map[string]interface{}{}
	if name := strings.TrimSpace(req.FullName); name != "" {
		fields["full_name"] = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		fields["phone"] = phone
	}
	if len(fields) == 0 {
		return converter.ProfileToResponse(profile), nil
	}

	oldValue := converter.ProfileToResponse(profile)
	if err := u.profileRepo.Update(ctx, userID, fields); err != nil {
		u.log.Warnf("Failed to update profile: %+v", err)
		return nil, err
	}

	updated, err := u.profileRepo.FindByID(ctx, userID)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload profile: %+v", err)
		return nil, ErrUserNotFound
	}

	newValue := converter.ProfileToResponse(updated)
	u.auditService.LogUpdate(ctx, &userID, entity.AuditActionProfileUpdate, "profile", userID.String(), oldValue, newValue)
	return newValue, nil
}

// IssueRecoveryLink returns a reset-password URL carrying a single-use
// recovery token for the account with this email.
func (u *authUsecase) IssueRecoveryLink(ctx context.Context, email string) (string, error) {
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	token, tokenID, err := u.jwtService.GenerateRecoveryToken(user.ID, user.Email, recoveryTokenTTL)
	if err != nil {
		return "", err
	}
	if err := u.tokenStore.Store(ctx, tokenKindRecovery, user.ID.String(), tokenID, recoveryTokenTTL); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/reset-password.html?token=%s", u.siteURL, url.QueryEscape(token)), nil
}

// RequestPasswordReset always succeeds for unknown emails so accounts
// cannot be enumerated.
func (u *authUsecase) RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error {
	email := strings.TrimSpace(req.Email)
	link, err := u.IssueRecoveryLink(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		u.log.Warnf("Failed to issue recovery link: %+v", err)
		return err
	}

	u.notifications.Notify(ctx, entity.NotificationPasswordReset, email, map[string]interface{}{
		"resetLink": link,
	}, "")
	return nil
}

// UpdatePassword accepts either a signed-in user or a recovery token. A
// recovery change signs the user out everywhere.
func (u *authUsecase) UpdatePassword(ctx context.Context, userID *uuid.UUID, req *dto.UpdatePasswordRequest) error {
	recovery := req.RecoveryToken != ""
	if recovery {
		claims, err := u.jwtService.Parse(req.RecoveryToken, jwt.RecoveryToken)
		if err != nil {
			return ErrInvalidToken
		}
		exists, err := u.tokenStore.Exists(ctx, tokenKindRecovery, claims.UserID.String(), claims.TokenID)
		if err != nil {
			u.log.Warnf("Failed to check recovery token: %+v", err)
			return err
		}
		if !exists {
			return ErrTokenRevoked
		}
		if err := u.tokenStore.Revoke(ctx, tokenKindRecovery, claims.UserID.String(), claims.TokenID); err != nil {
			u.log.Warnf("Failed to revoke recovery token: %+v", err)
		}
		userID = &claims.UserID
	}
	if userID == nil {
		return ErrInvalidToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}
	if err := u.userRepo.UpdatePassword(ctx, *userID, string(hashedPassword)); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	if recovery {
		for _, kind := range []string{tokenKindAccess, tokenKindRefresh} {
			if err := u.tokenStore.RevokeAll(ctx, kind, userID.String()); err != nil {
				u.log.Warnf("Failed to revoke %s tokens: %+v", kind, err)
			}
		}
	}
	return nil
}
