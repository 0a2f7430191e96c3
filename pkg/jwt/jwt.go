package jwt

import (
	"errors"
	"fmt"
	"time"

	"therapist-crm/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is stamped on every token and required when parsing.
const Issuer = "therapist-crm"

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
	// RecoveryToken authorizes a single password change.
	RecoveryToken TokenType = "recovery"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	TokenType TokenType `json:"token_type"`
	TokenID   string    `json:"token_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	config config.JWTConfig
	parser *jwt.Parser
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		config: cfg,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(5*time.Second),
		),
	}
}

// issue signs a token of the given type and returns it with its ID. The ID is
// what the token store tracks for revocation.
func (s *JWTService) issue(userID uuid.UUID, email string, tokenType TokenType, ttl time.Duration) (string, string, error) {
	issuedAt := time.Now()
	tokenID := uuid.NewString()

	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		TokenID:   tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID.String(),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, tokenID, nil
}

func (s *JWTService) GenerateAccessToken(userID uuid.UUID, email string) (string, string, error) {
	return s.issue(userID, email, AccessToken, s.config.AccessExpiry)
}

func (s *JWTService) GenerateRefreshToken(userID uuid.UUID, email string) (string, string, error) {
	return s.issue(userID, email, RefreshToken, s.config.RefreshExpiry)
}

func (s *JWTService) GenerateRecoveryToken(userID uuid.UUID, email string, ttl time.Duration) (string, string, error) {
	return s.issue(userID, email, RecoveryToken, ttl)
}

// Parse verifies signature, issuer and expiry, then checks the token is of
// the wanted type. A refresh token is never accepted where an access token
// is expected.
func (s *JWTService) Parse(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (s *JWTService) AccessExpiry() time.Duration  { return s.config.AccessExpiry }
func (s *JWTService) RefreshExpiry() time.Duration { return s.config.RefreshExpiry }
