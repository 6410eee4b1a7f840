package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/space2study/ms-go-api/app/entity"
	"github.com/space2study/ms-go-api/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrUnknownKind  = errors.New("unknown token kind")
)

// UserPayload is carried by access and refresh tokens.
type UserPayload struct {
	ID           uint64
	Role         string
	IsFirstLogin bool
}

// EmailPayload is carried by reset and confirm tokens.
type EmailPayload struct {
	ID        uint64
	FirstName string
	Email     string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Claims struct {
	UserID       uint64 `json:"user_id"`
	Role         string `json:"role,omitempty"`
	IsFirstLogin bool   `json:"is_first_login,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	Email        string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type tokenRepository interface {
	Upsert(ctx context.Context, token *entity.Token) error
	FindByToken(ctx context.Context, tokenString string, kind entity.TokenKind) (*entity.Token, error)
	DeleteByUser(ctx context.Context, userID uint64, kind entity.TokenKind) error
}

// TokenService signs, validates and persists the four token kinds. Access
// tokens stay stateless; refresh/reset/confirm tokens are also recorded in
// the allow-list table so they can be revoked before their signature expires.
type TokenService struct {
	tokenRepo tokenRepository
	cfg       *config.Config
}

func NewTokenService(tokenRepo tokenRepository, cfg *config.Config) *TokenService {
	return &TokenService{tokenRepo: tokenRepo, cfg: cfg}
}

func (s *TokenService) GenerateAccessAndRefreshTokens(payload UserPayload) (*TokenPair, error) {
	accessToken, err := s.signUserToken(payload, entity.TokenKindAccess)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.signUserToken(payload, entity.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *TokenService) GenerateResetToken(payload EmailPayload) (string, error) {
	return s.signEmailToken(payload, entity.TokenKindReset)
}

func (s *TokenService) GenerateConfirmToken(payload EmailPayload) (string, error) {
	return s.signEmailToken(payload, entity.TokenKindConfirm)
}

// ValidateToken verifies signature and expiry against the kind-specific
// secret. Expired tokens are reported as ErrTokenExpired, anything else
// wrong with the token as ErrInvalidToken.
func (s *TokenService) ValidateToken(tokenString string, kind entity.TokenKind) (*Claims, error) {
	key, err := s.key(kind)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(key.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *TokenService) PersistToken(ctx context.Context, userID uint64, tokenString string, kind entity.TokenKind) error {
	return s.tokenRepo.Upsert(ctx, &entity.Token{
		UserID:    userID,
		Kind:      kind,
		Token:     tokenString,
		CreatedAt: time.Now(),
	})
}

func (s *TokenService) FindToken(ctx context.Context, tokenString string, kind entity.TokenKind) (*entity.Token, error) {
	return s.tokenRepo.FindByToken(ctx, tokenString, kind)
}

// RevokeToken deletes the persisted token for (user, kind). Revoking an
// absent token is a no-op.
func (s *TokenService) RevokeToken(ctx context.Context, userID uint64, kind entity.TokenKind) error {
	return s.tokenRepo.DeleteByUser(ctx, userID, kind)
}

func (s *TokenService) signUserToken(payload UserPayload, kind entity.TokenKind) (string, error) {
	key, err := s.key(kind)
	if err != nil {
		return "", err
	}

	claims := &Claims{
		UserID:           payload.ID,
		Role:             payload.Role,
		IsFirstLogin:     payload.IsFirstLogin,
		RegisteredClaims: s.registeredClaims(key.TTL),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key.Secret))
}

func (s *TokenService) signEmailToken(payload EmailPayload, kind entity.TokenKind) (string, error) {
	key, err := s.key(kind)
	if err != nil {
		return "", err
	}

	claims := &Claims{
		UserID:           payload.ID,
		FirstName:        payload.FirstName,
		Email:            payload.Email,
		RegisteredClaims: s.registeredClaims(key.TTL),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key.Secret))
}

func (s *TokenService) registeredClaims(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}
}

func (s *TokenService) key(kind entity.TokenKind) (config.JWTKey, error) {
	switch kind {
	case entity.TokenKindAccess:
		return s.cfg.JWT.Access, nil
	case entity.TokenKindRefresh:
		return s.cfg.JWT.Refresh, nil
	case entity.TokenKindReset:
		return s.cfg.JWT.Reset, nil
	case entity.TokenKindConfirm:
		return s.cfg.JWT.Confirm, nil
	default:
		return config.JWTKey{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}
