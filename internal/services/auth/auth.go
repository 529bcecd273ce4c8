package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillforge/skillforge-backend/internal/data/repos"
	types "github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/pkg/dbctx"
	apperrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

type Claims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Service interface {
	Register(ctx context.Context, email, password, defaultDifficulty string) (*types.User, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	ParseToken(tokenStr string) (*Claims, error)
}

type service struct {
	users     repos.UserRepo
	log       *logger.Logger
	secret    []byte
	accessTTL time.Duration
}

func NewService(users repos.UserRepo, secret string, accessTTL time.Duration, baseLog *logger.Logger) Service {
	return &service{
		users:     users,
		log:       baseLog.With("service", "AuthService"),
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

func (s *service) Register(ctx context.Context, email, password, defaultDifficulty string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidation("email", "must be a valid address")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidation("password", "must be at least 8 characters")
	}

	existing, err := s.users.GetByEmails(dbctx.New(ctx), []string{email})
	if err != nil {
		return nil, apperrors.NewProcessing("check existing user", err)
	}
	if len(existing) > 0 {
		return nil, apperrors.NewValidation("email", "already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewProcessing("hash password", err)
	}

	rows, err := s.users.Create(dbctx.New(ctx), []*types.User{{
		Email:           email,
		Password:        string(hashed),
		DifficultyLevel: defaultDifficulty,
	}})
	if err != nil {
		return nil, apperrors.NewProcessing("create user", err)
	}
	s.log.Info("Registered user", "user_id", rows[0].ID)
	return rows[0], nil
}

func (s *service) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rows, err := s.users.GetByEmails(dbctx.New(ctx), []string{email})
	if err != nil {
		return nil, nil, apperrors.NewProcessing("look up user", err)
	}
	if len(rows) == 0 {
		return nil, nil, apperrors.ErrUnauthorized
	}
	u := rows[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrUnauthorized
	}

	pair, err := s.issueToken(u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *service) issueToken(userID uuid.UUID) (*TokenPair, error) {
	now := time.Now().UTC()
	exp := now.Add(s.accessTTL)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apperrors.NewProcessing("sign token", err)
	}
	return &TokenPair{AccessToken: signed, ExpiresAt: exp}, nil
}

func (s *service) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	if claims.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}
