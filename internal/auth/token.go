package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hskaicoach/backend/internal/config"
	"github.com/hskaicoach/backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID string
	Email  string
	Plan   models.Plan
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("token secret required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be > 0")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "hsk-ai-coach"
	}
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		issuer: issuer,
	}, nil
}

// Issue signs an access token for the user. The plan travels in the token so
// request handling does not need a user lookup on every call.
func (tm *TokenManager) Issue(user *models.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(tm.ttl)

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"plan":  string(user.Plan),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		"iss":   tm.issuer,
		"jti":   uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses a token and returns the identity it carries.
func (tm *TokenManager) Verify(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(tm.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	plan := models.PlanFree
	if p, _ := claims["plan"].(string); p == string(models.PlanPremium) {
		plan = models.PlanPremium
	}

	return &Identity{UserID: sub, Email: email, Plan: plan}, nil
}
