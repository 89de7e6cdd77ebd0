package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/models"
)

// TokenPair holds an access/refresh token pair.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    time.Duration `json:"expires_in"`
}

// TokenManager issues and verifies JWTs. The role claim decides which
// account table the subject lives in, so one manager serves fans,
// florists and admins alike.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GeneratePair issues a fresh token pair for an account.
func (m *TokenManager) GeneratePair(id uuid.UUID, role models.Role) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := m.createToken(id, role, now, now.Add(m.accessTTL), m.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := m.createToken(id, role, now, now.Add(m.refreshTTL), m.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    m.accessTTL,
	}, nil
}

// Parse verifies an access token and returns the actor it was issued to.
func (m *TokenManager) Parse(token string) (*models.Actor, error) {
	return m.parseWith(token, m.accessSecret)
}

// ParseRefresh verifies a refresh token.
func (m *TokenManager) ParseRefresh(token string) (*models.Actor, error) {
	return m.parseWith(token, m.refreshSecret)
}

func (m *TokenManager) parseWith(token string, secret []byte) (*models.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}

	roleClaim, _ := claims["role"].(string)
	role := models.Role(roleClaim)
	if !role.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &models.Actor{ID: id, Role: role}, nil
}

func (m *TokenManager) createToken(id uuid.UUID, role models.Role, now, exp time.Time, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  id.String(),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
