package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/flastal/flastal-backend/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	manager := newTestTokenManager()
	id := uuid.New()

	pair, err := manager.GeneratePair(id, models.RoleFan)
	assert.NoError(t, err)

	actor, err := manager.Parse(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, id, actor.ID)
	assert.Equal(t, models.RoleFan, actor.Role)

	actor, err = manager.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, id, actor.ID)
}

func TestTokenManager_SecretsAreNotInterchangeable(t *testing.T) {
	manager := newTestTokenManager()

	pair, err := manager.GeneratePair(uuid.New(), models.RoleFlorist)
	assert.NoError(t, err)

	_, err = manager.Parse(pair.RefreshToken)
	assert.Error(t, err)

	_, err = manager.ParseRefresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	issuer := newTestTokenManager()
	verifier := NewTokenManager("other-access", "other-refresh", 15*time.Minute, 720*time.Hour)

	pair, err := issuer.GeneratePair(uuid.New(), models.RoleFan)
	assert.NoError(t, err)

	_, err = verifier.Parse(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_ExpiredTokenRejected(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	pair, err := manager.GeneratePair(uuid.New(), models.RoleFan)
	assert.NoError(t, err)

	_, err = manager.Parse(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_GarbageRejected(t *testing.T) {
	manager := newTestTokenManager()

	_, err := manager.Parse("not.a.token")
	assert.Error(t, err)

	_, err = manager.Parse("")
	assert.Error(t, err)
}
