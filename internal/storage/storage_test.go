package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"centraldoconsumidor/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNotFound_MapsGormError(t *testing.T) {
	assert.ErrorIs(t, notFound(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("query: %w", gorm.ErrRecordNotFound)), ErrNotFound)

	other := errors.New("connection refused")
	assert.Equal(t, other, notFound(other))
}

func TestReputationKey(t *testing.T) {
	assert.Equal(t, "reputation:abc", reputationKey("abc"))
}

func TestService_WithoutRedis(t *testing.T) {
	s := NewStorageService(nil, nil)
	ctx := context.Background()

	assert.NoError(t, s.CacheReputation(ctx, &models.CompanyReputation{CompanyID: "c1"}, time.Minute))

	rep, err := s.CachedReputation(ctx, "c1")
	assert.NoError(t, err)
	assert.Nil(t, rep)

	assert.NoError(t, s.PublishNotification(ctx, models.Notification{Type: models.NotificationComplaintCreated}))

	_, err = s.IncrementWindow(ctx, "rl:1.2.3.4", time.Minute)
	assert.Error(t, err)

	_, err = s.SubscribeNotifications(ctx)
	assert.Error(t, err)
}

func TestEncodeNotification_StampsEventID(t *testing.T) {
	data, err := encodeNotification(models.Notification{Type: models.NotificationComplaintCreated, UserID: "u1"})
	require.NoError(t, err)

	var n models.Notification
	require.NoError(t, json.Unmarshal(data, &n))
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "u1", n.UserID)

	data, err = encodeNotification(models.Notification{ID: "evt-1"})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &n))
	assert.Equal(t, "evt-1", n.ID)
}
