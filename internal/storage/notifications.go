package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"centraldoconsumidor/backend/internal/models"

	"gorm.io/gorm/clause"
)

// SubscribeNotifications listens on NotificationsChannel and decodes every
// message. The returned channel closes when ctx is done or the subscription
// ends. Undecodable messages are logged and skipped.
func (s *Service) SubscribeNotifications(ctx context.Context) (<-chan models.Notification, error) {
	if s.Redis == nil {
		return nil, errors.New("redis is not configured")
	}

	pubsub := s.Redis.Subscribe(ctx, NotificationsChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", NotificationsChannel, err)
	}

	out := make(chan models.Notification)
	go func() {
		<-ctx.Done()
		_ = pubsub.Close()
	}()
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var n models.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				slog.Warn("undecodable notification", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// SaveUserNotification stores n once per EventID. stored is false when the
// event was already delivered by another subscriber.
func (s *Service) SaveUserNotification(ctx context.Context, n *models.UserNotification) (stored bool, err error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(n)
	if res.Error != nil {
		return false, fmt.Errorf("save notification %s: %w", n.EventID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListUserNotifications returns a user's inbox, newest first.
func (s *Service) ListUserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.UserNotification, error) {
	var list []models.UserNotification
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	if err := q.Order("created_at desc, id desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list notifications of user %s: %w", userID, err)
	}
	return list, nil
}

// MarkNotificationRead flags one of the user's notifications as read.
func (s *Service) MarkNotificationRead(ctx context.Context, userID string, id uint) error {
	res := s.DB.WithContext(ctx).
		Model(&models.UserNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification %d read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
