// Package notify turns complaint events from redis pub/sub into user inbox
// entries and runs per-type hooks on them.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"

	"github.com/google/uuid"
)

// Source delivers published notifications.
type Source interface {
	SubscribeNotifications(ctx context.Context) (<-chan models.Notification, error)
}

// Inbox stores delivered notifications. stored is false when the event was
// already in the inbox.
type Inbox interface {
	SaveUserNotification(ctx context.Context, n *models.UserNotification) (stored bool, err error)
}

// HandlerFunc reacts to one notification type.
type HandlerFunc func(ctx context.Context, n models.Notification)

type Hub struct {
	source Source
	inbox  Inbox

	mu       sync.RWMutex
	handlers map[string][]HandlerFunc

	log *slog.Logger
}

func NewHub(source Source, inbox Inbox) *Hub {
	return &Hub{
		source:   source,
		inbox:    inbox,
		handlers: make(map[string][]HandlerFunc),
		log:      logging.New("notify"),
	}
}

// On registers fn for notifications of the given type.
func (h *Hub) On(notificationType string, fn HandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[notificationType] = append(h.handlers[notificationType], fn)
}

// Run consumes notifications until ctx is done or the source closes.
func (h *Hub) Run(ctx context.Context) error {
	events, err := h.source.SubscribeNotifications(ctx)
	if err != nil {
		return err
	}
	h.log.Info("listening for complaint events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-events:
			if !ok {
				return nil
			}
			h.deliver(ctx, n)
		}
	}
}

// deliver stores n in the user's inbox and runs its hooks. Every replica
// receives every event; only the one whose insert wins runs the hooks of a
// user notification.
func (h *Hub) deliver(ctx context.Context, n models.Notification) {
	if n.UserID != "" {
		eventID := n.ID
		if eventID == "" {
			eventID = uuid.NewString()
		}
		entry := &models.UserNotification{
			EventID:     eventID,
			UserID:      n.UserID,
			ComplaintID: n.ComplaintID,
			Type:        n.Type,
			Title:       n.Title,
			Message:     n.Message,
			Metadata:    n.Metadata,
		}
		stored, err := h.inbox.SaveUserNotification(ctx, entry)
		switch {
		case err != nil:
			h.log.Error("notification not stored", "type", n.Type, "user_id", n.UserID, "error", err)
		case !stored:
			h.log.Debug("notification already delivered", "id", eventID, "type", n.Type)
			return
		}
	}

	h.mu.RLock()
	handlers := h.handlers[n.Type]
	h.mu.RUnlock()
	for _, fn := range handlers {
		fn(ctx, n)
	}
}
