package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/notify"
)

type chanSource struct {
	ch  chan models.Notification
	err error
}

func (s chanSource) SubscribeNotifications(context.Context) (<-chan models.Notification, error) {
	return s.ch, s.err
}

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) SaveUserNotification(ctx context.Context, n *models.UserNotification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

func TestHub_StoresAndDispatches(t *testing.T) {
	events := make(chan models.Notification)
	inbox := new(MockInbox)
	inbox.On("SaveUserNotification", mock.Anything, mock.MatchedBy(func(n *models.UserNotification) bool {
		return n.UserID == "u1" && n.Type == models.NotificationComplaintDistributed && n.Title == "Reclamação distribuída"
	})).Return(true, nil).Once()
	inbox.On("SaveUserNotification", mock.Anything, mock.Anything).Return(false, errors.New("db down"))

	hub := notify.NewHub(chanSource{ch: events}, inbox)

	var mu sync.Mutex
	var seen []string
	hub.On(models.NotificationComplaintDistributed, func(_ context.Context, n models.Notification) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, n.ComplaintID)
	})

	done := make(chan error, 1)
	go func() { done <- hub.Run(context.Background()) }()

	events <- models.Notification{Type: models.NotificationComplaintDistributed, UserID: "u1", ComplaintID: "c1", Title: "Reclamação distribuída"}
	events <- models.Notification{Type: models.NotificationComplaintCreated, UserID: "u2", ComplaintID: "c2"}
	events <- models.Notification{Type: models.NotificationComplaintDistributed, ComplaintID: "c3"}
	close(events)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop after the source closed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"c1", "c3"}, seen, "store failures and missing users do not stop hooks")
	inbox.AssertNumberOfCalls(t, "SaveUserNotification", 2)
}

func TestHub_DuplicateEventRunsHooksOnce(t *testing.T) {
	events := make(chan models.Notification)
	inbox := new(MockInbox)
	inbox.On("SaveUserNotification", mock.Anything, mock.MatchedBy(func(n *models.UserNotification) bool {
		return n.EventID == "evt-1"
	})).Return(true, nil).Once()
	inbox.On("SaveUserNotification", mock.Anything, mock.MatchedBy(func(n *models.UserNotification) bool {
		return n.EventID == "evt-1"
	})).Return(false, nil)

	hub := notify.NewHub(chanSource{ch: events}, inbox)
	var mu sync.Mutex
	calls := 0
	hub.On(models.NotificationComplaintUpdated, func(context.Context, models.Notification) {
		mu.Lock()
		defer mu.Unlock()
		calls++
	})

	done := make(chan error, 1)
	go func() { done <- hub.Run(context.Background()) }()

	n := models.Notification{ID: "evt-1", Type: models.NotificationComplaintUpdated, UserID: "u1", ComplaintID: "c1"}
	events <- n
	events <- n
	close(events)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop after the source closed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	inbox.AssertNumberOfCalls(t, "SaveUserNotification", 2)
}

func TestHub_StopsOnContext(t *testing.T) {
	hub := notify.NewHub(chanSource{ch: make(chan models.Notification)}, new(MockInbox))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("hub ignored cancellation")
	}
}

func TestHub_SubscribeError(t *testing.T) {
	hub := notify.NewHub(chanSource{err: errors.New("redis is not configured")}, new(MockInbox))
	assert.Error(t, hub.Run(context.Background()))
}
