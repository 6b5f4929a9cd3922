package service

import (
	"context"
	"log/slog"

	"github.com/aptiprep/backend/internal/domain/notification"
	"github.com/aptiprep/backend/internal/worker"
)

type NotificationStore interface {
	SaveNotification(ctx context.Context, n *notification.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*notification.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
}

// Notifier accepts notifications for delivery. Implementations must not block
// the caller on persistence.
type Notifier interface {
	Notify(n *notification.Notification)
}

// NotificationService persists notifications on a worker pool so request
// handlers return before the write happens.
type NotificationService struct {
	store  NotificationStore
	pool   *worker.Pool[error]
	logger *slog.Logger
	done   chan struct{}
}

func NewNotificationService(s NotificationStore, workers int, logger *slog.Logger) *NotificationService {
	ns := &NotificationService{
		store:  s,
		pool:   worker.NewPool[error](workers, 64),
		logger: logger,
		done:   make(chan struct{}),
	}
	go ns.drain()
	return ns
}

func (ns *NotificationService) drain() {
	defer close(ns.done)
	for res := range ns.pool.Results() {
		if res.Output != nil {
			ns.logger.Error("failed to save notification", "notification_id", res.JobID, "error", res.Output)
		}
	}
}

// Notify queues n for persistence. The write uses a background context since
// it outlives the originating request.
func (ns *NotificationService) Notify(n *notification.Notification) {
	err := ns.pool.Submit(n.ID, func() error {
		return ns.store.SaveNotification(context.Background(), n)
	})
	if err != nil {
		ns.logger.Warn("notification dropped", "notification_id", n.ID, "error", err)
	}
}

func (ns *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]*notification.Notification, error) {
	return ns.store.ListNotifications(ctx, userID, unreadOnly)
}

func (ns *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return ns.store.MarkNotificationRead(ctx, id, userID)
}

// Close flushes queued notifications.
func (ns *NotificationService) Close() {
	ns.pool.Close()
	<-ns.done
}
