package store

import (
	"context"

	"github.com/aptiprep/backend/internal/domain/notification"
)

func (s *SQLStore) SaveNotification(ctx context.Context, n *notification.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, kind, message, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, string(n.Kind), n.Message, n.Link, n.Read, toMillis(n.CreatedAt),
	)
	return err
}

// ListNotifications returns a user's notifications newest first.
func (s *SQLStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*notification.Notification, error) {
	query := "SELECT id, user_id, kind, message, link, is_read, created_at FROM notifications WHERE user_id = $1"
	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Message, &n.Link, &n.Read, &createdAt); err != nil {
			return nil, err
		}
		n.CreatedAt = fromMillis(createdAt)
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkNotificationRead only matches the owner's notification.
func (s *SQLStore) MarkNotificationRead(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	return expectOne(result)
}
