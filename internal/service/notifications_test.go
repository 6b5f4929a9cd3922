package service

import (
	"context"
	"testing"

	"github.com/aptiprep/backend/internal/domain/notification"
)

func TestNotificationsPersistAsync(t *testing.T) {
	s := newSQLStore(t)
	ns := NewNotificationService(s, 2, discardLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ns.Notify(notification.New("u1", notification.KindDiscussionReply, "New reply", "/discussions/d1"))
	}
	ns.Close()

	got, err := ns.List(ctx, "u1", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 notifications after flush, got %d", len(got))
	}

	if err := ns.MarkRead(ctx, got[0].ID, "u1"); err != nil {
		t.Fatal(err)
	}
	if err := ns.MarkRead(ctx, got[1].ID, "intruder"); err == nil {
		t.Errorf("marking another user's notification should fail")
	}

	unread, err := ns.List(ctx, "u1", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 4 {
		t.Errorf("unread = %d, want 4", len(unread))
	}

	// Notify after Close drops instead of panicking.
	ns.Notify(notification.New("u1", notification.KindDiscussionReply, "late", ""))
}
