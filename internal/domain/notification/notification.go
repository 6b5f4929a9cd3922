package notification

import (
	"time"

	"github.com/aptiprep/backend/internal/id"
)

type Kind string

const (
	KindDiscussionReply  Kind = "discussion_reply"
	KindQuestionListLike Kind = "questionlist_like"
)

type Notification struct {
	ID        string
	UserID    string
	Kind      Kind
	Message   string
	Link      string
	Read      bool
	CreatedAt time.Time
}

func New(userID string, kind Kind, message, link string) *Notification {
	return &Notification{
		ID:        id.GenerateID(),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}
}
