package discussion

import (
	"errors"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/id"
)

type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryDoubt        Category = "doubt"
	CategoryStrategy     Category = "strategy"
	CategoryFeedback     Category = "feedback"
	CategoryAnnouncement Category = "announcement"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryDoubt, CategoryStrategy, CategoryFeedback, CategoryAnnouncement:
		return true
	}
	return false
}

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidReaction = errors.New("reaction must be like or dislike")
	ErrForbidden       = errors.New("access denied")
)

type Discussion struct {
	ID             string
	UserID         string
	Title          string
	Content        string
	Category       Category
	QuestionNumber *int
	IsPinned       bool
	Views          int64
	Likes          []string
	Dislikes       []string
	Replies        []Reply
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reply is stored as its own row keyed by the parent discussion.
type Reply struct {
	ID           string
	DiscussionID string
	UserID       string
	Content      string
	Likes        []string
	Dislikes     []string
	CreatedAt    time.Time
}

func New(userID, title, content string, category Category, questionNumber *int) (*Discussion, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	if category == "" {
		category = CategoryGeneral
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	now := time.Now().UTC()
	return &Discussion{
		ID:             id.GenerateID(),
		UserID:         userID,
		Title:          title,
		Content:        content,
		Category:       category,
		QuestionNumber: questionNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func NewReply(discussionID, userID, content string) (*Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	return &Reply{
		ID:           id.GenerateID(),
		DiscussionID: discussionID,
		UserID:       userID,
		Content:      content,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CanModify: owners edit their own posts; admins may edit anything.
func CanModify(ownerID, viewerID string, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	if viewerID == "" || ownerID != viewerID {
		return ErrForbidden
	}
	return nil
}

// Filter narrows discussion listings.
type Filter struct {
	Category       Category
	QuestionNumber *int
	Limit          int
	Offset         int
}
