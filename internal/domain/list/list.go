package list

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/id"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

const FavoritesTitle = "Favorites"

var (
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidVisibility    = errors.New("visibility must be public or private")
	ErrForbidden            = errors.New("access denied")
	ErrFavoritesUndeletable = errors.New("the favorites list cannot be deleted")
	ErrPrivateSave          = errors.New("private lists can only be saved by their creator")
	ErrDuplicateQuestion    = errors.New("question is already in the list")
)

// Item is one question reference in a list. Order is 1-based and contiguous
// after every save.
type Item struct {
	QuestionNumber int
	Order          int
}

// List is a user's personal, lightweight collection of questions.
// Every user owns exactly one list with IsFavorites set.
type List struct {
	ID          string
	CreatorID   string
	Title       string
	Description string
	Visibility  Visibility
	IsFavorites bool
	Questions   []Item
	SavedBy     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func New(creatorID, title, description string, visibility Visibility, questions []Item) (*List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if visibility == "" {
		visibility = VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, ErrInvalidVisibility
	}
	now := time.Now().UTC()
	return &List{
		ID:          id.GenerateID(),
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Visibility:  visibility,
		Questions:   Renumber(questions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewFavorites creates the system favorites list for a user.
func NewFavorites(userID string) *List {
	now := time.Now().UTC()
	return &List{
		ID:          id.GenerateID(),
		CreatorID:   userID,
		Title:       FavoritesTitle,
		Visibility:  VisibilityPrivate,
		IsFavorites: true,
		Questions:   []Item{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Renumber sorts items by their requested order (stable for ties) and rewrites
// Order to 1..n.
func Renumber(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

func (l *List) QuestionNumbers() []int {
	out := make([]int, len(l.Questions))
	for i, q := range l.Questions {
		out[i] = q.QuestionNumber
	}
	return out
}

func (l *List) Contains(number int) bool {
	for _, q := range l.Questions {
		if q.QuestionNumber == number {
			return true
		}
	}
	return false
}

// Append adds a question at the end of the list.
func (l *List) Append(number int) error {
	if l.Contains(number) {
		return ErrDuplicateQuestion
	}
	l.Questions = append(l.Questions, Item{QuestionNumber: number, Order: len(l.Questions) + 1})
	return nil
}

// Remove drops a question and closes the gap in the ordering. It reports
// whether the question was present.
func (l *List) Remove(number int) bool {
	kept := l.Questions[:0]
	removed := false
	for _, q := range l.Questions {
		if q.QuestionNumber == number {
			removed = true
			continue
		}
		kept = append(kept, q)
	}
	l.Questions = Renumber(kept)
	return removed
}

func (l *List) IsSavedBy(userID string) bool {
	for _, u := range l.SavedBy {
		if u == userID {
			return true
		}
	}
	return false
}
