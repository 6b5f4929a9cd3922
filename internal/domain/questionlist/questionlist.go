package questionlist

import (
	"errors"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/id"
)

var (
	ErrTitleRequired     = errors.New("title is required")
	ErrForbidden         = errors.New("access denied")
	ErrDuplicateQuestion = errors.New("question numbers must be unique")
)

// QuestionList is a shareable, taggable set of questions. Questions are plain
// question numbers in display order.
type QuestionList struct {
	ID          string
	CreatorID   string
	Title       string
	Description string
	Questions   []int
	Tags        []string
	IsPublic    bool
	IsOfficial  bool
	Likes       []string
	SavedBy     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Viewer is the identity a policy decision is made for. A zero Viewer is
// anonymous.
type Viewer struct {
	ID      string
	IsAdmin bool
}

// New creates a list. IsOfficial is fixed here from the creator's role and is
// never changed afterwards.
func New(creator Viewer, title, description string, questions []int, tags []string, isPublic bool) (*QuestionList, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if err := checkUnique(questions); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &QuestionList{
		ID:          id.GenerateID(),
		CreatorID:   creator.ID,
		Title:       title,
		Description: description,
		Questions:   append([]int{}, questions...),
		Tags:        NormalizeTags(tags),
		IsPublic:    isPublic,
		IsOfficial:  creator.IsAdmin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (q *QuestionList) TotalQuestions() int {
	return len(q.Questions)
}

// Patch holds optional updates; nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Questions   []int
	Tags        []string
	IsPublic    *bool
}

func (q *QuestionList) Apply(p Patch) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return ErrTitleRequired
		}
		q.Title = t
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.Questions != nil {
		if err := checkUnique(p.Questions); err != nil {
			return err
		}
		q.Questions = append([]int{}, p.Questions...)
	}
	if p.Tags != nil {
		q.Tags = NormalizeTags(p.Tags)
	}
	if p.IsPublic != nil {
		q.IsPublic = *p.IsPublic
	}
	q.UpdatedAt = time.Now().UTC()
	return nil
}

func checkUnique(numbers []int) error {
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if _, ok := seen[n]; ok {
			return ErrDuplicateQuestion
		}
		seen[n] = struct{}{}
	}
	return nil
}

// NormalizeTags lower-cases, trims and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func contains(ids []string, v string) bool {
	for _, x := range ids {
		if x == v {
			return true
		}
	}
	return false
}

func (q *QuestionList) IsLikedBy(userID string) bool { return contains(q.Likes, userID) }
func (q *QuestionList) IsSavedBy(userID string) bool { return contains(q.SavedBy, userID) }

// CanRead: public lists are open; private ones only to the creator and admins.
func (q *QuestionList) CanRead(v Viewer) bool {
	if q.IsPublic || v.IsAdmin {
		return true
	}
	return v.ID != "" && v.ID == q.CreatorID
}

// CheckMutate allows the creator, with an override for admins.
func (q *QuestionList) CheckMutate(v Viewer) error {
	if v.IsAdmin {
		return nil
	}
	if v.ID == "" || v.ID != q.CreatorID {
		return ErrForbidden
	}
	return nil
}

// CheckInteract gates likes and saves: the viewer must be signed in and able
// to read the list.
func (q *QuestionList) CheckInteract(v Viewer) error {
	if v.ID == "" || !q.CanRead(v) {
		return ErrForbidden
	}
	return nil
}
