package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aptiprep/backend/internal/domain/list"
)

type ListStore interface {
	SaveList(ctx context.Context, l *list.List) error
	GetList(ctx context.Context, id string) (*list.List, error)
	UpdateList(ctx context.Context, l *list.List) error
	DeleteList(ctx context.Context, id string) error
	EnsureFavorites(ctx context.Context, userID string) (*list.List, error)
	AddListSave(ctx context.Context, listID, userID string) error
	RemoveListSave(ctx context.Context, listID, userID string) error
	ListsByCreator(ctx context.Context, userID string) ([]*list.List, error)
	ListsSavedBy(ctx context.Context, userID string) ([]*list.List, error)
	PublicLists(ctx context.Context, limit, offset int) ([]*list.List, error)
}

// ListService applies the ownership and visibility policy to personal lists.
type ListService struct {
	lists     ListStore
	questions QuestionStore
	logger    *slog.Logger
}

func NewListService(l ListStore, q QuestionStore, logger *slog.Logger) *ListService {
	return &ListService{lists: l, questions: q, logger: logger}
}

// ListInput carries the user-editable fields of a list.
type ListInput struct {
	Title       string
	Description string
	Visibility  list.Visibility
	Questions   []list.Item
}

func (ls *ListService) Create(ctx context.Context, userID string, in ListInput) (*list.List, error) {
	l, err := list.New(userID, in.Title, in.Description, in.Visibility, in.Questions)
	if err != nil {
		return nil, invalid(err)
	}
	if err := requireQuestions(ctx, ls.questions, l.QuestionNumbers()); err != nil {
		return nil, err
	}
	if err := ls.lists.SaveList(ctx, l); err != nil {
		return nil, listWriteError(err)
	}
	return l, nil
}

// Get returns a list the viewer may read. A private list the viewer cannot
// read is reported as forbidden, not hidden.
func (ls *ListService) Get(ctx context.Context, id, viewerID string) (*list.List, error) {
	l, err := ls.lists.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.CheckRead(viewerID); err != nil {
		return nil, forbidden(err)
	}
	return l, nil
}

func (ls *ListService) Update(ctx context.Context, id, userID string, in ListInput) (*list.List, error) {
	l, err := ls.lists.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.CheckMutate(userID); err != nil {
		return nil, forbidden(err)
	}

	updated, err := list.New(userID, in.Title, in.Description, in.Visibility, in.Questions)
	if err != nil {
		return nil, invalid(err)
	}
	if err := requireQuestions(ctx, ls.questions, updated.QuestionNumbers()); err != nil {
		return nil, err
	}
	if !l.IsFavorites {
		l.Title = updated.Title
		l.Visibility = updated.Visibility
	}
	l.Description = updated.Description
	l.Questions = updated.Questions
	l.UpdatedAt = time.Now().UTC()

	if err := ls.lists.UpdateList(ctx, l); err != nil {
		return nil, listWriteError(err)
	}
	return l, nil
}

func (ls *ListService) Delete(ctx context.Context, id, userID string) error {
	l, err := ls.lists.GetList(ctx, id)
	if err != nil {
		return err
	}
	if err := l.CheckDelete(userID); err != nil {
		if errors.Is(err, list.ErrFavoritesUndeletable) {
			return err
		}
		return forbidden(err)
	}
	return ls.lists.DeleteList(ctx, id)
}

// AddQuestion appends a question to a list the user owns.
func (ls *ListService) AddQuestion(ctx context.Context, id, userID string, number int) (*list.List, error) {
	l, err := ls.lists.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.CheckMutate(userID); err != nil {
		return nil, forbidden(err)
	}
	if err := requireQuestions(ctx, ls.questions, []int{number}); err != nil {
		return nil, err
	}
	if err := l.Append(number); err != nil {
		return nil, invalid(err)
	}
	l.UpdatedAt = time.Now().UTC()
	if err := ls.lists.UpdateList(ctx, l); err != nil {
		return nil, listWriteError(err)
	}
	return l, nil
}

func (ls *ListService) RemoveQuestion(ctx context.Context, id, userID string, number int) (*list.List, error) {
	l, err := ls.lists.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.CheckMutate(userID); err != nil {
		return nil, forbidden(err)
	}
	if !l.Remove(number) {
		return l, nil
	}
	l.UpdatedAt = time.Now().UTC()
	if err := ls.lists.UpdateList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ToggleSave adds or removes the user's save and reports whether the list is
// saved afterwards.
func (ls *ListService) ToggleSave(ctx context.Context, id, userID string) (bool, error) {
	l, err := ls.lists.GetList(ctx, id)
	if err != nil {
		return false, err
	}
	action, err := l.ToggleSave(userID)
	if err != nil {
		return false, forbidden(err)
	}
	if action == list.SaveRemove {
		return false, ls.lists.RemoveListSave(ctx, id, userID)
	}
	return true, ls.lists.AddListSave(ctx, id, userID)
}

// Fork copies a readable list into a new private list owned by userID.
func (ls *ListService) Fork(ctx context.Context, id, userID, title string) (*list.List, error) {
	src, err := ls.lists.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	fork, err := src.Fork(userID, title)
	if err != nil {
		if errors.Is(err, list.ErrForbidden) {
			return nil, forbidden(err)
		}
		return nil, invalid(err)
	}
	if err := ls.lists.SaveList(ctx, fork); err != nil {
		return nil, err
	}
	return fork, nil
}

// Favorites returns the user's favorites list, creating it on first use.
func (ls *ListService) Favorites(ctx context.Context, userID string) (*list.List, error) {
	return ls.lists.EnsureFavorites(ctx, userID)
}

// Mine returns the user's own lists; favorites is provisioned first so it is
// always among them.
func (ls *ListService) Mine(ctx context.Context, userID string) ([]*list.List, error) {
	if _, err := ls.lists.EnsureFavorites(ctx, userID); err != nil {
		return nil, err
	}
	return ls.lists.ListsByCreator(ctx, userID)
}

func (ls *ListService) Saved(ctx context.Context, userID string) ([]*list.List, error) {
	return ls.lists.ListsSavedBy(ctx, userID)
}

func (ls *ListService) Public(ctx context.Context, limit, offset int) ([]*list.List, error) {
	return ls.lists.PublicLists(ctx, limit, offset)
}

func listWriteError(err error) error {
	if errors.Is(err, list.ErrDuplicateQuestion) {
		return invalid(err)
	}
	return err
}
