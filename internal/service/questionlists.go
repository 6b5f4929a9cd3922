package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aptiprep/backend/internal/domain/notification"
	"github.com/aptiprep/backend/internal/domain/questionlist"
	"github.com/aptiprep/backend/internal/store"
)

type QuestionListStore interface {
	SaveQuestionList(ctx context.Context, ql *questionlist.QuestionList) error
	UpdateQuestionList(ctx context.Context, ql *questionlist.QuestionList) error
	DeleteQuestionList(ctx context.Context, id string) error
	GetQuestionList(ctx context.Context, id string) (*questionlist.QuestionList, error)
	FindQuestionLists(ctx context.Context, f store.QuestionListFilter) ([]*questionlist.QuestionList, error)
	QuestionListsSavedBy(ctx context.Context, userID string) ([]*questionlist.QuestionList, error)
	ToggleQuestionListLike(ctx context.Context, listID, userID string) (bool, error)
	ToggleQuestionListSave(ctx context.Context, listID, userID string) (bool, error)
}

type QuestionListService struct {
	lists     QuestionListStore
	questions QuestionStore
	notifier  Notifier
	logger    *slog.Logger
}

func NewQuestionListService(l QuestionListStore, q QuestionStore, n Notifier, logger *slog.Logger) *QuestionListService {
	return &QuestionListService{lists: l, questions: q, notifier: n, logger: logger}
}

type QuestionListInput struct {
	Title       string
	Description string
	Questions   []int
	Tags        []string
	IsPublic    bool
}

func (s *QuestionListService) Create(ctx context.Context, v questionlist.Viewer, in QuestionListInput) (*questionlist.QuestionList, error) {
	ql, err := questionlist.New(v, in.Title, in.Description, in.Questions, in.Tags, in.IsPublic)
	if err != nil {
		return nil, invalid(err)
	}
	if err := requireQuestions(ctx, s.questions, ql.Questions); err != nil {
		return nil, err
	}
	if err := s.lists.SaveQuestionList(ctx, ql); err != nil {
		return nil, err
	}
	return ql, nil
}

func (s *QuestionListService) Get(ctx context.Context, id string, v questionlist.Viewer) (*questionlist.QuestionList, error) {
	ql, err := s.lists.GetQuestionList(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ql.CanRead(v) {
		return nil, forbidden(questionlist.ErrForbidden)
	}
	return ql, nil
}

func (s *QuestionListService) Update(ctx context.Context, id string, v questionlist.Viewer, p questionlist.Patch) (*questionlist.QuestionList, error) {
	ql, err := s.lists.GetQuestionList(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ql.CheckMutate(v); err != nil {
		return nil, forbidden(err)
	}
	if err := ql.Apply(p); err != nil {
		return nil, invalid(err)
	}
	if p.Questions != nil {
		if err := requireQuestions(ctx, s.questions, ql.Questions); err != nil {
			return nil, err
		}
	}
	if err := s.lists.UpdateQuestionList(ctx, ql); err != nil {
		return nil, err
	}
	return ql, nil
}

func (s *QuestionListService) Delete(ctx context.Context, id string, v questionlist.Viewer) error {
	ql, err := s.lists.GetQuestionList(ctx, id)
	if err != nil {
		return err
	}
	if err := ql.CheckMutate(v); err != nil {
		return forbidden(err)
	}
	return s.lists.DeleteQuestionList(ctx, id)
}

// ToggleLike flips the viewer's like and notifies the creator when someone
// else likes their list.
func (s *QuestionListService) ToggleLike(ctx context.Context, id string, v questionlist.Viewer) (bool, error) {
	ql, err := s.lists.GetQuestionList(ctx, id)
	if err != nil {
		return false, err
	}
	if err := ql.CheckInteract(v); err != nil {
		return false, forbidden(err)
	}
	liked, err := s.lists.ToggleQuestionListLike(ctx, id, v.ID)
	if err != nil {
		return false, err
	}
	if liked && v.ID != ql.CreatorID && s.notifier != nil {
		s.notifier.Notify(notification.New(ql.CreatorID, notification.KindQuestionListLike,
			fmt.Sprintf("Your question list %q received a like", ql.Title),
			"/questionlists/"+ql.ID))
	}
	return liked, nil
}

func (s *QuestionListService) ToggleSave(ctx context.Context, id string, v questionlist.Viewer) (bool, error) {
	ql, err := s.lists.GetQuestionList(ctx, id)
	if err != nil {
		return false, err
	}
	if err := ql.CheckInteract(v); err != nil {
		return false, forbidden(err)
	}
	return s.lists.ToggleQuestionListSave(ctx, id, v.ID)
}

// Browse lists public question lists, optionally narrowed by tag or official flag.
func (s *QuestionListService) Browse(ctx context.Context, tag string, official *bool, limit, offset int) ([]*questionlist.QuestionList, error) {
	var tagFilter string
	if tags := questionlist.NormalizeTags([]string{tag}); len(tags) == 1 {
		tagFilter = tags[0]
	}
	return s.lists.FindQuestionLists(ctx, store.QuestionListFilter{
		PublicOnly: true,
		Tag:        tagFilter,
		Official:   official,
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *QuestionListService) Mine(ctx context.Context, userID string) ([]*questionlist.QuestionList, error) {
	return s.lists.FindQuestionLists(ctx, store.QuestionListFilter{CreatorID: userID})
}

func (s *QuestionListService) Saved(ctx context.Context, userID string) ([]*questionlist.QuestionList, error) {
	return s.lists.QuestionListsSavedBy(ctx, userID)
}
