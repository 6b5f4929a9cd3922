package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aptiprep/backend/internal/domain/question"
	"github.com/aptiprep/backend/internal/grader"
	"github.com/aptiprep/backend/internal/store"
)

// QuestionStore is the persistence the question bank needs.
type QuestionStore interface {
	SaveQuestion(ctx context.Context, q *question.Question) error
	UpdateQuestion(ctx context.Context, q *question.Question) error
	DeleteQuestion(ctx context.Context, number int) error
	GetQuestion(ctx context.Context, number int) (*question.Question, error)
	ListQuestions(ctx context.Context, f question.Filter, limit, offset int) ([]*question.Question, error)
	CountQuestions(ctx context.Context, f question.Filter) (int, error)
	QuestionAt(ctx context.Context, f question.Filter, offset int) (*question.Question, error)
	MissingQuestions(ctx context.Context, numbers []int) ([]int, error)
}

// QuestionService manages the question bank and answer checking.
type QuestionService struct {
	store  QuestionStore
	grader grader.Grader
	logger *slog.Logger
}

func NewQuestionService(s QuestionStore, g grader.Grader, logger *slog.Logger) *QuestionService {
	return &QuestionService{store: s, grader: g, logger: logger}
}

func (qs *QuestionService) Create(ctx context.Context, q *question.Question) error {
	if err := q.Validate(); err != nil {
		return invalid(err)
	}
	q.Stats = question.Stats{}
	return qs.store.SaveQuestion(ctx, q)
}

func (qs *QuestionService) Update(ctx context.Context, q *question.Question) error {
	if err := q.Validate(); err != nil {
		return invalid(err)
	}
	return qs.store.UpdateQuestion(ctx, q)
}

func (qs *QuestionService) Delete(ctx context.Context, number int) error {
	return qs.store.DeleteQuestion(ctx, number)
}

func (qs *QuestionService) Get(ctx context.Context, number int) (*question.Question, error) {
	return qs.store.GetQuestion(ctx, number)
}

// Page is one slice of a filtered listing plus the filter's total size.
type Page struct {
	Questions []*question.Question
	Total     int
}

func (qs *QuestionService) List(ctx context.Context, f question.Filter, limit, offset int) (Page, error) {
	if err := f.Validate(); err != nil {
		return Page{}, invalid(err)
	}
	total, err := qs.store.CountQuestions(ctx, f)
	if err != nil {
		return Page{}, err
	}
	items, err := qs.store.ListQuestions(ctx, f, limit, offset)
	if err != nil {
		return Page{}, err
	}
	return Page{Questions: items, Total: total}, nil
}

// Check grades a submitted answer against the stored key.
func (qs *QuestionService) Check(ctx context.Context, number int, answer string) (bool, error) {
	q, err := qs.store.GetQuestion(ctx, number)
	if err != nil {
		return false, err
	}
	ok, err := qs.grader.Check(q, answer)
	if err != nil {
		return false, invalid(err)
	}
	return ok, nil
}

// Export returns the whole bank in number order.
func (qs *QuestionService) Export(ctx context.Context) ([]*question.Question, error) {
	return qs.store.ListQuestions(ctx, question.Filter{}, 0, 0)
}

// ImportResult counts what an import did.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Import upserts questions by number. Every question is validated before
// anything is written.
func (qs *QuestionService) Import(ctx context.Context, questions []*question.Question) (ImportResult, error) {
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return ImportResult{}, invalid(fmt.Errorf("question %d: %w", q.Number, err))
		}
	}

	var res ImportResult
	for _, q := range questions {
		err := qs.store.SaveQuestion(ctx, q)
		if err == nil {
			res.Created++
			continue
		}
		if !errors.Is(err, store.ErrConflict) {
			return res, fmt.Errorf("import question %d: %w", q.Number, err)
		}
		if err := qs.store.UpdateQuestion(ctx, q); err != nil {
			return res, fmt.Errorf("import question %d: %w", q.Number, err)
		}
		res.Updated++
	}
	qs.logger.Info("questions imported", "created", res.Created, "updated", res.Updated)
	return res, nil
}

// requireQuestions rejects references to questions that do not exist.
func requireQuestions(ctx context.Context, s QuestionStore, numbers []int) error {
	if len(numbers) == 0 {
		return nil
	}
	missing, err := s.MissingQuestions(ctx, numbers)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return invalid(fmt.Errorf("question %d: %w", missing[0], store.ErrNotFound))
	}
	return nil
}
