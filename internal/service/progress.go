package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aptiprep/backend/internal/domain/attempt"
	"github.com/aptiprep/backend/internal/domain/progress"
	"github.com/aptiprep/backend/internal/domain/question"
	"github.com/aptiprep/backend/internal/scoreindex"
)

var ErrStatusNeedsUser = errors.New("status filter requires a signed-in user")

// AttemptStore is the append-only attempt log.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, sq *attempt.SolvedQuestion) error
	ListUserAttempts(ctx context.Context, userID string) ([]*attempt.SolvedQuestion, error)
	ListUserAttemptsBetween(ctx context.Context, userID string, start, end time.Time) ([]*attempt.SolvedQuestion, error)
}

// ProgressService records attempts and derives per-user progress from them.
type ProgressService struct {
	questions QuestionStore
	attempts  AttemptStore
	index     scoreindex.Index
	logger    *slog.Logger

	now  func() time.Time
	intn func(n int) int
}

func NewProgressService(q QuestionStore, a AttemptStore, idx scoreindex.Index, logger *slog.Logger) *ProgressService {
	return &ProgressService{
		questions: q,
		attempts:  a,
		index:     idx,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		intn:      rand.Intn,
	}
}

// RecordAttempt validates and stores one attempt. The percentile is fixed at
// write time against the attempts already stored for the question.
func (ps *ProgressService) RecordAttempt(ctx context.Context, in attempt.Input) (*attempt.SolvedQuestion, error) {
	sq, err := attempt.New(in, ps.now())
	if err != nil {
		return nil, invalid(err)
	}

	q, err := ps.questions.GetQuestion(ctx, in.QuestionNumber)
	if err != nil {
		return nil, err
	}
	if sq.Section == "" {
		sq.Section = q.Section
	}
	if sq.Type == "" {
		sq.Type = q.Type
	}
	if sq.Difficulty == "" {
		sq.Difficulty = q.Difficulty
	}

	below, total, err := ps.index.Rank(ctx, sq.QuestionNumber, sq.Score)
	if err != nil {
		return nil, fmt.Errorf("rank score: %w", err)
	}
	sq.Percentile = attempt.Percentile(below, total)

	if err := ps.attempts.RecordAttempt(ctx, sq); err != nil {
		return nil, err
	}

	// The attempt row is authoritative; a stale index only skews later percentiles.
	if err := ps.index.Add(ctx, sq.QuestionNumber, sq.ID, sq.Score); err != nil {
		ps.logger.Error("score index update failed", "question", sq.QuestionNumber, "error", err)
	}
	return sq, nil
}

func (ps *ProgressService) Progress(ctx context.Context, userID string, f progress.Filter) (progress.Summary, error) {
	if err := f.Validate(); err != nil {
		return progress.Summary{}, invalid(err)
	}
	records, err := ps.attempts.ListUserAttempts(ctx, userID)
	if err != nil {
		return progress.Summary{}, err
	}
	return progress.Summarize(records, f), nil
}

// Activity returns per-day attempt counts for the inclusive range.
func (ps *ProgressService) Activity(ctx context.Context, userID, start, end string) (map[string]int, error) {
	r, err := progress.ParseRange(start, end)
	if err != nil {
		return nil, invalid(err)
	}
	records, err := ps.attempts.ListUserAttemptsBetween(ctx, userID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return progress.Activity(records, r), nil
}

// Statuses maps every question the user attempted to its latest status.
func (ps *ProgressService) Statuses(ctx context.Context, userID string) (map[int]attempt.Status, error) {
	if userID == "" {
		return map[int]attempt.Status{}, nil
	}
	records, err := ps.attempts.ListUserAttempts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.LatestStatuses(records), nil
}

// RandomQuestion picks uniformly among the questions matching f, and when
// status is set, among those whose status for userID equals it.
func (ps *ProgressService) RandomQuestion(ctx context.Context, f question.Filter, status attempt.Status, userID string) (*question.Question, error) {
	if err := f.Validate(); err != nil {
		return nil, invalid(err)
	}
	if status == "" {
		return ps.randomUnfiltered(ctx, f)
	}
	if !status.Valid() {
		return nil, invalid(fmt.Errorf("unknown status %q", status))
	}
	if userID == "" {
		return nil, invalid(ErrStatusNeedsUser)
	}

	candidates, err := ps.questions.ListQuestions(ctx, f, 0, 0)
	if err != nil {
		return nil, err
	}
	statuses, err := ps.Statuses(ctx, userID)
	if err != nil {
		return nil, err
	}
	matching := candidates[:0]
	for _, q := range candidates {
		if progress.StatusOf(statuses, q.Number) == status {
			matching = append(matching, q)
		}
	}
	if len(matching) == 0 {
		return nil, ErrNoQuestions
	}
	return matching[ps.intn(len(matching))], nil
}

func (ps *ProgressService) randomUnfiltered(ctx context.Context, f question.Filter) (*question.Question, error) {
	n, err := ps.questions.CountQuestions(ctx, f)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoQuestions
	}
	return ps.questions.QuestionAt(ctx, f, ps.intn(n))
}
