package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aptiprep/backend/internal/domain/attempt"
	"github.com/aptiprep/backend/internal/domain/notification"
	"github.com/aptiprep/backend/internal/domain/question"
	"github.com/aptiprep/backend/internal/infrastructure/db"
	"github.com/aptiprep/backend/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSQLStore opens a private in-memory database for one test.
func newSQLStore(t *testing.T) *store.SQLStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.OpenMemory(context.Background(), "svc_"+name)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	s := store.New(conn)
	t.Cleanup(func() { s.Close() })
	return s
}

type fakeQuestionStore struct {
	byNumber map[int]*question.Question

	countCalls int
	listCalls  int
}

func newFakeQuestionStore(qs ...*question.Question) *fakeQuestionStore {
	f := &fakeQuestionStore{byNumber: make(map[int]*question.Question)}
	for _, q := range qs {
		f.byNumber[q.Number] = q
	}
	return f
}

func (f *fakeQuestionStore) sorted(filter question.Filter) []*question.Question {
	var out []*question.Question
	for _, q := range f.byNumber {
		if filter.Matches(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (f *fakeQuestionStore) SaveQuestion(_ context.Context, q *question.Question) error {
	if _, ok := f.byNumber[q.Number]; ok {
		return store.ErrConflict
	}
	f.byNumber[q.Number] = q
	return nil
}

func (f *fakeQuestionStore) UpdateQuestion(_ context.Context, q *question.Question) error {
	if _, ok := f.byNumber[q.Number]; !ok {
		return store.ErrNotFound
	}
	f.byNumber[q.Number] = q
	return nil
}

func (f *fakeQuestionStore) DeleteQuestion(_ context.Context, n int) error {
	if _, ok := f.byNumber[n]; !ok {
		return store.ErrNotFound
	}
	delete(f.byNumber, n)
	return nil
}

func (f *fakeQuestionStore) GetQuestion(_ context.Context, n int) (*question.Question, error) {
	q, ok := f.byNumber[n]
	if !ok {
		return nil, store.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuestionStore) ListQuestions(_ context.Context, filter question.Filter, limit, offset int) ([]*question.Question, error) {
	f.listCalls++
	all := f.sorted(filter)
	if limit <= 0 {
		return all, nil
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeQuestionStore) CountQuestions(_ context.Context, filter question.Filter) (int, error) {
	f.countCalls++
	return len(f.sorted(filter)), nil
}

func (f *fakeQuestionStore) QuestionAt(_ context.Context, filter question.Filter, offset int) (*question.Question, error) {
	all := f.sorted(filter)
	if offset < 0 || offset >= len(all) {
		return nil, store.ErrNotFound
	}
	return all[offset], nil
}

func (f *fakeQuestionStore) MissingQuestions(_ context.Context, numbers []int) ([]int, error) {
	var missing []int
	for _, n := range numbers {
		if _, ok := f.byNumber[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing, nil
}

type fakeAttemptStore struct {
	records []*attempt.SolvedQuestion
	err     error
}

func (f *fakeAttemptStore) RecordAttempt(_ context.Context, sq *attempt.SolvedQuestion) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, sq)
	return nil
}

func (f *fakeAttemptStore) ListUserAttempts(_ context.Context, userID string) ([]*attempt.SolvedQuestion, error) {
	var out []*attempt.SolvedQuestion
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) ListUserAttemptsBetween(_ context.Context, userID string, start, end time.Time) ([]*attempt.SolvedQuestion, error) {
	var out []*attempt.SolvedQuestion
	for _, r := range f.records {
		if r.UserID == userID && !r.SolvedAt.Before(start) && !r.SolvedAt.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeIndex ranks against the attempts added to it.
type fakeIndex struct {
	scores map[int][]float64
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{scores: make(map[int][]float64)}
}

func (f *fakeIndex) Rank(_ context.Context, n int, score float64) (int64, int64, error) {
	below, total := attempt.Rank(f.scores[n], score)
	return below, total, nil
}

func (f *fakeIndex) Add(_ context.Context, n int, _ string, score float64) error {
	f.scores[n] = append(f.scores[n], score)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*notification.Notification
}

func (r *recordingNotifier) Notify(n *notification.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func mcq(n int, section question.Section, difficulty question.Difficulty) *question.Question {
	return &question.Question{
		Number:     n,
		Section:    section,
		Difficulty: difficulty,
		Type:       question.TypeMCQ,
		Text:       "Pick one",
		Options:    []string{"A", "B"},
		Answer:     "A",
	}
}
