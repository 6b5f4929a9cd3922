package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aptiprep/backend/internal/domain/attempt"
	"github.com/aptiprep/backend/internal/domain/progress"
	"github.com/aptiprep/backend/internal/domain/question"
	"github.com/aptiprep/backend/internal/store"
)

func newProgress(qs *fakeQuestionStore, as *fakeAttemptStore) *ProgressService {
	return NewProgressService(qs, as, newFakeIndex(), discardLogger())
}

func TestRecordAttemptScenario42(t *testing.T) {
	qs := newFakeQuestionStore(mcq(42, question.SectionQuantitative, question.DifficultyMedium))
	as := &fakeAttemptStore{}
	ps := newProgress(qs, as)
	ctx := context.Background()

	steps := []struct {
		user       string
		timeSpent  float64
		accuracy   float64
		score      float64
		percentile float64
	}{
		{"u1", 10, 100, 10, 0},
		{"u2", 20, 50, 2.5, 0},
		{"u3", 5, 100, 20, 100},
	}
	for _, st := range steps {
		sq, err := ps.RecordAttempt(ctx, attempt.Input{
			UserID: st.user, QuestionNumber: 42, TimeSpent: st.timeSpent, Accuracy: st.accuracy,
		})
		if err != nil {
			t.Fatalf("%s: %v", st.user, err)
		}
		if sq.Score != st.score || sq.Percentile != st.percentile {
			t.Errorf("%s: score=%v percentile=%v, want %v / %v", st.user, sq.Score, sq.Percentile, st.score, st.percentile)
		}
		if sq.Section != question.SectionQuantitative || sq.Difficulty != question.DifficultyMedium {
			t.Errorf("%s: classification not copied from question: %+v", st.user, sq)
		}
	}
	if len(as.records) != 3 {
		t.Errorf("expected 3 stored attempts, got %d", len(as.records))
	}
}

func TestRecordAttemptPercentileTies(t *testing.T) {
	qs := newFakeQuestionStore(mcq(1, question.SectionLogical, question.DifficultyEasy))
	ps := newProgress(qs, &fakeAttemptStore{})
	idx := ps.index.(*fakeIndex)
	idx.scores[1] = []float64{10, 20, 30}

	tests := []struct {
		accuracy float64
		want     float64
	}{
		{25, 200.0 / 3},
		{5, 0},
		{35, 100},
		{20, 100.0 / 3},
	}
	for _, tt := range tests {
		// timeSpent 1 makes the score equal to the accuracy.
		idx.scores[1] = []float64{10, 20, 30}
		sq, err := ps.RecordAttempt(context.Background(), attempt.Input{
			UserID: "u", QuestionNumber: 1, TimeSpent: 1, Accuracy: tt.accuracy,
		})
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(sq.Percentile-tt.want) > 1e-9 {
			t.Errorf("score %v: percentile = %v, want %v", tt.accuracy, sq.Percentile, tt.want)
		}
	}
}

func TestRecordAttemptRejects(t *testing.T) {
	qs := newFakeQuestionStore(mcq(1, question.SectionVerbal, question.DifficultyHard))
	as := &fakeAttemptStore{}
	ps := newProgress(qs, as)
	ctx := context.Background()

	_, err := ps.RecordAttempt(ctx, attempt.Input{UserID: "u", QuestionNumber: 1, TimeSpent: 0, Accuracy: 50})
	if !errors.Is(err, ErrInvalid) || !errors.Is(err, attempt.ErrInvalidTimeSpent) {
		t.Errorf("zero time: got %v", err)
	}

	_, err = ps.RecordAttempt(ctx, attempt.Input{UserID: "u", QuestionNumber: 99, TimeSpent: 3, Accuracy: 50})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing question: got %v", err)
	}

	if len(as.records) != 0 {
		t.Errorf("rejected attempts must not be stored, got %d", len(as.records))
	}
}

func TestProgressAndActivity(t *testing.T) {
	qs := newFakeQuestionStore(
		mcq(1, question.SectionQuantitative, question.DifficultyEasy),
		mcq(2, question.SectionQuantitative, question.DifficultyHard),
	)
	as := &fakeAttemptStore{}
	ps := newProgress(qs, as)
	ctx := context.Background()

	day := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	ps.now = func() time.Time { return day }
	for _, in := range []attempt.Input{
		{UserID: "u", QuestionNumber: 1, TimeSpent: 10, Accuracy: 100},
		{UserID: "u", QuestionNumber: 1, TimeSpent: 20, Accuracy: 40},
		{UserID: "u", QuestionNumber: 2, TimeSpent: 30, Accuracy: 70},
	} {
		if _, err := ps.RecordAttempt(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := ps.Progress(ctx, "u", progress.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalQuestionsSolved != 2 || sum.TotalAttempts != 3 {
		t.Errorf("solved=%d attempts=%d, want 2/3", sum.TotalQuestionsSolved, sum.TotalAttempts)
	}
	if sum.AverageAccuracy != 70 || sum.AverageTimeSpent != 20 {
		t.Errorf("averages = %v / %v, want 70 / 20", sum.AverageAccuracy, sum.AverageTimeSpent)
	}

	hard, err := ps.Progress(ctx, "u", progress.Filter{Difficulty: question.DifficultyHard})
	if err != nil {
		t.Fatal(err)
	}
	if hard.TotalQuestionsSolved != 1 {
		t.Errorf("hard solved = %d, want 1", hard.TotalQuestionsSolved)
	}

	if _, err := ps.Progress(ctx, "u", progress.Filter{Difficulty: "Impossible"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected invalid filter error, got %v", err)
	}

	activity, err := ps.Activity(ctx, "u", "2024-05-01", "2024-05-31")
	if err != nil {
		t.Fatal(err)
	}
	if activity["2024-05-10"] != 3 || len(activity) != 1 {
		t.Errorf("activity = %v, want {2024-05-10: 3}", activity)
	}

	if _, err := ps.Activity(ctx, "u", "2024-06-01", "2024-05-01"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected invalid range error, got %v", err)
	}
}

func TestRandomQuestionStatusRequiresUser(t *testing.T) {
	ps := newProgress(newFakeQuestionStore(mcq(1, question.SectionVerbal, question.DifficultyEasy)), &fakeAttemptStore{})
	_, err := ps.RandomQuestion(context.Background(), question.Filter{}, attempt.StatusSolved, "")
	if !errors.Is(err, ErrStatusNeedsUser) {
		t.Errorf("expected ErrStatusNeedsUser, got %v", err)
	}
}

func TestRandomQuestionEmpty(t *testing.T) {
	ps := newProgress(newFakeQuestionStore(mcq(1, question.SectionVerbal, question.DifficultyEasy)), &fakeAttemptStore{})
	ctx := context.Background()

	if _, err := ps.RandomQuestion(ctx, question.Filter{Difficulty: question.DifficultyHard}, "", ""); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("unfiltered path: expected ErrNoQuestions, got %v", err)
	}
	if _, err := ps.RandomQuestion(ctx, question.Filter{}, attempt.StatusSolved, "u"); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("status path: expected ErrNoQuestions, got %v", err)
	}
}

func TestRandomQuestionUnfilteredUsesCount(t *testing.T) {
	qs := newFakeQuestionStore(
		mcq(5, question.SectionLogical, question.DifficultyEasy),
		mcq(7, question.SectionLogical, question.DifficultyEasy),
		mcq(9, question.SectionVerbal, question.DifficultyEasy),
	)
	ps := newProgress(qs, &fakeAttemptStore{})
	ps.intn = func(n int) int { return n - 1 }

	q, err := ps.RandomQuestion(context.Background(), question.Filter{Section: question.SectionLogical}, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if q.Number != 7 {
		t.Errorf("last offset picked question %d, want 7", q.Number)
	}
	if qs.countCalls != 1 || qs.listCalls != 0 {
		t.Errorf("unfiltered path should count and fetch one row, got count=%d list=%d", qs.countCalls, qs.listCalls)
	}
}

func TestRandomQuestionUniform(t *testing.T) {
	qs := newFakeQuestionStore(
		mcq(1, question.SectionQuantitative, question.DifficultyEasy),
		mcq(2, question.SectionQuantitative, question.DifficultyEasy),
		mcq(3, question.SectionQuantitative, question.DifficultyEasy),
		mcq(4, question.SectionQuantitative, question.DifficultyEasy),
		mcq(5, question.SectionQuantitative, question.DifficultyEasy),
		mcq(6, question.SectionQuantitative, question.DifficultyEasy),
		mcq(7, question.SectionQuantitative, question.DifficultyEasy),
		mcq(8, question.SectionQuantitative, question.DifficultyEasy),
		mcq(9, question.SectionVerbal, question.DifficultyEasy),
	)
	as := &fakeAttemptStore{}
	ps := newProgress(qs, as)
	ctx := context.Background()

	// u has solved 1-4; 5-8 remain unsolved in the quantitative section.
	for n := 1; n <= 4; n++ {
		if _, err := ps.RecordAttempt(ctx, attempt.Input{UserID: "u", QuestionNumber: n, TimeSpent: 1, Accuracy: 90}); err != nil {
			t.Fatal(err)
		}
	}

	const trials = 8000
	f := question.Filter{Section: question.SectionQuantitative}
	tests := []struct {
		name   string
		status attempt.Status
		want   []int
	}{
		{"unfiltered", "", []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"solved", attempt.StatusSolved, []int{1, 2, 3, 4}},
		{"unsolved", attempt.StatusUnsolved, []int{5, 6, 7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := make(map[int]int)
			for i := 0; i < trials; i++ {
				q, err := ps.RandomQuestion(ctx, f, tt.status, "u")
				if err != nil {
					t.Fatal(err)
				}
				counts[q.Number]++
			}
			if len(counts) != len(tt.want) {
				t.Fatalf("picked %d distinct questions, want %d: %v", len(counts), len(tt.want), counts)
			}
			expected := float64(trials) / float64(len(tt.want))
			for _, n := range tt.want {
				if got := float64(counts[n]); math.Abs(got-expected) > expected*0.15 {
					t.Errorf("question %d picked %v times, expected about %v", n, got, expected)
				}
			}
		})
	}
}
