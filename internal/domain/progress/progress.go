package progress

import (
	"sort"

	"github.com/aptiprep/backend/internal/domain/attempt"
	"github.com/aptiprep/backend/internal/domain/question"
)

// Filter selects which attempt records count toward a summary. All set
// fields must match.
type Filter struct {
	Type       question.Type
	Section    question.Section
	Difficulty question.Difficulty
}

func (f Filter) Validate() error {
	return question.Filter{Section: f.Section, Difficulty: f.Difficulty, Type: f.Type}.Validate()
}

func (f Filter) Matches(r *attempt.SolvedQuestion) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Section != "" && r.Section != f.Section {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// Summary answers two different questions: how many distinct questions were
// worked on, and how well the user performs per attempt.
type Summary struct {
	TotalQuestionsSolved int
	TotalAttempts        int
	AverageAccuracy      float64
	AverageTimeSpent     float64
	ByDifficulty         map[question.Difficulty]int
}

// Summarize deduplicates by question number for the solved count but averages
// over every matching record, so repeated attempts weigh in each time.
func Summarize(records []*attempt.SolvedQuestion, f Filter) Summary {
	s := Summary{ByDifficulty: map[question.Difficulty]int{}}

	distinct := make(map[int]question.Difficulty)
	var accSum, timeSum float64
	for _, r := range records {
		if !f.Matches(r) {
			continue
		}
		s.TotalAttempts++
		accSum += r.Accuracy
		timeSum += r.TimeSpent
		distinct[r.QuestionNumber] = r.Difficulty
	}

	if s.TotalAttempts == 0 {
		return s
	}

	s.TotalQuestionsSolved = len(distinct)
	s.AverageAccuracy = accSum / float64(s.TotalAttempts)
	s.AverageTimeSpent = timeSum / float64(s.TotalAttempts)
	for _, d := range distinct {
		if d != "" {
			s.ByDifficulty[d]++
		}
	}
	return s
}

// LatestStatuses maps each question the user touched to the status of their
// most recent attempt.
func LatestStatuses(records []*attempt.SolvedQuestion) map[int]attempt.Status {
	sorted := make([]*attempt.SolvedQuestion, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SolvedAt.Before(sorted[j].SolvedAt)
	})

	out := make(map[int]attempt.Status, len(sorted))
	for _, r := range sorted {
		out[r.QuestionNumber] = r.Status()
	}
	return out
}

// StatusOf falls back to Unsolved for questions with no attempts.
func StatusOf(statuses map[int]attempt.Status, number int) attempt.Status {
	if s, ok := statuses[number]; ok {
		return s
	}
	return attempt.StatusUnsolved
}
