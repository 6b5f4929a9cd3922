package question_test

import (
	"errors"
	"testing"

	"github.com/aptiprep/backend/internal/domain/question"
)

func validMCQ() *question.Question {
	return &question.Question{
		Number:     42,
		Section:    question.SectionQuantitative,
		Difficulty: question.DifficultyEasy,
		Type:       question.TypeMCQ,
		Text:       "What is 6 x 7?",
		Options:    []string{"36", "42", "48"},
		Answer:     "42",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *question.Question)
		want   error
	}{
		{"valid", func(q *question.Question) {}, nil},
		{"zero number", func(q *question.Question) { q.Number = 0 }, question.ErrInvalidNumber},
		{"empty text", func(q *question.Question) { q.Text = "  " }, question.ErrTextRequired},
		{"bad section", func(q *question.Question) { q.Section = "history" }, question.ErrInvalidSection},
		{"bad difficulty", func(q *question.Question) { q.Difficulty = "Insane" }, question.ErrInvalidDifficulty},
		{"bad type", func(q *question.Question) { q.Type = "Essay" }, question.ErrInvalidType},
		{"no answer", func(q *question.Question) { q.Answer = "" }, question.ErrAnswerRequired},
		{"one option", func(q *question.Question) { q.Options = []string{"42"} }, question.ErrOptionsRequired},
		{"answer not an option", func(q *question.Question) { q.Answer = "41" }, question.ErrAnswerNotAnOption},
		{"integer without options", func(q *question.Question) {
			q.Type = question.TypeInteger
			q.Options = nil
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validMCQ()
			tt.mutate(q)
			if err := q.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFilterMatches(t *testing.T) {
	topic := "t1"
	q := validMCQ()
	q.TopicID = &topic

	tests := []struct {
		name   string
		filter question.Filter
		want   bool
	}{
		{"empty filter", question.Filter{}, true},
		{"section match", question.Filter{Section: question.SectionQuantitative}, true},
		{"section mismatch", question.Filter{Section: question.SectionVerbal}, false},
		{"all match", question.Filter{Section: question.SectionQuantitative, Difficulty: question.DifficultyEasy, Type: question.TypeMCQ}, true},
		{"difficulty mismatch", question.Filter{Difficulty: question.DifficultyHard}, false},
		{"topic match", question.Filter{TopicID: "t1"}, true},
		{"topic mismatch", question.Filter{TopicID: "t2"}, false},
	}

	for _, tt := range tests {
		if got := tt.filter.Matches(q); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestStats(t *testing.T) {
	var s question.Stats

	if s.AvgAccuracy() != 0 || s.AvgTimeSpent() != 0 {
		t.Fatal("expected zero averages with no attempts")
	}

	s.Add(100, 10)
	s.Add(50, 20)

	if s.AttemptCount != 2 {
		t.Errorf("expected 2 attempts, got %d", s.AttemptCount)
	}
	if s.AvgAccuracy() != 75 {
		t.Errorf("expected avg accuracy 75, got %v", s.AvgAccuracy())
	}
	if s.AvgTimeSpent() != 15 {
		t.Errorf("expected avg time 15, got %v", s.AvgTimeSpent())
	}
}
