package grader

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/aptiprep/backend/internal/domain/question"
)

var ErrEmptyAnswer = errors.New("answer cannot be empty")

// Grader checks a user's answer against a question's key.
type Grader interface {
	Check(q *question.Question, answer string) (bool, error)
}

// KeyGrader compares MCQ answers by option text (case and surrounding space
// ignored) and Integer answers numerically.
type KeyGrader struct{}

func New() KeyGrader { return KeyGrader{} }

func (KeyGrader) Check(q *question.Question, answer string) (bool, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false, ErrEmptyAnswer
	}

	switch q.Type {
	case question.TypeInteger:
		got, okGot := parseNumber(answer)
		want, okWant := parseNumber(q.Answer)
		if !okGot || !okWant {
			return answer == strings.TrimSpace(q.Answer), nil
		}
		return math.Abs(got-want) < 1e-9, nil
	default:
		return strings.EqualFold(answer, strings.TrimSpace(q.Answer)), nil
	}
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
