package attempt

import (
	"errors"
	"time"

	"github.com/aptiprep/backend/internal/domain/question"
	"github.com/aptiprep/backend/internal/id"
)

var (
	ErrInvalidTimeSpent = errors.New("timeSpent must be greater than zero")
	ErrInvalidAccuracy  = errors.New("accuracy must be between 0 and 100")
	ErrInvalidAttempts  = errors.New("attempts cannot be negative")
	ErrUserRequired     = errors.New("userId is required")
)

type Status string

const (
	StatusSolved    Status = "Solved"
	StatusAttempted Status = "Attempted"
	StatusUnsolved  Status = "Unsolved"
)

func (s Status) Valid() bool {
	return s == StatusSolved || s == StatusAttempted || s == StatusUnsolved
}

// SolvedQuestion is one recorded attempt. Records are append-only; a user
// re-attempting a question gets a new record each time.
type SolvedQuestion struct {
	ID             string
	UserID         string
	QuestionNumber int
	Section        question.Section
	Type           question.Type
	Difficulty     question.Difficulty
	Attempts       int
	Accuracy       float64
	TimeSpent      float64
	Score          float64
	Percentile     float64
	SolvedAt       time.Time
}

// Input is what a client reports after working on a question.
type Input struct {
	UserID         string
	QuestionNumber int
	Section        question.Section
	Type           question.Type
	Difficulty     question.Difficulty
	Attempts       int
	TimeSpent      float64
	Accuracy       float64
}

func (in Input) Validate() error {
	if in.UserID == "" {
		return ErrUserRequired
	}
	if in.QuestionNumber <= 0 {
		return question.ErrInvalidNumber
	}
	if in.TimeSpent <= 0 {
		return ErrInvalidTimeSpent
	}
	if in.Accuracy < 0 || in.Accuracy > 100 {
		return ErrInvalidAccuracy
	}
	if in.Attempts < 0 {
		return ErrInvalidAttempts
	}
	if in.Section != "" && !in.Section.Valid() {
		return question.ErrInvalidSection
	}
	if in.Difficulty != "" && !in.Difficulty.Valid() {
		return question.ErrInvalidDifficulty
	}
	if in.Type != "" && !in.Type.Valid() {
		return question.ErrInvalidType
	}
	return nil
}

// New builds a record from validated input. Percentile is left for the caller,
// which needs the prior scores of the question to compute it.
func New(in Input, now time.Time) (*SolvedQuestion, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	score, err := Score(in.Accuracy, in.TimeSpent)
	if err != nil {
		return nil, err
	}
	attempts := in.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return &SolvedQuestion{
		ID:             id.GenerateID(),
		UserID:         in.UserID,
		QuestionNumber: in.QuestionNumber,
		Section:        in.Section,
		Type:           in.Type,
		Difficulty:     in.Difficulty,
		Attempts:       attempts,
		Accuracy:       in.Accuracy,
		TimeSpent:      in.TimeSpent,
		Score:          score,
		SolvedAt:       now,
	}, nil
}

// Status reports Solved for any attempt with non-zero accuracy.
func (s *SolvedQuestion) Status() Status {
	if s.Accuracy > 0 {
		return StatusSolved
	}
	return StatusAttempted
}
