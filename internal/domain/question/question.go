package question

import (
	"errors"
	"strings"
)

type Section string

const (
	SectionQuantitative       Section = "quantitative"
	SectionLogical            Section = "logical"
	SectionVerbal             Section = "verbal"
	SectionDataInterpretation Section = "data-interpretation"
	SectionGeneralAwareness   Section = "general-awareness"
	SectionTechnical          Section = "technical"
)

var sections = []Section{
	SectionQuantitative,
	SectionLogical,
	SectionVerbal,
	SectionDataInterpretation,
	SectionGeneralAwareness,
	SectionTechnical,
}

func (s Section) Valid() bool {
	for _, v := range sections {
		if s == v {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

type Type string

const (
	TypeMCQ     Type = "MCQ"
	TypeInteger Type = "Integer"
)

func (t Type) Valid() bool {
	return t == TypeMCQ || t == TypeInteger
}

var (
	ErrInvalidNumber     = errors.New("question number must be positive")
	ErrTextRequired      = errors.New("question text is required")
	ErrAnswerRequired    = errors.New("answer is required")
	ErrInvalidSection    = errors.New("invalid section")
	ErrInvalidDifficulty = errors.New("invalid difficulty: must be Easy, Medium or Hard")
	ErrInvalidType       = errors.New("invalid type: must be MCQ or Integer")
	ErrOptionsRequired   = errors.New("MCQ questions need at least two options")
	ErrAnswerNotAnOption = errors.New("MCQ answer must be one of the options")
)

// Question is identified by its public Number rather than a store identity.
type Question struct {
	Number      int
	Section     Section
	Difficulty  Difficulty
	Type        Type
	Text        string
	Options     []string
	Answer      string
	Explanation string
	TopicID     *string
	Stats       Stats
}

// Validate checks the fields an admin supplies when creating or editing a question.
func (q *Question) Validate() error {
	if q.Number <= 0 {
		return ErrInvalidNumber
	}
	if strings.TrimSpace(q.Text) == "" {
		return ErrTextRequired
	}
	if !q.Section.Valid() {
		return ErrInvalidSection
	}
	if !q.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	if !q.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(q.Answer) == "" {
		return ErrAnswerRequired
	}
	if q.Type == TypeMCQ {
		if len(q.Options) < 2 {
			return ErrOptionsRequired
		}
		found := false
		for _, o := range q.Options {
			if o == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return ErrAnswerNotAnOption
		}
	}
	return nil
}

// Filter narrows question queries. Empty fields match everything.
type Filter struct {
	Section    Section
	Difficulty Difficulty
	Type       Type
	TopicID    string
}

func (f Filter) Validate() error {
	if f.Section != "" && !f.Section.Valid() {
		return ErrInvalidSection
	}
	if f.Difficulty != "" && !f.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	if f.Type != "" && !f.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (f Filter) Matches(q *Question) bool {
	if f.Section != "" && q.Section != f.Section {
		return false
	}
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	if f.TopicID != "" && (q.TopicID == nil || *q.TopicID != f.TopicID) {
		return false
	}
	return true
}
