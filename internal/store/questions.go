package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/aptiprep/backend/internal/domain/question"
)

const questionColumns = `question_number, section, difficulty, type, text, options, answer, explanation,
    topic_id, attempt_count, accuracy_sum, time_spent_sum`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*question.Question, error) {
	var q question.Question
	var optionsJSON string
	var topicID sql.NullString
	err := row.Scan(
		&q.Number, &q.Section, &q.Difficulty, &q.Type, &q.Text, &optionsJSON, &q.Answer, &q.Explanation,
		&topicID, &q.Stats.AttemptCount, &q.Stats.AccuracySum, &q.Stats.TimeSpentSum,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return nil, err
	}
	if topicID.Valid {
		q.TopicID = &topicID.String
	}
	return &q, nil
}

func questionWhere(f question.Filter) *where {
	w := &where{}
	if f.Section != "" {
		w.add("section = $%d", string(f.Section))
	}
	if f.Difficulty != "" {
		w.add("difficulty = $%d", string(f.Difficulty))
	}
	if f.Type != "" {
		w.add("type = $%d", string(f.Type))
	}
	if f.TopicID != "" {
		w.add("topic_id = $%d", f.TopicID)
	}
	return w
}

// SaveQuestion inserts a new question. A taken number yields ErrConflict.
func (s *SQLStore) SaveQuestion(ctx context.Context, q *question.Question) error {
	optionsJSON, err := json.Marshal(nonNil(q.Options))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions (question_number, section, difficulty, type, text, options, answer, explanation, topic_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		q.Number, string(q.Section), string(q.Difficulty), string(q.Type), q.Text, string(optionsJSON),
		q.Answer, q.Explanation, q.TopicID,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// UpdateQuestion rewrites the editable fields. Running aggregates are untouched.
func (s *SQLStore) UpdateQuestion(ctx context.Context, q *question.Question) error {
	optionsJSON, err := json.Marshal(nonNil(q.Options))
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE questions
		SET section = $1, difficulty = $2, type = $3, text = $4, options = $5, answer = $6,
		    explanation = $7, topic_id = $8
		WHERE question_number = $9`,
		string(q.Section), string(q.Difficulty), string(q.Type), q.Text, string(optionsJSON), q.Answer,
		q.Explanation, q.TopicID, q.Number,
	)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, number int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM questions WHERE question_number = $1", number)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) GetQuestion(ctx context.Context, number int) (*question.Question, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE question_number = $1", number)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return q, err
}

// ListQuestions returns matching questions ordered by number. limit <= 0
// returns everything.
func (s *SQLStore) ListQuestions(ctx context.Context, f question.Filter, limit, offset int) ([]*question.Question, error) {
	w := questionWhere(f)
	query := "SELECT " + questionColumns + " FROM questions" + w.String() + " ORDER BY question_number"
	if limit > 0 {
		query += " LIMIT " + w.next(limit) + " OFFSET " + w.next(offset)
	}
	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountQuestions(ctx context.Context, f question.Filter) (int, error) {
	w := questionWhere(f)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions"+w.String(), w.args...).Scan(&n)
	return n, err
}

// QuestionAt returns the offset-th matching question in number order.
func (s *SQLStore) QuestionAt(ctx context.Context, f question.Filter, offset int) (*question.Question, error) {
	w := questionWhere(f)
	query := "SELECT " + questionColumns + " FROM questions" + w.String() +
		" ORDER BY question_number LIMIT 1 OFFSET " + w.next(offset)
	q, err := scanQuestion(s.db.QueryRowContext(ctx, query, w.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return q, err
}

// MissingQuestions returns the numbers that have no question row, in input order.
func (s *SQLStore) MissingQuestions(ctx context.Context, numbers []int) ([]int, error) {
	var missing []int
	for _, n := range numbers {
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM questions WHERE question_number = $1", n).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			missing = append(missing, n)
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	return missing, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
