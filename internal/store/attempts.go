package store

import (
	"context"
	"time"

	"github.com/aptiprep/backend/internal/domain/attempt"
)

const attemptColumns = `id, user_id, question_number, section, type, difficulty, attempts, accuracy,
    time_spent, score, percentile, solved_at`

// ============================================================================
// Solved questions
// ============================================================================

// RecordAttempt appends the attempt and folds it into the question's running
// aggregate in one transaction. A missing question yields ErrNotFound and
// nothing is written.
func (s *SQLStore) RecordAttempt(ctx context.Context, sq *attempt.SolvedQuestion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE questions
		SET accuracy_sum = accuracy_sum + $1,
		    time_spent_sum = time_spent_sum + $2,
		    attempt_count = attempt_count + 1
		WHERE question_number = $3`,
		sq.Accuracy, sq.TimeSpent, sq.QuestionNumber,
	)
	if err != nil {
		return err
	}
	if err := expectOne(result); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO solved_questions (`+attemptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sq.ID, sq.UserID, sq.QuestionNumber, string(sq.Section), string(sq.Type), string(sq.Difficulty),
		sq.Attempts, sq.Accuracy, sq.TimeSpent, sq.Score, sq.Percentile, toMillis(sq.SolvedAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RankScore counts prior attempts on a question scoring strictly below score,
// and all prior attempts on it.
func (s *SQLStore) RankScore(ctx context.Context, questionNumber int, score float64) (below, total int64, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN score < $1 THEN 1 ELSE 0 END), 0), COUNT(*)
		FROM solved_questions
		WHERE question_number = $2`,
		score, questionNumber,
	).Scan(&below, &total)
	return below, total, err
}

// ScoresFor returns every recorded score for a question. Used to rebuild
// external rank indexes.
func (s *SQLStore) ScoresFor(ctx context.Context, questionNumber int) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, score FROM solved_questions WHERE question_number = $1", questionNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var id string
		var score float64
		if err := rows.Scan(&id, &score); err != nil {
			return nil, err
		}
		out[id] = score
	}
	return out, rows.Err()
}

// ListUserAttempts returns a user's attempts oldest first.
func (s *SQLStore) ListUserAttempts(ctx context.Context, userID string) ([]*attempt.SolvedQuestion, error) {
	return s.queryAttempts(ctx,
		"SELECT "+attemptColumns+" FROM solved_questions WHERE user_id = $1 ORDER BY solved_at, id",
		userID,
	)
}

// ListUserAttemptsBetween returns a user's attempts with start <= solvedAt <= end.
func (s *SQLStore) ListUserAttemptsBetween(ctx context.Context, userID string, start, end time.Time) ([]*attempt.SolvedQuestion, error) {
	return s.queryAttempts(ctx,
		"SELECT "+attemptColumns+` FROM solved_questions
		WHERE user_id = $1 AND solved_at >= $2 AND solved_at <= $3
		ORDER BY solved_at, id`,
		userID, toMillis(start), toMillis(end),
	)
}

func (s *SQLStore) queryAttempts(ctx context.Context, query string, args ...any) ([]*attempt.SolvedQuestion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*attempt.SolvedQuestion
	for rows.Next() {
		var sq attempt.SolvedQuestion
		var solvedAt int64
		if err := rows.Scan(
			&sq.ID, &sq.UserID, &sq.QuestionNumber, &sq.Section, &sq.Type, &sq.Difficulty, &sq.Attempts,
			&sq.Accuracy, &sq.TimeSpent, &sq.Score, &sq.Percentile, &solvedAt,
		); err != nil {
			return nil, err
		}
		sq.SolvedAt = fromMillis(solvedAt)
		out = append(out, &sq)
	}
	return out, rows.Err()
}
