// Package scoreindex answers "how many earlier attempts on this question
// scored below s" for percentile computation.
package scoreindex

import "context"

// Index ranks a score against the prior attempts of one question and learns
// new attempts once they are stored.
type Index interface {
	// Rank returns the number of prior scores strictly below score and the
	// number of prior scores in total.
	Rank(ctx context.Context, questionNumber int, score float64) (below, total int64, err error)
	// Add records a stored attempt.
	Add(ctx context.Context, questionNumber int, attemptID string, score float64) error
}

// Ranker is the store query the SQL index delegates to.
type Ranker interface {
	RankScore(ctx context.Context, questionNumber int, score float64) (below, total int64, err error)
}

// SQL ranks directly against the solved_questions table. Rows are written by
// the store, so Add has nothing to do.
type SQL struct {
	ranker Ranker
}

func NewSQL(r Ranker) *SQL {
	return &SQL{ranker: r}
}

func (s *SQL) Rank(ctx context.Context, questionNumber int, score float64) (int64, int64, error) {
	return s.ranker.RankScore(ctx, questionNumber, score)
}

func (s *SQL) Add(context.Context, int, string, float64) error {
	return nil
}
