package question

// Stats is the running aggregate over every attempt ever recorded for a question.
// Sums and count are only ever incremented, so averages never need a re-scan.
type Stats struct {
	AttemptCount int64
	AccuracySum  float64
	TimeSpentSum float64
}

// Add folds one attempt into the aggregate.
func (s *Stats) Add(accuracy, timeSpent float64) {
	s.AttemptCount++
	s.AccuracySum += accuracy
	s.TimeSpentSum += timeSpent
}

func (s Stats) AvgAccuracy() float64 {
	if s.AttemptCount == 0 {
		return 0
	}
	return s.AccuracySum / float64(s.AttemptCount)
}

func (s Stats) AvgTimeSpent() float64 {
	if s.AttemptCount == 0 {
		return 0
	}
	return s.TimeSpentSum / float64(s.AttemptCount)
}
