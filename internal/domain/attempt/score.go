package attempt

// Score is accuracy per second spent: fast and correct scores highest.
func Score(accuracy, timeSpent float64) (float64, error) {
	if timeSpent <= 0 {
		return 0, ErrInvalidTimeSpent
	}
	if accuracy < 0 || accuracy > 100 {
		return 0, ErrInvalidAccuracy
	}
	return accuracy / timeSpent, nil
}

// Percentile is the share of prior scores strictly below the new one, in percent.
// below counts prior scores < score; total counts all prior scores. Ties are not
// counted as beaten, and a question with no prior scores yields 0.
func Percentile(below, total int64) float64 {
	if total <= 0 || below <= 0 {
		return 0
	}
	if below > total {
		below = total
	}
	return 100 * float64(below) / float64(total)
}

// Rank counts how many of prior are strictly below score.
func Rank(prior []float64, score float64) (below, total int64) {
	for _, p := range prior {
		if p < score {
			below++
		}
	}
	return below, int64(len(prior))
}
