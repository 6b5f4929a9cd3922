package progress

import (
	"errors"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/domain/attempt"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("dates must be YYYY-MM-DD or RFC3339")
	ErrInvalidRange = errors.New("startDate must not be after endDate")
)

// Range is an inclusive time window.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseRange accepts YYYY-MM-DD or RFC3339 bounds. A date-only end bound covers
// the whole day. Date-only values are interpreted in UTC.
func ParseRange(start, end string) (Range, error) {
	s, _, err := parseBound(start)
	if err != nil {
		return Range{}, err
	}
	e, dateOnly, err := parseBound(end)
	if err != nil {
		return Range{}, err
	}
	if dateOnly {
		e = e.Add(24*time.Hour - time.Nanosecond)
	}
	if s.After(e) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: s, End: e}, nil
}

func parseBound(v string) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if t, err := time.ParseInLocation(DateLayout, v, time.UTC); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, ErrInvalidDate
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Activity buckets records inside r by their UTC calendar date. Days without
// attempts are absent from the result.
func Activity(records []*attempt.SolvedQuestion, r Range) map[string]int {
	out := make(map[string]int)
	for _, rec := range records {
		if !r.Contains(rec.SolvedAt) {
			continue
		}
		out[rec.SolvedAt.UTC().Format(DateLayout)]++
	}
	return out
}
