package api

import (
	"net/http"
	"sort"

	"github.com/aptiprep/backend/internal/domain/progress"
	"github.com/aptiprep/backend/internal/domain/question"
)

// ── Request / Response types ────────────────────────────────────────────────

type ProgressResponse struct {
	TotalQuestionsSolved int            `json:"totalQuestionsSolved"`
	TotalAttempts        int            `json:"totalAttempts"`
	AverageAccuracy      float64        `json:"averageAccuracy"`
	AverageTimeSpent     float64        `json:"averageTimeSpent"`
	ByDifficulty         map[string]int `json:"byDifficulty"`
}

type SolvedEntry struct {
	QuestionNumber int    `json:"questionNumber"`
	Status         string `json:"status"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getProgress summarises the caller's attempts.
// @Summary      Progress summary
// @Description  Distinct questions solved, attempt count and averages over every matching attempt.
// @Tags         Dashboard
// @Produce      json
// @Param        type        query     string  false  "MCQ or Integer"
// @Param        section     query     string  false  "Section"
// @Param        difficulty  query     string  false  "Difficulty"
// @Success      200         {object}  ProgressResponse
// @Failure      400         {object}  map[string]string
// @Failure      401         {object}  map[string]string
// @Security     BearerAuth
// @Router       /dashboard/progress [get]
func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := progress.Filter{
		Type:       question.Type(q.Get("type")),
		Section:    question.Section(q.Get("section")),
		Difficulty: question.Difficulty(q.Get("difficulty")),
	}

	summary, err := h.svc.Progress.Progress(r.Context(), viewerID(r), f)
	if h.handleError(w, err, "progress") {
		return
	}

	byDifficulty := make(map[string]int, len(summary.ByDifficulty))
	for d, n := range summary.ByDifficulty {
		byDifficulty[string(d)] = n
	}
	respondJSON(w, http.StatusOK, ProgressResponse{
		TotalQuestionsSolved: summary.TotalQuestionsSolved,
		TotalAttempts:        summary.TotalAttempts,
		AverageAccuracy:      summary.AverageAccuracy,
		AverageTimeSpent:     summary.AverageTimeSpent,
		ByDifficulty:         byDifficulty,
	})
}

// getActivity returns per-day attempt counts, keyed YYYY-MM-DD in UTC.
// @Summary      Activity calendar
// @Tags         Dashboard
// @Produce      json
// @Param        startDate  query     string  false  "YYYY-MM-DD or RFC3339"
// @Param        endDate    query     string  false  "YYYY-MM-DD or RFC3339"
// @Param        userId     query     string  false  "Defaults to the caller; admins may pass another user"
// @Success      200        {object}  map[string]int
// @Failure      400        {object}  map[string]string
// @Failure      403        {object}  map[string]string
// @Security     BearerAuth
// @Router       /dashboard/activity [get]
func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	caller := identity(r)
	userID := caller.UserID
	if other := q.Get("userId"); other != "" && other != caller.UserID {
		if !caller.IsAdmin() {
			respondError(w, http.StatusForbidden, "access denied")
			return
		}
		userID = other
	}

	days, err := h.svc.Progress.Activity(r.Context(), userID, q.Get("startDate"), q.Get("endDate"))
	if h.handleError(w, err, "activity") {
		return
	}
	respondJSON(w, http.StatusOK, days)
}

// GET /dashboard/solved
func (h *Handler) getSolved(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.Progress.Statuses(r.Context(), viewerID(r))
	if h.handleError(w, err, "progress") {
		return
	}

	entries := make([]SolvedEntry, 0, len(statuses))
	for n, s := range statuses {
		entries = append(entries, SolvedEntry{QuestionNumber: n, Status: string(s)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].QuestionNumber < entries[j].QuestionNumber
	})
	respondJSON(w, http.StatusOK, entries)
}
