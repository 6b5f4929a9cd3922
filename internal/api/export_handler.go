package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aptiprep/backend/internal/domain/question"
)

// ── Request / Response types ────────────────────────────────────────────────

const exportVersion = "1.0"

type ExportQuestion struct {
	QuestionNumber int      `json:"questionNumber"`
	Section        string   `json:"section"`
	Difficulty     string   `json:"difficulty"`
	Type           string   `json:"type"`
	Text           string   `json:"text"`
	Options        []string `json:"options,omitempty"`
	Answer         string   `json:"answer"`
	Explanation    string   `json:"explanation,omitempty"`
	TopicID        *string  `json:"topicId,omitempty"`
}

type ExportData struct {
	Version    string           `json:"version"`
	ExportedAt string           `json:"exported_at"`
	Questions  []ExportQuestion `json:"questions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /admin/export
func (h *Handler) exportAll(w http.ResponseWriter, r *http.Request) {
	questions, err := h.svc.Questions.Export(r.Context())
	if h.handleError(w, err, "question") {
		return
	}

	exportData := ExportData{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Questions:  make([]ExportQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		exportData.Questions = append(exportData.Questions, ExportQuestion{
			QuestionNumber: q.Number,
			Section:        string(q.Section),
			Difficulty:     string(q.Difficulty),
			Type:           string(q.Type),
			Text:           q.Text,
			Options:        q.Options,
			Answer:         q.Answer,
			Explanation:    q.Explanation,
			TopicID:        q.TopicID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=aptiprep-questions.json")
	json.NewEncoder(w).Encode(exportData)
}

// POST /admin/import
func (h *Handler) importAll(w http.ResponseWriter, r *http.Request) {
	var importData ExportData
	if !decodeJSON(w, r, &importData) {
		return
	}

	questions := make([]*question.Question, 0, len(importData.Questions))
	for _, q := range importData.Questions {
		questions = append(questions, &question.Question{
			Number:      q.QuestionNumber,
			Section:     question.Section(q.Section),
			Difficulty:  question.Difficulty(q.Difficulty),
			Type:        question.Type(q.Type),
			Text:        q.Text,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
			TopicID:     q.TopicID,
		})
	}

	result, err := h.svc.Questions.Import(r.Context(), questions)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusCreated, result)
}
