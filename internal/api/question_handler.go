package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aptiprep/backend/internal/domain/attempt"
	"github.com/aptiprep/backend/internal/domain/question"
)

// ── Request / Response types ────────────────────────────────────────────────

type QuestionRequest struct {
	QuestionNumber int      `json:"questionNumber" example:"42"`
	Section        string   `json:"section" example:"quantitative"`
	Difficulty     string   `json:"difficulty" example:"Medium"`
	Type           string   `json:"type" example:"MCQ"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	Answer         string   `json:"answer"`
	Explanation    string   `json:"explanation"`
	TopicID        *string  `json:"topicId,omitempty"`
}

func (r *QuestionRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}

func (r *QuestionRequest) toQuestion(number int) *question.Question {
	return &question.Question{
		Number:      number,
		Section:     question.Section(r.Section),
		Difficulty:  question.Difficulty(r.Difficulty),
		Type:        question.Type(r.Type),
		Text:        r.Text,
		Options:     r.Options,
		Answer:      r.Answer,
		Explanation: r.Explanation,
		TopicID:     r.TopicID,
	}
}

type QuestionResponse struct {
	QuestionNumber int      `json:"questionNumber"`
	Section        string   `json:"section"`
	Difficulty     string   `json:"difficulty"`
	Type           string   `json:"type"`
	Text           string   `json:"text"`
	Options        []string `json:"options,omitempty"`
	Answer         string   `json:"answer,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
	TopicID        *string  `json:"topicId,omitempty"`
	AttemptCount   int64    `json:"attemptCount"`
	AvgAccuracy    float64  `json:"avgAccuracy"`
	AvgTimeSpent   float64  `json:"avgTimeSpent"`
	Status         string   `json:"status,omitempty"`
}

// toQuestionResponse hides the answer and explanation unless reveal is set.
func toQuestionResponse(q *question.Question, reveal bool) QuestionResponse {
	resp := QuestionResponse{
		QuestionNumber: q.Number,
		Section:        string(q.Section),
		Difficulty:     string(q.Difficulty),
		Type:           string(q.Type),
		Text:           q.Text,
		Options:        q.Options,
		TopicID:        q.TopicID,
		AttemptCount:   q.Stats.AttemptCount,
		AvgAccuracy:    q.Stats.AvgAccuracy(),
		AvgTimeSpent:   q.Stats.AvgTimeSpent(),
	}
	if reveal {
		resp.Answer = q.Answer
		resp.Explanation = q.Explanation
	}
	return resp
}

type QuestionPageResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

type CheckAnswerRequest struct {
	Answer string `json:"answer" example:"12"`
}

func (r *CheckAnswerRequest) Validate() error {
	if strings.TrimSpace(r.Answer) == "" {
		return errors.New("answer is required")
	}
	return nil
}

type CheckAnswerResponse struct {
	Correct     bool   `json:"correct"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

type SolvedRequest struct {
	UserID     string  `json:"userId"`
	Section    string  `json:"section"`
	Type       string  `json:"type"`
	Difficulty string  `json:"difficulty"`
	Attempts   int     `json:"attempts" example:"1"`
	TimeSpent  float64 `json:"timeSpent" example:"30"`
	Accuracy   float64 `json:"accuracy" example:"80"`
}

func (r *SolvedRequest) Validate() error {
	if r.TimeSpent <= 0 {
		return attempt.ErrInvalidTimeSpent
	}
	if r.Accuracy < 0 || r.Accuracy > 100 {
		return attempt.ErrInvalidAccuracy
	}
	return nil
}

type StatusResponse struct {
	Status string `json:"status"`
}

func questionFilter(r *http.Request) question.Filter {
	q := r.URL.Query()
	return question.Filter{
		Section:    question.Section(q.Get("section")),
		Difficulty: question.Difficulty(q.Get("difficulty")),
		Type:       question.Type(q.Get("type")),
		TopicID:    q.Get("topicId"),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listQuestions browses the bank.
// @Summary      List questions
// @Description  Filter by section, difficulty, type and topic. Authenticated callers also get their status per question.
// @Tags         Questions
// @Produce      json
// @Param        section     query     string  false  "Section"
// @Param        difficulty  query     string  false  "Easy, Medium or Hard"
// @Param        type        query     string  false  "MCQ or Integer"
// @Param        topicId     query     string  false  "Topic ID"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Param        offset      query     int     false  "Offset"
// @Success      200         {object}  QuestionPageResponse
// @Failure      400         {object}  map[string]string
// @Router       /questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, offset, ok := pagination(w, r)
	if !ok {
		return
	}

	page, err := h.svc.Questions.List(ctx, questionFilter(r), limit, offset)
	if h.handleError(w, err, "question") {
		return
	}

	var statuses map[int]attempt.Status
	if uid := viewerID(r); uid != "" {
		statuses, err = h.svc.Progress.Statuses(ctx, uid)
		if h.handleError(w, err, "progress") {
			return
		}
	}

	reveal := identity(r).IsAdmin()
	resp := QuestionPageResponse{
		Questions: make([]QuestionResponse, 0, len(page.Questions)),
		Total:     page.Total,
		Limit:     limit,
		Offset:    offset,
	}
	for _, q := range page.Questions {
		item := toQuestionResponse(q, reveal)
		if statuses != nil {
			if s, ok := statuses[q.Number]; ok {
				item.Status = string(s)
			} else {
				item.Status = string(attempt.StatusUnsolved)
			}
		}
		resp.Questions = append(resp.Questions, item)
	}
	respondJSON(w, http.StatusOK, resp)
}

// getQuestion returns one question. The answer is only shown to admins.
// @Summary      Get a question
// @Tags         Questions
// @Produce      json
// @Param        n    path      int  true  "Question number"
// @Success      200  {object}  QuestionResponse
// @Failure      404  {object}  map[string]string
// @Router       /questions/{n} [get]
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	n, ok := pathInt(w, r, "n")
	if !ok {
		return
	}
	q, err := h.svc.Questions.Get(r.Context(), n)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponse(q, identity(r).IsAdmin()))
}

// createQuestion adds a question to the bank.
// @Summary      Create a question
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        body  body      QuestionRequest  true  "Question"
// @Success      201   {object}  QuestionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "question number taken"
// @Security     BearerAuth
// @Router       /questions [post]
func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	q := req.toQuestion(req.QuestionNumber)
	if err := h.svc.Questions.Create(r.Context(), q); h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusCreated, toQuestionResponse(q, true))
}

// PUT /questions/{n}
func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, ok := pathInt(w, r, "n")
	if !ok {
		return
	}
	var req QuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	q := req.toQuestion(n)
	if err := h.svc.Questions.Update(ctx, q); h.handleError(w, err, "question") {
		return
	}
	updated, err := h.svc.Questions.Get(ctx, n)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponse(updated, true))
}

// DELETE /questions/{n}
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	n, ok := pathInt(w, r, "n")
	if !ok {
		return
	}
	if err := h.svc.Questions.Delete(r.Context(), n); h.handleError(w, err, "question") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkAnswer grades a submitted answer without recording an attempt.
// @Summary      Check an answer
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        n     path      int                 true  "Question number"
// @Param        body  body      CheckAnswerRequest  true  "Answer"
// @Success      200   {object}  CheckAnswerResponse
// @Failure      404   {object}  map[string]string
// @Router       /questions/{n}/check [post]
func (h *Handler) checkAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, ok := pathInt(w, r, "n")
	if !ok {
		return
	}
	var req CheckAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	correct, err := h.svc.Questions.Check(ctx, n, req.Answer)
	if h.handleError(w, err, "question") {
		return
	}
	q, err := h.svc.Questions.Get(ctx, n)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, CheckAnswerResponse{
		Correct:     correct,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	})
}

// randomQuestion picks one question uniformly from those matching the filter.
// @Summary      Random question
// @Description  status (Solved, Attempted, Unsolved) needs a user: the caller's token or the userId parameter.
// @Tags         Questions
// @Produce      json
// @Param        section     query     string  false  "Section"
// @Param        difficulty  query     string  false  "Difficulty"
// @Param        type        query     string  false  "Type"
// @Param        status      query     string  false  "Solved, Attempted or Unsolved"
// @Param        userId      query     string  false  "User ID"
// @Success      200         {object}  QuestionResponse
// @Failure      400         {object}  map[string]string
// @Failure      404         {object}  map[string]string  "no questions found"
// @Router       /questions/random [get]
func (h *Handler) randomQuestion(w http.ResponseWriter, r *http.Request) {
	status := attempt.Status(r.URL.Query().Get("status"))
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = viewerID(r)
	}

	q, err := h.svc.Progress.RandomQuestion(r.Context(), questionFilter(r), status, userID)
	if h.handleError(w, err, "question") {
		return
	}
	resp := toQuestionResponse(q, identity(r).IsAdmin())
	if status != "" {
		resp.Status = string(status)
	}
	respondJSON(w, http.StatusOK, resp)
}

// markSolved records one attempt for the caller.
// @Summary      Record an attempt
// @Description  Stores the attempt with its score and percentile and updates the question's running averages.
// @Tags         Progress
// @Accept       json
// @Produce      json
// @Param        n     path      int            true  "Question number"
// @Param        body  body      SolvedRequest  true  "Attempt"
// @Success      201   {object}  StatusResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string  "userId belongs to someone else"
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /questions/{n}/solved [post]
func (h *Handler) markSolved(w http.ResponseWriter, r *http.Request) {
	n, ok := pathInt(w, r, "n")
	if !ok {
		return
	}
	var req SolvedRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	caller := identity(r)
	userID := caller.UserID
	if req.UserID != "" && req.UserID != caller.UserID {
		if !caller.IsAdmin() {
			respondError(w, http.StatusForbidden, "access denied")
			return
		}
		userID = req.UserID
	}

	_, err := h.svc.Progress.RecordAttempt(r.Context(), attempt.Input{
		UserID:         userID,
		QuestionNumber: n,
		Section:        question.Section(req.Section),
		Type:           question.Type(req.Type),
		Difficulty:     question.Difficulty(req.Difficulty),
		Attempts:       req.Attempts,
		TimeSpent:      req.TimeSpent,
		Accuracy:       req.Accuracy,
	})
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusCreated, StatusResponse{Status: "recorded"})
}
