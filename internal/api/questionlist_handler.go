package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/domain/questionlist"
	"github.com/aptiprep/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateQuestionListRequest struct {
	Title       string   `json:"title" example:"Weekly mock 3"`
	Description string   `json:"description"`
	Questions   []int    `json:"questions"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"isPublic"`
}

func (r *CreateQuestionListRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

// UpdateQuestionListRequest leaves absent fields unchanged.
type UpdateQuestionListRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Questions   []int    `json:"questions"`
	Tags        []string `json:"tags"`
	IsPublic    *bool    `json:"isPublic"`
}

func (r *UpdateQuestionListRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title cannot be empty")
	}
	return nil
}

type QuestionListResponse struct {
	ID             string   `json:"id"`
	CreatorID      string   `json:"creatorId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Questions      []int    `json:"questions"`
	Tags           []string `json:"tags"`
	IsPublic       bool     `json:"isPublic"`
	IsOfficial     bool     `json:"isOfficial"`
	TotalQuestions int      `json:"totalQuestions"`
	LikeCount      int      `json:"likeCount"`
	SaveCount      int      `json:"saveCount"`
	IsLiked        bool     `json:"isLiked"`
	IsSaved        bool     `json:"isSaved"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

func toQuestionListResponse(ql *questionlist.QuestionList, viewer string) QuestionListResponse {
	questions := ql.Questions
	if questions == nil {
		questions = []int{}
	}
	tags := ql.Tags
	if tags == nil {
		tags = []string{}
	}
	return QuestionListResponse{
		ID:             ql.ID,
		CreatorID:      ql.CreatorID,
		Title:          ql.Title,
		Description:    ql.Description,
		Questions:      questions,
		Tags:           tags,
		IsPublic:       ql.IsPublic,
		IsOfficial:     ql.IsOfficial,
		TotalQuestions: ql.TotalQuestions(),
		LikeCount:      len(ql.Likes),
		SaveCount:      len(ql.SavedBy),
		IsLiked:        viewer != "" && ql.IsLikedBy(viewer),
		IsSaved:        viewer != "" && ql.IsSavedBy(viewer),
		CreatedAt:      ql.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      ql.UpdatedAt.Format(time.RFC3339),
	}
}

func toQuestionListResponses(lists []*questionlist.QuestionList, viewer string) []QuestionListResponse {
	resp := make([]QuestionListResponse, 0, len(lists))
	for _, ql := range lists {
		resp = append(resp, toQuestionListResponse(ql, viewer))
	}
	return resp
}

type LikeStateResponse struct {
	Liked bool `json:"liked"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createQuestionList creates a shareable question list. Lists created by
// admins are marked official.
// @Summary      Create a question list
// @Tags         QuestionLists
// @Accept       json
// @Produce      json
// @Param        body  body      CreateQuestionListRequest  true  "Question list"
// @Success      201   {object}  QuestionListResponse
// @Failure      400   {object}  map[string]string  "missing title or unknown question"
// @Security     BearerAuth
// @Router       /questionlists [post]
func (h *Handler) createQuestionList(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	v := qlViewer(r)
	ql, err := h.svc.QuestionLists.Create(r.Context(), v, service.QuestionListInput{
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	})
	if h.handleError(w, err, "question list") {
		return
	}
	respondJSON(w, http.StatusCreated, toQuestionListResponse(ql, v.ID))
}

// browseQuestionLists lists public question lists.
// @Summary      Browse question lists
// @Tags         QuestionLists
// @Produce      json
// @Param        tag       query     string  false  "Tag"
// @Param        official  query     bool    false  "Only official (true) or community (false) lists"
// @Param        limit     query     int     false  "Page size"
// @Param        offset    query     int     false  "Offset"
// @Success      200       {array}   QuestionListResponse
// @Failure      400       {object}  map[string]string
// @Router       /questionlists [get]
func (h *Handler) browseQuestionLists(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(w, r)
	if !ok {
		return
	}
	official, err := parseBoolPtr(r, "official")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lists, err := h.svc.QuestionLists.Browse(r.Context(), r.URL.Query().Get("tag"), official, limit, offset)
	if h.handleError(w, err, "question list") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionListResponses(lists, viewerID(r)))
}

// GET /questionlists/mine
func (h *Handler) myQuestionLists(w http.ResponseWriter, r *http.Request) {
	uid := viewerID(r)
	lists, err := h.svc.QuestionLists.Mine(r.Context(), uid)
	if h.handleError(w, err, "question list") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionListResponses(lists, uid))
}

// GET /questionlists/saved
func (h *Handler) savedQuestionLists(w http.ResponseWriter, r *http.Request) {
	uid := viewerID(r)
	lists, err := h.svc.QuestionLists.Saved(r.Context(), uid)
	if h.handleError(w, err, "question list") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionListResponses(lists, uid))
}

// getQuestionList returns a list readable by the caller.
// @Summary      Get a question list
// @Tags         QuestionLists
// @Produce      json
// @Param        id   path      string  true  "Question list ID"
// @Success      200  {object}  QuestionListResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /questionlists/{id} [get]
func (h *Handler) getQuestionList(w http.ResponseWriter, r *http.Request) {
	v := qlViewer(r)
	ql, err := h.svc.QuestionLists.Get(r.Context(), urlParam(r, "id"), v)
	if h.handleError(w, err, "question list") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionListResponse(ql, v.ID))
}

// PUT /questionlists/{id}
func (h *Handler) updateQuestionList(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuestionListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	v := qlViewer(r)
	ql, err := h.svc.QuestionLists.Update(r.Context(), urlParam(r, "id"), v, questionlist.Patch{
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	})
	if h.handleError(w, err, "question list") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionListResponse(ql, v.ID))
}

// DELETE /questionlists/{id}
func (h *Handler) deleteQuestionList(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.QuestionLists.Delete(r.Context(), urlParam(r, "id"), qlViewer(r)); h.handleError(w, err, "question list") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toggleQuestionListLike likes or unlikes a readable list.
// @Summary      Toggle like
// @Tags         QuestionLists
// @Produce      json
// @Param        id   path      string  true  "Question list ID"
// @Success      200  {object}  LikeStateResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /questionlists/{id}/like [post]
func (h *Handler) toggleQuestionListLike(w http.ResponseWriter, r *http.Request) {
	liked, err := h.svc.QuestionLists.ToggleLike(r.Context(), urlParam(r, "id"), qlViewer(r))
	if h.handleError(w, err, "question list") {
		return
	}
	respondJSON(w, http.StatusOK, LikeStateResponse{Liked: liked})
}

// POST /questionlists/{id}/save
func (h *Handler) toggleQuestionListSave(w http.ResponseWriter, r *http.Request) {
	saved, err := h.svc.QuestionLists.ToggleSave(r.Context(), urlParam(r, "id"), qlViewer(r))
	if h.handleError(w, err, "question list") {
		return
	}
	respondJSON(w, http.StatusOK, SaveStateResponse{Saved: saved})
}
