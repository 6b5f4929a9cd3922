package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/domain/discussion"
	"github.com/aptiprep/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateDiscussionRequest struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	Category       string `json:"category" example:"doubt"`
	QuestionNumber *int   `json:"questionNumber,omitempty"`
}

func (r *CreateDiscussionRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}

type UpdateDiscussionRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func (r *UpdateDiscussionRequest) Validate() error {
	if r.Title == nil && r.Content == nil && r.Category == nil {
		return errors.New("nothing to update")
	}
	return nil
}

type ReactionRequest struct {
	Reaction string `json:"reaction" example:"like"`
}

func (r *ReactionRequest) Validate() error {
	if !discussion.Reaction(r.Reaction).Valid() {
		return errors.New("reaction must be like or dislike")
	}
	return nil
}

type ReplyRequest struct {
	Content string `json:"content"`
}

func (r *ReplyRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}

type ReplyResponse struct {
	ID           string `json:"id"`
	DiscussionID string `json:"discussionId"`
	UserID       string `json:"userId"`
	Content      string `json:"content"`
	Likes        int    `json:"likes"`
	Dislikes     int    `json:"dislikes"`
	CreatedAt    string `json:"createdAt"`
}

type DiscussionResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	Category       string          `json:"category"`
	QuestionNumber *int            `json:"questionNumber,omitempty"`
	IsPinned       bool            `json:"isPinned"`
	Views          int64           `json:"views"`
	Likes          int             `json:"likes"`
	Dislikes       int             `json:"dislikes"`
	MyReaction     string          `json:"myReaction,omitempty"`
	ReplyCount     int             `json:"replyCount"`
	Replies        []ReplyResponse `json:"replies,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

func toReplyResponse(rp *discussion.Reply) ReplyResponse {
	return ReplyResponse{
		ID:           rp.ID,
		DiscussionID: rp.DiscussionID,
		UserID:       rp.UserID,
		Content:      rp.Content,
		Likes:        len(rp.Likes),
		Dislikes:     len(rp.Dislikes),
		CreatedAt:    rp.CreatedAt.Format(time.RFC3339),
	}
}

func toDiscussionResponse(d *discussion.Discussion, viewer string, withReplies bool) DiscussionResponse {
	resp := DiscussionResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		Title:          d.Title,
		Content:        d.Content,
		Category:       string(d.Category),
		QuestionNumber: d.QuestionNumber,
		IsPinned:       d.IsPinned,
		Views:          d.Views,
		Likes:          len(d.Likes),
		Dislikes:       len(d.Dislikes),
		ReplyCount:     len(d.Replies),
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      d.UpdatedAt.Format(time.RFC3339),
	}
	if viewer != "" {
		resp.MyReaction = string(discussion.ReactionOf(d.Likes, d.Dislikes, viewer))
	}
	if withReplies {
		resp.Replies = make([]ReplyResponse, 0, len(d.Replies))
		for i := range d.Replies {
			resp.Replies = append(resp.Replies, toReplyResponse(&d.Replies[i]))
		}
	}
	return resp
}

type ReactionStateResponse struct {
	Reaction string `json:"reaction"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listDiscussions lists threads, pinned first then newest.
// @Summary      List discussions
// @Tags         Discussions
// @Produce      json
// @Param        category        query     string  false  "general, doubt, strategy, feedback or announcement"
// @Param        questionNumber  query     int     false  "Only threads about this question"
// @Param        limit           query     int     false  "Page size"
// @Param        offset          query     int     false  "Offset"
// @Success      200             {array}   DiscussionResponse
// @Router       /discussions [get]
func (h *Handler) listDiscussions(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(w, r)
	if !ok {
		return
	}
	f := discussion.Filter{
		Category: discussion.Category(r.URL.Query().Get("category")),
		Limit:    limit,
		Offset:   offset,
	}
	if v := r.URL.Query().Get("questionNumber"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "questionNumber must be a positive integer")
			return
		}
		f.QuestionNumber = &n
	}

	items, err := h.svc.Discussions.List(r.Context(), f)
	if h.handleError(w, err, "discussion") {
		return
	}
	uid := viewerID(r)
	resp := make([]DiscussionResponse, 0, len(items))
	for _, d := range items {
		resp = append(resp, toDiscussionResponse(d, uid, false))
	}
	respondJSON(w, http.StatusOK, resp)
}

// createDiscussion opens a thread, optionally about a question.
// @Summary      Create a discussion
// @Tags         Discussions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateDiscussionRequest  true  "Discussion"
// @Success      201   {object}  DiscussionResponse
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /discussions [post]
func (h *Handler) createDiscussion(w http.ResponseWriter, r *http.Request) {
	var req CreateDiscussionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	uid := viewerID(r)
	d, err := h.svc.Discussions.Create(r.Context(), uid, service.DiscussionInput{
		Title:          req.Title,
		Content:        req.Content,
		Category:       discussion.Category(req.Category),
		QuestionNumber: req.QuestionNumber,
	})
	if h.handleError(w, err, "discussion") {
		return
	}
	respondJSON(w, http.StatusCreated, toDiscussionResponse(d, uid, true))
}

// getDiscussion returns a thread with its replies and counts the view.
// @Summary      Get a discussion
// @Tags         Discussions
// @Produce      json
// @Param        id   path      string  true  "Discussion ID"
// @Success      200  {object}  DiscussionResponse
// @Failure      404  {object}  map[string]string
// @Router       /discussions/{id} [get]
func (h *Handler) getDiscussion(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Discussions.View(r.Context(), urlParam(r, "id"))
	if h.handleError(w, err, "discussion") {
		return
	}
	respondJSON(w, http.StatusOK, toDiscussionResponse(d, viewerID(r), true))
}

// PATCH /discussions/{id}
func (h *Handler) updateDiscussion(w http.ResponseWriter, r *http.Request) {
	var req UpdateDiscussionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p := service.DiscussionPatch{Title: req.Title, Content: req.Content}
	if req.Category != nil {
		c := discussion.Category(*req.Category)
		p.Category = &c
	}

	caller := identity(r)
	d, err := h.svc.Discussions.Update(r.Context(), urlParam(r, "id"), caller.UserID, caller.IsAdmin(), p)
	if h.handleError(w, err, "discussion") {
		return
	}
	respondJSON(w, http.StatusOK, toDiscussionResponse(d, caller.UserID, false))
}

// DELETE /discussions/{id}
func (h *Handler) deleteDiscussion(w http.ResponseWriter, r *http.Request) {
	caller := identity(r)
	if err := h.svc.Discussions.Delete(r.Context(), urlParam(r, "id"), caller.UserID, caller.IsAdmin()); h.handleError(w, err, "discussion") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /discussions/{id}/pin
func (h *Handler) togglePin(w http.ResponseWriter, r *http.Request) {
	caller := identity(r)
	d, err := h.svc.Discussions.TogglePin(r.Context(), urlParam(r, "id"), caller.IsAdmin())
	if h.handleError(w, err, "discussion") {
		return
	}
	respondJSON(w, http.StatusOK, toDiscussionResponse(d, caller.UserID, false))
}

// reactToDiscussion toggles a like or dislike. Sending the current reaction
// again clears it.
// @Summary      React to a discussion
// @Tags         Discussions
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Discussion ID"
// @Param        body  body      ReactionRequest  true  "Reaction"
// @Success      200   {object}  ReactionStateResponse
// @Security     BearerAuth
// @Router       /discussions/{id}/react [post]
func (h *Handler) reactToDiscussion(w http.ResponseWriter, r *http.Request) {
	var req ReactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	next, err := h.svc.Discussions.React(r.Context(), urlParam(r, "id"), viewerID(r), discussion.Reaction(req.Reaction))
	if h.handleError(w, err, "discussion") {
		return
	}
	respondJSON(w, http.StatusOK, ReactionStateResponse{Reaction: string(next)})
}

// POST /discussions/{id}/replies
func (h *Handler) addReply(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rp, err := h.svc.Discussions.Reply(r.Context(), urlParam(r, "id"), viewerID(r), req.Content)
	if h.handleError(w, err, "discussion") {
		return
	}
	respondJSON(w, http.StatusCreated, toReplyResponse(rp))
}

// DELETE /discussions/{id}/replies/{replyID}
func (h *Handler) deleteReply(w http.ResponseWriter, r *http.Request) {
	caller := identity(r)
	err := h.svc.Discussions.DeleteReply(r.Context(), urlParam(r, "id"), urlParam(r, "replyID"), caller.UserID, caller.IsAdmin())
	if h.handleError(w, err, "reply") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /discussions/{id}/replies/{replyID}/react
func (h *Handler) reactToReply(w http.ResponseWriter, r *http.Request) {
	var req ReactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	next, err := h.svc.Discussions.ReactToReply(r.Context(), urlParam(r, "id"), urlParam(r, "replyID"), viewerID(r), discussion.Reaction(req.Reaction))
	if h.handleError(w, err, "reply") {
		return
	}
	respondJSON(w, http.StatusOK, ReactionStateResponse{Reaction: string(next)})
}
