package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/domain/list"
	"github.com/aptiprep/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type ListItemPayload struct {
	QuestionNumber int `json:"questionNumber"`
	Order          int `json:"order"`
}

type ListRequest struct {
	Title       string            `json:"title" example:"Tricky percentages"`
	Description string            `json:"description"`
	Visibility  string            `json:"visibility" example:"private"`
	Questions   []ListItemPayload `json:"questions"`
}

func (r *ListRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.Visibility != "" && !list.Visibility(r.Visibility).Valid() {
		return errors.New("visibility must be public or private")
	}
	return nil
}

func (r *ListRequest) toInput() service.ListInput {
	items := make([]list.Item, 0, len(r.Questions))
	for _, q := range r.Questions {
		items = append(items, list.Item{QuestionNumber: q.QuestionNumber, Order: q.Order})
	}
	return service.ListInput{
		Title:       r.Title,
		Description: r.Description,
		Visibility:  list.Visibility(r.Visibility),
		Questions:   items,
	}
}

type ListQuestionRequest struct {
	QuestionNumber int `json:"questionNumber" example:"42"`
}

func (r *ListQuestionRequest) Validate() error {
	if r.QuestionNumber <= 0 {
		return errors.New("questionNumber must be positive")
	}
	return nil
}

type ForkRequest struct {
	Title string `json:"title"`
}

type ListResponse struct {
	ID          string            `json:"id"`
	CreatorID   string            `json:"creatorId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Visibility  string            `json:"visibility"`
	IsFavorites bool              `json:"isFavorites"`
	Questions   []ListItemPayload `json:"questions"`
	SaveCount   int               `json:"saveCount"`
	IsCreator   bool              `json:"isCreator"`
	IsSaved     bool              `json:"isSaved"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

func toListResponse(l *list.List, viewer string) ListResponse {
	items := make([]ListItemPayload, 0, len(l.Questions))
	for _, it := range l.Questions {
		items = append(items, ListItemPayload{QuestionNumber: it.QuestionNumber, Order: it.Order})
	}
	return ListResponse{
		ID:          l.ID,
		CreatorID:   l.CreatorID,
		Title:       l.Title,
		Description: l.Description,
		Visibility:  string(l.Visibility),
		IsFavorites: l.IsFavorites,
		Questions:   items,
		SaveCount:   len(l.SavedBy),
		IsCreator:   viewer != "" && l.CreatorID == viewer,
		IsSaved:     l.IsSavedBy(viewer),
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
}

func toListResponses(lists []*list.List, viewer string) []ListResponse {
	resp := make([]ListResponse, 0, len(lists))
	for _, l := range lists {
		resp = append(resp, toListResponse(l, viewer))
	}
	return resp
}

type SaveStateResponse struct {
	Saved bool `json:"saved"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createList creates a personal list.
// @Summary      Create a list
// @Tags         Lists
// @Accept       json
// @Produce      json
// @Param        body  body      ListRequest  true  "List"
// @Success      201   {object}  ListResponse
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /lists [post]
func (h *Handler) createList(w http.ResponseWriter, r *http.Request) {
	var req ListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	uid := viewerID(r)
	l, err := h.svc.Lists.Create(r.Context(), uid, req.toInput())
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusCreated, toListResponse(l, uid))
}

// listMyLists returns the caller's lists, favorites first.
// @Summary      My lists
// @Tags         Lists
// @Produce      json
// @Success      200  {array}  ListResponse
// @Security     BearerAuth
// @Router       /lists [get]
func (h *Handler) listMyLists(w http.ResponseWriter, r *http.Request) {
	uid := viewerID(r)
	lists, err := h.svc.Lists.Mine(r.Context(), uid)
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, toListResponses(lists, uid))
}

// GET /lists/saved
func (h *Handler) listSavedLists(w http.ResponseWriter, r *http.Request) {
	uid := viewerID(r)
	lists, err := h.svc.Lists.Saved(r.Context(), uid)
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, toListResponses(lists, uid))
}

// GET /lists/public
func (h *Handler) listPublicLists(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(w, r)
	if !ok {
		return
	}
	lists, err := h.svc.Lists.Public(r.Context(), limit, offset)
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, toListResponses(lists, viewerID(r)))
}

// GET /lists/favorites
func (h *Handler) getFavorites(w http.ResponseWriter, r *http.Request) {
	uid := viewerID(r)
	l, err := h.svc.Lists.Favorites(r.Context(), uid)
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, toListResponse(l, uid))
}

// getList returns a list the caller may read.
// @Summary      Get a list
// @Description  Public lists are readable by anyone; private lists by their creator and users who saved them.
// @Tags         Lists
// @Produce      json
// @Param        id   path      string  true  "List ID"
// @Success      200  {object}  ListResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /lists/{id} [get]
func (h *Handler) getList(w http.ResponseWriter, r *http.Request) {
	uid := viewerID(r)
	l, err := h.svc.Lists.Get(r.Context(), urlParam(r, "id"), uid)
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, toListResponse(l, uid))
}

// PUT /lists/{id}
func (h *Handler) updateList(w http.ResponseWriter, r *http.Request) {
	var req ListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	uid := viewerID(r)
	l, err := h.svc.Lists.Update(r.Context(), urlParam(r, "id"), uid, req.toInput())
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, toListResponse(l, uid))
}

// deleteList removes a list owned by the caller.
// @Summary      Delete a list
// @Description  The favorites list can never be deleted.
// @Tags         Lists
// @Param        id  path  string  true  "List ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string  "favorites list"
// @Security     BearerAuth
// @Router       /lists/{id} [delete]
func (h *Handler) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Lists.Delete(r.Context(), urlParam(r, "id"), viewerID(r)); h.handleError(w, err, "list") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /lists/{id}/questions
func (h *Handler) addListQuestion(w http.ResponseWriter, r *http.Request) {
	var req ListQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	uid := viewerID(r)
	l, err := h.svc.Lists.AddQuestion(r.Context(), urlParam(r, "id"), uid, req.QuestionNumber)
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, toListResponse(l, uid))
}

// DELETE /lists/{id}/questions/{n}
func (h *Handler) removeListQuestion(w http.ResponseWriter, r *http.Request) {
	n, ok := pathInt(w, r, "n")
	if !ok {
		return
	}
	uid := viewerID(r)
	l, err := h.svc.Lists.RemoveQuestion(r.Context(), urlParam(r, "id"), uid, n)
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, toListResponse(l, uid))
}

// toggleListSave saves or unsaves a list for the caller.
// @Summary      Toggle save
// @Tags         Lists
// @Produce      json
// @Param        id   path      string  true  "List ID"
// @Success      200  {object}  SaveStateResponse
// @Failure      403  {object}  map[string]string  "private list"
// @Security     BearerAuth
// @Router       /lists/{id}/save [post]
func (h *Handler) toggleListSave(w http.ResponseWriter, r *http.Request) {
	saved, err := h.svc.Lists.ToggleSave(r.Context(), urlParam(r, "id"), viewerID(r))
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusOK, SaveStateResponse{Saved: saved})
}

// forkList copies a readable list into a new private list.
// @Summary      Fork a list
// @Tags         Lists
// @Accept       json
// @Produce      json
// @Param        id    path      string       true   "List ID"
// @Param        body  body      ForkRequest  false  "Optional title"
// @Success      201   {object}  ListResponse
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /lists/{id}/fork [post]
func (h *Handler) forkList(w http.ResponseWriter, r *http.Request) {
	var req ForkRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	uid := viewerID(r)
	fork, err := h.svc.Lists.Fork(r.Context(), urlParam(r, "id"), uid, req.Title)
	if h.handleError(w, err, "list") {
		return
	}
	respondJSON(w, http.StatusCreated, toListResponse(fork, uid))
}
