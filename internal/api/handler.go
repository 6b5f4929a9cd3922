// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aptiprep/backend/internal/auth"
	"github.com/aptiprep/backend/internal/domain/list"
	"github.com/aptiprep/backend/internal/domain/questionlist"
	"github.com/aptiprep/backend/internal/service"
	"github.com/aptiprep/backend/internal/store"
)

// Services bundles the application services the handlers call.
type Services struct {
	Questions     *service.QuestionService
	Progress      *service.ProgressService
	Lists         *service.ListService
	QuestionLists *service.QuestionListService
	Discussions   *service.DiscussionService
	Catalog       *service.CatalogService
	Users         *service.UserService
	Notifications *service.NotificationService
}

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	svc    Services
	logger *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<20))
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

type validator interface {
	Validate() error
}

// decodeAndValidate decodes the body and runs the request's own checks.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleError maps service and store errors to HTTP responses. Returns true
// if an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, service.ErrInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, list.ErrFavoritesUndeletable):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoQuestions):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, entity+" already exists")
	default:
		h.logger.Error("request failed", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

// viewerID is the caller's user id, empty for anonymous requests.
func viewerID(r *http.Request) string {
	id, _ := auth.FromContext(r.Context())
	return id.UserID
}

func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func qlViewer(r *http.Request) questionlist.Viewer {
	id := identity(r)
	return questionlist.Viewer{ID: id.UserID, IsAdmin: id.IsAdmin()}
}

// pathInt parses a positive integer URL parameter, writing a 400 on failure.
func pathInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil || n <= 0 {
		respondError(w, http.StatusBadRequest, key+" must be a positive integer")
		return 0, false
	}
	return n, true
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return parsed, nil
}

// pagination reads limit/offset, capping limit at 100.
func pagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit, err := parseIntParam(r, "limit", 20)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	offset, err = parseIntParam(r, "offset", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	if limit == 0 || limit > 100 {
		limit = 100
	}
	return limit, offset, true
}

func parseBoolPtr(r *http.Request, key string) (*bool, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, errors.New(key + " must be true or false")
	}
	return &b, nil
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
