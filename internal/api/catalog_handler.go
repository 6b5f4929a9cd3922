package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aptiprep/backend/internal/domain/catalog"
)

// ── Request / Response types ────────────────────────────────────────────────

type CourseRequest struct {
	Name        string `json:"name" example:"Campus placements"`
	Description string `json:"description"`
}

func (r *CourseRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type NameRequest struct {
	Name string `json:"name" example:"Percentages"`
}

func (r *NameRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type CourseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SubjectResponse struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Name     string `json:"name"`
}

type TopicResponse struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
}

type GetCourseResponse struct {
	CourseResponse
	Subjects []SubjectResponse `json:"subjects"`
}

type GetSubjectResponse struct {
	SubjectResponse
	Topics []TopicResponse `json:"topics"`
}

func toCourseResponse(c *catalog.Course) CourseResponse {
	return CourseResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toSubjectResponse(s *catalog.Subject) SubjectResponse {
	return SubjectResponse{ID: s.ID, CourseID: s.CourseID, Name: s.Name}
}

func toTopicResponse(t *catalog.Topic) TopicResponse {
	return TopicResponse{ID: t.ID, SubjectID: t.SubjectID, Name: t.Name}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// Courses

// listCourses lists every course.
// @Summary      List courses
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}   CourseResponse
// @Router       /courses [get]
func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.Catalog.ListCourses(r.Context())
	if h.handleError(w, err, "course") {
		return
	}
	resp := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, toCourseResponse(c))
	}
	respondJSON(w, http.StatusOK, resp)
}

// getCourse returns a course with its subjects.
// @Summary      Get a course
// @Tags         Catalog
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  GetCourseResponse
// @Failure      404  {object}  map[string]string
// @Router       /courses/{id} [get]
func (h *Handler) getCourse(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Catalog.GetCourse(r.Context(), urlParam(r, "id"))
	if h.handleError(w, err, "course") {
		return
	}
	resp := GetCourseResponse{
		CourseResponse: toCourseResponse(detail.Course),
		Subjects:       make([]SubjectResponse, 0, len(detail.Subjects)),
	}
	for _, s := range detail.Subjects {
		resp.Subjects = append(resp.Subjects, toSubjectResponse(s))
	}
	respondJSON(w, http.StatusOK, resp)
}

// createCourse adds a course.
// @Summary      Create a course
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        body  body      CourseRequest  true  "Course"
// @Success      201   {object}  CourseResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /courses [post]
func (h *Handler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	c, err := h.svc.Catalog.CreateCourse(r.Context(), req.Name, req.Description)
	if h.handleError(w, err, "course") {
		return
	}
	respondJSON(w, http.StatusCreated, toCourseResponse(c))
}

// PUT /courses/{id}
func (h *Handler) updateCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	c, err := h.svc.Catalog.UpdateCourse(r.Context(), urlParam(r, "id"), req.Name, req.Description)
	if h.handleError(w, err, "course") {
		return
	}
	respondJSON(w, http.StatusOK, toCourseResponse(c))
}

// DELETE /courses/{id}
func (h *Handler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Catalog.DeleteCourse(r.Context(), urlParam(r, "id")); h.handleError(w, err, "course") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subjects

// POST /courses/{id}/subjects
func (h *Handler) createSubject(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	s, err := h.svc.Catalog.CreateSubject(r.Context(), urlParam(r, "id"), req.Name)
	if h.handleError(w, err, "course") {
		return
	}
	respondJSON(w, http.StatusCreated, toSubjectResponse(s))
}

// getSubject returns a subject with its topics.
// @Summary      Get a subject
// @Tags         Catalog
// @Produce      json
// @Param        id   path      string  true  "Subject ID"
// @Success      200  {object}  GetSubjectResponse
// @Failure      404  {object}  map[string]string
// @Router       /subjects/{id} [get]
func (h *Handler) getSubject(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Catalog.GetSubject(r.Context(), urlParam(r, "id"))
	if h.handleError(w, err, "subject") {
		return
	}
	resp := GetSubjectResponse{
		SubjectResponse: toSubjectResponse(detail.Subject),
		Topics:          make([]TopicResponse, 0, len(detail.Topics)),
	}
	for _, t := range detail.Topics {
		resp.Topics = append(resp.Topics, toTopicResponse(t))
	}
	respondJSON(w, http.StatusOK, resp)
}

// PUT /subjects/{id}
func (h *Handler) renameSubject(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	s, err := h.svc.Catalog.RenameSubject(r.Context(), urlParam(r, "id"), req.Name)
	if h.handleError(w, err, "subject") {
		return
	}
	respondJSON(w, http.StatusOK, toSubjectResponse(s))
}

// DELETE /subjects/{id}
func (h *Handler) deleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Catalog.DeleteSubject(r.Context(), urlParam(r, "id")); h.handleError(w, err, "subject") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Topics

// POST /subjects/{id}/topics
func (h *Handler) createTopic(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	t, err := h.svc.Catalog.CreateTopic(r.Context(), urlParam(r, "id"), req.Name)
	if h.handleError(w, err, "subject") {
		return
	}
	respondJSON(w, http.StatusCreated, toTopicResponse(t))
}

// GET /topics/{id}
func (h *Handler) getTopic(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Catalog.GetTopic(r.Context(), urlParam(r, "id"))
	if h.handleError(w, err, "topic") {
		return
	}
	respondJSON(w, http.StatusOK, toTopicResponse(t))
}

// PUT /topics/{id}
func (h *Handler) renameTopic(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	t, err := h.svc.Catalog.RenameTopic(r.Context(), urlParam(r, "id"), req.Name)
	if h.handleError(w, err, "topic") {
		return
	}
	respondJSON(w, http.StatusOK, toTopicResponse(t))
}

// DELETE /topics/{id}
func (h *Handler) deleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Catalog.DeleteTopic(r.Context(), urlParam(r, "id")); h.handleError(w, err, "topic") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
