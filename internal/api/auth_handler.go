package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/domain/user"
)

// ── Request / Response types ────────────────────────────────────────────────

type RegisterRequest struct {
	Username string `json:"username" example:"asha_k"`
	Email    string `json:"email" example:"asha@example.com"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// register creates an account.
// @Summary      Register
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Account"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "username taken"
// @Router       /auth/register [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.svc.Users.Register(r.Context(), req.Username, req.Email, req.Password)
	if h.handleError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(u))
}

// login exchanges credentials for a bearer token.
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	token, u, err := h.svc.Users.Login(r.Context(), req.Username, req.Password)
	if h.handleError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, LoginResponse{Token: token, User: toUserResponse(u)})
}

// GET /auth/me
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.Get(r.Context(), viewerID(r))
	if h.handleError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u))
}
