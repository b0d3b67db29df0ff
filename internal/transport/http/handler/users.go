package handler

import (
	"encoding/json"
	"net/http"

	"github.com/learnlive/api/internal/application/user"
	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/validate"
	"github.com/learnlive/api/internal/transport/http/middleware"
)

// UserHandler handles registration and profile endpoints.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

// SafeUser is a user representation without the password hash.
type SafeUser struct {
	UserID     string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	ClassLevel string `json:"class_level,omitempty"`
}

func toSafeUser(u *domain.User) *SafeUser {
	return &SafeUser{
		UserID:     u.UserID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		ClassLevel: u.ClassLevel,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSafeUser(u))
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.svc.Get(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSafeUser(u))
}

func (h *UserHandler) UpdateClassLevel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var body struct {
		ClassLevel string `json:"class_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ClassLevel == "" {
		writeError(w, http.StatusBadRequest, "class_level is required")
		return
	}
	u, err := h.svc.UpdateClassLevel(r.Context(), claims.UserID, body.ClassLevel)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSafeUser(u))
}
