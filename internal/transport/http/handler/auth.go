package handler

import (
	"net/http"

	"github.com/learnlive/api/internal/application/user"
)

// AuthHandler handles token issuance.
type AuthHandler struct {
	svc user.Service
}

func NewAuthHandler(svc user.Service) *AuthHandler { return &AuthHandler{svc: svc} }

// Token exchanges form credentials for a bearer JWT. The form field is named
// "username" for OAuth2 password-flow compatibility but carries the email.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	token, err := h.svc.Authenticate(r.Context(), email, password)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{AccessToken: token, TokenType: "bearer"})
}
