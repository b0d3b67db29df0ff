package handler

import (
	"net/http"

	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/transport/http/middleware"
)

// currentUser reconstructs the caller from JWT claims. The claims carry
// everything handlers need, so no user lookup is required per request.
func currentUser(r *http.Request) (*domain.User, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return &domain.User{
		UserID:     claims.UserID,
		Name:       claims.Name,
		Role:       claims.Role,
		ClassLevel: claims.ClassLevel,
	}, true
}
