package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/learnlive/api/internal/application/payment"
	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/validate"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	svc payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler { return &PaymentHandler{svc: svc} }

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.Process(r.Context(), u, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaymentEnvelope{
		PaymentID:       p.PaymentID,
		Status:          p.Status,
		Message:         "Payment processed successfully",
		TransactionDate: p.TransactionDate.Format(time.RFC3339),
		CourseID:        p.CourseID,
		Amount:          p.Amount,
	})
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	payments, err := h.svc.ListByUser(r.Context(), u.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
