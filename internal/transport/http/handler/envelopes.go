package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TokenEnvelope wraps login responses.
type TokenEnvelope struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// PaymentEnvelope wraps successful payment responses.
type PaymentEnvelope struct {
	PaymentID       string  `json:"payment_id"`
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	TransactionDate string  `json:"transaction_date"`
	CourseID        string  `json:"course_id"`
	Amount          float64 `json:"amount"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
