package domain

import "time"

type Payment struct {
	PaymentID       string    `json:"payment_id" dynamodbav:"payment_id"`
	UserID          string    `json:"user_id" dynamodbav:"user_id"`
	CourseID        string    `json:"course_id" dynamodbav:"course_id"`
	Amount          float64   `json:"amount" dynamodbav:"amount"`
	Status          string    `json:"status" dynamodbav:"status"`
	PaymentMethod   string    `json:"payment_method" dynamodbav:"payment_method"`
	TransactionDate time.Time `json:"transaction_date" dynamodbav:"transaction_date"`
}

type PaymentRequest struct {
	CourseID      string  `json:"course_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	PaymentMethod string  `json:"payment_method"`
}
