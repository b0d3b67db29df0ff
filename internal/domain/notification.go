package domain

import "time"

// Action types routed by the mobile client when a notification is tapped.
const (
	ActionCourse        = "course"
	ActionSession       = "session"
	ActionPayment       = "payment"
	ActionMaterial      = "material"
	ActionWelcome       = "welcome"
	ActionProfileUpdate = "profile_update"
	ActionCourseDeleted = "course_deleted"
)

// Notification is immutable after creation except for IsRead, which only ever
// transitions false -> true.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Title          string    `json:"title" dynamodbav:"title"`
	Message        string    `json:"message" dynamodbav:"message"`
	ActionType     string    `json:"action_type,omitempty" dynamodbav:"action_type"`
	ActionID       string    `json:"action_id,omitempty" dynamodbav:"action_id"`
	ImageURL       *string   `json:"image_url,omitempty" dynamodbav:"image_url"`
	IsRead         bool      `json:"is_read" dynamodbav:"is_read"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateNotificationRequest struct {
	UserID     string  `json:"user_id" validate:"required"`
	Title      string  `json:"title" validate:"required"`
	Message    string  `json:"message" validate:"required"`
	ActionType string  `json:"action_type"`
	ActionID   string  `json:"action_id"`
	ImageURL   *string `json:"image_url"`
}
