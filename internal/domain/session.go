package domain

import "time"

// Session is a scheduled live class. Course holds either a course id or a
// course title; clients have historically sent both, so lookups try the id
// first and fall back to the title.
type Session struct {
	SessionID     string    `json:"id" dynamodbav:"session_id"`
	Title         string    `json:"title" dynamodbav:"title"`
	Description   string    `json:"description" dynamodbav:"description"`
	Course        string    `json:"course,omitempty" dynamodbav:"course"`
	Date          string    `json:"date" dynamodbav:"date"` // YYYY-MM-DD
	Time          string    `json:"time" dynamodbav:"time"` // HH:MM
	Duration      int       `json:"duration" dynamodbav:"duration"`
	TeacherID     string    `json:"teacher_id" dynamodbav:"teacher_id"`
	TeacherName   string    `json:"teacher" dynamodbav:"teacher_name"`
	MeetingLink   string    `json:"meeting_link,omitempty" dynamodbav:"meeting_link"`
	RecordingLink *string   `json:"recording_link,omitempty" dynamodbav:"recording_link"`
	Attendees     []string  `json:"attendees" dynamodbav:"attendees"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateSessionRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Course      string `json:"course"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Duration    int    `json:"duration" validate:"gt=0"`
}
