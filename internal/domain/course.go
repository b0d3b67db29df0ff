package domain

import "time"

type Course struct {
	CourseID    string    `json:"id" dynamodbav:"course_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	Grade       string    `json:"grade" dynamodbav:"grade"`
	Price       float64   `json:"price" dynamodbav:"price"`
	VideoURL    *string   `json:"video_url,omitempty" dynamodbav:"video_url"`
	TeacherID   string    `json:"teacher_id" dynamodbav:"teacher_id"`
	TeacherName string    `json:"teacher_name" dynamodbav:"teacher_name"`
	Students    []string  `json:"students" dynamodbav:"students"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Enrolled reports whether userID appears in the course's student snapshot.
func (c *Course) Enrolled(userID string) bool {
	for _, s := range c.Students {
		if s == userID {
			return true
		}
	}
	return false
}

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Grade       string  `json:"grade" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}
