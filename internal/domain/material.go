package domain

import "time"

type Material struct {
	MaterialID  string    `json:"id" dynamodbav:"material_id"`
	CourseID    string    `json:"course_id" dynamodbav:"course_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	Type        string    `json:"type" dynamodbav:"type"` // note, document, image, video, link, file
	Content     *string   `json:"content,omitempty" dynamodbav:"content"`
	ExternalURL *string   `json:"external_url,omitempty" dynamodbav:"external_url"`
	FileURL     *string   `json:"file_url,omitempty" dynamodbav:"file_url"`
	FileName    *string   `json:"file_name,omitempty" dynamodbav:"file_name"`
	FileSize    *int64    `json:"file_size,omitempty" dynamodbav:"file_size"`
	CreatedBy   string    `json:"created_by" dynamodbav:"created_by"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateMaterialRequest struct {
	Title       string  `validate:"required"`
	Description string  `validate:"required"`
	Type        string  `validate:"required"`
	Content     *string
	ExternalURL *string
}
