package domain

import "time"

// User roles. Teachers publish courses and sessions; students enroll and pay.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	Name         string    `json:"name" dynamodbav:"name"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	ClassLevel   string    `json:"class_level,omitempty" dynamodbav:"class_level"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=teacher student"`
	ClassLevel string `json:"class_level"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
