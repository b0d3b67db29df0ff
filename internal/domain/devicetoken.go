package domain

import "time"

// Device platforms accepted by the token registry.
const (
	DeviceAndroid = "android"
	DeviceIOS     = "ios"
)

// DeviceToken maps one user to one push delivery address. The pair
// (user_id, device_token) is the table key, so re-registering the same token
// upserts instead of duplicating.
type DeviceToken struct {
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	Token      string    `json:"device_token" dynamodbav:"device_token"`
	DeviceType string    `json:"device_type" dynamodbav:"device_type"`
	UpdatedAt  time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type RegisterDeviceTokenRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
	DeviceType  string `json:"device_type" validate:"required,oneof=android ios"`
}
