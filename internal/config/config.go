package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	// PushProvider selects the push backend once at startup: "fcm", "sns" or
	// "" (push disabled). Dispatch logic never re-checks this.
	PushProvider       string
	FCMCredentialsFile string
	SNSRegion          string

	FanoutWorkers   int
	FanoutQueueSize int

	AllowedOrigins []string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Courses       string
	Sessions      string
	Materials     string
	Payments      string
	Notifications string
	DeviceTokens  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Courses:       getEnv("DYNAMO_TABLE_COURSES", "courses"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Materials:     getEnv("DYNAMO_TABLE_MATERIALS", "course_materials"),
			Payments:      getEnv("DYNAMO_TABLE_PAYMENTS", "payments"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			DeviceTokens:  getEnv("DYNAMO_TABLE_DEVICE_TOKENS", "device_tokens"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "learnlive-uploads"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,

		PushProvider:       getEnv("PUSH_PROVIDER", ""),
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", "./serviceAccountKey.json"),
		SNSRegion:          getEnv("SNS_REGION", "us-east-1"),

		FanoutWorkers:   getEnvInt("FANOUT_WORKERS", 4),
		FanoutQueueSize: getEnvInt("FANOUT_QUEUE_SIZE", 256),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
