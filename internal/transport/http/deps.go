package http

import (
	"github.com/learnlive/api/internal/application/push"
	"github.com/learnlive/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/learnlive/api/internal/infrastructure/jwt"
	s3infra "github.com/learnlive/api/internal/infrastructure/s3"
	"github.com/learnlive/api/internal/pkg/tasks"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	CourseRepo       *dynamo.CourseRepo
	SessionRepo      *dynamo.SessionRepo
	MaterialRepo     *dynamo.MaterialRepo
	PaymentRepo      *dynamo.PaymentRepo
	NotificationRepo *dynamo.NotificationRepo
	DeviceTokenRepo  *dynamo.DeviceTokenRepo
	S3Store          *s3infra.Store
	JWTProvider      *jwtinfra.Provider
	Dispatcher       *push.Dispatcher
	Scheduler        *tasks.Pool
}
