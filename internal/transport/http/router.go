package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/learnlive/api/internal/application/course"
	"github.com/learnlive/api/internal/application/fanout"
	"github.com/learnlive/api/internal/application/material"
	"github.com/learnlive/api/internal/application/notification"
	"github.com/learnlive/api/internal/application/payment"
	"github.com/learnlive/api/internal/application/session"
	"github.com/learnlive/api/internal/application/user"
	"github.com/learnlive/api/internal/config"
	"github.com/learnlive/api/internal/domain"
	s3infra "github.com/learnlive/api/internal/infrastructure/s3"
	"github.com/learnlive/api/internal/transport/http/handler"
	appmiddleware "github.com/learnlive/api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifSvc := notification.NewService(notification.ServiceDeps{
		Repo:       deps.NotificationRepo,
		Tokens:     deps.DeviceTokenRepo,
		Dispatcher: deps.Dispatcher,
		Scheduler:  deps.Scheduler,
	})
	fan := fanout.NewCoordinator(notifSvc, deps.UserRepo, deps.Scheduler, slog.Default())
	userDeps := user.ServiceDeps{
		Repo:   deps.UserRepo,
		Fanout: fan,
	}
	if deps.JWTProvider != nil {
		userDeps.JWT = deps.JWTProvider
	}
	userSvc := user.NewService(userDeps)
	courseSvc := course.NewService(course.ServiceDeps{
		Repo:        deps.CourseRepo,
		Materials:   deps.MaterialRepo,
		Sessions:    deps.SessionRepo,
		Files:       deps.S3Store,
		Fanout:      fan,
		ContentType: s3infra.DetectContentType,
	})
	materialSvc := material.NewService(material.ServiceDeps{
		Repo:        deps.MaterialRepo,
		Courses:     deps.CourseRepo,
		Files:       deps.S3Store,
		Fanout:      fan,
		ContentType: s3infra.DetectContentType,
	})
	paymentSvc := payment.NewService(payment.ServiceDeps{
		Repo:    deps.PaymentRepo,
		Courses: deps.CourseRepo,
		Fanout:  fan,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		Repo:    deps.SessionRepo,
		Courses: deps.CourseRepo,
		Fanout:  fan,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(userSvc)
	userH := handler.NewUserHandler(userSvc)
	courseH := handler.NewCourseHandler(courseSvc)
	materialH := handler.NewMaterialHandler(materialSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r.Get("/", healthH.Root)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/token", authH.Token)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/me", userH.Me)
			r.Put("/users/me/class", userH.UpdateClassLevel)
			r.Post("/users/me/device-token", notifH.RegisterDeviceToken)

			r.Get("/courses", courseH.List)
			r.Post("/courses", courseH.Create)
			r.Get("/courses/{id}", courseH.Get)
			r.Get("/course/enrolled", courseH.ListEnrolled)
			r.Post("/courses/{id}/enroll", courseH.Enroll)

			r.Get("/courses/{id}/materials", materialH.List)
			r.Get("/courses/{id}/materials/{materialID}", materialH.Get)

			r.Get("/sessions/upcoming", sessionH.Upcoming)
			r.Post("/sessions", sessionH.Create)
			r.Get("/sessions/{id}", sessionH.Get)

			r.Post("/payments", paymentH.Create)
			r.Get("/payments", paymentH.List)

			r.Get("/notifications", notifH.List)
			r.Get("/notifications/unread", notifH.ListUnread)
			r.Put("/notifications/read-all", notifH.MarkAllAsRead)
			r.Put("/notifications/{id}/read", notifH.MarkAsRead)
			r.Delete("/notifications/{id}", notifH.Delete)

			// Teacher-only routes. Ownership is still enforced per course in
			// the services.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleTeacher))

				r.Put("/courses/{id}", courseH.Update)
				r.Delete("/courses/{id}", courseH.Delete)
				r.Post("/courses/{id}/materials", materialH.Create)
				r.Delete("/courses/{id}/materials/{materialID}", materialH.Delete)
			})
		})
	})

	return r
}
