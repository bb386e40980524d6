package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shukketsu-app/backend-go/internal/handler/http/middleware"
	"github.com/shukketsu-app/backend-go/internal/pkg/jwt"
)

func NewRouter(
	logger *slog.Logger,
	frontendURL string,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	approvalHandler ApprovalHandler,
	organizationHandler OrganizationHandler,
	securityHandler SecurityHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/scan", attendanceHandler.Scan)
				r.Get("/my", attendanceHandler.ListMy)

				// Staff only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireStaff)
					r.Get("/", attendanceHandler.List)
					r.Get("/{id}", attendanceHandler.Get)
				})
			})

			r.Route("/absence-requests", func(r chi.Router) {
				r.Post("/", approvalHandler.Submit)
				r.Get("/my", approvalHandler.ListMy)
				r.Get("/{id}", approvalHandler.Get)
				r.Delete("/{id}", approvalHandler.Cancel)

				// Staff only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireStaff)
					r.Get("/", approvalHandler.List)
					r.Post("/{id}/approve", approvalHandler.Approve)
					r.Post("/{id}/reject", approvalHandler.Reject)
					r.Get("/{id}/decisions", approvalHandler.ListDecisions)
				})
			})

			r.Route("/organizations/my", func(r chi.Router) {
				r.Get("/policy", organizationHandler.GetPolicy)
				r.Get("/time-slots", organizationHandler.ListTimeSlots)
				r.Get("/sessions", organizationHandler.ListSessions)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/policy", organizationHandler.UpdatePolicy)
					r.Put("/time-slots", organizationHandler.ReplaceTimeSlots)
				})
			})

			// Admin only
			r.Route("/security", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/scan-logs", securityHandler.ListScanLogs)
				r.Route("/ip-ranges", func(r chi.Router) {
					r.Get("/", securityHandler.ListIPRanges)
					r.Post("/", securityHandler.CreateIPRange)
					r.Put("/{id}", securityHandler.UpdateIPRange)
					r.Delete("/{id}", securityHandler.DeleteIPRange)
				})
			})
		})
	})

	return r
}
