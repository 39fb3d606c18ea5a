package server

import (
	"net/http"

	"github.com/Varun5711/attendly/internal/handlers"
	"github.com/Varun5711/attendly/internal/logger"
	"github.com/Varun5711/attendly/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Deps struct {
	Auth        *handlers.AuthHandler
	Attendance  *handlers.AttendanceHandler
	System      *handlers.SystemHandler
	Swagger     *handlers.SwaggerHandler
	Sessions    *middleware.AuthMiddleware
	CORSOrigins []string
	Log         *logger.Logger
}

// NewRouter mounts the public auth, health and CSP endpoints and puts every
// attendance route behind the session gate.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(d.Log))

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Swagger UI loads its assets from a CDN, which the CSP would block.
	if d.Swagger != nil {
		r.Get("/docs", d.Swagger.ServeSwaggerUI)
		r.Get("/openapi.yaml", d.Swagger.ServeSpec)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)

		r.Get("/health", d.System.Health)
		r.Post("/api/csp-report", d.System.CSPReport)

		r.Post("/api/auth/signup", d.Auth.Signup)
		r.Post("/api/auth/login", d.Auth.Login)
		r.Post("/api/auth/logout", d.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(d.Sessions.RequireSession)

			r.Get("/api/auth/me", d.Auth.Me)

			r.Route("/api/attendance", func(r chi.Router) {
				r.Get("/", d.Attendance.List)
				r.Post("/", d.Attendance.Create)
				r.Get("/{id}", d.Attendance.Get)
				r.Put("/{id}", d.Attendance.Update)
				r.Delete("/{id}", d.Attendance.Delete)
				r.Get("/{id}/report", d.Attendance.Report)
				r.Get("/{id}/report.png", d.Attendance.ReportQR)
			})
		})
	})

	return r
}
