package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/jobboard/job-board-api/docs"
	"github.com/jobboard/job-board-api/internal/api/handler"
	"github.com/jobboard/job-board-api/internal/api/middleware"
	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

// multipartOverhead is allowed on top of the resume size for form framing.
const multipartOverhead = 64 << 10

// Deps carries everything the router wires into handlers.
type Deps struct {
	JWTSecret      string
	Revoker        ports.TokenRevoker
	Auth           ports.AuthService
	Users          ports.UserService
	Jobs           ports.JobService
	Applicants     ports.ApplicantService
	Integrity      ports.IntegrityService
	Resumes        ports.ResumeStore
	MaxResumeBytes int64
	Readiness      []handler.DependencyCheck
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "jobboard",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	adminHandler := handler.NewAdminHandler(d.Users, d.Integrity)
	adminJobs := handler.NewAdminJobHandler(d.Jobs, d.Integrity)
	providerHandler := handler.NewProviderHandler(d.Jobs, d.Applicants, d.Integrity)
	providerJobs := handler.NewProviderJobHandler(d.Jobs, d.Integrity)
	seekerHandler := handler.NewSeekerHandler(d.Jobs, d.Resumes, d.Integrity)
	authMiddleware := middleware.Auth(d.JWTSecret, d.Revoker, d.Log)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authMiddleware)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/recent", adminHandler.Recent)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.AddUser)
	admin.GET("/users/:userId", adminHandler.GetUser)
	admin.PUT("/users/:userId", adminHandler.EditUser)
	admin.DELETE("/users/:userId", adminHandler.DeleteUser)
	admin.GET("/jobs", adminJobs.List)
	admin.POST("/jobs", adminJobs.Create)
	admin.GET("/jobs/:jobId", adminJobs.Get)
	admin.PUT("/jobs/:jobId", adminJobs.Edit)
	admin.DELETE("/jobs/:jobId", adminJobs.Delete)

	// --- Provider routes ---
	provider := e.Group("/provider", authMiddleware, middleware.RBAC(domain.RoleProvider))
	provider.GET("/stats", providerHandler.Stats)
	provider.GET("/recent", providerHandler.Recent)
	provider.GET("/jobs", providerJobs.List)
	provider.POST("/jobs", providerJobs.Create)
	provider.GET("/jobs/:jobId", providerJobs.Get)
	provider.PUT("/jobs/:jobId", providerJobs.Edit)
	provider.DELETE("/jobs/:jobId", providerJobs.Delete)
	provider.GET("/jobs/:jobId/applicants", providerHandler.Applicants)
	provider.GET("/jobs/:jobId/shortlists", providerHandler.Shortlists)
	provider.GET("/applicants/:applicantId/resume", providerHandler.Resume)
	provider.PATCH("/applicants/:applicantId/shortlist", providerHandler.Shortlist)
	provider.DELETE("/applicants/:applicantId", providerHandler.Reject)

	// --- Seeker routes ---
	seeker := e.Group("/user", authMiddleware, middleware.RBAC(domain.RoleSeeker))
	seeker.GET("/jobs/available", seekerHandler.Available)
	seeker.GET("/jobs/applied", seekerHandler.Applied)
	seeker.POST("/jobs/:jobId/apply", seekerHandler.Apply, bodyLimit(d.MaxResumeBytes))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Readiness...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func bodyLimit(maxResume int64) echo.MiddlewareFunc {
	if maxResume <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomiddleware.BodyLimit(fmt.Sprintf("%dB", maxResume+multipartOverhead))
}
