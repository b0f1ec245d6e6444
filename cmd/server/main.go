package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/jobboard/job-board-api/internal/api"
	"github.com/jobboard/job-board-api/internal/api/handler"
	"github.com/jobboard/job-board-api/internal/core/service"
	mongodb "github.com/jobboard/job-board-api/internal/infrastructure/db/mongo"
	redisdb "github.com/jobboard/job-board-api/internal/infrastructure/db/redis"
	"github.com/jobboard/job-board-api/internal/infrastructure/queue"
	"github.com/jobboard/job-board-api/internal/infrastructure/storage"
	"github.com/jobboard/job-board-api/internal/pkg/config"
	"github.com/jobboard/job-board-api/pkg/logger"
	"github.com/jobboard/job-board-api/pkg/shutdown"
)

// @title                      Job Board API
// @version                    1.0
// @description                Job board backend: accounts, job postings and applications with cascading cleanup.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "job-board-api",
	})

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Bool("transactions", cfg.Mongo.Transactions).Msg("mongodb connected")

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	resumes, err := storage.NewResumeStore(cfg.Resumes.Dir, cfg.Resumes.MaxBytes)
	if err != nil {
		return err
	}
	cleaner := queue.NewCleaner(cfg.Resumes.CleanupWorkers, resumes, logger.Component("cleaner"))
	cleaner.Start(ctx)

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	jobs := mongodb.NewJobRepository(db)
	applicants := mongodb.NewApplicantRepository(db)
	tx := mongodb.NewTransactor(mongoClient, cfg.Mongo.Transactions)
	revoker := redisdb.NewTokenDenylist(redisClient)

	// --- Services ---
	authSvc := service.NewAuthService(users, revoker, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	userSvc := service.NewUserService(users, jobs, applicants, logger.Component("users"))
	jobSvc := service.NewJobService(jobs, users, applicants, logger.Component("jobs"))
	applicantSvc := service.NewApplicantService(applicants, users, resumes, logger.Component("applicants"))
	integritySvc := service.NewIntegrityService(users, jobs, applicants, tx, cleaner, logger.Component("integrity"))

	if cfg.Admin.Email != "" {
		if _, err := userSvc.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		JWTSecret:      cfg.JWTSecret,
		Revoker:        revoker,
		Auth:           authSvc,
		Users:          userSvc,
		Jobs:           jobSvc,
		Applicants:     applicantSvc,
		Integrity:      integritySvc,
		Resumes:        resumes,
		MaxResumeBytes: cfg.Resumes.MaxBytes,
		Readiness: []handler.DependencyCheck{
			{Name: "mongodb", Check: mongodb.Ping(mongoClient)},
			{Name: "redis", Check: redisdb.Ping(redisClient)},
			{Name: "uploads", Check: func(context.Context) error { return resumes.Writable() }},
		},
		Log: logger.Component("http"),
	})

	runCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			abort(fmt.Errorf("http server: %w", err))
		}
	}()

	// HTTP stops first so no request can queue a discard after the cleaner
	// closes; stores go last.
	stopErr := shutdown.Graceful(runCtx, []os.Signal{os.Interrupt, syscall.SIGTERM}, cfg.ShutdownTimeout, log,
		shutdown.Step{Name: "http", Stoppable: e},
		shutdown.Step{Name: "cleaner", Stoppable: shutdown.Func(cleaner.Stop)},
		shutdown.Step{Name: "redis", Stoppable: shutdown.Func(func(context.Context) error { return redisClient.Close() })},
		shutdown.Step{Name: "mongodb", Stoppable: shutdown.Func(mongoClient.Disconnect)},
	)

	if cause := context.Cause(runCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return stopErr
}
