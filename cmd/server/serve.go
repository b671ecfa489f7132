package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/artem13815/hr-crm/docs"

	"github.com/artem13815/hr-crm/api/http"
	"github.com/artem13815/hr-crm/api/http/handlers"
	"github.com/artem13815/hr-crm/api/http/middleware"
	"github.com/artem13815/hr-crm/api/http/presenter"
	"github.com/artem13815/hr-crm/pkg/auth"
	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/company"
	"github.com/artem13815/hr-crm/pkg/config"
	"github.com/artem13815/hr-crm/pkg/event"
	"github.com/artem13815/hr-crm/pkg/funnel"
	"github.com/artem13815/hr-crm/pkg/health"
	"github.com/artem13815/hr-crm/pkg/health/checkers"
	"github.com/artem13815/hr-crm/pkg/note"
	"github.com/artem13815/hr-crm/pkg/notify"
	pgrepo "github.com/artem13815/hr-crm/pkg/repository/postgres"
	"github.com/artem13815/hr-crm/pkg/resume"
	"github.com/artem13815/hr-crm/pkg/security/jwt"
	"github.com/artem13815/hr-crm/pkg/storage/files"
	"github.com/artem13815/hr-crm/pkg/storage/postgres"
	"github.com/artem13815/hr-crm/pkg/storage/redis"
	"github.com/artem13815/hr-crm/pkg/user"
	"github.com/artem13815/hr-crm/pkg/vacancy"
	"github.com/artem13815/hr-crm/pkg/validate"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Connect to PostgreSQL
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("postgres connect: %w", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		m, err := postgres.NewMigrator(pool, log)
		if err != nil {
			return err
		}
		err = m.Up(ctx)
		_ = m.Close()
		if err != nil {
			return err
		}
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	var denylist auth.Denylist = auth.NewMemoryDenylist()
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		denylist = redis.NewDenylist(rdb)
	} else {
		log.Warn("REDIS_ADDR не задан: отозванные токены хранятся в памяти процесса")
	}

	store, storeCheck, err := fileStore(cfg.Storage, log)
	if err != nil {
		return err
	}

	reg := choices.Default()
	if cfg.ChoicesFile != "" {
		if reg, err = choices.Load(cfg.ChoicesFile); err != nil {
			return fmt.Errorf("load choices: %w", err)
		}
	}
	v := validate.New(reg, cfg.MinAge, cfg.MaxAge)

	notifier, err := notify.FromConfig(cfg, log)
	if err != nil {
		return err
	}

	// Wire dependencies (Clean Architecture)
	userRepo := pgrepo.NewUserRepository(pool)
	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	authUC := auth.NewAuthService(auth.Deps{
		Repo:      userRepo,
		Tokens:    jwtGen,
		Denylist:  denylist,
		Notifier:  notifier,
		Validator: v,
		Link:      confirmLink(cfg.PublicURL),
		Logger:    log,
	})
	userUC := user.NewService(userRepo, reg)
	companyUC := company.NewService(pgrepo.NewCompanyRepository(pool), store, v, log)
	vacancyUC := vacancy.NewService(pgrepo.NewVacancyRepository(pool), v, log)
	candidateUC := candidate.NewService(pgrepo.NewCandidateRepository(pool), vacancyUC, store, v, log)
	funnelUC := funnel.NewService(pgrepo.NewFunnelRepository(pool), candidateUC, v, log)
	noteUC := note.NewService(pgrepo.NewNoteRepository(pool), candidateUC, v, log)
	eventUC := event.NewService(pgrepo.NewEventRepository(pool), candidateUC, v, log)
	resumeUC := resume.NewService(pgrepo.NewResumeRepository(pool), v, log)

	// Health service: compose checkers
	readiness := health.NewService(checkers.Postgres(pool), checkers.Redis(rdb), storeCheck)

	views := handlers.NewViews(reg)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: presenter.NewErrorHandler(log),
		BodyLimit:    12 << 20,
	})
	app.Use(middleware.AccessLog(log))

	http.Register(app, http.Handlers{
		Auth: handlers.NewAuthHandler(authUC, handlers.SessionConfig{
			CookieDomain:       cfg.CookieDomain,
			CookieSecure:       cfg.CookieSecure,
			AccessTTL:          cfg.JWTAccessTTL,
			LoginFailureStatus: cfg.LoginFailureStatus,
			FrontendURL:        cfg.FrontendURL,
		}),
		Health:     handlers.NewHealthHandler(readiness),
		Users:      handlers.NewUserHandler(userUC, views),
		Companies:  handlers.NewCompanyHandler(companyUC, views),
		Vacancies:  handlers.NewVacancyHandler(vacancyUC, views),
		Candidates: handlers.NewCandidateHandler(candidateUC, views),
		Funnel:     handlers.NewFunnelHandler(funnelUC, views),
		Notes:      handlers.NewNoteHandler(noteUC, views),
		Events:     handlers.NewEventHandler(eventUC, views),
		Resumes:    handlers.NewResumeHandler(resumeUC, views),
		AuthMW:     jwt.NewAuthMiddleware(jwtGen, denylist, log),
		Throttle:   limiter.Handler(),
	})

	if local, ok := store.(*files.Local); ok {
		app.Static(cfg.Storage.MediaURL, local.Root())
	}

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("port", cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

// fileStore picks local disk or S3; the bucket also becomes a readiness check.
func fileStore(cfg config.StorageConfig, log *zap.Logger) (files.Store, health.Checker, error) {
	switch cfg.Backend {
	case "", "local":
		return files.NewLocal(cfg.MediaRoot, cfg.MediaURL), nil, nil
	case "s3":
		s3, err := files.NewS3(files.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return s3, s3, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// confirmLink: {PUBLIC_URL}/api/v1/confirm/{id}/{code}/.
func confirmLink(publicURL string) auth.LinkBuilder {
	return func(id uuid.UUID, code string) string {
		return fmt.Sprintf("%s/api/v1/confirm/%s/%s/", publicURL, id, code)
	}
}
