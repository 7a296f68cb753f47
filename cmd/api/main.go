// @title                       Invoicing API
// @version                     1.0
// @description                 Time-based invoicing: accumulate work entries, generate numbered invoices and download them as PDF.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/cleanworks/invoicing-system/docs"
	"github.com/cleanworks/invoicing-system/internal/api"
	"github.com/cleanworks/invoicing-system/internal/core/service"
	mongostore "github.com/cleanworks/invoicing-system/internal/infrastructure/db/mongo"
	"github.com/cleanworks/invoicing-system/internal/infrastructure/db/postgres"
	redisstore "github.com/cleanworks/invoicing-system/internal/infrastructure/db/redis"
	"github.com/cleanworks/invoicing-system/internal/infrastructure/http/handlers"
	"github.com/cleanworks/invoicing-system/internal/infrastructure/pdf"
	"github.com/cleanworks/invoicing-system/internal/infrastructure/queue"
	"github.com/cleanworks/invoicing-system/internal/pkg/config"
	"github.com/cleanworks/invoicing-system/pkg/logger"
)

const (
	serviceName     = "invoicing-api"
	shutdownTimeout = 15 * time.Second
)

var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Version: version,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
	log.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	pg, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer pg.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(pg); err != nil {
			return err
		}
		log.Info().Msg("postgres migrations applied")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := mongostore.NewUserRepository(mongoDB)
	auditRepo := mongostore.NewAuditRepository(mongoDB)
	if err := mongostore.EnsureIndexes(ctx, userRepo, auditRepo); err != nil {
		return err
	}
	placeRepo := postgres.NewPlaceRepository(pg)
	invoiceRepo := postgres.NewInvoiceRepository(pg)

	// --- Background audit writer ---
	// The dispatcher gets its own context so buffered events are flushed
	// after the HTTP server has drained, not when the signal arrives.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	audit.Start(auditCtx)
	defer func() {
		stopAudit()
		audit.Wait()
	}()

	// --- Services ---
	renderer := pdf.NewRenderer()
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	userService := service.NewUserService(userRepo, audit, logger.Component("users"))
	catalogService := service.NewCatalogService(placeRepo, logger.Component("catalog"))
	invoiceWriter := service.NewInvoiceWriter(invoiceRepo, logger.Component("invoice_writer"))
	invoiceService := service.NewInvoiceService(invoiceRepo, catalogService, userRepo, renderer, logger.Component("invoices"))
	workflowService := service.NewWorkflowService(service.WorkflowDeps{
		Sessions: redisstore.NewSessionStore(rdb, cfg.Workflow.SessionTTL),
		Lock:     redisstore.NewSessionLock(rdb, cfg.Workflow.LockTTL),
		Catalog:  catalogService,
		Invoices: invoiceWriter,
		Users:    userRepo,
		Renderer: renderer,
		Audit:    audit,
	}, logger.Component("workflow"))

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		Log:       logger.Component("http"),
		JWTSecret: cfg.JWTSecret,
		Auth:      authService,
		Users:     userService,
		Catalog:   catalogService,
		Workflow:  workflowService,
		Invoices:  invoiceService,
		Readiness: []handlers.Dependency{
			handlers.MongoCheck(mongoDB),
			handlers.PostgresCheck(pg),
			handlers.RedisCheck(rdb),
		},
	})
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
