// Package server initializes and runs the admin dashboard backend. It opens
// the database and Redis connections, runs migrations, wires the service
// layer and starts the HTTP server with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/kuryentech/gardian-admin/internal/logging"
	"github.com/kuryentech/gardian-admin/internal/server/access"
	"github.com/kuryentech/gardian-admin/internal/server/config"
	"github.com/kuryentech/gardian-admin/internal/server/httpapi"
	"github.com/kuryentech/gardian-admin/internal/server/otp"
	"github.com/kuryentech/gardian-admin/internal/server/repositories/repomanager"
	"github.com/kuryentech/gardian-admin/internal/server/services"
	"github.com/kuryentech/gardian-admin/internal/server/shared/db"
	"github.com/kuryentech/gardian-admin/internal/server/storage"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	conn       *sql.DB
	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	conn, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	challenger := otp.NewService(rdb, otp.NewLogSender(logger), cfg.OTPCodeValidityDuration, cfg.OTPResendCooldown)
	store := storage.NewS3Store(cfg)

	authService := services.NewAuthService(conn, rm, challenger, cfg)
	userService := services.NewUserAdminService(conn, rm)
	reportService := services.NewReportService(conn, rm, store, logger)
	exportService := services.NewExportService(reportService)
	notificationService := services.NewNotificationService(conn, rm)
	analyticsService := services.NewAnalyticsService(conn, rm)
	feedbackService := services.NewFeedbackService(conn, rm)

	resolver := access.NewResolver(rm.Users(conn), []byte(cfg.SecretKey), logger)

	httpServer := httpapi.NewServer(
		cfg,
		resolver,
		authService,
		userService,
		reportService,
		exportService,
		notificationService,
		analyticsService,
		feedbackService,
		logger,
	)

	return &App{config: cfg, logger: logger, conn: conn, httpServer: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.conn.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
