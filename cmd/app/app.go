package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/eventhub-api/internal/api"
	"github.com/vietanh2810/eventhub-api/internal/config"
	"github.com/vietanh2810/eventhub-api/internal/db"
	"github.com/vietanh2810/eventhub-api/internal/logger"
	"github.com/vietanh2810/eventhub-api/internal/repository"
	"github.com/vietanh2810/eventhub-api/internal/repository/dao"
	"github.com/vietanh2810/eventhub-api/internal/service"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	config.Watch(configPath, func(e fsnotify.Event) {
		zap.L().Warn("config file changed, restart to apply", zap.String("file", e.Name))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(gormDB); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	rdb, err := db.OpenRedis(ctx, conf.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize redis -> %w", err)
	}
	if rdb == nil {
		zap.L().Info("redis not configured, rate limiting disabled")
	}

	if conf.API.AdminEmail != "" && conf.API.AdminPassword != "" {
		authService := service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(gormDB)))
		if _, err = authService.EnsureDefaultAdmin(ctx, conf.API.AdminEmail, conf.API.AdminPassword); err != nil {
			return fmt.Errorf("failed to create default admin -> %w", err)
		}
	}

	s := api.NewServer(ctx, conf, gormDB, rdb)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err = srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down the server -> %w", err)
		}
	}

	if rdb != nil {
		_ = rdb.Close()
	}

	return nil
}

// openDatabase prefers database.url, then DATABASE_URL, then the discrete postgres
// settings. The sqlite driver is meant for local development.
func openDatabase(conf *config.AppConfig) (*gorm.DB, error) {
	if conf.Database.Driver == "sqlite" {
		return db.OpenSQLite(conf.Database.SQLitePath)
	}

	if conf.Database.URL != "" {
		return db.OpenPostgresWithURL(conf.Database.URL)
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	return db.OpenPostgres(conf.Postgres)
}
