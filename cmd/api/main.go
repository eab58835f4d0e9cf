package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/cartify-golang/internal/auth"
	"github.com/01moynul/cartify-golang/internal/config"
	"github.com/01moynul/cartify-golang/internal/database"
	"github.com/01moynul/cartify-golang/internal/handlers"
	"github.com/01moynul/cartify-golang/internal/logger"
	"github.com/01moynul/cartify-golang/internal/routes"
	"github.com/01moynul/cartify-golang/internal/services"
	"github.com/01moynul/cartify-golang/internal/store"
	"github.com/01moynul/cartify-golang/internal/store/memstore"
	"github.com/01moynul/cartify-golang/internal/store/mongostore"
	"github.com/01moynul/cartify-golang/internal/store/mysqlstore"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service: "cartify-api",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. --- Store Backend ---
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("failed to open store", slog.String("driver", cfg.DBDriver), slog.Any("err", err))
		os.Exit(1)
	}

	// 2. --- Application Setup ---
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	app := &handlers.Handlers{
		Accounts: services.NewAccountService(st, auth.NewBcryptHasher(cfg.BcryptCost), tokens),
		Catalog:  services.NewCatalogService(st),
		Carts:    services.NewCartService(st, st),
		Log:      log,
	}

	// 3. --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		Tokens:      tokens,
		CORSOrigins: cfg.CORSAllowOrigins,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// 4. --- Start Server ---
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", slog.String("addr", srv.Addr), slog.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.Error("http server error", slog.Any("err", err))
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Error("store close error", slog.Any("err", err))
	}

	log.Info("bye")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// openStore connects the backend named by DB_DRIVER. MySQL is migrated before use.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		if err := database.RunMigrations(cfg.MySQLDSN); err != nil {
			return nil, err
		}
		db, err := database.OpenDB(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return mysqlstore.New(db, cfg.StoreTimeout), nil
	case config.DriverMongo:
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StoreTimeout)
	default:
		slog.Warn("using in-memory store; data is lost on restart")
		return memstore.New(), nil
	}
}
