package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"helpdesk-system/backend/internal/api/handler"
	"helpdesk-system/backend/internal/api/router"
	"helpdesk-system/backend/internal/jobs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and background jobs",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	logger := a.logger
	logger.Info("starting helpdesk",
		zap.String("version", Version),
		zap.Int("port", a.cfg.Server.Port),
		zap.String("log_level", a.cfg.Log.Level),
	)

	if err := a.migrate(); err != nil {
		return err
	}

	if a.cfg.Auth.BootstrapAdmin {
		if _, err := a.svc.User.EnsureAdmin(cmd.Context()); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	scheduler := jobs.NewScheduler(logger)
	if a.cfg.Jobs.CleanupEnabled {
		if err := scheduler.AddJob(a.cfg.Jobs.CleanupCron, jobs.NewCleanupJob(a.svc.Helpdesk, logger)); err != nil {
			return err
		}
	}
	if a.cfg.Jobs.ExportEnabled {
		if err := scheduler.AddJob(a.cfg.Jobs.ExportCron, jobs.NewExportJob(a.svc.Export, logger)); err != nil {
			return err
		}
	}
	scheduler.Start()

	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(a.cfg, handler.NewHandler(a.svc), a.svc.User, a.jwtMgr, a.rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return serveUntil(srv, scheduler, quit, logger)
}

// serveUntil serves until a signal arrives on quit or the listener fails,
// then shuts down the server and the scheduler. A listener failure is
// returned so the process exits non-zero.
func serveUntil(srv *http.Server, scheduler *jobs.Scheduler, quit <-chan os.Signal, logger *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serveErr:
		logger.Error("http server failed", zap.Error(err))
		runErr = fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	scheduler.Stop(ctx)

	logger.Info("server stopped")
	return runErr
}
