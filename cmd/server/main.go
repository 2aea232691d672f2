package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/treasury-admin/internal/app"
	"github.com/linemk/treasury-admin/internal/app/handlers"
	"github.com/linemk/treasury-admin/internal/config"
	"github.com/linemk/treasury-admin/internal/lib/logger"
	"github.com/linemk/treasury-admin/internal/lib/logger/handlers/urllog"
	"github.com/linemk/treasury-admin/internal/service"
	"github.com/linemk/treasury-admin/internal/storage"
	"github.com/linemk/treasury-admin/internal/upstream"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД (если зеркало включено)
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// клиент внешней системы учета — источник леджера и отчетных цифр
	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Token, cfg.Upstream.Timeout)

	// зеркало леджера подключается только при включенной БД
	var mirror storage.LedgerStorage
	if application.DB != nil {
		mirror = storage.NewLedgerRepository(application.DB)
	}

	treasuryService := service.NewTreasuryService(
		application.Logger,
		client,
		client,
		mirror,
		service.RefreshParams{
			Limit: cfg.Recon.LedgerLimit,
			TopN:  cfg.Recon.LeaderboardSize,
		},
	)

	// эндпоинт текущего снапшота казны
	router.Get("/api/treasury", handlers.SnapshotHandler(application.Logger, treasuryService))
	// эндпоинт принудительного пересчета
	router.Post("/api/treasury/refresh", handlers.RefreshHandler(application.Logger, treasuryService))
	// эндпоинт аудита атрибуции выплат
	router.Get("/api/treasury/attribution", handlers.AttributionHandler(application.Logger, treasuryService))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()

	// фоновый пересчет по таймеру; первый прогон сразу, чтобы кэш не был холодным
	go func() {
		if _, err := treasuryService.Refresh(refreshCtx, service.RefreshParams{}); err != nil {
			log.Error("initial snapshot failed", slog.Any("error", err))
		}
		ticker := time.NewTicker(cfg.Recon.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-ticker.C:
				if _, err := treasuryService.Refresh(refreshCtx, service.RefreshParams{}); err != nil {
					log.Error("scheduled snapshot refresh failed", slog.Any("error", err))
				}
			}
		}
	}()

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	stopRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
