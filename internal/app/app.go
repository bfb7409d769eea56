package app

import (
	"context"
	"net/http"
	"time"

	fanuc "github.com/iwtcode/focasBridge"
	"github.com/iwtcode/focasBridge/focas"
	"github.com/iwtcode/focasBridge/internal/adapters/handlers"
	"github.com/iwtcode/focasBridge/internal/config"
	"github.com/iwtcode/focasBridge/internal/interfaces"
	"github.com/iwtcode/focasBridge/internal/metrics"
	"github.com/iwtcode/focasBridge/internal/middleware/logging"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(Options())
}

// Options собирает все модули приложения.
func Options() fx.Option {
	return fx.Options(
		ConfigModule,
		LoggingModule,
		MetricsModule,
		ClientModule,
		HttpServerModule,
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(lc fx.Lifecycle, cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	logger := logging.NewLogger(loggerCfg, "FocasBridge")
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return logger.Close()
		},
	})
	return logger
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var MetricsModule = fx.Module("metrics_module",
	fx.Provide(metrics.New),
)

// ProvideClient возвращает клиента моста. FOCAS2 инициализируется
// при первом обращении к станку, ошибка инициализации не мешает запуску сервиса.
func ProvideClient(cfg *config.AppConfig, logger *logging.Logger, m *metrics.Metrics) *fanuc.Client {
	client := fanuc.New(cfg.Fanuc,
		fanuc.WithLogger(logger.Logrus()),
		fanuc.WithObserver(m),
	)
	logger.Info("FOCAS bridge client created",
		"library", focas.LibraryName,
		"available", client.IsAvailable(),
		"log_path", cfg.Fanuc.LogPath,
	)
	return client
}

var ClientModule = fx.Module("client_module",
	fx.Provide(
		fx.Annotate(ProvideClient, fx.As(new(interfaces.Bridge))),
	),
)

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	// Подключение блокируется на время таймаута FOCAS, ответ должен успеть уйти.
	writeTimeout := time.Duration(cfg.Fanuc.TimeoutSec)*time.Second + 10*time.Second
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
