package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-store-api/internal/config"
	"github.com/BuzzLyutic/task-store-api/internal/files"
	"github.com/BuzzLyutic/task-store-api/internal/handler"
	"github.com/BuzzLyutic/task-store-api/internal/logging"
	"github.com/BuzzLyutic/task-store-api/internal/repo"
	"github.com/BuzzLyutic/task-store-api/internal/service"
	"github.com/BuzzLyutic/task-store-api/internal/storage"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаем логгер
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	taskRepo, closeRepo, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open task storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeRepo()

	taskHandler := handler.NewTaskHandler(service.NewTaskService(taskRepo), logger)
	fileHandler := handler.NewFileHandler(files.NewStore(cfg.UploadDir), cfg.UploadMaxBytes, logger)

	srv := http.Server{ // Создаем сервер
		Addr:         cfg.Addr(),
		Handler:      handler.NewRouter(taskHandler, fileHandler, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr), zap.String("driver", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
		return
	}
	logger.Info("Server stopped successfully!")
}

// openRepository выбирает хранилище задач по STORAGE_DRIVER
func openRepository(cfg config.Config, logger *zap.Logger) (repo.TaskRepository, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverFile:
		backend := storage.NewFileBackend(cfg.TasksFile)
		logger.Info("Using CSV file storage", zap.String("path", backend.Path()))
		return repo.NewCSVTaskRepo(backend, logger), func() {}, nil

	case config.DriverRedis:
		backend, err := storage.NewRedisBackend(cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Redis storage", zap.String("key", cfg.RedisKey))
		return repo.NewCSVTaskRepo(backend, logger), func() { backend.Close() }, nil

	case config.DriverPostgres:
		ctx := context.Background()
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL) // Создаем новое соединение к БД
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil { // Пытаемся пингануть БД
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("Successfully connected to the Database!")
		return repo.NewPostgresTaskRepo(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
