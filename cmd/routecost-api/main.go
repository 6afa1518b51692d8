// routecost-api — HTTP API расчёта трудоёмкости и стоимости маршрутов.
//
// Переменные окружения:
//
//	API_PORT       порт (по умолчанию 8080)
//	STORE_BACKEND  postgres (по умолчанию) или memory
//	DB_URL         DSN PostgreSQL
//	AMQP_URL       RabbitMQ; пусто — события отключены
//	CATALOG_FILE   YAML каталога шагов и правил; пусто — встроенный
//	LOG_LEVEL, LOG_FORMAT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/routecost/internal/api"
	"github.com/shaiso/routecost/internal/catalog"
	"github.com/shaiso/routecost/internal/mq"
	"github.com/shaiso/routecost/internal/repo"
	"github.com/shaiso/routecost/internal/routing"
	"github.com/shaiso/routecost/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger("routecost-api")
	logger.Info("starting routecost-api")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(ctx, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	seed, err := loadSeed()
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	cfg := routing.Config{
		Steps:     repo.NewStepRepo(store),
		Workers:   repo.NewWorkerRepo(store),
		Machines:  repo.NewMachineRepo(store),
		Materials: repo.NewMaterialRepo(store),
		Products:  repo.NewProductRepo(store),
		Rules:     seed.Rules,
		Logger:    logger,
	}

	// RabbitMQ (опционально)
	if url := os.Getenv("AMQP_URL"); url != "" {
		conn, err := mq.NewConnection(url, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, cost events disabled", "error", err)
		} else {
			defer conn.Close()
			if err := mq.SetupTopology(ctx, conn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
			go resetupTopology(ctx, conn, logger)
			cfg.Publisher = mq.NewPublisher(conn, logger)
		}
	}

	svc := routing.New(cfg)

	if _, err := svc.SeedCatalog(ctx, seed); err != nil {
		logger.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(api.Config{
		Service: svc,
		Logger:  logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

// openStore выбирает хранилище по STORE_BACKEND.
func openStore(ctx context.Context, logger *slog.Logger) (repo.BlobStore, func(), error) {
	backend := os.Getenv("STORE_BACKEND")
	switch backend {
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		return repo.NewMemoryBlobStore(), func() {}, nil

	case "", "postgres":
		pool, err := repo.NewPool(ctx, "")
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("connected to database")
		return repo.NewPGBlobStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}

// loadSeed читает CATALOG_FILE или встроенный каталог.
func loadSeed() (*catalog.Seed, error) {
	if path := os.Getenv("CATALOG_FILE"); path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Default()
}

// resetupTopology заново объявляет топологию после reconnect.
func resetupTopology(ctx context.Context, conn *mq.Connection, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-conn.ReconnectNotify():
			if err := mq.SetupTopology(ctx, conn); err != nil {
				logger.Warn("failed to setup topology after reconnect", "error", err)
				continue
			}
			logger.Info("topology restored after reconnect")
		}
	}
}
