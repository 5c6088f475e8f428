// cmd/assistant-console/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"assistant-console/internal/assistant/escort"
	"assistant-console/internal/assistant/interpreter"
	"assistant-console/internal/assistant/orchestrator"
	"assistant-console/internal/assistant/visitstore"
	"assistant-console/internal/common/aws"
	"assistant-console/internal/common/camunda"
	"assistant-console/internal/common/config"
	"assistant-console/internal/common/database"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/common/observability"

	mvv "assistant-console/internal/workers/assistant/manage-vip-visit"
	pm "assistant-console/internal/workers/assistant/process-message"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant console...",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("timezone", cfg.Assistant.Timezone),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	substrate, closeSubstrate := openSubstrate(ctx, cfg, zapLog)
	defer closeSubstrate()

	store := visitstore.New(ctx, &visitstore.Config{
		Key:          cfg.Storage.Key,
		SaveTimeout:  config.GetDuration(cfg.Storage.SaveTimeout),
		DefaultActor: cfg.Assistant.DefaultActor,
	}, substrate, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			zapLog.Error("visit store did not flush before shutdown", zap.Error(err))
		}
	}()
	zapLog.Info("Visit store loaded", zap.Int("visits", store.Len()))

	var opts []orchestrator.Option

	if cfg.Metrics.Enabled {
		obs := observability.New(cfg.App.Name, log)
		defer obs.Shutdown()
		opts = append(opts, orchestrator.WithRecorder(obs))
	}

	if cfg.Notifications.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.SNS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		opts = append(opts, orchestrator.WithEscortNotifier(
			escort.NewSNSNotifier(snsClient, cfg.Notifications.SNS.TopicARN, log),
		))
		zapLog.Info("Escort notifications enabled", zap.String("topicArn", cfg.Notifications.SNS.TopicARN))
	}

	orch := orchestrator.New(orchestrator.Config{
		DefaultActor:          cfg.Assistant.DefaultActor,
		MaximumProtocolEscort: cfg.Assistant.MaximumProtocolEscort,
		Location:              cfg.Assistant.Location(),
	}, interpreter.New(log), store, log, opts...)

	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		client, workers := startWorkers(ctx, cfg, orch, store, log, zapLog)
		zeebe = client
		defer func() {
			workers.Close()
			if err := client.Close(); err != nil {
				zapLog.Error("Error closing Zeebe client", zap.Error(err))
			}
		}()
	}

	if cfg.Metrics.Enabled {
		server := startHealthServer(cfg.Metrics.Address, store, zeebe, zapLog)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	actor := os.Getenv("ASSISTANT_ACTOR")
	if actor == "" {
		actor = cfg.Assistant.DefaultActor
	}

	if err := runConsole(ctx, os.Stdin, os.Stdout, orch, actor, log); err != nil {
		zapLog.Error("console stopped", zap.Error(err))
	}

	// stdin may close before a signal arrives when the workers are the main surface.
	if cfg.Camunda.Enabled && ctx.Err() == nil {
		<-ctx.Done()
	}

	zapLog.Info("Shutdown signal received, stopping assistant console...")
}

func openSubstrate(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (visitstore.Substrate, func()) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		var rdb *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		zapLog.Info("Redis connected successfully")
		return rdb, func() { _ = rdb.Close() }

	case config.StorageBackendPostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				return err
			}
			return pg.EnsureSchema(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully")
		return pg, func() { _ = pg.Close() }

	default:
		zapLog.Warn("Using in-memory visit storage; visits are lost on exit")
		return visitstore.NewMemorySubstrate(), func() {}
	}
}

func startWorkers(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, store *visitstore.Store, log logger.Logger, zapLog *zap.Logger) (*camunda.Client, *camunda.Workers) {
	client, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	workers := camunda.NewWorkers(client.GetClient(), log)

	pmConfig := pm.LoadConfig(cfg)
	if err := pmConfig.Validate(); err != nil {
		zapLog.Fatal("invalid process-message worker config", zap.Error(err))
	}
	workers.Register(pm.TaskType, config.GetWorkerConfig(cfg, pm.TaskType), pm.NewHandler(pmConfig, orch, log))

	mvvConfig := mvv.LoadConfig(cfg)
	if err := mvvConfig.Validate(); err != nil {
		zapLog.Fatal("invalid manage-vip-visit worker config", zap.Error(err))
	}
	workers.Register(mvv.TaskType, config.GetWorkerConfig(cfg, mvv.TaskType), mvv.NewHandler(mvvConfig, store, log))

	return client, workers
}

func startHealthServer(addr string, store *visitstore.Store, zeebe *camunda.Client, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "healthy",
			"visits": store.Len(),
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, code := "ready", http.StatusOK
		if zeebe != nil {
			if err := zeebe.HealthCheck(r.Context()); err != nil {
				status, code = "zeebe unavailable", http.StatusServiceUnavailable
			}
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("Health/Metrics server listening", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()
	return server
}
