// cmd/intaked/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"housing-intake/internal/checklist"
	"housing-intake/internal/classify"
	"housing-intake/internal/common/config"
	"housing-intake/internal/common/database"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/extract"
	"housing-intake/internal/notify"
	"housing-intake/internal/pipeline"
	"housing-intake/internal/queue"
	"housing-intake/internal/repository"
	"housing-intake/internal/schema"
	"housing-intake/internal/storage"
	"housing-intake/internal/vision"
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake daemon...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		rdb = database.NewRedis(cfg.Database.Redis)
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init blob store ---
	var blobs *storage.S3Store
	err = retryWithBackoff(func() error {
		var err error
		blobs, err = storage.NewS3Store(ctx, cfg.Storage, log)
		return err
	}, 5, 2*time.Second, zapLog, "S3 store initialization")
	if err != nil {
		zapLog.Fatal("s3 store failed after retries", zap.Error(err))
	}

	// --- Repositories ---
	cases := repository.NewCaseRepository(pg.DB, log)
	documents := repository.NewDocumentRepository(pg.DB, log)
	versions := repository.NewVersionRepository(pg.DB)
	logs := repository.NewLogRepository(pg.DB)
	sequence := repository.NewSequenceRepository(pg.DB)

	// --- Pipeline stages ---
	visionClient := vision.NewClient(cfg.Model, log)
	classifier := classify.New(visionClient, log)
	registry := schema.New()
	extractor := extract.New(registry, visionClient, visionClient.ModelID(), cfg.Processing.ExtractionThreshold, log)
	engine := checklist.New(checklistConfig(cfg.Checklist))

	locker := pipeline.NewRedisLocker(rdb.Client, time.Duration(cfg.Processing.LockTTLSeconds)*time.Second)
	workQueue := queue.New(rdb.Client, cfg.Processing.QueueName, log)

	var notifier pipeline.Notifier
	if cfg.Notify.Enabled {
		emailNotifier, err := notify.NewEmailNotifier(ctx, cfg.Notify, log)
		if err != nil {
			zapLog.Fatal("notifier initialization failed", zap.Error(err))
		}
		notifier = emailNotifier
		zapLog.Info("SES notifier initialized", zap.String("from", cfg.Notify.FromEmail))
	}

	processor := pipeline.New(pipeline.Options{
		Cases:      cases,
		Documents:  documents,
		Versions:   versions,
		Logs:       logs,
		Sequence:   sequence,
		Blobs:      blobs,
		Classifier: classifier,
		Extractor:  extractor,
		Checklist:  engine,
		Locker:     locker,
		Queue:      workQueue,
		Notifier:   notifier,
		Logger:     log,

		ClassificationThreshold: cfg.Processing.ClassificationThreshold,
		MaxUploadBytes:          cfg.Processing.MaxUploadBytes,
	})

	// --- Metrics & pprof endpoint ---
	metricsAddr := fmt.Sprintf(":%d", cfg.App.MetricsPort)
	metricsServer := &http.Server{Addr: metricsAddr}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	go func() {
		zapLog.Info("metrics endpoint listening", zap.String("addr", metricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// --- Queue consumer ---
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := workQueue.Consume(ctx, processor.Process); err != nil && ctx.Err() == nil {
			zapLog.Error("queue consumer stopped", zap.Error(err))
		}
	}()
	zapLog.Info("processing consumer started", zap.String("queue", cfg.Processing.QueueName))

	<-ctx.Done()
	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("metrics server shutdown failed", zap.Error(err))
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		zapLog.Warn("queue consumer did not stop in time")
	}
	zapLog.Info("Shutdown complete")
}

func checklistConfig(cfg config.ChecklistConfig) checklist.Config {
	out := checklist.DefaultConfig()
	if cfg.MinIdentityDocuments > 0 {
		out.MinIdentityDocuments = cfg.MinIdentityDocuments
	}
	if cfg.IdentityConfidence > 0 {
		out.IdentityConfidenceThreshold = cfg.IdentityConfidence
	}
	if cfg.IncomeMonths > 0 {
		out.IncomeMonths = cfg.IncomeMonths
	}
	if cfg.BankStatementMonths > 0 {
		out.BankStatementMonths = cfg.BankStatementMonths
	}
	if cfg.CompletenessThreshold > 0 {
		out.CompletenessThreshold = cfg.CompletenessThreshold
	}
	if cfg.BankCompleteness > 0 {
		out.BankCompletenessThreshold = cfg.BankCompleteness
	}
	if cfg.ProofOfAddressMaxDays > 0 {
		out.ProofOfAddressMaxAge = time.Duration(cfg.ProofOfAddressMaxDays) * 24 * time.Hour
	}
	out.WelfareBenefitRequired = cfg.WelfareBenefitRequired
	out.TenancyAgreementRequired = cfg.TenancyRequired
	return out
}
