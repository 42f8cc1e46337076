package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fmuoria/career-coach/internal/api"
	"github.com/fmuoria/career-coach/internal/archive"
	"github.com/fmuoria/career-coach/internal/auth"
	"github.com/fmuoria/career-coach/internal/config"
	"github.com/fmuoria/career-coach/internal/events"
	"github.com/fmuoria/career-coach/internal/ingestion"
	"github.com/fmuoria/career-coach/internal/interview"
	"github.com/fmuoria/career-coach/internal/llm"
	"github.com/fmuoria/career-coach/internal/lock"
	"github.com/fmuoria/career-coach/internal/logging"
	"github.com/fmuoria/career-coach/internal/profile"
	"github.com/fmuoria/career-coach/internal/resume"
	"github.com/fmuoria/career-coach/internal/store"
)

const (
	resumeTemperature    = 0.2
	interviewTemperature = 0.7
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.Init(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := repo.Close(closeCtx); err != nil {
			logger.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	resumeAI, err := newCompleter(ctx, cfg, cfg.ResumeModel, resumeTemperature, logger)
	if err != nil {
		logger.Fatal("Failed to create resume model client", zap.Error(err))
	}
	interviewAI, err := newCompleter(ctx, cfg, cfg.InterviewModel, interviewTemperature, logger)
	if err != nil {
		logger.Fatal("Failed to create interview model client", zap.Error(err))
	}

	creds, err := auth.LoadCredentials(cfg.FirebaseCredentialsJSON, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Fatal("Failed to load Firebase credentials", zap.Error(err))
	}
	verifier, err := auth.NewFirebase(ctx, creds)
	if err != nil {
		logger.Fatal("Failed to init Firebase auth", zap.Error(err))
	}

	locker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	archiver, err := archive.New(ctx, archive.Options{
		Bucket:    cfg.ArchiveBucket,
		Endpoint:  cfg.ArchiveEndpoint,
		AccessKey: cfg.ArchiveAccessKey,
		SecretKey: cfg.ArchiveSecretKey,
		Region:    cfg.ArchiveRegion,
	})
	if err != nil {
		logger.Fatal("Failed to init resume archive", zap.Error(err))
	}

	publisher := events.New(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if cfg.RabbitMQURL == "" {
		logger.Info("RabbitMQ not configured, events are dropped")
	}

	files := ingestion.NewFileHandler(cfg.UploadsDir, cfg.MaxUploadBytes)

	server := api.NewServer(
		verifier,
		profile.NewService(repo.User, repo.Resume, repo.Session),
		resume.NewService(files, resumeAI, repo.Resume, archiver, publisher),
		interview.NewController(repo.Resume, repo.Session, interviewAI, locker, publisher, cfg.MaxQuestions),
		repo,
		api.Options{BaseURL: cfg.BaseURL, CORSOrigins: cfg.CORSOrigins, MaxUploadBytes: cfg.MaxUploadBytes},
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting AI Career Coach API",
			zap.String("addr", cfg.Addr()),
			zap.String("llm_provider", cfg.LLMProvider),
			zap.Strings("cors_origins", cfg.CORSOrigins))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}

// newCompleter builds the provider client for one model behind the retry policy
func newCompleter(ctx context.Context, cfg *config.Config, model string, temperature float32, logger *zap.Logger) (llm.Completer, error) {
	var client llm.Completer
	switch cfg.LLMProvider {
	case config.ProviderVertex:
		c, err := llm.NewVertexAIClient(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, model, temperature)
		if err != nil {
			return nil, err
		}
		client = c
	default:
		c, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, model, temperature)
		if err != nil {
			return nil, err
		}
		client = c
	}
	return llm.NewRetrying(client, cfg.LLMTimeout, cfg.LLMMaxAttempts, cfg.LLMRetryBackoff, logger.Named("llm")), nil
}

// newLocker picks the Redis lock when configured so several replicas
// serialize answers to the same interview
func newLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (lock.Locker, error) {
	if cfg.RedisAddr == "" {
		logger.Info("Redis not configured, using in-process interview locks")
		return lock.NewLocal(), nil
	}
	client, err := lock.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	return lock.NewRedis(client, cfg.RedisNamespace, cfg.LockTTL, logger.Named("lock")), nil
}
