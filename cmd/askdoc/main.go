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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/chunker"
	"github.com/askdoc-io/askdoc/internal/config"
	"github.com/askdoc-io/askdoc/internal/db"
	dbRedis "github.com/askdoc-io/askdoc/internal/db/redis"
	"github.com/askdoc-io/askdoc/internal/domain"
	"github.com/askdoc-io/askdoc/internal/extract"
	"github.com/askdoc-io/askdoc/internal/index"
	logpkg "github.com/askdoc-io/askdoc/internal/logger"
	"github.com/askdoc-io/askdoc/internal/metrics"
	"github.com/askdoc-io/askdoc/internal/repository/embcache"
	"github.com/askdoc-io/askdoc/internal/repository/fingerprint"
	chiTransport "github.com/askdoc-io/askdoc/internal/transport/chi"
	"github.com/askdoc-io/askdoc/internal/transport/duckduckgo"
	openaiTransport "github.com/askdoc-io/askdoc/internal/transport/openai"
	"github.com/askdoc-io/askdoc/internal/usecase/answer"
	healthuc "github.com/askdoc-io/askdoc/internal/usecase/health"
	"github.com/askdoc-io/askdoc/internal/usecase/ingest"
	"github.com/askdoc-io/askdoc/internal/usecase/relevance"
	"github.com/askdoc-io/askdoc/internal/usecase/retrieval"
	"github.com/askdoc-io/askdoc/internal/usecase/websearch"
	"github.com/askdoc-io/askdoc/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting askdoc API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("fingerprint_driver", cfg.Storage.FingerprintDriver),
		zap.String("index_path", cfg.Storage.IndexPath),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterLLMMetrics()

	// Redis is optional: only the redis fingerprint driver needs it. When
	// present it also backs the embedding cache.
	var store db.Store
	if cfg.Storage.FingerprintDriver == "redis" {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Storage.Redis.Addrs,
			Password: cfg.Storage.Redis.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer redisStore.Close()

		ctx := context.Background()
		readiness := time.Duration(cfg.Storage.Redis.ReadinessTimeout) * time.Second
		if err := redisStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis")

		store = redisStore
	}

	// Embedder chain: OpenAI -> Cached (when redis is available)
	var embedder domain.Embedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})
	if store != nil {
		embedder = embcache.New(
			embedder, store, cfg.Storage.KeyPrefix,
			time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
			metrics.EmbeddingCacheTotal, logger,
		)
	}

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	search := duckduckgo.NewClient(&duckduckgo.Config{
		BaseURL: cfg.Search.BaseURL,
		Timeout: time.Duration(cfg.Search.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	var fingerprints ingest.FingerprintStore
	if store != nil {
		fingerprints = fingerprint.NewRedisStore(store, cfg.Storage.KeyPrefix, logger)
	} else {
		fingerprints = fingerprint.NewFileStore(cfg.Storage.FingerprintPath, logger)
	}

	idx := index.Open(cfg.Storage.IndexPath)
	logger.Info("Semantic index opened", zap.Int("chunks", idx.Len()))

	splitter := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)

	// Use case services
	ingestSvc := ingest.NewService(fingerprints, idx, splitter, embedder, extract.Text, logger)
	retrievalSvc := retrieval.NewService(idx, embedder, cfg.Retrieval.TopK, logger)
	webSvc := websearch.NewService(search, completer, cfg.Search.MaxResults, logger)

	router := answer.NewRouter(ingestSvc, retrievalSvc, webSvc, completer, logger)
	switch cfg.Relevance.Strategy {
	case "lexical":
		router = router.WithRelevance(relevance.Lexical{})
	case "semantic":
		router = router.WithRelevance(relevance.NewSemantic(completer, logger))
	}

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, newEmbeddingHealthChecker(embedder))

	// HTTP transport
	server := chiTransport.NewServer(router, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// A last save catches index writes whose earlier flush failed.
	if err := idx.Save(); err != nil {
		logger.Warn("Failed to persist index on shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
