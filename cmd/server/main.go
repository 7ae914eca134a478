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

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/auth"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/config"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/handler"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/llm"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/repository"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("🏠 Agent Mira backend", "version", Version, "build_time", BuildTime, "git_commit", GitCommit)
	for _, w := range cfg.Warnings() {
		logger.Warn("⚠️ "+w)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	gin.SetMode(cfg.Server.GinMode)

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Dataset and extraction pipeline
	properties := service.NewPropertyService(cfg.Data.Dir, cfg.NLP.BudgetRanges, cfg.Data.USDToINR, logger)
	catalog := nlp.NewLocationCatalog(properties.Cities, cfg.NLP.FallbackCities, logger)
	rules, err := nlp.NewRuleExtractor(cfg.NLP, catalog)
	if err != nil {
		return err
	}

	llmClient, err := llm.New(cfg.LLM, logger)
	if err != nil {
		return err
	}
	llmClient.WithBudgetLabels(cfg.NLP.BudgetRanges.Labels())
	if llmClient.IsEnabled() {
		logger.Info("✅ llm client initialized",
			"base_url", cfg.LLM.BaseURL,
			"model", cfg.LLM.Model,
			"timeout", cfg.LLM.Timeout,
		)
	} else {
		logger.Warn("⚠️ llm is disabled, extraction runs rule-based only and replies are canned",
			"hint", "set LLM_API_KEY or GEMINI_API_KEY to enable it")
	}

	hybrid := nlp.NewHybridExtractor(rules, llmClient, logger)

	// Services
	ranker := service.NewRanker(cfg.Ranking.WeightAmenity, cfg.Ranking.WeightPrice)
	chatService := service.NewChatService(hybrid, properties, ranker, llmClient, cfg.Chat.MaxProperties, logger)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	authService := service.NewAuthService(store, jwtManager, cfg.Auth.BcryptCost, logger)
	saveService := service.NewSaveService(store, properties, logger)

	// Warm the dataset so a bad data directory shows up at startup
	if all, err := properties.All(context.Background()); err != nil {
		logger.Warn("property dataset unavailable", "dir", cfg.Data.Dir, "error", err)
	} else if len(all) == 0 {
		logger.Warn("property dataset is empty", "dir", cfg.Data.Dir)
	}

	router := handler.NewRouter(handler.RouterDeps{
		Chat:       handler.NewChatHandler(chatService),
		Properties: handler.NewPropertyHandler(properties),
		Users:      handler.NewUserHandler(saveService),
		Auth:       handler.NewAuthHandler(authService),
		JWT:        jwtManager,
		Server:     cfg.Server,
		RateLimit:  cfg.RateLimit,
		Build:      handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
		LLMEnabled: llmClient.IsEnabled(),
		Store:      cfg.Store.Driver,
		Logger:     logger,
	})

	// Serve static files (frontend)
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, cfg.Server.WebDir, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("🛑 shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("✅ server stopped")
	return nil
}

// openStore opens the configured document store and applies migrations where needed
func openStore(cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return nil, err
		}
		if cfg.Server.RunMigrations {
			if err := repo.RunMigrations(); err != nil {
				repo.Close()
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		logger.Info("connected to PostgreSQL database", "host", cfg.PostgreSQL.Host, "database", cfg.PostgreSQL.Database)
		return repo, nil
	default:
		store, err := repository.NewBadgerStore(cfg.Badger.Path, cfg.Badger.InMemory, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("opened badger store", "path", cfg.Badger.Path, "in_memory", cfg.Badger.InMemory)
		return store, nil
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
