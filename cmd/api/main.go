package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"scriptflow/internal/adapter/repo"
	"scriptflow/internal/budget"
	"scriptflow/internal/domain/jsoncfg"
	"scriptflow/internal/http/handlers"
	httpapi "scriptflow/internal/http/httpapi"
	"scriptflow/internal/infra"
	"scriptflow/internal/infra/credentials"
	"scriptflow/internal/pipeline"
	"scriptflow/internal/providers/draft"
	"scriptflow/internal/providers/genai"
	"scriptflow/internal/providers/review"
	"scriptflow/internal/push"
	"scriptflow/internal/revision"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)

	geminiAPIKey := strings.TrimSpace(cfg.GeminiAPIKey)
	if geminiAPIKey == "" {
		credStore := credentials.NewStore(runner)
		keyFromStore, err := credStore.GeminiAPIKey(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load gemini api key from store")
		} else {
			geminiAPIKey = keyFromStore
		}
	}

	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:     geminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure gemini client")
	}

	var drafter draft.Drafter = draft.NewStaticDrafter()
	var evaluator review.Evaluator = review.NewStaticEvaluator()
	if geminiClient.Configured() {
		drafter = draft.NewGeminiDrafter(geminiClient, cfg.DraftModel)
		evaluator = review.NewGeminiEvaluator(geminiClient, cfg.ReviewModel)
	} else {
		logger.Warn().Msg("gemini api key missing, using static agents")
	}

	jobs := repo.NewJobRepository(runner)
	iterations := repo.NewIterationRepository(runner)
	articles := repo.NewArticleRepository(runner)
	budgets := repo.NewBudgetRepository(runner, cfg.DailyItemLimit, cfg.MonthlyBudgetUSD)

	hub := push.NewHub(logger)
	governor := budget.NewGovernor(budgets, budget.Policy{
		ChargeFailedRuns: cfg.ChargeFailedRuns,
		CostPerRunUSD:    cfg.CostPerRunUSD,
	}, logger)

	pipelineSvc := pipeline.NewService(jobs, iterations, articles, drafter, evaluator, governor, hub, logger, jsoncfg.GenerationSettings{
		MaxIterations:     cfg.MaxIterations,
		ApprovalThreshold: cfg.ApprovalScore,
	})
	revisionSvc := revision.NewService(jobs, pipelineSvc, logger)

	app := &handlers.App{
		Pipeline:   pipelineSvc,
		Revision:   revisionSvc,
		Hub:        hub,
		Jobs:       jobs,
		Iterations: iterations,
		DB:         dbpool,
		Logger:     logger,
	}

	router := httpapi.NewRouter(app, logger, httpapi.Options{
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
