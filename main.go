package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Chative-Support-Dispatch/agent/agents/orchestrator"
	registryx "github.com/tanpawarit/Chative-Support-Dispatch/agent/agents/registry"
	classifierx "github.com/tanpawarit/Chative-Support-Dispatch/agent/classifier"
	groundingx "github.com/tanpawarit/Chative-Support-Dispatch/agent/grounding"
	llmx "github.com/tanpawarit/Chative-Support-Dispatch/agent/llm"
	promptx "github.com/tanpawarit/Chative-Support-Dispatch/agent/prompt"
	storex "github.com/tanpawarit/Chative-Support-Dispatch/agent/store"
	streamx "github.com/tanpawarit/Chative-Support-Dispatch/agent/stream"
	"github.com/tanpawarit/Chative-Support-Dispatch/api"
	"github.com/tanpawarit/Chative-Support-Dispatch/api/handlers"
	"github.com/tanpawarit/Chative-Support-Dispatch/api/metrics"
	configx "github.com/tanpawarit/Chative-Support-Dispatch/pkg/config"
	logx "github.com/tanpawarit/Chative-Support-Dispatch/pkg/logger"
	_ "github.com/tanpawarit/Chative-Support-Dispatch/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/Chative-Support-Dispatch/pkg/openrouter"
	qstashx "github.com/tanpawarit/Chative-Support-Dispatch/pkg/qstash"
	"github.com/tanpawarit/Chative-Support-Dispatch/pkg/ratelimit"
)

type AppConfig struct {
	Addr            string        `envconfig:"ADDR" default:":3000"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:5174,http://localhost:4173"`
	Seed            bool          `envconfig:"SEED" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("APP")
	storeCfg := configx.MustNew[storex.Config]("STORE")
	llmCfg := configx.MustNew[llmx.Config]("LLM")
	limitCfg := configx.MustNew[ratelimit.Config]("RATE_LIMIT")
	dispatchCfg := configx.MustNew[orchestrator.Config]("DISPATCH")
	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")

	logger := logx.Component("server")

	store, err := storex.Open(ctx, *storeCfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", storeCfg.Driver).Msg("open record store")
	}
	defer store.Close()

	if appCfg.Seed {
		if err := store.Seed(ctx); err != nil {
			logger.Fatal().Err(err).Msg("seed record store")
		}
		logger.Info().Msg("record store seeded")
	}

	prompts := promptx.LoadPromptSet()
	registry, err := registryx.New(prompts)
	if err != nil {
		logger.Fatal().Err(err).Msg("build agent registry")
	}

	models, err := registryx.NewModelSet(ctx, *llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("build agent models")
	}

	routerCfg := llmCfg.Router()
	routerClient := openrouterx.NewClient(routerCfg)
	if routerClient == nil {
		logger.Fatal().Msg("failed to initialize openrouter client")
	}
	fallback, err := classifierx.NewFallback(routerClient, routerCfg.Model, prompts.Router)
	if err != nil {
		logger.Fatal().Err(err).Msg("build fallback classifier")
	}
	classifier := classifierx.NewPipeline(
		classifierx.NewCarryover(store),
		fallback,
		classifierx.WithLogger(logx.Component("classifier")),
	)

	streamer, err := streamx.New(models)
	if err != nil {
		logger.Fatal().Err(err).Msg("build response streamer")
	}

	opts := []orchestrator.Option{
		orchestrator.WithLogger(logx.Component("orchestrator")),
		orchestrator.WithRecorder(metrics.DispatchRecorder{}),
	}
	if qstashCfg.Enabled() {
		notifier, err := orchestrator.NewQStashNotifier(qstashx.MustNew(*qstashCfg), qstashCfg.TopicURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("build qstash notifier")
		}
		opts = append(opts, orchestrator.WithNotifier(notifier))
		logger.Info().Msg("conversation events enabled")
	}

	orch, err := orchestrator.New(
		store,
		classifier,
		registry,
		groundingx.NewAggregator(store, store, store),
		streamer,
		*dispatchCfg,
		opts...,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("build orchestrator")
	}

	limiter, err := ratelimit.New(ctx, *limitCfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", limitCfg.Backend).Msg("build rate limiter")
	}
	if closer, ok := limiter.(io.Closer); ok {
		defer closer.Close()
	}

	httpLogger := logx.Component("http")
	h := handlers.NewHandler(orch, store, registry, store, handlers.WithLogger(httpLogger))
	router := api.NewRouter(httpLogger, h, limiter, api.RouterConfig{AllowedOrigins: appCfg.AllowedOrigins})

	// No WriteTimeout: replies are streamed for as long as generation runs.
	srv := &http.Server{
		Addr:              appCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", appCfg.Addr).
			Str("store", storeCfg.Driver).
			Str("rate_limit", limitCfg.Backend).
			Msg("starting support dispatch server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}

	// Replies already streamed still need their assistant messages saved.
	orch.Wait()
	logger.Info().Msg("server stopped")
}
