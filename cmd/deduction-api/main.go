package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pkarhu/deduction-api/internal/answercheck"
	appcfg "github.com/pkarhu/deduction-api/internal/config"
	"github.com/pkarhu/deduction-api/internal/httpapi"
	"github.com/pkarhu/deduction-api/internal/llm"
	"github.com/pkarhu/deduction-api/internal/msgcat"
	"github.com/pkarhu/deduction-api/internal/obslog"
	"github.com/pkarhu/deduction-api/internal/question"
	"github.com/pkarhu/deduction-api/internal/session"
	"github.com/pkarhu/deduction-api/pkg/gamedto"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	var store session.Store
	if cfg.RedisURL != "" {
		store, err = session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis store init error: %v", err)
		}
	} else {
		obslog.L().Warn("REDIS_URL not set, using in-memory user store")
		store = session.NewMemoryStore()
	}

	var repo question.Repository
	if cfg.DatabaseURL != "" {
		repo, err = question.NewPgRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("question repo init error: %v", err)
		}
	} else {
		obslog.L().Warn("DATABASE_URL not set, using in-memory question bank")
		repo = question.NewMemoryRepository()
	}

	cat, err := msgcat.New(cfg.MsgTemplateDir)
	if err != nil {
		log.Fatalf("message catalog init error: %v", err)
	}

	checkerOpts := []answercheck.Option{answercheck.WithLogger(obslog.L())}
	if cfg.AnswerMaxLen > 0 || cfg.AnswerMaxDepth > 0 {
		checkerOpts = append(checkerOpts, answercheck.WithLimits(cfg.AnswerMaxLen, cfg.AnswerMaxDepth))
	}
	checker := answercheck.New(checkerOpts...)

	sessions := session.NewManager(store, repo, checker, cat, cfg.MaxStage)

	client := llm.NewClient(cfg.AnthropicAPIKey,
		llm.WithMaxTokens(cfg.LLMMaxTokens),
		llm.WithReasoning(cfg.Claude37Model, cfg.LLMReasoningBudget),
		llm.WithLogger(obslog.L()),
	)

	srv := httpapi.NewServer(sessions, client, httpapi.Config{
		AllowOrigin: cfg.CORSAllowOrigin,
		Models: gamedto.ModelsResponse{
			Default: cfg.Claude35Model,
			Options: []gamedto.ModelOption{
				{Name: cfg.Claude35Model, DisplayName: "Claude 3.5 Haiku", Thinking: false},
				{Name: cfg.Claude37Model, DisplayName: "Claude 3.7 Sonnet", Thinking: true},
			},
		},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(cfg.ListenAddr) }()
	obslog.L().Info("deduction api listening", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		obslog.L().Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			obslog.L().Fatal("server error", zap.Error(err))
		}
	}

	_ = srv.Shutdown()
	_ = store.Close()
	_ = repo.Close()
}
