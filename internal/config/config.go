package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string

	RedisURL    string
	DatabaseURL string

	CORSAllowOrigin string
	MsgTemplateDir  string

	MaxStage int

	AnthropicAPIKey    string
	LLMMaxTokens       int
	LLMReasoningBudget int
	Claude35Model      string
	Claude37Model      string

	AnswerMaxLen   int
	AnswerMaxDepth int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:         ":8000",
		CORSAllowOrigin:    "http://localhost:5173",
		MaxStage:           3,
		LLMMaxTokens:       1028,
		LLMReasoningBudget: 1024,
		Claude35Model:      "claude-3-5-haiku-latest",
		Claude37Model:      "claude-3-7-sonnet-latest",
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGIN")); v != "" {
		cfg.CORSAllowOrigin = v
	}
	cfg.MsgTemplateDir = strings.TrimSpace(os.Getenv("MSG_TEMPLATE_DIR"))

	if v := strings.TrimSpace(os.Getenv("MAX_STAGE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxStage = n
		}
	}

	cfg.AnthropicAPIKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("LLM_MAX_TOKENS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LLMMaxTokens = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("LLM_REASONING_BUDGET")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.LLMReasoningBudget = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CLAUDE_35_MODEL")); v != "" {
		cfg.Claude35Model = v
	}
	if v := strings.TrimSpace(os.Getenv("CLAUDE_37_MODEL")); v != "" {
		cfg.Claude37Model = v
	}

	if v := strings.TrimSpace(os.Getenv("ANSWER_MAX_LEN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AnswerMaxLen = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ANSWER_MAX_DEPTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AnswerMaxDepth = n
		}
	}

	if cfg.AnthropicAPIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required")
	}

	return cfg, nil
}
