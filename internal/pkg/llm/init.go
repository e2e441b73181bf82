package llm

import (
	"Inkwell/internal/api/config"
	"fmt"
	log "log/slog"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderLLM  = "llm"
	ProviderHTTP = "http"
)

// NewScorer 根据 scorer.provider 选择评分后端
func NewScorer() (Scorer, error) {
	switch config.Cfg.Scorer.Provider {
	case ProviderHTTP:
		cfg := config.Cfg.Scorer
		return NewHTTPScorer(cfg.URL, cfg.ApiKey, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
	case ProviderLLM, "":
		cfg := config.Cfg.LLM
		client, err := openai.New(
			openai.WithModel(cfg.TextModel),
			openai.WithToken(cfg.ApiKey),
			openai.WithBaseURL(cfg.URL),
			openai.WithHTTPClient(&http.Client{
				Transport: &VendorParamsTransport{Base: http.DefaultTransport, ThinkingMode: cfg.ThinkingMode},
			}),
		)
		if err != nil {
			log.Error("AI大模型初始化失败", "err", err)
			return nil, err
		}
		return NewLLMScorer(client, cfg.TextModel, readPrompt(cfg.PromptPath), cfg.Concurrency), nil
	default:
		return nil, fmt.Errorf("unknown scorer provider: %s", config.Cfg.Scorer.Provider)
	}
}
