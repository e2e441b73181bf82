package llm

import (
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/semaphore"
)

const scoreTemperature = 0.1

type llmScorer struct {
	client llms.Model
	model  string
	prompt string
	sem    *semaphore.Weighted
}

// NewLLMScorer 基于 OpenAI 兼容接口的评分实现
func NewLLMScorer(client llms.Model, model string, prompt string, concurrency int64) Scorer {
	return &llmScorer{
		client: client,
		model:  model,
		prompt: prompt,
		sem:    newTextSem(concurrency),
	}
}

func (s *llmScorer) Score(ctx context.Context, req *ScoreRequest) (*ScoreResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		log.ErrorContext(ctx, "内容评分-请求数据序列化失败", "err", err)
		return nil, err
	}

	if err = s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	log.InfoContext(ctx, "正在请求AI大模型评分", "title", req.Title)
	resp, err := s.client.GenerateContent(ctx, buildMessages(s.prompt, string(payload)),
		llms.WithModel(s.model),
		llms.WithTemperature(scoreTemperature),
	)
	if err != nil {
		log.WarnContext(ctx, "内容评分-AI大模型请求失败", "err", err)
		return nil, err
	}

	content, sensitive, err := firstChoice(ctx, resp)
	if err != nil {
		return nil, err
	}
	if sensitive {
		return SensitiveResult(), nil
	}

	result, err := ParseScoreResponse(content)
	if err != nil {
		log.WarnContext(ctx, "内容评分-返回数据解析失败", "err", err, "raw", content)
		return nil, err
	}
	return result, nil
}
