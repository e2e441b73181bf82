package llm

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

type httpScorer struct {
	client *resty.Client
}

// NewHTTPScorer 调用独立部署的评分服务
func NewHTTPScorer(baseURL string, apiKey string, timeout time.Duration) Scorer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &httpScorer{client: client}
}

func (s *httpScorer) Score(ctx context.Context, req *ScoreRequest) (*ScoreResult, error) {
	var result ScoreResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/v1/score")
	if err != nil {
		log.WarnContext(ctx, "内容评分-HTTP请求失败", "err", err)
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("scorer responded %d: %s", resp.StatusCode(), resp.String())
	}
	result.Score = clampScore(result.Score)
	return &result, nil
}
