package llm

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("AI评分服务返回数据为空")

// ScoreRequest 送审内容
type ScoreRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Language string `json:"language"`
}

// ScoreResult 评分服务的原始输出，分值区间 0-10
type ScoreResult struct {
	Score            float64  `json:"score"`
	ShouldReject     bool     `json:"should_reject"`
	Note             string   `json:"note"`
	Violations       []string `json:"violations"`
	SanitizedContent string   `json:"sanitized_content"`
}

// Scorer 内容评分服务，失败即返回错误，不做重试
type Scorer interface {
	Score(ctx context.Context, req *ScoreRequest) (*ScoreResult, error)
}
