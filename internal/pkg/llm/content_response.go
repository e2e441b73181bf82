package llm

import (
	"strings"

	"github.com/goccy/go-json"
)

// ContentSensitive 模型因内容敏感终止生成
const ContentSensitive = "sensitive"

const (
	minScore = 0.0
	maxScore = 10.0
)

// ParseScoreResponse 解析模型输出，兼容 markdown 代码块包裹
func ParseScoreResponse(s string) (*ScoreResult, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var res ScoreResult
	if err := json.Unmarshal([]byte(cleaned), &res); err != nil {
		return nil, err
	}
	res.Score = clampScore(res.Score)
	return &res, nil
}

// SensitiveResult 模型拒答时的结果
func SensitiveResult() *ScoreResult {
	return &ScoreResult{
		Score:        minScore,
		ShouldReject: true,
		Note:         "内容触发模型安全策略",
		Violations:   []string{ContentSensitive},
	}
}

func clampScore(score float64) float64 {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
