package processor

import (
	"Inkwell/internal/pkg/llm"
	"context"
	log "log/slog"
)

// Verdict AI 预审结论
type Verdict string

const (
	VerdictAutoApproved        Verdict = "auto_approved"
	VerdictPendingManualReview Verdict = "pending_manual_review"
	VerdictRejected            Verdict = "rejected"
)

const (
	RejectBelow      = 5.0
	ApproveAtOrAbove = 7.0
)

// ScreenResult 预审结果
type ScreenResult struct {
	Verdict      Verdict
	Score        float64
	ShouldReject bool
	Note         string
	Violations   []string
}

// MapVerdict 分值映射为结论，阈值固定
func MapVerdict(score float64, shouldReject bool) Verdict {
	if shouldReject || score < RejectBelow {
		return VerdictRejected
	}
	if score >= ApproveAtOrAbove {
		return VerdictAutoApproved
	}
	return VerdictPendingManualReview
}

type PreScreener interface {
	Screen(ctx context.Context, req *llm.ScoreRequest) (*ScreenResult, error)
}

type preScreenerImpl struct {
	scorer llm.Scorer
}

func NewPreScreener(scorer llm.Scorer) PreScreener {
	return &preScreenerImpl{scorer: scorer}
}

// Screen 调用一次评分服务，错误原样返回给调用方
func (s *preScreenerImpl) Screen(ctx context.Context, req *llm.ScoreRequest) (*ScreenResult, error) {
	raw, err := s.scorer.Score(ctx, req)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, llm.ErrEmptyResponse
	}

	res := &ScreenResult{
		Verdict:      MapVerdict(raw.Score, raw.ShouldReject),
		Score:        raw.Score,
		ShouldReject: raw.ShouldReject,
		Note:         raw.Note,
		Violations:   raw.Violations,
	}
	log.InfoContext(ctx, "AI预审完成", "score", res.Score, "verdict", res.Verdict)
	return res, nil
}
