package processor

import (
	"Inkwell/internal/pkg/llm"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScorer struct {
	res *llm.ScoreResult
	err error
}

func (s *stubScorer) Score(_ context.Context, _ *llm.ScoreRequest) (*llm.ScoreResult, error) {
	return s.res, s.err
}

func TestMapVerdict(t *testing.T) {
	cases := []struct {
		name         string
		score        float64
		shouldReject bool
		want         Verdict
	}{
		{"below reject line", 4.999, false, VerdictRejected},
		{"exactly reject line", 5.0, false, VerdictPendingManualReview},
		{"just below approve line", 6.999, false, VerdictPendingManualReview},
		{"exactly approve line", 7.0, false, VerdictAutoApproved},
		{"max score", 10, false, VerdictAutoApproved},
		{"flagged overrides score", 9.5, true, VerdictRejected},
		{"zero", 0, false, VerdictRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapVerdict(tc.score, tc.shouldReject))
		})
	}
}

func TestPreScreener_Screen(t *testing.T) {
	s := NewPreScreener(&stubScorer{res: &llm.ScoreResult{Score: 6.0, Note: "需要复核", Violations: []string{"vulgar"}}})

	res, err := s.Screen(context.Background(), &llm.ScoreRequest{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, VerdictPendingManualReview, res.Verdict)
	assert.Equal(t, 6.0, res.Score)
	assert.Equal(t, "需要复核", res.Note)
	assert.Equal(t, []string{"vulgar"}, res.Violations)
}

func TestPreScreener_ScorerError(t *testing.T) {
	boom := errors.New("timeout")
	s := NewPreScreener(&stubScorer{err: boom})

	_, err := s.Screen(context.Background(), &llm.ScoreRequest{Title: "t"})
	assert.ErrorIs(t, err, boom)
}

func TestPreScreener_NilResult(t *testing.T) {
	s := NewPreScreener(&stubScorer{})

	_, err := s.Screen(context.Background(), &llm.ScoreRequest{Title: "t"})
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}
