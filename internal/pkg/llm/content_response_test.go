package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreResponse(t *testing.T) {
	raw := "```json\n{\"score\": 6.5, \"should_reject\": false, \"note\": \"擦边描写\", \"violations\": [\"vulgar\"]}\n```"

	res, err := ParseScoreResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, 6.5, res.Score)
	assert.False(t, res.ShouldReject)
	assert.Equal(t, "擦边描写", res.Note)
	assert.Equal(t, []string{"vulgar"}, res.Violations)
}

func TestParseScoreResponse_ClampsScore(t *testing.T) {
	res, err := ParseScoreResponse(`{"score": 12}`)
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Score)

	res, err = ParseScoreResponse(`{"score": -3}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
}

func TestParseScoreResponse_Invalid(t *testing.T) {
	_, err := ParseScoreResponse("```json\n```")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = ParseScoreResponse("not json")
	assert.Error(t, err)
}

func TestSensitiveResult(t *testing.T) {
	res := SensitiveResult()
	assert.True(t, res.ShouldReject)
	assert.Equal(t, 0.0, res.Score)
}
