package llm

import (
	"context"
	log "log/slog"
	"os"

	"github.com/tmc/langchaingo/llms"
)

func readPrompt(file string) string {
	data, err := os.ReadFile(file)
	if err != nil {
		log.Error("读取prompt文件失败", "file", file, "err", err)
		return ""
	}
	return string(data)
}

func buildMessages(systemPrompt string, userPrompt string) []llms.MessageContent {
	return []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}
}

// firstChoice 取第一条候选，模型拒答时返回 sensitive=true
func firstChoice(ctx context.Context, resp *llms.ContentResponse) (content string, sensitive bool, err error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", false, ErrEmptyResponse
	}
	choice := resp.Choices[0]
	if choice.StopReason == ContentSensitive {
		log.WarnContext(ctx, "AI大模型拒绝评分，视为违规内容")
		return "", true, nil
	}
	return choice.Content, false, nil
}
