package llm

import (
	"Sillage/internal/api/config"
	"context"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/semaphore"
)

const (
	ReviewSafePass = iota + 1
	ReviewSafeWarn
	ReviewSafeDeny

	ReviewSafePassStr = "1"
	ReviewSafeWarnStr = "2"
	ReviewSafeDenyStr = "3"

	ContentSensitive = "sensitive"
)

var mapReviewSafe = map[string]int{
	ReviewSafePassStr: ReviewSafePass,
	ReviewSafeWarnStr: ReviewSafeWarn,
	ReviewSafeDenyStr: ReviewSafeDeny,
}

var (
	textWeight = int64(5)
	textSem    = semaphore.NewWeighted(textWeight)
)

// ReviewSafe 对评测文本做内容安全分级
// AI 没有成功返回时默认为警告, 进入人工审核
func ReviewSafe(ctx context.Context, content string) (int, error) {
	resp, err := fetchModel(ctx, reviewSafePrompt, content, 0.1)
	if err != nil {
		log.Error("AI大模型请求失败", "err", err)
		return ReviewSafeWarn, err
	}

	log.Info("AI大模型请求成功", "resp", resp)

	if len(resp.Choices) > 0 {
		if resp.Choices[0].StopReason == ContentSensitive {
			return ReviewSafeDeny, nil
		}

		safe := mapReviewSafe[resp.Choices[0].Content]
		if safe == 0 {
			return ReviewSafeWarn, nil
		}
		return safe, nil
	}

	return ReviewSafeWarn, nil
}

func fetchModel(ctx context.Context, systemPrompt string, userPrompt string, temp float64) (*llms.ContentResponse, error) {
	if err := textSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer textSem.Release(1)
	messages := []llms.MessageContent{
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
	log.Info("正在请求AI大模型")
	return llmClient.GenerateContent(ctx, messages,
		llms.WithModel(config.Cfg.LLM.TextModel),
		llms.WithTemperature(temp),
	)
}
