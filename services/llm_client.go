package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"
)

// LLMClient OpenAI 兼容接口的文本生成客户端，输出为 JSON 对象
type LLMClient struct {
	Chat    llms.Model
	limiter *rate.Limiter
}

func NewLLMClient(apiKey, apiEndpoint, model string, ratePerSecond float64) (*LLMClient, error) {
	chat, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel(model),
		openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_object",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return newLLMClient(chat, ratePerSecond), nil
}

func newLLMClient(chat llms.Model, ratePerSecond float64) *LLMClient {
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = int(ratePerSecond) + 1
	}
	return &LLMClient{
		Chat:    chat,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Generate 发送系统提示与用户提示，返回第一条回复
func (c *LLMClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	response, err := c.Chat.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("生成内容失败: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("未生成有效内容")
	}

	content := strings.TrimSpace(response.Choices[0].Content)
	if content == "" {
		return "", errors.New("未生成有效内容")
	}
	return content, nil
}
