package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/pkg/common"
	"stocksense/pkg/httpclient"
	"stocksense/pkg/logger"
)

type openAIRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) ChatProvider {
	return &openAIRepository{
		httpClient: httpclient.New(cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout, cfg.OpenAI.APIKey),
		cfg:        cfg,
		logger:     log,
	}
}

func (r *openAIRepository) Name() string {
	return common.PROVIDER_OPENAI
}

func (r *openAIRepository) DisplayName() string {
	return "OpenAI"
}

func (r *openAIRepository) Ask(ctx context.Context, prompt string) (string, error) {
	if r.cfg.OpenAI.APIKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY environment variable not set", apperror.ErrConfiguration)
	}

	payload := dto.OpenAIChatRequest{
		Model: r.cfg.OpenAI.Model,
		Messages: []dto.ChatMessage{
			{Role: dto.ChatRoleSystem, Content: financialAnalystSystemPrompt},
			{Role: dto.ChatRoleUser, Content: prompt},
		},
		MaxTokens: r.cfg.OpenAI.MaxTokens,
	}

	var result dto.OpenAIChatResponse
	resp, err := r.httpClient.Post(ctx, "/chat/completions", payload, nil, &result)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperror.ErrProvider, err)
	}
	if !resp.IsSuccess() {
		r.logger.WarnContext(ctx, "OpenAI returned Non-OK status", logger.IntField("status_code", resp.StatusCode))
		return "", statusError(resp)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from OpenAI", apperror.ErrProvider)
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (r *openAIRepository) HealthCheck(ctx context.Context) string {
	if r.cfg.OpenAI.APIKey == "" {
		return "Warning: OPENAI_API_KEY environment variable not set."
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := r.httpClient.Get(ctx, "/models", nil, nil, nil)
	if err != nil {
		return fmt.Sprintf("Error checking OpenAI API: %v", err)
	}
	if !resp.IsSuccess() {
		return fmt.Sprintf("Error checking OpenAI API: %v", statusError(resp))
	}
	return "OpenAI API is working correctly."
}
