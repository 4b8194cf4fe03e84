package repository

import (
	"context"
	"fmt"
	"time"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/pkg/common"
	"stocksense/pkg/httpclient"
	"stocksense/pkg/logger"
)

// codeGPTRepository talks to a CodeGPT agent endpoint: POST {"prompt"} and read "response".
type codeGPTRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
}

func NewCodeGPTRepository(cfg *config.Config, log *logger.Logger) ChatProvider {
	return &codeGPTRepository{
		httpClient: httpclient.New("", cfg.CodeGPT.Timeout, ""),
		cfg:        cfg,
		logger:     log,
	}
}

func (r *codeGPTRepository) Name() string {
	return common.PROVIDER_CODEGPT
}

func (r *codeGPTRepository) DisplayName() string {
	return "CodeGPT"
}

func (r *codeGPTRepository) Ask(ctx context.Context, prompt string) (string, error) {
	if r.cfg.CodeGPT.APIURL == "" {
		return "", fmt.Errorf("%w: CodeGPT API URL not configured", apperror.ErrConfiguration)
	}

	headers := map[string]string{}
	if r.cfg.CodeGPT.APIKey != "" {
		headers["X-API-Key"] = r.cfg.CodeGPT.APIKey
	}

	var result dto.CodeGPTResponse
	resp, err := r.httpClient.Post(ctx, r.cfg.CodeGPT.APIURL, dto.CodeGPTRequest{Prompt: prompt}, headers, &result)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperror.ErrProvider, err)
	}
	if !resp.IsSuccess() {
		r.logger.WarnContext(ctx, "CodeGPT returned Non-OK status", logger.IntField("status_code", resp.StatusCode))
		return "", statusError(resp)
	}

	return result.Response, nil
}

func (r *codeGPTRepository) HealthCheck(ctx context.Context) string {
	if r.cfg.CodeGPT.APIKey == "" {
		return "Warning: CODEGPT_API_KEY environment variable not set."
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	headers := map[string]string{"Authorization": "Bearer " + r.cfg.CodeGPT.APIKey}
	resp, err := r.httpClient.Get(ctx, r.cfg.CodeGPT.HealthCheckEndpoint, nil, headers, nil)
	if err != nil {
		return fmt.Sprintf("Error checking CodeGPT API: %v", err)
	}
	if !resp.IsSuccess() {
		return fmt.Sprintf("Error checking CodeGPT API: %v", statusError(resp))
	}
	return "CodeGPT API is working correctly."
}
