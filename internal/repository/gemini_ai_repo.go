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
	"stocksense/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository counts tokens with the genai SDK and generates over the REST API.
type geminiAIRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
// Without an API key the provider is created degraded and reports so in HealthCheck.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger) (ChatProvider, error) {
	limit := rate.Inf
	if cfg.Gemini.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute))
	}

	repo := &geminiAIRepository{
		httpClient:     httpclient.New(cfg.Gemini.BaseURL, cfg.Gemini.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(limit, 1),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
	}

	if cfg.Gemini.APIKey == "" {
		return repo, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Gemini.SDKBaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Gemini.SDKBaseURL}
	}
	genAiClient, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", apperror.ErrConfiguration, err)
	}
	repo.genAiClient = genAiClient

	return repo, nil
}

func (r *geminiAIRepository) Name() string {
	return common.PROVIDER_GEMINI
}

func (r *geminiAIRepository) DisplayName() string {
	return "Gemini"
}

func (r *geminiAIRepository) Ask(ctx context.Context, prompt string) (string, error) {
	if r.genAiClient == nil {
		return "", fmt.Errorf("%w: GEMINI_API_KEY environment variable not set", apperror.ErrConfiguration)
	}

	geminiAPIResponse, err := r.sendRequest(ctx, prompt)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to send request to gemini", logger.ErrorField(err))
		return "", err
	}

	return r.parseResponse(geminiAPIResponse)
}

func (r *geminiAIRepository) countTokens(ctx context.Context, prompt string) int {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		// rough estimate keeps the limiter honest when the count endpoint is unavailable
		r.logger.WarnContext(ctx, "failed to count gemini tokens", logger.ErrorField(err))
		return len(prompt)/4 + 1
	}
	return int(geminiTokenResp.TotalTokens)
}

func (r *geminiAIRepository) sendRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	totalTokens := r.countTokens(ctx, prompt)

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", totalTokens),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, totalTokens); err != nil {
		return nil, fmt.Errorf("%w: failed to wait for token gemini limit: %v", apperror.ErrProvider, err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to wait for request gemini limit: %v", apperror.ErrProvider, err)
	}

	if totalTokens > r.cfg.Gemini.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	payload := dto.GeminiAPIRequest{
		SystemInstruction: &dto.Content{Parts: []dto.Part{{Text: financialAnalystSystemPrompt}}},
		Contents:          []dto.Content{{Role: "user", Parts: []dto.Part{{Text: prompt}}}},
	}

	geminiAPIResponse := dto.GeminiAPIResponse{}
	apiURL := fmt.Sprintf("/%s:generateContent", r.cfg.Gemini.BaseModel)
	headers := map[string]string{"x-goog-api-key": r.cfg.Gemini.APIKey}

	geminiResp, err := r.httpClient.Post(ctx, apiURL, payload, headers, &geminiAPIResponse)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request to gemini: %v", apperror.ErrProvider, err)
	}

	if !geminiResp.IsSuccess() {
		r.logger.ErrorContext(ctx, "failed to get data from gemini", logger.IntField("status_code", geminiResp.StatusCode))
		return nil, statusError(geminiResp)
	}

	return &geminiAPIResponse, nil
}

func (r *geminiAIRepository) parseResponse(response *dto.GeminiAPIResponse) (string, error) {
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: invalid response from Gemini API: no content found", apperror.ErrProvider)
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func (r *geminiAIRepository) HealthCheck(ctx context.Context) string {
	if r.genAiClient == nil {
		return "Warning: GEMINI_API_KEY environment variable not set."
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText("ping", "user")}
	if _, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil); err != nil {
		return fmt.Sprintf("Error checking Gemini API: %v", err)
	}
	return "Gemini API is working correctly."
}
