package repository

import (
	"context"
	"fmt"
	"strings"

	"stocksense/internal/apperror"
	"stocksense/pkg/httpclient"
)

const financialAnalystSystemPrompt = "You are a knowledgeable financial analyst assistant. Provide concise, accurate responses about stocks and markets."

// ChatProvider is a language-model backend the insight service can ask about a stock.
type ChatProvider interface {
	Name() string
	DisplayName() string
	Ask(ctx context.Context, prompt string) (string, error)
	// HealthCheck returns a human readable status line; it never fails.
	HealthCheck(ctx context.Context) string
}

func statusError(resp *httpclient.BaseResponse) error {
	body := strings.TrimSpace(string(resp.Body))
	if len(body) > 500 {
		body = body[:500]
	}
	return fmt.Errorf("%w: %d - %s", apperror.ErrProvider, resp.StatusCode, body)
}
