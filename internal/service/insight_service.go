package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/internal/repository"
	"stocksense/internal/session"
	"stocksense/pkg/common"
	"stocksense/pkg/logger"
	"stocksense/pkg/ratelimit"

	"golang.org/x/sync/errgroup"
)

// InsightService answers free-text questions about the session's current stock.
type InsightService interface {
	Chat(ctx context.Context, sess *session.Session, provider, message string) (*dto.ChatResponse, error)
	ProviderStatus(ctx context.Context) []dto.ProviderStatus
	AvailableProviders(ctx context.Context) []string
}

type insightService struct {
	cfg       *config.Config
	log       *logger.Logger
	providers map[string]repository.ChatProvider
	order     []string
	limiter   *ratelimit.LimiterStore
}

func NewInsightService(cfg *config.Config, log *logger.Logger, providers []repository.ChatProvider) InsightService {
	s := &insightService{
		cfg:       cfg,
		log:       log,
		providers: make(map[string]repository.ChatProvider, len(providers)),
		limiter:   ratelimit.NewLimiterStore(ratelimit.PerMinute(cfg.Chat.MaxRequestPerMinute), max(cfg.Chat.MaxRequestPerMinute, 1)),
	}
	for _, p := range providers {
		s.providers[p.Name()] = p
		s.order = append(s.order, p.Name())
	}
	return s
}

// resolve falls back to the configured default, then to codegpt.
func (s *insightService) resolve(name string) (repository.ChatProvider, bool) {
	candidates := []string{strings.ToLower(strings.TrimSpace(name)), s.cfg.Chat.DefaultProvider, common.PROVIDER_CODEGPT}
	for _, c := range candidates {
		if p, ok := s.providers[c]; ok {
			return p, true
		}
	}
	return nil, false
}

func (s *insightService) Chat(ctx context.Context, sess *session.Session, provider, message string) (*dto.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", apperror.ErrInvalidInput)
	}
	if sess.Quote == nil || sess.CurrentTicker == "" {
		return nil, fmt.Errorf("%w: look up a stock before asking about it", apperror.ErrInvalidInput)
	}

	limiterKey := "session:" + sess.ID
	if sess.IsAuthenticated() {
		limiterKey = "user:" + strconv.FormatUint(uint64(*sess.UserID), 10)
	}
	if !s.limiter.Allow(limiterKey) {
		return nil, apperror.ErrRateLimited
	}

	p, ok := s.resolve(provider)
	if !ok {
		return nil, fmt.Errorf("%w: no chat provider registered", apperror.ErrConfiguration)
	}

	prompt := BuildStockPrompt(sess.CurrentTicker, sess.Quote, message)
	answer, err := p.Ask(ctx, prompt)
	if err != nil {
		s.log.WarnContext(ctx, "Chat provider request failed",
			logger.ErrorField(err),
			logger.StringField("provider", p.Name()),
			logger.StringField("ticker", sess.CurrentTicker),
		)
		answer = providerErrorText(p, err)
	}

	sess.AppendChat(
		dto.ChatMessage{Role: dto.ChatRoleUser, Content: message},
		dto.ChatMessage{Role: dto.ChatRoleAssistant, Content: answer},
	)

	return &dto.ChatResponse{
		Provider: p.Name(),
		Response: answer,
		History:  sess.ChatHistory,
	}, nil
}

// providerErrorText is what the user sees instead of an answer.
func providerErrorText(p repository.ChatProvider, err error) string {
	if errors.Is(err, apperror.ErrConfiguration) {
		return "Error: " + strings.TrimPrefix(err.Error(), apperror.ErrConfiguration.Error()+": ")
	}
	return fmt.Sprintf("Error connecting to %s: %v", p.DisplayName(), err)
}

func (s *insightService) ProviderStatus(ctx context.Context) []dto.ProviderStatus {
	statuses := make([]dto.ProviderStatus, len(s.order))

	var g errgroup.Group
	for i, name := range s.order {
		p := s.providers[name]
		g.Go(func() error {
			text := p.HealthCheck(ctx)
			statuses[i] = dto.ProviderStatus{
				Name:      name,
				Status:    text,
				Available: strings.Contains(strings.ToLower(text), "working"),
			}
			return nil
		})
	}
	_ = g.Wait()

	return statuses
}

func (s *insightService) AvailableProviders(ctx context.Context) []string {
	available := []string{}
	for _, st := range s.ProviderStatus(ctx) {
		if st.Available {
			available = append(available, st.Name)
		}
	}
	return available
}

func rawValue(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// BuildStockPrompt wraps the user's question with a short description of the stock.
func BuildStockPrompt(ticker string, quote *dto.StockQuote, message string) string {
	var b strings.Builder
	b.WriteString("Context about the stock:\n")
	fmt.Fprintf(&b, "Stock: %s (%s)\n", ticker, orNotAvailable(quote.LongName))
	fmt.Fprintf(&b, "Current Price: $%s\n", rawValue(quote.CurrentPrice))
	fmt.Fprintf(&b, "Market Cap: $%s\n", rawValue(quote.MarketCap))
	fmt.Fprintf(&b, "P/E Ratio: %s\n", rawValue(quote.PERatio))
	fmt.Fprintf(&b, "Industry: %s\n", orNotAvailable(quote.Industry))
	fmt.Fprintf(&b, "Sector: %s\n", orNotAvailable(quote.Sector))
	b.WriteString("\nUser question: ")
	b.WriteString(message)
	return b.String()
}
