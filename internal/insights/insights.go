package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"evwcloud/m/domain"
	"evwcloud/m/internal/logger"
)

// Fallback strings returned when the text service cannot answer. Callers
// always get a displayable string, never an error.
const (
	msgKeyMissing     = "API Key missing. Please configure."
	msgKeyMissingFull = "API Key missing."
	msgUnavailable    = "AI service temporarily unavailable."
	msgNoDescription  = "Could not generate description."
	msgNoInsights     = "Could not fetch insights."
	msgEmptyInsights  = "No insights available."
)

// Generator produces marketing copy and business insight text. The POS core
// works identically whether the real service or the disabled stub is wired.
type Generator interface {
	ProductDescription(ctx context.Context, product domain.Product) string
	BusinessInsights(ctx context.Context, stats domain.DashboardStats, topProducts []string) string
}

// New returns an OpenAI-backed generator, or the disabled stub when no API
// key is configured.
func New(apiKey string, timeout time.Duration) Generator {
	if apiKey == "" {
		return disabled{}
	}
	return &service{
		client:  openai.NewClient(apiKey),
		timeout: timeout,
		log:     logger.WithComponent("insights"),
	}
}

type disabled struct{}

func (disabled) ProductDescription(context.Context, domain.Product) string {
	return msgKeyMissing
}

func (disabled) BusinessInsights(context.Context, domain.DashboardStats, []string) string {
	return msgKeyMissingFull
}

type service struct {
	client  *openai.Client
	timeout time.Duration
	log     zerolog.Logger
}

// ProductDescription writes a short marketing blurb for a catalog entry.
func (s *service) ProductDescription(ctx context.Context, product domain.Product) string {
	prompt := fmt.Sprintf(`Write a short, exciting marketing description (max 2 sentences) for a vape product.
Name: %s
Flavor: %s
Brand: %s
Category: %s.
Target audience: Vape enthusiasts in Pakistan.
Tone: Premium, bold.`, product.Name, product.Flavor, product.Brand, product.Category)

	text, err := s.complete(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Str("product", product.Name).Msg("description generation failed")
		return msgUnavailable
	}
	if text == "" {
		return msgNoDescription
	}
	return text
}

// BusinessInsights turns the dashboard stats into a few actionable bullet
// points.
func (s *service) BusinessInsights(ctx context.Context, stats domain.DashboardStats, topProducts []string) string {
	prompt := fmt.Sprintf(`Act as a senior business analyst for a wholesale vape distribution business in Pakistan called EVW.
Analyze these daily stats:
- Revenue: PKR %.0f
- Net Income: PKR %.0f
- Low Stock Items: %d
- Top Selling Products: %s

Provide 3 brief, actionable bullet points to improve profitability or operations.`,
		stats.TotalRevenue, stats.NetIncome, stats.LowStockCount, strings.Join(topProducts, ", "))

	text, err := s.complete(ctx, prompt)
	if err != nil {
		s.log.Warn().Err(err).Msg("insight generation failed")
		return msgNoInsights
	}
	if text == "" {
		return msgEmptyInsights
	}
	return text
}

func (s *service) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
