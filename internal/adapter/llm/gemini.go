// Package llm asks a Gemini model for hail reports and parses its answers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/observability"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures a Client.
type Options struct {
	APIKey          string
	Model           string
	Timeout         time.Duration
	SearchGrounding bool
}

// Client sends prompts to the Gemini API.
type Client struct {
	models    contentGenerator
	model     string
	timeout   time.Duration
	grounding bool
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewClient creates a Gemini client. A missing API key yields
// domain.ErrNotConfigured so callers can report it as a configuration gap.
func NewClient(ctx context.Context, opts Options, logger *slog.Logger, metrics *observability.Metrics) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini client: %w", domain.ErrNotConfigured)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(gc.Models, opts, logger, metrics), nil
}

func newClient(models contentGenerator, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Client {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		models:    models,
		model:     model,
		timeout:   opts.Timeout,
		grounding: opts.SearchGrounding,
		logger:    logger,
		metrics:   metrics,
	}
}

// Generate sends one prompt and returns the raw response text.
func (c *Client) Generate(ctx context.Context, p domain.Prompt) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.Temperature),
	}
	if p.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		}
	}
	// The API rejects a JSON response type combined with tools, so grounded
	// requests rely on lenient parsing instead.
	if c.grounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else if p.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	result, err := c.models.GenerateContent(ctx, c.model, genai.Text(p.User), cfg)
	c.metrics.LLMDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.LLMRequests.WithLabelValues("error").Inc()
		return "", tagError(err)
	}
	c.metrics.LLMRequests.WithLabelValues("success").Inc()

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("gemini generation: empty response")
	}
	c.logger.Debug("gemini response received",
		"model", c.model,
		"chars", len(text),
		"duration", time.Since(start),
	)
	return text, nil
}

// ExtractReports asks for hail events and parses them leniently.
func (c *Client) ExtractReports(ctx context.Context, p domain.Prompt) ([]domain.Report, error) {
	text, err := c.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	return ParseReports(text)
}

// SearchPeriod asks for a narrative period search and parses it leniently.
func (c *Client) SearchPeriod(ctx context.Context, p domain.Prompt) (domain.PeriodSearch, error) {
	text, err := c.Generate(ctx, p)
	if err != nil {
		return domain.PeriodSearch{}, err
	}
	return ParsePeriodSearch(text)
}

func tagError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &domain.Error{Kind: domain.KindAuth, Op: "gemini generation", Err: err}
		case http.StatusBadRequest:
			if strings.Contains(strings.ToLower(apiErr.Message), "api key") {
				return &domain.Error{Kind: domain.KindAuth, Op: "gemini generation", Err: err}
			}
		}
	}
	return fmt.Errorf("gemini generation: %w", err)
}
