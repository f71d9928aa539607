package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/observability"
)

type fakeGenerator struct {
	text  string
	err   error
	model string
	cfg   *genai.GenerateContentConfig
	user  string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.cfg = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.user = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func testClient(gen *fakeGenerator, grounding bool) (*Client, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newClient(gen, Options{Timeout: time.Second, SearchGrounding: grounding}, logger, m), m
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), Options{}, slog.Default(), observability.NewMetricsForTesting())
	require.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Equal(t, domain.KindConfigMissing, domain.Classify(err))
}

func TestGenerate_JSONMode(t *testing.T) {
	gen := &fakeGenerator{text: `[]`}
	c, m := testClient(gen, false)

	text, err := c.Generate(context.Background(), domain.Prompt{
		System:      "analyst",
		User:        "find hail",
		Temperature: 0.3,
		JSON:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, "[]", text)
	assert.Equal(t, DefaultModel, gen.model)
	assert.Equal(t, "find hail", gen.user)
	assert.Equal(t, "application/json", gen.cfg.ResponseMIMEType)
	assert.Empty(t, gen.cfg.Tools)
	require.NotNil(t, gen.cfg.SystemInstruction)
	assert.Equal(t, "analyst", gen.cfg.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.3, *gen.cfg.Temperature, 1e-6)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("success")))
}

func TestGenerate_GroundingDropsJSONMode(t *testing.T) {
	gen := &fakeGenerator{text: `[]`}
	c, _ := testClient(gen, true)

	_, err := c.Generate(context.Background(), domain.Prompt{User: "x", JSON: true})
	require.NoError(t, err)

	assert.Empty(t, gen.cfg.ResponseMIMEType)
	require.Len(t, gen.cfg.Tools, 1)
	assert.NotNil(t, gen.cfg.Tools[0].GoogleSearch)
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("auth", func(t *testing.T) {
		c, m := testClient(&fakeGenerator{err: genai.APIError{Code: 403, Message: "permission denied"}}, false)
		_, err := c.Generate(context.Background(), domain.Prompt{User: "x"})
		require.Error(t, err)
		assert.Equal(t, domain.KindAuth, domain.Classify(err))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("error")))
	})

	t.Run("other", func(t *testing.T) {
		c, _ := testClient(&fakeGenerator{err: errors.New("boom")}, false)
		_, err := c.Generate(context.Background(), domain.Prompt{User: "x"})
		require.Error(t, err)
		assert.Equal(t, domain.KindUnknown, domain.Classify(err))
	})

	t.Run("empty", func(t *testing.T) {
		c, _ := testClient(&fakeGenerator{text: "   "}, false)
		_, err := c.Generate(context.Background(), domain.Prompt{User: "x"})
		require.Error(t, err)
	})
}

func TestExtractReports(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n{\"events\": [{\"date\": \"2024-05-01\", \"city\": \"Denver\", \"hail_size_mm\": \"44\"}]}\n```"}
	c, _ := testClient(gen, true)

	reports, err := c.ExtractReports(context.Background(), domain.Prompt{User: "x"})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Denver", reports[0].City)
	assert.Equal(t, 44.0, reports[0].HailSizeMM.Float())
}

func TestSearchPeriod(t *testing.T) {
	gen := &fakeGenerator{text: `{"summary": "quiet week"}`}
	c, _ := testClient(gen, false)

	got, err := c.SearchPeriod(context.Background(), domain.Prompt{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "quiet week", got.Summary)
	assert.NotNil(t, got.Results)
	assert.Empty(t, got.Results)
}

func TestParseReports(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "bare array", input: `[{"date":"2024-05-01","city":"A"},{"date":"2024-05-02","city":"B"}]`, want: 2},
		{name: "wrapped", input: `{"events":[{"date":"2024-05-01","city":"A"}]}`, want: 1},
		{name: "empty wrapped", input: `{"events":[]}`, want: 0},
		{name: "empty array", input: `[]`, want: 0},
		{name: "fenced", input: "```\n[{\"date\":\"2024-05-01\",\"city\":\"A\"}]\n```", want: 1},
		{name: "trailing comma", input: `[{"date":"2024-05-01","city":"A",},]`, want: 1},
		{name: "single quotes", input: `[{'date':'2024-05-01','city':'A'}]`, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReports(tt.input)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParseReports_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", `{}`, `{"results": []}`} {
		_, err := ParseReports(input)
		require.ErrorIs(t, err, ErrUnparseable, "input %q", input)
	}
}

func TestParsePeriodSearch(t *testing.T) {
	got, err := ParsePeriodSearch(`{
		"results": [{"date": "2024-05-01", "location": "Curitiba, PR, Brasil", "description": "granizo", "severity": "Severo", "source": "INMET"}],
		"summary": "um evento"
	}`)
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "INMET", got.Results[0].Source)
	assert.Equal(t, "um evento", got.Summary)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `[1]`, stripFences("```json\n[1]\n```"))
	assert.Equal(t, `[1]`, stripFences("  [1]  "))
	assert.Empty(t, stripFences("```"))
}
