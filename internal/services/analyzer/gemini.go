package analyzer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/audio"
	"github.com/killallgit/jamboard-api/pkg/config"
	"github.com/rs/zerolog"
)

const (
	defaultModel    = "gemini-2.0-flash-exp"
	defaultMimeType = "audio/webm"
)

const analysisPrompt = `
Listen to this short musical idea.
1. Provide a very brief 1-sentence description of the musical vibe, instruments, and rhythm.
2. Suggest 3-5 short, relevant tags (e.g., "Funky", "Bass Riff", "Lo-fi", "Upbeat").

Return the response in JSON format with keys: "description" and "tags".
`

// GeminiAnalyzer calls the generateContent REST endpoint with inline audio
type GeminiAnalyzer struct {
	client *resty.Client
	apiKey string
	model  string
	log    zerolog.Logger
}

var _ Analyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer creates an analyzer from config. A zero timeout means none.
func NewGeminiAnalyzer(cfg config.AnalyzerConfig, log zerolog.Logger) *GeminiAnalyzer {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &GeminiAnalyzer{
		client: c,
		apiKey: cfg.APIKey,
		model:  model,
		log:    log.With().Str("component", "analyzer").Logger(),
	}
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	InlineData *inlineData `json:"inlineData,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type analysisBody struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Analyze sends the clip to the model and parses the JSON answer
func (a *GeminiAnalyzer) Analyze(ctx context.Context, blob audio.Payload) models.Analysis {
	if a.apiKey == "" {
		a.log.Warn().Msg("no API key configured for analysis")
		return MissingKeyResult()
	}

	result, err := a.generate(ctx, blob)
	if err != nil {
		a.log.Error().Err(err).Int("bytes", len(blob.Data)).Msg("analysis failed")
		return FailedResult()
	}
	return result
}

func (a *GeminiAnalyzer) generate(ctx context.Context, blob audio.Payload) (models.Analysis, error) {
	mimeType := blob.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	req := generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(blob.Data)}},
			{Text: analysisPrompt},
		}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("key", a.apiKey).
		SetPathParam("model", a.model).
		SetBody(&req).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return models.Analysis{}, fmt.Errorf("gemini request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return models.Analysis{}, fmt.Errorf("gemini status %d: %s", resp.StatusCode(), truncateBody(resp.String()))
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return models.Analysis{}, fmt.Errorf("decode response: %w", err)
	}
	text := responseText(gr)
	if text == "" {
		return models.Analysis{}, errors.New("no response from gemini")
	}

	var body analysisBody
	if err := json.Unmarshal([]byte(text), &body); err != nil {
		return models.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	out := models.Analysis{Tags: body.Tags, Description: body.Description}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Description == "" {
		out.Description = defaultDescription
	}
	return out, nil
}

// responseText joins the text parts of the first candidate
func responseText(gr generateResponse) string {
	if len(gr.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func truncateBody(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
