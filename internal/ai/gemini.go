package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements AnswerProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Answers are prose, not structured output.
	model.ResponseMIMEType = "text/plain"
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(1000)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// GenerateAnswer asks the model to answer the question from the evidence
// context alone.
func (p *GeminiProvider) GenerateAnswer(ctx context.Context, question, evidence string) (string, error) {
	prompt := buildAnswerPrompt(question, evidence)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			answer.WriteString(string(txt))
		}
	}

	text := strings.TrimSpace(answer.String())
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}
