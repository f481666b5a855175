package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the subset of the genai models API the analyzer needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer classifies documents directly with a Gemini model instead
// of the analysis backend.
type GeminiAnalyzer struct {
	models contentGenerator
	model  string
}

var _ DocumentAnalyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer creates a Gemini API client. An empty apiKey lets the
// SDK read GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiAnalyzer: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiAnalyzer{models: client.Models, model: model}, nil
}

func buildAnalysisPrompt() string {
	categories := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		categories[i] = string(c)
	}

	return "You are a financial document analyzer.\n\n" +
		"Task:\n" +
		"- Classify the attached document into exactly one of these categories: " + strings.Join(categories, ", ") + ".\n" +
		"- Extract the FINAL/TOTAL amount that should be paid or received.\n\n" +
		"Return a JSON object with these fields:\n" +
		"- \"category\": string (one of the categories above)\n" +
		"- \"dashboardCategory\": string, a short business label such as \"Revenue\" or \"Operating Expenses\"\n" +
		"- \"confidence\": number between 0 and 1\n" +
		"- \"extractedData\": object with\n" +
		"  - \"amount\": number, signed (negative for money out)\n" +
		"  - \"date\": string, ISO format \"YYYY-MM-DD\"\n" +
		"  - \"due_date\": string or null\n" +
		"  - \"description\": string\n" +
		"  - \"vendor\" or \"customer\": string\n" +
		"  - for bank transactions, \"incoming\" and \"outgoing\": numbers or null\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Output must begin with \"{\" and end with \"}\".\n"
}

// AnalyzeDocument sends the document inline to the model and decodes its
// JSON answer.
func (g *GeminiAnalyzer) AnalyzeDocument(ctx context.Context, filename, mimeType string, content []byte) (*AnalysisResult, error) {
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildAnalysisPrompt()},
				{Text: "File name: " + filename},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     content,
					},
				},
			},
		},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, &StatusError{Op: "AnalyzeDocument", Err: fmt.Errorf("generate content: %w", err)}
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, &StatusError{Op: "AnalyzeDocument", Err: fmt.Errorf("empty response from model")}
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &result); err != nil {
		return nil, &StatusError{Op: "AnalyzeDocument", Err: fmt.Errorf("unmarshal model JSON: %w", err)}
	}
	return &result, nil
}

// cleanModelJSON strips Markdown fences and any text around the outermost
// JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
