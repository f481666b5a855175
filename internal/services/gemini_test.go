package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type mockGenerator struct {
	GenerateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return m.GenerateContentFunc(ctx, model, contents, config)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiAnalyzer_AnalyzeDocument(t *testing.T) {
	var gotModel string
	var gotBlob *genai.Blob
	gen := &mockGenerator{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel = model
			for _, p := range contents[0].Parts {
				if p.InlineData != nil {
					gotBlob = p.InlineData
				}
			}
			return textResponse("```json\n{\"category\":\"bills\",\"extractedData\":{\"amount\":-42}}\n```"), nil
		},
	}

	g := &GeminiAnalyzer{models: gen, model: "test-model"}
	res, err := g.AnalyzeDocument(context.Background(), "bill.png", "image/png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("AnalyzeDocument failed: %v", err)
	}
	if gotModel != "test-model" {
		t.Errorf("model = %q, want test-model", gotModel)
	}
	if gotBlob == nil || gotBlob.MIMEType != "image/png" || len(gotBlob.Data) != 3 {
		t.Errorf("inline data not sent correctly: %+v", gotBlob)
	}
	if res.Category != "bills" || res.ExtractedData["amount"] != -42.0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestGeminiAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
	}{
		{name: "model error", err: errors.New("quota exceeded")},
		{name: "empty response", resp: textResponse("")},
		{name: "not json", resp: textResponse("I could not read this document.")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &GeminiAnalyzer{
				models: &mockGenerator{
					GenerateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
						return tt.resp, tt.err
					},
				},
				model: DefaultGeminiModel,
			}
			_, err := g.AnalyzeDocument(context.Background(), "x.pdf", "", nil)
			if !errors.Is(err, ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding text", raw: "Here you go: {\"a\":{\"b\":2}} hope it helps", want: `{"a":{"b":2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildAnalysisPrompt_ListsCategories(t *testing.T) {
	p := buildAnalysisPrompt()
	for _, c := range []string{"bank-transactions", "item-restocks", "general-entries"} {
		if !strings.Contains(p, c) {
			t.Errorf("prompt missing category %q", c)
		}
	}
}

func TestNewAnalyzer_Service(t *testing.T) {
	client := NewHTTPClient("http://localhost:8000", 0)

	a, err := NewAnalyzer(context.Background(), BackendService, client, "", "")
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	if a != DocumentAnalyzer(client) {
		t.Error("service backend should reuse the HTTP client")
	}

	if _, err := NewAnalyzer(context.Background(), "ocr", client, "", ""); err == nil {
		t.Error("expected error for unknown backend")
	}
}
