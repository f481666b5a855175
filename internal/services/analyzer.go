package services

import (
	"context"
	"fmt"
)

// Analyzer backends accepted by NewAnalyzer.
const (
	BackendService = "service"
	BackendGemini  = "gemini"
)

// NewAnalyzer selects the document analyzer. The service backend reuses
// client; the gemini backend calls the model directly.
func NewAnalyzer(ctx context.Context, backend string, client *HTTPClient, geminiKey, geminiModel string) (DocumentAnalyzer, error) {
	switch backend {
	case BackendService, "":
		return client, nil
	case BackendGemini:
		return NewGeminiAnalyzer(ctx, geminiKey, geminiModel)
	default:
		return nil, fmt.Errorf("NewAnalyzer: unknown backend %q", backend)
	}
}
