package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

const (
	analyzePath    = "/analyze-document/"
	validatePath   = "/validate-and-correct-data/"
	statementsPath = "/generate-financial-statements/"

	// maxErrorBody caps how much of a failed response is kept for the error.
	maxErrorBody = 512
)

// HTTPClient talks to the analysis backend over HTTP. It implements
// DocumentAnalyzer, DataValidator and StatementGenerator.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var (
	_ DocumentAnalyzer   = (*HTTPClient)(nil)
	_ DataValidator      = (*HTTPClient)(nil)
	_ StatementGenerator = (*HTTPClient)(nil)
)

// NewHTTPClient creates a client for the backend at baseURL. A zero timeout
// leaves deadlines to the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// AnalyzeDocument uploads the file as multipart field "file".
func (c *HTTPClient) AnalyzeDocument(ctx context.Context, filename, mimeType string, content []byte) (*AnalysisResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeDocument: create form part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("AnalyzeDocument: write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("AnalyzeDocument: close form: %w", err)
	}

	var result AnalysisResult
	if err := c.do(ctx, "AnalyzeDocument", analyzePath, w.FormDataContentType(), &body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateTransactions posts the full list and returns the proposed
// corrections.
func (c *HTTPClient) ValidateTransactions(ctx context.Context, txs []domain.Transaction) (*ValidationResponse, error) {
	payload, err := marshalTransactions(txs)
	if err != nil {
		return nil, fmt.Errorf("ValidateTransactions: %w", err)
	}

	var result ValidationResponse
	if err := c.do(ctx, "ValidateTransactions", validatePath, "application/json", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateStatements posts the full list and returns the generated statements.
func (c *HTTPClient) GenerateStatements(ctx context.Context, txs []domain.Transaction) (*domain.FinancialStatement, error) {
	payload, err := marshalTransactions(txs)
	if err != nil {
		return nil, fmt.Errorf("GenerateStatements: %w", err)
	}

	var result domain.FinancialStatement
	if err := c.do(ctx, "GenerateStatements", statementsPath, "application/json", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func marshalTransactions(txs []domain.Transaction) (io.Reader, error) {
	if txs == nil {
		txs = []domain.Transaction{}
	}
	b, err := json.Marshal(txs)
	if err != nil {
		return nil, fmt.Errorf("marshal transactions: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (c *HTTPClient) do(ctx context.Context, op, path, contentType string, body io.Reader, out interface{}) error {
	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &StatusError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("External service call finished")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
