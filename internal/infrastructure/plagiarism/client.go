package plagiarism

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"tue-news-backend/internal/config"
)

// =====================================================
// HTTP CLIENT IMPLEMENTATION
// =====================================================

type httpGate struct {
	config     config.PlagiarismConfig
	httpClient *http.Client
}

// NewHTTPGate creates a Gate backed by the configured originality API.
// The client timeout mirrors the configured bound so a stalled provider
// can never hold an article transition hostage.
func NewHTTPGate(cfg config.PlagiarismConfig) Gate {
	return &httpGate{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type checkRequest struct {
	Text string `json:"text"`
}

type checkResponse struct {
	Flagged bool    `json:"flagged"`
	Score   float64 `json:"score"`
}

func (g *httpGate) Check(ctx context.Context, text string) (Result, error) {
	// The provider scores plain text; stored content is HTML.
	plain := ExtractText(text)
	if strings.TrimSpace(plain) == "" {
		score := decimal.Zero
		return Result{Verdict: VerdictOK, Score: &score}, nil
	}

	bodyJSON, err := json.Marshal(checkRequest{Text: plain})
	if err != nil {
		return Result{Verdict: VerdictFailed}, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+"/v1/check", bytes.NewReader(bodyJSON))
	if err != nil {
		return Result{Verdict: VerdictFailed}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return Result{Verdict: VerdictFailed}, fmt.Errorf("failed to call plagiarism API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Verdict: VerdictFailed}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{Verdict: VerdictFailed}, fmt.Errorf("plagiarism API returned %d: %s", resp.StatusCode, bodyBytes)
	}

	var respData checkResponse
	if err := json.Unmarshal(bodyBytes, &respData); err != nil {
		return Result{Verdict: VerdictFailed}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	score := decimal.NewFromFloat(respData.Score)
	verdict := VerdictOK
	if respData.Flagged {
		verdict = VerdictFlagged
	}

	return Result{Verdict: verdict, Score: &score}, nil
}

// ExtractText flattens article HTML into whitespace-normalized plain text.
// Falls back to the raw input when it does not parse as HTML.
func ExtractText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
