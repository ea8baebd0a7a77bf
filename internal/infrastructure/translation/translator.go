package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tue-news-backend/internal/config"
)

// Translator is the external translation provider contract.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

type httpTranslator struct {
	config     config.TranslationConfig
	httpClient *http.Client
}

func NewHTTPTranslator(cfg config.TranslationConfig) Translator {
	return &httpTranslator{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

func (t *httpTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	bodyJSON, err := json.Marshal(translateRequest{Text: text, TargetLang: targetLanguage})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.BaseURL+"/v1/translate", bytes.NewReader(bodyJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.config.APIKey)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call translation API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation API returned %d: %s", resp.StatusCode, bodyBytes)
	}

	var respData translateResponse
	if err := json.Unmarshal(bodyBytes, &respData); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return respData.TranslatedText, nil
}
