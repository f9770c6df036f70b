package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultMaxTokens  = 4096
	geminiTemperature = 0.7

	// Задержка перед единственным повтором после ответа 503.
	overloadRetryDelay = 2 * time.Second
)

// GeminiClient calls the Google Generative Language API (Gemini).
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	retryDelay time.Duration
	httpClient *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig *geminiConfig   `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGeminiClient создает клиент Gemini с заданными параметрами.
func NewGeminiClient(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) *GeminiClient {
	trimmedURL := strings.TrimRight(baseURL, "/")
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    trimmedURL,
		model:      model,
		maxTokens:  maxTokens,
		retryDelay: overloadRetryDelay,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate отправляет промпт в Gemini и возвращает текст ответа и сырой ответ API.
// Статус 503 повторяется ровно один раз после фиксированной паузы.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, []byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, ErrMissingAPIKey
	}

	request := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiConfig{
			Temperature:     geminiTemperature,
			MaxOutputTokens: resolveMaxTokens(c.maxTokens),
		},
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return "", nil, err
	}

	status, body, err := c.post(ctx, payload)
	if err != nil {
		return "", nil, err
	}

	if status == http.StatusServiceUnavailable {
		select {
		case <-ctx.Done():
			return "", body, ctx.Err()
		case <-time.After(c.retryDelay):
		}

		status, body, err = c.post(ctx, payload)
		if err != nil {
			return "", nil, err
		}
	}

	if status < 200 || status >= 300 {
		var apiErr geminiResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
			return "", body, fmt.Errorf("gemini api error: %s", apiErr.Error.Message)
		}
		return "", body, fmt.Errorf("gemini api error: status %d: %s", status, strings.TrimSpace(string(body)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", body, err
	}

	if len(parsed.Candidates) == 0 {
		return "", body, errors.New("gemini response missing candidates")
	}

	parts := parsed.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", body, errors.New("gemini response missing content")
	}

	var builder strings.Builder
	for _, part := range parts {
		builder.WriteString(part.Text)
	}

	return builder.String(), body, nil
}

func (c *GeminiClient) post(ctx context.Context, payload []byte) (int, []byte, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, err
	}

	return response.StatusCode, body, nil
}
