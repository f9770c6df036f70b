package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func geminiSuccess(text string) string {
	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				},
			},
		},
	}

	body, _ := json.Marshal(payload)
	return string(body)
}

// TestGeminiGenerate проверяет успешный вызов и извлечение текста ответа.
func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotRequest geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiSuccess("hello")))
	}))
	defer server.Close()

	client := NewGeminiClient("secret", server.URL, "gemini-2.5-flash", time.Second, 4096)

	content, raw, err := client.Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if content != "hello" {
		t.Fatalf("unexpected content: %s", content)
	}
	if len(raw) == 0 {
		t.Fatal("expected raw response body")
	}

	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("expected key in query string, got %q", gotKey)
	}
	if len(gotRequest.Contents) != 1 || gotRequest.Contents[0].Parts[0].Text != "prompt text" {
		t.Fatalf("unexpected request contents: %+v", gotRequest.Contents)
	}
	if gotRequest.GenerationConfig == nil || gotRequest.GenerationConfig.MaxOutputTokens != 4096 {
		t.Fatalf("unexpected generation config: %+v", gotRequest.GenerationConfig)
	}
}

// TestGeminiGenerateMissingKey проверяет отказ без ключа API.
func TestGeminiGenerateMissingKey(t *testing.T) {
	client := NewGeminiClient("  ", "http://localhost", "gemini-2.5-flash", time.Second, 4096)

	if _, _, err := client.Generate(context.Background(), "prompt"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

// TestGeminiGenerateRetriesOverload проверяет единственный повтор после 503.
func TestGeminiGenerateRetriesOverload(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(geminiSuccess("after retry")))
	}))
	defer server.Close()

	client := NewGeminiClient("secret", server.URL, "gemini-2.5-flash", time.Second, 4096)
	client.retryDelay = time.Millisecond

	content, _, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if content != "after retry" {
		t.Fatalf("unexpected content: %s", content)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

// TestGeminiGenerateOverloadTwice проверяет, что повтор не зацикливается.
func TestGeminiGenerateOverloadTwice(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewGeminiClient("secret", server.URL, "gemini-2.5-flash", time.Second, 4096)
	client.retryDelay = time.Millisecond

	if _, _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error after second 503")
	}
	if attempts != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", attempts)
	}
}

// TestGeminiGenerateAPIError проверяет разбор сообщения об ошибке API.
func TestGeminiGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid argument"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient("secret", server.URL, "gemini-2.5-flash", time.Second, 4096)

	_, _, err := client.Generate(context.Background(), "prompt")
	if err == nil || err.Error() != "gemini api error: invalid argument" {
		t.Fatalf("unexpected error: %v", err)
	}
}
