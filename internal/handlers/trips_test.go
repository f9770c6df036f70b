package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func queryContext(t *testing.T, rawQuery string) echo.Context {
	t.Helper()

	req := httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

// TestParseQueryInt проверяет разбор числовых параметров запроса.
func TestParseQueryInt(t *testing.T) {
	if got := parseQueryInt(queryContext(t, "limit=25"), "limit", 10); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}

	if got := parseQueryInt(queryContext(t, ""), "limit", 10); got != 10 {
		t.Fatalf("expected fallback 10, got %d", got)
	}

	if got := parseQueryInt(queryContext(t, "limit=abc"), "limit", 10); got != 10 {
		t.Fatalf("expected fallback for garbage, got %d", got)
	}

	if got := parseQueryInt(queryContext(t, "offset=-5"), "offset", 0); got != 0 {
		t.Fatalf("expected fallback for negative, got %d", got)
	}
}
