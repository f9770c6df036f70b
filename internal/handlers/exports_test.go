package handlers

import (
	"testing"
	"time"

	"example.com/ai-trip-planner/backend/internal/models"
)

// TestActivityStart проверяет совмещение даты дня со временем активности.
func TestActivityStart(t *testing.T) {
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	got := activityStart(date, "07:30 PM")
	want := time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := activityStart(date, "evening"); !got.Equal(date) {
		t.Fatalf("expected start of day for unreadable time, got %v", got)
	}
}

// TestAttachment проверяет имя файла выгрузки.
func TestAttachment(t *testing.T) {
	trip := models.Trip{}

	got := attachment(trip, "csv")
	want := `attachment; filename="itinerary-00000000-0000-0000-0000-000000000000.csv"`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
