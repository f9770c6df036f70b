package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"example.com/ai-trip-planner/backend/internal/models"
)

type stubClient struct {
	content string
	err     error
}

func (c *stubClient) Generate(ctx context.Context, prompt string) (string, []byte, error) {
	return c.content, []byte(c.content), c.err
}

func testTrip() models.Trip {
	return models.Trip{
		Destination: "Paris",
		TravelType:  models.TravelTypeCouple,
		StartDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
	}
}

// TestDaySpan проверяет подсчет дней поездки по границам включительно.
func TestDaySpan(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	if got := DaySpan(start, start); got != 1 {
		t.Fatalf("expected 1 day for same-day trip, got %d", got)
	}

	if got := DaySpan(start, start.AddDate(0, 0, 2)); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}

	// Неполные сутки округляются вверх.
	if got := DaySpan(start, start.Add(36*time.Hour)); got != 3 {
		t.Fatalf("expected 3 days for 36h span, got %d", got)
	}
}

// TestBuildItineraryPrompt проверяет состав промпта.
func TestBuildItineraryPrompt(t *testing.T) {
	trip := testTrip()
	prompt := BuildItineraryPrompt(trip)

	for _, want := range []string{
		"3-day itinerary",
		"couple trip to Paris",
		"from 2026-06-01 to 2026-06-03",
		"ONLY with a valid JSON array",
		"sightseeing, food, activity, rest",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}

	if strings.Contains(prompt, "Budget:") {
		t.Fatal("prompt must omit budget when trip has none")
	}

	budget := int64(150000)
	trip.BudgetCents = &budget
	if !strings.Contains(BuildItineraryPrompt(trip), "Budget: $1500.00.") {
		t.Fatal("prompt missing formatted budget")
	}
}

// TestGenerateFallbackItinerary проверяет детерминированный шаблонный маршрут.
func TestGenerateFallbackItinerary(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	days := GenerateFallbackItinerary("Rome", start, end)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	for i, day := range days {
		if day.Day != i+1 {
			t.Fatalf("expected day %d, got %d", i+1, day.Day)
		}
		if want := start.AddDate(0, 0, i).Format(dateLayout); day.Date != want {
			t.Fatalf("expected date %s, got %s", want, day.Date)
		}
		if len(day.Activities) != 4 {
			t.Fatalf("expected 4 activities, got %d", len(day.Activities))
		}
	}

	times := []string{"09:00 AM", "12:00 PM", "03:00 PM", "07:00 PM"}
	for i, activity := range days[0].Activities {
		if activity.Time != times[i] {
			t.Fatalf("expected time %s, got %s", times[i], activity.Time)
		}
	}

	if !strings.Contains(days[0].Activities[0].Description, "Rome") {
		t.Fatal("expected destination in activity description")
	}
}

// TestNormalizeItinerary проверяет снятие code-fence и защиту от обрыва.
func TestNormalizeItinerary(t *testing.T) {
	valid := `[{"day":1,"date":"2026-06-01","activities":[{"time":"09:00 AM","title":"Louvre","type":"sightseeing"}]}]`

	days, err := normalizeItinerary(valid)
	if err != nil {
		t.Fatalf("expected valid itinerary, got %v", err)
	}
	if len(days) != 1 || days[0].Day != 1 {
		t.Fatalf("unexpected itinerary: %+v", days)
	}

	fenced := "```json\n" + valid + "\n```"
	if _, err := normalizeItinerary(fenced); err != nil {
		t.Fatalf("expected fenced itinerary to parse, got %v", err)
	}

	if _, err := normalizeItinerary(valid[:len(valid)-1]); err == nil {
		t.Fatal("expected error for truncated response")
	}

	if _, err := normalizeItinerary("   "); err == nil {
		t.Fatal("expected error for empty response")
	}

	if _, err := normalizeItinerary("[]"); err == nil {
		t.Fatal("expected error for empty itinerary")
	}
}

// TestGenerateItineraryUsesAI проверяет путь успешной генерации.
func TestGenerateItineraryUsesAI(t *testing.T) {
	client := &stubClient{content: `[{"day":1,"date":"2026-06-01","activities":[{"time":"09:00 AM","title":"Walk","type":"rest"}]}]`}
	service := NewService(client, nil)

	days, source := service.GenerateItinerary(context.Background(), testTrip())
	if source != SourceAI {
		t.Fatalf("expected ai source, got %s", source)
	}
	if len(days) != 1 || days[0].Activities[0].Title != "Walk" {
		t.Fatalf("unexpected itinerary: %+v", days)
	}
}

// TestGenerateItineraryFallsBack проверяет резервный маршрут при сбоях.
func TestGenerateItineraryFallsBack(t *testing.T) {
	cases := []struct {
		name   string
		client Client
	}{
		{"client error", &stubClient{err: errors.New("boom")}},
		{"missing key", &stubClient{err: ErrMissingAPIKey}},
		{"malformed response", &stubClient{content: "Sure! Here is your trip"}},
		{"truncated response", &stubClient{content: `[{"day":1,"date":"2026-06-01"`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewService(tc.client, nil)

			days, source := service.GenerateItinerary(context.Background(), testTrip())
			if source != SourceFallback {
				t.Fatalf("expected fallback source, got %s", source)
			}
			if len(days) != 3 {
				t.Fatalf("expected 3 fallback days, got %d", len(days))
			}
		})
	}
}
