package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"example.com/ai-trip-planner/backend/internal/models"
)

const dateLayout = "2006-01-02"

// Source указывает происхождение маршрута.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

type Service struct {
	client Client
	logger *slog.Logger
}

// NewService создает сервис генерации маршрутов поверх AI-клиента.
func NewService(client Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{client: client, logger: logger}
}

// GenerateItinerary запрашивает у AI маршрут поездки. Функция тотальная:
// любой сбой генерации или разбора ответа приводит к резервному маршруту,
// ошибка наружу не выходит. Source сообщает, чей маршрут вернулся.
func (s *Service) GenerateItinerary(ctx context.Context, trip models.Trip) ([]models.ItineraryDay, Source) {
	prompt := BuildItineraryPrompt(trip)

	content, _, err := s.client.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			s.logger.Warn("ai api key is not configured, using fallback itinerary")
		} else {
			s.logger.Error("itinerary generation failed, using fallback",
				slog.String("destination", trip.Destination),
				slog.String("error", err.Error()))
		}
		return GenerateFallbackItinerary(trip.Destination, trip.StartDate, trip.EndDate), SourceFallback
	}

	days, err := normalizeItinerary(content)
	if err != nil {
		s.logger.Warn("ai itinerary rejected, using fallback",
			slog.String("destination", trip.Destination),
			slog.String("reason", err.Error()))
		return GenerateFallbackItinerary(trip.Destination, trip.StartDate, trip.EndDate), SourceFallback
	}

	return days, SourceAI
}

// BuildItineraryPrompt строит текстовый запрос генерации маршрута по поездке.
// Предусловие: EndDate не раньше StartDate, валидация лежит выше.
func BuildItineraryPrompt(trip models.Trip) string {
	days := DaySpan(trip.StartDate, trip.EndDate)

	budget := ""
	if trip.BudgetCents != nil {
		budget = fmt.Sprintf(" Budget: $%.2f.", float64(*trip.BudgetCents)/100)
	}

	return fmt.Sprintf(`Create a detailed %d-day itinerary for a %s trip to %s from %s to %s.%s

For each day, provide 4-6 activities including:
- Morning activities (breakfast, sightseeing)
- Afternoon activities (lunch, attractions)
- Evening activities (dinner, entertainment)

Include specific times, locations, and brief descriptions. Mix popular attractions with local experiences.

IMPORTANT: Respond ONLY with a valid JSON array, no additional text. Use this exact structure:
[
  {
    "day": 1,
    "date": "%s",
    "activities": [
      {
        "time": "09:00 AM",
        "title": "Activity name",
        "description": "Brief description",
        "location": "Specific location name",
        "type": "sightseeing"
      }
    ]
  }
]

Activity types must be one of: sightseeing, food, activity, rest

Generate the itinerary now:`,
		days,
		trip.TravelType,
		trip.Destination,
		trip.StartDate.Format(dateLayout),
		trip.EndDate.Format(dateLayout),
		budget,
		trip.StartDate.Format(dateLayout),
	)
}

// GenerateFallbackItinerary детерминированно строит шаблонный маршрут
// из одних только дат поездки. Это универсальная подстраховка: без I/O
// и без вариантов отказа.
func GenerateFallbackItinerary(destination string, startDate, endDate time.Time) []models.ItineraryDay {
	days := DaySpan(startDate, endDate)

	itinerary := make([]models.ItineraryDay, 0, days)
	for i := 0; i < days; i++ {
		date := startDate.AddDate(0, 0, i)

		itinerary = append(itinerary, models.ItineraryDay{
			Day:  i + 1,
			Date: date.Format(dateLayout),
			Activities: []models.Activity{
				{
					Time:        "09:00 AM",
					Title:       "Morning Exploration",
					Description: fmt.Sprintf("Explore %s and discover local attractions", destination),
					Location:    destination,
					Type:        models.ActivityTypeSightseeing,
				},
				{
					Time:        "12:00 PM",
					Title:       "Lunch Break",
					Description: "Try local cuisine and specialties",
					Location:    destination,
					Type:        models.ActivityTypeFood,
				},
				{
					Time:        "03:00 PM",
					Title:       "Afternoon Activity",
					Description: "Visit museums, parks, or cultural sites",
					Location:    destination,
					Type:        models.ActivityTypeActivity,
				},
				{
					Time:        "07:00 PM",
					Title:       "Dinner & Evening",
					Description: "Enjoy dinner and evening entertainment",
					Location:    destination,
					Type:        models.ActivityTypeFood,
				},
			},
		})
	}

	return itinerary
}

// DaySpan возвращает число дней поездки включительно по обеим границам.
func DaySpan(startDate, endDate time.Time) int {
	return int(math.Ceil(endDate.Sub(startDate).Hours()/24)) + 1
}

// normalizeItinerary снимает обертку из code-fence, проверяет полноту ответа
// и разбирает JSON-массив дней. Поля активностей дальше не проверяются:
// неизвестные типы допускаются по контракту модели данных.
func normalizeItinerary(raw string) ([]models.ItineraryDay, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("empty response")
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	// Обрезанный по лимиту токенов ответ не заканчивается закрывающей
	// скобкой массива; такой текст не стоит даже пытаться разбирать.
	if !strings.HasSuffix(trimmed, "]") {
		return nil, errors.New("response appears truncated")
	}

	var days []models.ItineraryDay
	if err := json.Unmarshal([]byte(trimmed), &days); err != nil {
		return nil, fmt.Errorf("parse itinerary: %w", err)
	}

	if len(days) == 0 {
		return nil, errors.New("itinerary is empty")
	}

	return days, nil
}
