package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/ai"
	"example.com/ai-trip-planner/backend/internal/auth"
	"example.com/ai-trip-planner/backend/internal/itinerary"
	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/notifications"
	"example.com/ai-trip-planner/backend/internal/repository"
)

const aiRequestGenerateItinerary = "generate_itinerary"

type ItineraryHandler struct {
	Service    *ai.Service
	Trips      *repository.TripRepository
	Days       *repository.ItineraryRepository
	AIRequests *repository.AIRequestRepository
	Notifier   *notifications.Hub
	Provider   string
	Model      string
}

// NewItineraryHandler создает обработчик маршрутов поездок.
func NewItineraryHandler(service *ai.Service, trips *repository.TripRepository, days *repository.ItineraryRepository, aiRequests *repository.AIRequestRepository, notifier *notifications.Hub, provider, model string) *ItineraryHandler {
	return &ItineraryHandler{
		Service:    service,
		Trips:      trips,
		Days:       days,
		AIRequests: aiRequests,
		Notifier:   notifier,
		Provider:   provider,
		Model:      model,
	}
}

type ActivityRequest struct {
	Time        string `json:"time" validate:"required,max=20"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Location    string `json:"location" validate:"omitempty,max=200"`
	Type        string `json:"type"`
}

type SaveItineraryRequest struct {
	Itinerary []models.ItineraryDay `json:"itinerary" validate:"required,min=1"`
}

type ItineraryResponse struct {
	Itinerary []models.ItineraryDay `json:"itinerary"`
	Source    ai.Source             `json:"source,omitempty"`
}

// Get возвращает сохраненный маршрут поездки.
func (h *ItineraryHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := h.tripID(c, userID)
	if err != nil {
		return h.tripError(c, err)
	}

	days, err := h.Days.ListDays(c.Request().Context(), tripID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, ItineraryResponse{Itinerary: days})
}

// Generate генерирует маршрут (AI либо шаблон), сохраняет его подневными
// документами и возвращает результат. Существующий маршрут замещается.
func (h *ItineraryHandler) Generate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	trip, err := h.Trips.GetByID(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	days, source := h.Service.GenerateItinerary(c.Request().Context(), trip)
	h.logAIRequest(c, userID, trip, days, source)

	if source == ai.SourceFallback {
		slog.Warn("itinerary fallback used", slog.String("trip_id", tripID.String()), slog.String("user_id", userID.String()))
	} else {
		slog.Info("itinerary generated", slog.String("trip_id", tripID.String()), slog.String("user_id", userID.String()), slog.Int("days", len(days)))
	}

	session := itinerary.NewSession(h.Days, tripID)
	if err := session.Replace(c.Request().Context(), days); err != nil {
		return h.replaceError(c, err)
	}

	publishTripEvent(h.Notifier, userID, notifications.EventItineraryGenerated, tripID, map[string]interface{}{
		"days":   len(days),
		"source": source,
	})

	return c.JSON(http.StatusCreated, ItineraryResponse{Itinerary: days, Source: source})
}

// Save замещает маршрут присланными днями.
func (h *ItineraryHandler) Save(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := h.tripID(c, userID)
	if err != nil {
		return h.tripError(c, err)
	}

	var req SaveItineraryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	session := itinerary.NewSession(h.Days, tripID)
	if err := session.Replace(c.Request().Context(), req.Itinerary); err != nil {
		return h.replaceError(c, err)
	}

	publishTripEvent(h.Notifier, userID, notifications.EventItineraryUpdated, tripID, nil)
	return c.JSON(http.StatusOK, ItineraryResponse{Itinerary: req.Itinerary})
}

// AddActivity добавляет активность в день маршрута.
func (h *ItineraryHandler) AddActivity(c echo.Context) error {
	return h.mutateDay(c, func(session *itinerary.Session, c echo.Context, dayNumber int) (models.ItineraryDay, error) {
		activity, err := bindActivity(c)
		if err != nil {
			return models.ItineraryDay{}, err
		}

		return session.AddActivity(c.Request().Context(), dayNumber, activity)
	})
}

// EditActivity заменяет активность по индексу внутри дня.
func (h *ItineraryHandler) EditActivity(c echo.Context) error {
	return h.mutateDay(c, func(session *itinerary.Session, c echo.Context, dayNumber int) (models.ItineraryDay, error) {
		index, err := activityIndex(c)
		if err != nil {
			return models.ItineraryDay{}, err
		}

		activity, err := bindActivity(c)
		if err != nil {
			return models.ItineraryDay{}, err
		}

		return session.EditActivity(c.Request().Context(), dayNumber, index, activity)
	})
}

// DeleteActivity удаляет активность по индексу внутри дня.
func (h *ItineraryHandler) DeleteActivity(c echo.Context) error {
	return h.mutateDay(c, func(session *itinerary.Session, c echo.Context, dayNumber int) (models.ItineraryDay, error) {
		index, err := activityIndex(c)
		if err != nil {
			return models.ItineraryDay{}, err
		}

		return session.DeleteActivity(c.Request().Context(), dayNumber, index)
	})
}

// GetDay возвращает один день маршрута.
func (h *ItineraryHandler) GetDay(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := h.tripID(c, userID)
	if err != nil {
		return h.tripError(c, err)
	}

	dayNumber, err := strconv.Atoi(c.Param("day"))
	if err != nil || dayNumber < 1 {
		return badRequest(c, "invalid day number")
	}

	day, err := h.Days.GetDay(c.Request().Context(), tripID, dayNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "itinerary day not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string]models.ItineraryDay{"day": day})
}

// Clear удаляет маршрут поездки целиком.
func (h *ItineraryHandler) Clear(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := h.tripID(c, userID)
	if err != nil {
		return h.tripError(c, err)
	}

	if err := h.Days.DeleteAll(c.Request().Context(), tripID); err != nil {
		return serverError(c)
	}

	publishTripEvent(h.Notifier, userID, notifications.EventItineraryUpdated, tripID, nil)
	return c.NoContent(http.StatusNoContent)
}

// DeleteDay удаляет день маршрута целиком.
func (h *ItineraryHandler) DeleteDay(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := h.tripID(c, userID)
	if err != nil {
		return h.tripError(c, err)
	}

	dayNumber, err := strconv.Atoi(c.Param("day"))
	if err != nil || dayNumber < 1 {
		return badRequest(c, "invalid day number")
	}

	if err := h.Days.DeleteDay(c.Request().Context(), tripID, dayNumber); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "itinerary day not found")
		}
		return serverError(c)
	}

	publishTripEvent(h.Notifier, userID, notifications.EventItineraryUpdated, tripID, nil)
	return c.NoContent(http.StatusNoContent)
}

type dayMutation func(session *itinerary.Session, c echo.Context, dayNumber int) (models.ItineraryDay, error)

func (h *ItineraryHandler) mutateDay(c echo.Context, mutate dayMutation) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := h.tripID(c, userID)
	if err != nil {
		return h.tripError(c, err)
	}

	dayNumber, err := strconv.Atoi(c.Param("day"))
	if err != nil || dayNumber < 1 {
		return badRequest(c, "invalid day number")
	}

	session := itinerary.NewSession(h.Days, tripID)
	if err := session.Load(c.Request().Context()); err != nil {
		return serverError(c)
	}

	day, err := mutate(session, c, dayNumber)
	if err != nil {
		switch {
		case errors.Is(err, itinerary.ErrDayNotFound):
			return notFound(c, "itinerary day not found")
		case errors.Is(err, itinerary.ErrActivityNotFound):
			return notFound(c, "activity not found")
		case errors.Is(err, errBadActivity):
			return badRequest(c, err.Error())
		default:
			return serverError(c)
		}
	}

	publishTripEvent(h.Notifier, userID, notifications.EventItineraryUpdated, tripID, map[string]interface{}{
		"day": day.Day,
	})

	return c.JSON(http.StatusOK, map[string]models.ItineraryDay{"day": day})
}

var errBadActivity = errors.New("invalid activity payload")

func bindActivity(c echo.Context) (models.Activity, error) {
	var req ActivityRequest
	if err := c.Bind(&req); err != nil {
		return models.Activity{}, errBadActivity
	}
	if err := c.Validate(&req); err != nil {
		return models.Activity{}, errBadActivity
	}

	// Тип не проверяется по списку: неизвестные значения сохраняются
	// как есть и отображаются общей категорией.
	return models.Activity{
		Time:        req.Time,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        models.ActivityType(req.Type),
	}, nil
}

func activityIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return 0, errBadActivity
	}

	return index, nil
}

func (h *ItineraryHandler) tripID(c echo.Context, userID uuid.UUID) (uuid.UUID, error) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, repository.ErrInvalid
	}

	exists, err := h.Trips.Exists(c.Request().Context(), userID, tripID)
	if err != nil {
		return uuid.Nil, err
	}

	if !exists {
		return uuid.Nil, repository.ErrNotFound
	}

	return tripID, nil
}

func (h *ItineraryHandler) tripError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalid):
		return badRequest(c, "invalid trip id")
	case errors.Is(err, repository.ErrNotFound):
		return notFound(c, "trip not found")
	default:
		return serverError(c)
	}
}

// replaceError раскрывает частичный сбой веерной записи: какие дни не
// записались, видно вызывающему.
func (h *ItineraryHandler) replaceError(c echo.Context, err error) error {
	var replaceErr *itinerary.ReplaceError
	if errors.As(err, &replaceErr) {
		failed := make([]int, 0, len(replaceErr.Failures))
		for _, failure := range replaceErr.Failures {
			failed = append(failed, failure.Day)
		}

		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":       "failed to save itinerary",
			"failed_days": failed,
		})
	}

	return serverError(c)
}

func (h *ItineraryHandler) logAIRequest(c echo.Context, userID uuid.UUID, trip models.Trip, days []models.ItineraryDay, source ai.Source) {
	if h.AIRequests == nil {
		return
	}

	payload, _ := json.Marshal(days)

	var errorMessage *string
	if source == ai.SourceFallback {
		message := "generation fell back to template itinerary"
		errorMessage = &message
	}

	logEntry := repository.AIRequestLog{
		UserID:          userID,
		TripID:          trip.ID,
		RequestType:     aiRequestGenerateItinerary,
		Provider:        h.Provider,
		Model:           h.Model,
		Prompt:          ai.BuildItineraryPrompt(trip),
		ResponsePayload: payload,
		Success:         source == ai.SourceAI,
		ErrorMessage:    errorMessage,
	}

	if err := h.AIRequests.LogRequest(c.Request().Context(), logEntry); err != nil {
		slog.Warn("failed to log ai request", slog.String("trip_id", trip.ID.String()), slog.Any("error", err))
	}
}
