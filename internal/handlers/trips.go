package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/auth"
	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/notifications"
	"example.com/ai-trip-planner/backend/internal/repository"
)

const dateLayout = "2006-01-02"

type TripHandler struct {
	Trips    *repository.TripRepository
	Notifier *notifications.Hub
}

// NewTripHandler создает обработчик поездок.
func NewTripHandler(trips *repository.TripRepository, notifier *notifications.Hub) *TripHandler {
	return &TripHandler{Trips: trips, Notifier: notifier}
}

type TripRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Destination string `json:"destination" validate:"required,max=200"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	BudgetCents *int64 `json:"budget_cents" validate:"omitempty,gt=0"`
	TravelType  string `json:"travel_type" validate:"required"`
}

type TripResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Destination string            `json:"destination"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	BudgetCents *int64            `json:"budget_cents,omitempty"`
	TravelType  models.TravelType `json:"travel_type"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// List возвращает страницу поездок пользователя.
func (h *TripHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	limit := parseQueryInt(c, "limit", 10)
	offset := parseQueryInt(c, "offset", 0)

	trips, err := h.Trips.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return serverError(c)
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"trips":    response,
		"has_more": len(trips) >= limit,
	})
}

// Upcoming возвращает ближайшие поездки пользователя.
func (h *TripHandler) Upcoming(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	trips, err := h.Trips.ListUpcoming(c.Request().Context(), userID, parseQueryInt(c, "limit", 5))
	if err != nil {
		return serverError(c)
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	return c.JSON(http.StatusOK, map[string][]TripResponse{"trips": response})
}

// Get возвращает поездку по идентификатору.
func (h *TripHandler) Get(c echo.Context) error {
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

	return c.JSON(http.StatusOK, map[string]TripResponse{"trip": toTripResponse(trip)})
}

// Create создает поездку.
func (h *TripHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, err := h.bindTripInput(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	trip, err := h.Trips.Create(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "end date must not be before start date")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, map[string]TripResponse{"trip": toTripResponse(trip)})
}

// Update обновляет поездку.
func (h *TripHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	input, err := h.bindTripInput(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	trip, err := h.Trips.Update(c.Request().Context(), userID, tripID, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "trip not found")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "end date must not be before start date")
		default:
			return serverError(c)
		}
	}

	publishTripEvent(h.Notifier, userID, notifications.EventTripUpdated, trip.ID, nil)
	return c.JSON(http.StatusOK, map[string]TripResponse{"trip": toTripResponse(trip)})
}

// Delete удаляет поездку.
func (h *TripHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	if err := h.Trips.Delete(c.Request().Context(), userID, tripID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *TripHandler) bindTripInput(c echo.Context) (repository.TripInput, error) {
	var req TripRequest
	if err := c.Bind(&req); err != nil {
		return repository.TripInput{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return repository.TripInput{}, errors.New("validation failed")
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return repository.TripInput{}, fmt.Errorf("invalid start_date: expected %s", dateLayout)
	}

	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return repository.TripInput{}, fmt.Errorf("invalid end_date: expected %s", dateLayout)
	}

	travelType, ok := models.ParseTravelType(req.TravelType)
	if !ok {
		return repository.TripInput{}, errors.New("invalid travel_type")
	}

	return repository.TripInput{
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		BudgetCents: req.BudgetCents,
		TravelType:  travelType,
	}, nil
}

func toTripResponse(trip models.Trip) TripResponse {
	return TripResponse{
		ID:          trip.ID,
		Title:       trip.Title,
		Destination: trip.Destination,
		StartDate:   trip.StartDate.Format(dateLayout),
		EndDate:     trip.EndDate.Format(dateLayout),
		BudgetCents: trip.BudgetCents,
		TravelType:  trip.TravelType,
		CreatedAt:   trip.CreatedAt,
		UpdatedAt:   trip.UpdatedAt,
	}
}

func parseQueryInt(c echo.Context, name string, fallback int) int {
	value := c.QueryParam(name)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}

	return parsed
}
