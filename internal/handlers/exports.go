package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/auth"
	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/repository"
)

const activityTimeLayout = "03:04 PM"

type ExportHandler struct {
	Trips *repository.TripRepository
	Days  *repository.ItineraryRepository
}

// NewExportHandler создает обработчик выгрузки маршрута.
func NewExportHandler(trips *repository.TripRepository, days *repository.ItineraryRepository) *ExportHandler {
	return &ExportHandler{Trips: trips, Days: days}
}

// ExportJSON выгружает поездку с маршрутом в JSON-файл.
func (h *ExportHandler) ExportJSON(c echo.Context) error {
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

	days, err := h.Days.ListDays(c.Request().Context(), tripID)
	if err != nil {
		return serverError(c)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(trip, "json"))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"trip":      toTripResponse(trip),
		"itinerary": days,
	})
}

// ExportCSV выгружает активности маршрута построчно в CSV-файл.
func (h *ExportHandler) ExportCSV(c echo.Context) error {
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

	days, err := h.Days.ListDays(c.Request().Context(), tripID)
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"day", "date", "time", "title", "description", "location", "type"}); err != nil {
		return serverError(c)
	}

	for _, day := range days {
		for _, activity := range day.Activities {
			record := []string{
				strconv.Itoa(day.Day),
				day.Date,
				activity.Time,
				activity.Title,
				activity.Description,
				activity.Location,
				string(activity.Type),
			}
			if err := writer.Write(record); err != nil {
				return serverError(c)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(trip, "csv"))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportICS выгружает маршрут календарем iCalendar.
func (h *ExportHandler) ExportICS(c echo.Context) error {
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

	days, err := h.Days.ListDays(c.Request().Context(), tripID)
	if err != nil {
		return serverError(c)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ai-trip-planner//itinerary//EN")
	cal.SetName(trip.Title)

	now := time.Now().UTC()
	for _, day := range days {
		date, err := time.Parse(dateLayout, day.Date)
		if err != nil {
			continue
		}

		for index, activity := range day.Activities {
			event := cal.AddEvent(fmt.Sprintf("%s-day%d-%d", trip.ID, day.Day, index))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetSummary(activity.Title)
			if activity.Description != "" {
				event.SetDescription(activity.Description)
			}
			if activity.Location != "" {
				event.SetLocation(activity.Location)
			}

			start := activityStart(date, activity.Time)
			event.SetStartAt(start)
			event.SetEndAt(start.Add(time.Hour))
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(trip, "ics"))
	return c.Blob(http.StatusOK, "text/calendar", []byte(cal.Serialize()))
}

// activityStart совмещает дату дня со строкой времени активности.
// Нечитаемое время оставляет событие на начало дня.
func activityStart(date time.Time, raw string) time.Time {
	parsed, err := time.Parse(activityTimeLayout, raw)
	if err != nil {
		return date
	}

	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func attachment(trip models.Trip, extension string) string {
	return fmt.Sprintf(`attachment; filename="itinerary-%s.%s"`, trip.ID, extension)
}
