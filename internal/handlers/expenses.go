package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/auth"
	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/notifications"
	"example.com/ai-trip-planner/backend/internal/repository"
)

type ExpenseHandler struct {
	Expenses *repository.ExpenseRepository
	Notifier *notifications.Hub
}

// NewExpenseHandler создает обработчик расходов.
func NewExpenseHandler(expenses *repository.ExpenseRepository, notifier *notifications.Hub) *ExpenseHandler {
	return &ExpenseHandler{Expenses: expenses, Notifier: notifier}
}

type ExpenseRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=500"`
	Category    string `json:"category" validate:"required"`
	SpentOn     string `json:"spent_on" validate:"required"`
}

// List возвращает расходы поездки, опционально отфильтрованные по категории.
func (h *ExpenseHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	var expenses []models.Expense
	if raw := c.QueryParam("category"); raw != "" {
		category, known := models.ParseExpenseCategory(raw)
		if !known {
			return badRequest(c, "unknown expense category")
		}
		expenses, err = h.Expenses.ListByCategory(c.Request().Context(), userID, tripID, category)
	} else {
		expenses, err = h.Expenses.ListByTrip(c.Request().Context(), userID, tripID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"expenses": expenses})
}

// Create добавляет расход в поездку.
func (h *ExpenseHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	input, err := bindExpenseInput(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	expense, err := h.Expenses.Create(c.Request().Context(), userID, tripID, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "trip not found")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "amount must be positive")
		default:
			return serverError(c)
		}
	}

	publishTripEvent(h.Notifier, userID, notifications.EventExpenseChanged, tripID, map[string]interface{}{
		"expense_id": expense.ID,
	})

	return c.JSON(http.StatusCreated, expense)
}

// Update обновляет расход.
func (h *ExpenseHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		return badRequest(c, "invalid expense id")
	}

	input, err := bindExpenseInput(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	expense, err := h.Expenses.Update(c.Request().Context(), userID, tripID, expenseID, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "expense not found")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "amount must be positive")
		default:
			return serverError(c)
		}
	}

	publishTripEvent(h.Notifier, userID, notifications.EventExpenseChanged, tripID, map[string]interface{}{
		"expense_id": expense.ID,
	})

	return c.JSON(http.StatusOK, expense)
}

// Delete удаляет расход.
func (h *ExpenseHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		return badRequest(c, "invalid expense id")
	}

	if err := h.Expenses.Delete(c.Request().Context(), userID, tripID, expenseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "expense not found")
		}
		return serverError(c)
	}

	publishTripEvent(h.Notifier, userID, notifications.EventExpenseChanged, tripID, nil)
	return c.NoContent(http.StatusNoContent)
}

// Summary возвращает бюджетный итог поездки.
func (h *ExpenseHandler) Summary(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid trip id")
	}

	summary, err := h.Expenses.Summary(c.Request().Context(), userID, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "trip not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, summary)
}

func bindExpenseInput(c echo.Context) (repository.ExpenseInput, error) {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return repository.ExpenseInput{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return repository.ExpenseInput{}, errors.New("validation failed")
	}

	category, known := models.ParseExpenseCategory(req.Category)
	if !known {
		return repository.ExpenseInput{}, errors.New("unknown expense category")
	}

	spentOn, err := time.Parse(dateLayout, req.SpentOn)
	if err != nil {
		return repository.ExpenseInput{}, errors.New("spent_on must be YYYY-MM-DD")
	}

	return repository.ExpenseInput{
		AmountCents: req.AmountCents,
		Description: req.Description,
		Category:    category,
		SpentOn:     spentOn,
	}, nil
}
