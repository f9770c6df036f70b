package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-trip-planner/backend/internal/models"
)

type ExpenseRepository struct {
	db *pgxpool.Pool
}

type ExpenseInput struct {
	AmountCents int64
	Description string
	Category    models.ExpenseCategory
	SpentOn     time.Time
}

// BudgetSummary агрегирует расходы поездки против ее бюджета.
type BudgetSummary struct {
	BudgetCents    *int64                           `json:"budget_cents,omitempty"`
	SpentCents     int64                            `json:"spent_cents"`
	RemainingCents *int64                           `json:"remaining_cents,omitempty"`
	ByCategory     map[models.ExpenseCategory]int64 `json:"by_category"`
}

// NewExpenseRepository создает репозиторий расходов.
func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ListByTrip возвращает расходы поездки, свежие первыми.
func (r *ExpenseRepository) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]models.Expense, error) {
	if err := r.ensureTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, trip_id, amount_cents, description, category, spent_on, created_at, updated_at
		 FROM expenses
		 WHERE trip_id = $1
		 ORDER BY spent_on DESC, created_at DESC`,
		tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListByCategory возвращает расходы поездки одной категории.
func (r *ExpenseRepository) ListByCategory(ctx context.Context, userID, tripID uuid.UUID, category models.ExpenseCategory) ([]models.Expense, error) {
	if err := r.ensureTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, trip_id, amount_cents, description, category, spent_on, created_at, updated_at
		 FROM expenses
		 WHERE trip_id = $1 AND category = $2
		 ORDER BY spent_on DESC, created_at DESC`,
		tripID, category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// Create добавляет расход в поездку.
func (r *ExpenseRepository) Create(ctx context.Context, userID, tripID uuid.UUID, input ExpenseInput) (models.Expense, error) {
	var expense models.Expense

	if input.AmountCents <= 0 {
		return expense, ErrInvalid
	}

	if err := r.ensureTrip(ctx, userID, tripID); err != nil {
		return expense, err
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO expenses (trip_id, amount_cents, description, category, spent_on)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, trip_id, amount_cents, description, category, spent_on, created_at, updated_at`,
		tripID, input.AmountCents, input.Description, input.Category, input.SpentOn,
	).Scan(&expense.ID, &expense.TripID, &expense.AmountCents, &expense.Description, &expense.Category, &expense.SpentOn, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return expense, err
	}

	return expense, nil
}

// Update обновляет расход.
func (r *ExpenseRepository) Update(ctx context.Context, userID, tripID, expenseID uuid.UUID, input ExpenseInput) (models.Expense, error) {
	var expense models.Expense

	if input.AmountCents <= 0 {
		return expense, ErrInvalid
	}

	if err := r.ensureTrip(ctx, userID, tripID); err != nil {
		return expense, err
	}

	err := r.db.QueryRow(ctx,
		`UPDATE expenses
		 SET amount_cents = $3, description = $4, category = $5, spent_on = $6, updated_at = NOW()
		 WHERE id = $1 AND trip_id = $2
		 RETURNING id, trip_id, amount_cents, description, category, spent_on, created_at, updated_at`,
		expenseID, tripID, input.AmountCents, input.Description, input.Category, input.SpentOn,
	).Scan(&expense.ID, &expense.TripID, &expense.AmountCents, &expense.Description, &expense.Category, &expense.SpentOn, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return expense, ErrNotFound
		}
		return expense, err
	}

	return expense, nil
}

// Delete удаляет расход.
func (r *ExpenseRepository) Delete(ctx context.Context, userID, tripID, expenseID uuid.UUID) error {
	if err := r.ensureTrip(ctx, userID, tripID); err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1 AND trip_id = $2`,
		expenseID, tripID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Summary считает итог расходов поездки и разбивку по категориям.
func (r *ExpenseRepository) Summary(ctx context.Context, userID, tripID uuid.UUID) (BudgetSummary, error) {
	summary := BudgetSummary{ByCategory: make(map[models.ExpenseCategory]int64)}

	var budget *int64
	err := r.db.QueryRow(ctx,
		`SELECT budget_cents FROM trips WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	).Scan(&budget)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summary, ErrNotFound
		}
		return summary, err
	}
	summary.BudgetCents = budget

	rows, err := r.db.Query(ctx,
		`SELECT category, COALESCE(SUM(amount_cents), 0)
		 FROM expenses
		 WHERE trip_id = $1
		 GROUP BY category`,
		tripID,
	)
	if err != nil {
		return summary, err
	}
	defer rows.Close()

	for rows.Next() {
		var category models.ExpenseCategory
		var total int64

		if err := rows.Scan(&category, &total); err != nil {
			return summary, err
		}

		summary.ByCategory[category] = total
		summary.SpentCents += total
	}

	if err := rows.Err(); err != nil {
		return summary, err
	}

	if budget != nil {
		remaining := *budget - summary.SpentCents
		summary.RemainingCents = &remaining
	}

	return summary, nil
}

func (r *ExpenseRepository) ensureTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM trips WHERE id = $1 AND user_id = $2
		 )`,
		tripID, userID,
	).Scan(&exists); err != nil {
		return err
	}

	if !exists {
		return ErrNotFound
	}

	return nil
}

func scanExpenses(rows pgx.Rows) ([]models.Expense, error) {
	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var expense models.Expense

		err := rows.Scan(&expense.ID, &expense.TripID, &expense.AmountCents, &expense.Description, &expense.Category, &expense.SpentOn, &expense.CreatedAt, &expense.UpdatedAt)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return expenses, nil
}
