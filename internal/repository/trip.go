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

type TripRepository struct {
	db *pgxpool.Pool
}

type TripInput struct {
	Title       string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	BudgetCents *int64
	TravelType  models.TravelType
}

// NewTripRepository создает репозиторий поездок.
func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

// Create создает поездку пользователя.
func (r *TripRepository) Create(ctx context.Context, userID uuid.UUID, input TripInput) (models.Trip, error) {
	var trip models.Trip

	if input.EndDate.Before(input.StartDate) {
		return trip, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO trips (user_id, title, destination, start_date, end_date, budget_cents, travel_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, title, destination, start_date, end_date, budget_cents, travel_type, created_at, updated_at`,
		userID, input.Title, input.Destination, input.StartDate, input.EndDate, input.BudgetCents, input.TravelType,
	).Scan(&trip.ID, &trip.UserID, &trip.Title, &trip.Destination, &trip.StartDate, &trip.EndDate, &trip.BudgetCents, &trip.TravelType, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return trip, err
	}

	return trip, nil
}

// GetByID возвращает поездку пользователя по идентификатору.
func (r *TripRepository) GetByID(ctx context.Context, userID, tripID uuid.UUID) (models.Trip, error) {
	var trip models.Trip

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, destination, start_date, end_date, budget_cents, travel_type, created_at, updated_at
		 FROM trips
		 WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	).Scan(&trip.ID, &trip.UserID, &trip.Title, &trip.Destination, &trip.StartDate, &trip.EndDate, &trip.BudgetCents, &trip.TravelType, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trip, ErrNotFound
		}
		return trip, err
	}

	return trip, nil
}

// ListByUser возвращает страницу поездок пользователя, новые первыми.
func (r *TripRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Trip, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, destination, start_date, end_date, budget_cents, travel_type, created_at, updated_at
		 FROM trips
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrips(rows)
}

// ListUpcoming возвращает ближайшие поездки, начинающиеся не раньше сегодня.
func (r *TripRepository) ListUpcoming(ctx context.Context, userID uuid.UUID, limit int) ([]models.Trip, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, destination, start_date, end_date, budget_cents, travel_type, created_at, updated_at
		 FROM trips
		 WHERE user_id = $1 AND start_date >= CURRENT_DATE
		 ORDER BY start_date ASC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTrips(rows)
}

// Update обновляет поездку пользователя.
func (r *TripRepository) Update(ctx context.Context, userID, tripID uuid.UUID, input TripInput) (models.Trip, error) {
	var trip models.Trip

	if input.EndDate.Before(input.StartDate) {
		return trip, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`UPDATE trips
		 SET title = $3, destination = $4, start_date = $5, end_date = $6, budget_cents = $7, travel_type = $8, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, title, destination, start_date, end_date, budget_cents, travel_type, created_at, updated_at`,
		tripID, userID, input.Title, input.Destination, input.StartDate, input.EndDate, input.BudgetCents, input.TravelType,
	).Scan(&trip.ID, &trip.UserID, &trip.Title, &trip.Destination, &trip.StartDate, &trip.EndDate, &trip.BudgetCents, &trip.TravelType, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trip, ErrNotFound
		}
		return trip, err
	}

	return trip, nil
}

// Delete удаляет поездку вместе с маршрутом и расходами.
func (r *TripRepository) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM trips WHERE id = $1 AND user_id = $2`,
		tripID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Exists проверяет принадлежность поездки пользователю.
func (r *TripRepository) Exists(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM trips WHERE id = $1 AND user_id = $2
		 )`,
		tripID, userID,
	).Scan(&exists)
	return exists, err
}

func scanTrips(rows pgx.Rows) ([]models.Trip, error) {
	trips := make([]models.Trip, 0)
	for rows.Next() {
		var trip models.Trip

		err := rows.Scan(&trip.ID, &trip.UserID, &trip.Title, &trip.Destination, &trip.StartDate, &trip.EndDate, &trip.BudgetCents, &trip.TravelType, &trip.CreatedAt, &trip.UpdatedAt)
		if err != nil {
			return nil, err
		}

		trips = append(trips, trip)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}
