package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-trip-planner/backend/internal/models"
)

// ItineraryRepository хранит дни маршрута как отдельные документы с ключом
// day-{номер} внутри поездки. Активности дня лежат единым jsonb-блоком.
type ItineraryRepository struct {
	db *pgxpool.Pool
}

// NewItineraryRepository создает репозиторий маршрутов.
func NewItineraryRepository(db *pgxpool.Pool) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

// DayKey возвращает ключ документа дня.
func DayKey(dayNumber int) string {
	return fmt.Sprintf("day-%d", dayNumber)
}

// ListDays возвращает дни маршрута поездки по возрастанию номера дня.
func (r *ItineraryRepository) ListDays(ctx context.Context, tripID uuid.UUID) ([]models.ItineraryDay, error) {
	rows, err := r.db.Query(ctx,
		`SELECT day_number, day_date, activities
		 FROM itinerary_days
		 WHERE trip_id = $1
		 ORDER BY day_number ASC`,
		tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]models.ItineraryDay, 0)
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}

		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

// GetDay возвращает день маршрута по номеру.
func (r *ItineraryRepository) GetDay(ctx context.Context, tripID uuid.UUID, dayNumber int) (models.ItineraryDay, error) {
	row := r.db.QueryRow(ctx,
		`SELECT day_number, day_date, activities
		 FROM itinerary_days
		 WHERE trip_id = $1 AND day_key = $2`,
		tripID, DayKey(dayNumber),
	)

	day, err := scanDay(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return day, ErrNotFound
		}
		return day, err
	}

	return day, nil
}

// SaveDay записывает день документом с ключом day-{номер}; существующий
// документ обновляется с merge-семантикой по полям дня.
func (r *ItineraryRepository) SaveDay(ctx context.Context, tripID uuid.UUID, day models.ItineraryDay) error {
	activities, err := json.Marshal(day.Activities)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO itinerary_days (trip_id, day_key, day_number, day_date, activities)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (trip_id, day_key)
		 DO UPDATE SET day_date = EXCLUDED.day_date, activities = EXCLUDED.activities, updated_at = NOW()`,
		tripID, DayKey(day.Day), day.Day, day.Date, activities,
	)
	return err
}

// DeleteDay удаляет день маршрута.
func (r *ItineraryRepository) DeleteDay(ctx context.Context, tripID uuid.UUID, dayNumber int) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM itinerary_days WHERE trip_id = $1 AND day_key = $2`,
		tripID, DayKey(dayNumber),
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteAll очищает маршрут поездки целиком.
func (r *ItineraryRepository) DeleteAll(ctx context.Context, tripID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM itinerary_days WHERE trip_id = $1`,
		tripID,
	)
	return err
}

func scanDay(row pgx.Row) (models.ItineraryDay, error) {
	var day models.ItineraryDay
	var date time.Time
	var activities []byte

	if err := row.Scan(&day.Day, &date, &activities); err != nil {
		return day, err
	}

	day.Date = date.Format("2006-01-02")
	if len(activities) > 0 {
		if err := json.Unmarshal(activities, &day.Activities); err != nil {
			return day, err
		}
	}

	if day.Activities == nil {
		day.Activities = make([]models.Activity, 0)
	}

	return day, nil
}
