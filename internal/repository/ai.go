package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AIRequestRepository struct {
	db *pgxpool.Pool
}

type AIRequestLog struct {
	UserID          uuid.UUID
	TripID          uuid.UUID
	RequestType     string
	Provider        string
	Model           string
	Prompt          string
	ResponsePayload []byte
	Success         bool
	ErrorMessage    *string
}

// NewAIRequestRepository создает репозиторий журналов AI-запросов.
func NewAIRequestRepository(db *pgxpool.Pool) *AIRequestRepository {
	return &AIRequestRepository{db: db}
}

// LogRequest сохраняет запись о запросе генерации маршрута.
func (r *AIRequestRepository) LogRequest(ctx context.Context, log AIRequestLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ai_requests
		 (user_id, trip_id, request_type, provider, model, prompt, response_payload, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::jsonb, $8, $9)`,
		log.UserID,
		log.TripID,
		log.RequestType,
		log.Provider,
		log.Model,
		log.Prompt,
		string(log.ResponsePayload),
		log.Success,
		log.ErrorMessage,
	)
	return err
}
