package ai

import (
	"context"
	"errors"
)

// ErrMissingAPIKey сигнализирует об отсутствии ключа API: это не сбой,
// а повод сразу перейти на резервный маршрут.
var ErrMissingAPIKey = errors.New("ai api key is missing")

type Client interface {
	Generate(ctx context.Context, prompt string) (string, []byte, error)
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
