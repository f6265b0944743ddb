package recommendation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("recommendation not found")

type Repository interface {
	SaveBatch(ctx context.Context, recs []Recommendation) error
	GetByID(ctx context.Context, id uuid.UUID) (Recommendation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Recommendation, error)
}
