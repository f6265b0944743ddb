package progress

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Append(ctx context.Context, rec Record) error
	// Query returns records for the user in chronological order
	// (oldest first). limit <= 0 means no limit.
	Query(ctx context.Context, userID uuid.UUID, limit int) ([]Record, error)
	AttachFeedback(ctx context.Context, userID, recommendationID uuid.UUID, fb Feedback) error
}
