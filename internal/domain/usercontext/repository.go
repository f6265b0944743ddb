package usercontext

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user context not found")

type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (UserContext, error)
	Put(ctx context.Context, uc UserContext) error
}
