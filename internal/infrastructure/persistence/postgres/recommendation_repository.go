package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"skill-coach/internal/database"
	"skill-coach/internal/domain/recommendation"
)

type RecommendationRepository struct {
	db database.DB

	stmtInsert *sql.Stmt
	stmtGet    *sql.Stmt
	stmtList   *sql.Stmt
}

func NewRecommendationRepository(db database.DB) (*RecommendationRepository, error) {
	r := &RecommendationRepository{db: db}

	var err error
	r.stmtInsert, err = db.SQLDB().PrepareContext(
		context.Background(),
		`INSERT INTO recommendations (id, user_id, payload, created_at) VALUES ($1, $2, $3, $4)`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtGet, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT payload FROM recommendations WHERE id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtList, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT payload FROM recommendations WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *RecommendationRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closeStmt(r.stmtInsert)
	closeStmt(r.stmtGet)
	closeStmt(r.stmtList)
	return firstErr
}

// SaveBatch stores each recommendation as an immutable JSON payload.
// Recommendations are never updated; newer batches supersede older ones.
func (r *RecommendationRepository) SaveBatch(ctx context.Context, recs []recommendation.Recommendation) error {
	for _, rec := range recs {
		payload, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := r.stmtInsert.ExecContext(ctx, rec.ID, rec.UserID, payload, rec.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (recommendation.Recommendation, error) {
	row := r.stmtGet.QueryRowContext(ctx, id)

	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return recommendation.Recommendation{}, recommendation.ErrNotFound
	}
	if err != nil {
		return recommendation.Recommendation{}, err
	}

	var rec recommendation.Recommendation
	if err := json.Unmarshal(payload, &rec); err != nil {
		return recommendation.Recommendation{}, err
	}
	return rec, nil
}

func (r *RecommendationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]recommendation.Recommendation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.stmtList.QueryContext(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []recommendation.Recommendation
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec recommendation.Recommendation
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
