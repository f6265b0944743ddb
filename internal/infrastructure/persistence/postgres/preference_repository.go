package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"skill-coach/internal/database"
	"skill-coach/internal/domain/preference"
	"skill-coach/internal/domain/recommendation"
)

type PreferenceRepository struct {
	db database.DB

	stmtGet *sql.Stmt
	stmtPut *sql.Stmt
}

func NewPreferenceRepository(db database.DB) (*PreferenceRepository, error) {
	r := &PreferenceRepository{db: db}

	var err error
	r.stmtGet, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT action_types, categories FROM preference_adjustments WHERE user_id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtPut, err = db.SQLDB().PrepareContext(
		context.Background(),
		`INSERT INTO preference_adjustments (user_id, action_types, categories, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
		   action_types = EXCLUDED.action_types,
		   categories = EXCLUDED.categories,
		   updated_at = EXCLUDED.updated_at`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *PreferenceRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closeStmt(r.stmtGet)
	closeStmt(r.stmtPut)
	return firstErr
}

// Get returns an empty adjustment table when the user has none yet; a
// missing row is not an error.
func (r *PreferenceRepository) Get(ctx context.Context, userID uuid.UUID) (preference.Adjustment, error) {
	row := r.stmtGet.QueryRowContext(ctx, userID)

	var actionsRaw, categoriesRaw []byte
	err := row.Scan(&actionsRaw, &categoriesRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return preference.NewAdjustment(userID), nil
	}
	if err != nil {
		return preference.Adjustment{}, err
	}

	adj := preference.NewAdjustment(userID)
	if len(actionsRaw) > 0 {
		actions := make(map[string]float64)
		if err := json.Unmarshal(actionsRaw, &actions); err != nil {
			return preference.Adjustment{}, err
		}
		for k, v := range actions {
			adj.ActionTypes[recommendation.ActionType(k)] = v
		}
	}
	if len(categoriesRaw) > 0 {
		if err := json.Unmarshal(categoriesRaw, &adj.Categories); err != nil {
			return preference.Adjustment{}, err
		}
	}
	return adj, nil
}

func (r *PreferenceRepository) Put(ctx context.Context, adj preference.Adjustment) error {
	actions := make(map[string]float64, len(adj.ActionTypes))
	for k, v := range adj.ActionTypes {
		actions[string(k)] = v
	}
	actionsRaw, err := json.Marshal(actions)
	if err != nil {
		return err
	}
	categoriesRaw, err := json.Marshal(adj.Categories)
	if err != nil {
		return err
	}
	_, err = r.stmtPut.ExecContext(ctx, adj.UserID, actionsRaw, categoriesRaw, time.Now().UTC())
	return err
}
