package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"skill-coach/internal/database"
	"skill-coach/internal/domain/usercontext"
)

type ContextRepository struct {
	db database.DB

	stmtGet *sql.Stmt
	stmtPut *sql.Stmt
}

func NewContextRepository(db database.DB) (*ContextRepository, error) {
	r := &ContextRepository{db: db}

	var err error
	r.stmtGet, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT user_id, role_goals, experience_level, time_hours_per_week, challenges, interests, updated_at
		 FROM user_contexts WHERE user_id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtPut, err = db.SQLDB().PrepareContext(
		context.Background(),
		`INSERT INTO user_contexts (user_id, role_goals, experience_level, time_hours_per_week, challenges, interests, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		   role_goals = EXCLUDED.role_goals,
		   experience_level = EXCLUDED.experience_level,
		   time_hours_per_week = EXCLUDED.time_hours_per_week,
		   challenges = EXCLUDED.challenges,
		   interests = EXCLUDED.interests,
		   updated_at = EXCLUDED.updated_at`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *ContextRepository) Close() error {
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

func (r *ContextRepository) Get(ctx context.Context, userID uuid.UUID) (usercontext.UserContext, error) {
	row := r.stmtGet.QueryRowContext(ctx, userID)

	var (
		uc       usercontext.UserContext
		goalsRaw []byte
		level    string
	)
	err := row.Scan(&uc.UserID, &goalsRaw, &level, &uc.TimeAvailabilityHoursPerWeek, &uc.Challenges, &uc.Interests, &uc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return usercontext.UserContext{}, usercontext.ErrNotFound
	}
	if err != nil {
		return usercontext.UserContext{}, err
	}

	if len(goalsRaw) > 0 {
		if err := json.Unmarshal(goalsRaw, &uc.RoleGoals); err != nil {
			return usercontext.UserContext{}, err
		}
	}
	uc.ExperienceLevel = usercontext.ExperienceLevel(level)
	return uc, nil
}

func (r *ContextRepository) Put(ctx context.Context, uc usercontext.UserContext) error {
	goalsRaw, err := json.Marshal(uc.RoleGoals)
	if err != nil {
		return err
	}
	_, err = r.stmtPut.ExecContext(ctx,
		uc.UserID,
		goalsRaw,
		string(uc.ExperienceLevel),
		uc.TimeAvailabilityHoursPerWeek,
		uc.Challenges,
		uc.Interests,
		uc.UpdatedAt,
	)
	return err
}
