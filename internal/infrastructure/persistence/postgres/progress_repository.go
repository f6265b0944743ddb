package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"skill-coach/internal/database"
	"skill-coach/internal/domain/progress"
	"skill-coach/internal/domain/recommendation"
)

type ProgressRepository struct {
	db database.DB

	stmtAppend   *sql.Stmt
	stmtQuery    *sql.Stmt
	stmtFeedback *sql.Stmt
}

func NewProgressRepository(db database.DB) (*ProgressRepository, error) {
	r := &ProgressRepository{db: db}

	var err error
	r.stmtAppend, err = db.SQLDB().PrepareContext(
		context.Background(),
		`INSERT INTO progress_records
		   (id, user_id, recommendation_id, fingerprint, action_type, skill_category, skill_name, completed_at, feedback_rating, feedback_comment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtQuery, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT id, user_id, recommendation_id, fingerprint, action_type, skill_category, skill_name, completed_at, feedback_rating, feedback_comment
		 FROM progress_records
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtFeedback, err = db.SQLDB().PrepareContext(
		context.Background(),
		`UPDATE progress_records SET feedback_rating = $3, feedback_comment = $4
		 WHERE user_id = $1 AND recommendation_id = $2`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *ProgressRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closeStmt(r.stmtAppend)
	closeStmt(r.stmtQuery)
	closeStmt(r.stmtFeedback)
	return firstErr
}

func (r *ProgressRepository) Append(ctx context.Context, rec progress.Record) error {
	var rating, comment sql.NullString
	if rec.Feedback != nil {
		rating = sql.NullString{String: string(rec.Feedback.Rating), Valid: true}
		comment = sql.NullString{String: rec.Feedback.Comment, Valid: rec.Feedback.Comment != ""}
	}
	_, err := r.stmtAppend.ExecContext(ctx,
		rec.ID, rec.UserID, rec.RecommendationID, rec.Fingerprint,
		string(rec.ActionType), rec.SkillCategory, rec.SkillName,
		rec.CompletedAt, rating, comment,
	)
	return err
}

// Query selects the newest records and re-reverses them so callers get
// chronological order. The truncation window must keep the latest
// completions, not the earliest ones.
func (r *ProgressRepository) Query(ctx context.Context, userID uuid.UUID, limit int) ([]progress.Record, error) {
	rows, err := r.stmtQuery.QueryContext(ctx, userID, queryLimitArg(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []progress.Record
	for rows.Next() {
		var (
			rec        progress.Record
			actionType string
			rating     sql.NullString
			comment    sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.RecommendationID, &rec.Fingerprint,
			&actionType, &rec.SkillCategory, &rec.SkillName,
			&rec.CompletedAt, &rating, &comment,
		); err != nil {
			return nil, err
		}
		rec.ActionType = recommendation.ActionType(actionType)
		if rating.Valid {
			rec.Feedback = &progress.Feedback{
				Rating:  progress.Rating(rating.String),
				Comment: comment.String,
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverseRecords(out)
	return out, nil
}

// queryLimitArg maps limit <= 0 to LIMIT NULL, which Postgres treats as
// no limit.
func queryLimitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func reverseRecords(recs []progress.Record) {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
}

func (r *ProgressRepository) AttachFeedback(ctx context.Context, userID, recommendationID uuid.UUID, fb progress.Feedback) error {
	comment := sql.NullString{String: fb.Comment, Valid: fb.Comment != ""}
	res, err := r.stmtFeedback.ExecContext(ctx, userID, recommendationID, string(fb.Rating), comment)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return progress.ErrNoRecord
	}
	return nil
}
