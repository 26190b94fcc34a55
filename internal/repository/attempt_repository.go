package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// AttemptRepository handles practice attempt persistence. Attempts are
// written one row at a time as a sprint is finalized; the upsert key is the
// attempt id so a retried finalization never duplicates rows.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// SavePracticeAttempt UPSERTs one attempt row.
func (r *AttemptRepository) SavePracticeAttempt(ctx context.Context, a *model.PracticeAttempt) error {
	questionData, err := json.Marshal(a.Question)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	runResult, err := json.Marshal(a.RunResult)
	if err != nil {
		return fmt.Errorf("marshal run result: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO practice_attempts
		   (id, user_id, question_data, answer, language, run_result, score, attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE
		 SET answer = EXCLUDED.answer,
		     language = EXCLUDED.language,
		     run_result = EXCLUDED.run_result,
		     score = EXCLUDED.score,
		     attempted_at = EXCLUDED.attempted_at`,
		a.ID, a.UserID, questionData, a.Answer, a.Language, runResult, a.Score, a.Timestamp,
	)
	return err
}

// AttemptsForUser retrieves all attempts for a user, newest first.
func (r *AttemptRepository) AttemptsForUser(ctx context.Context, userID uuid.UUID) ([]model.PracticeAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, question_data, answer, language, run_result, score, attempted_at
		 FROM practice_attempts
		 WHERE user_id = $1
		 ORDER BY attempted_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.PracticeAttempt
	for rows.Next() {
		var (
			a            model.PracticeAttempt
			questionData []byte
			runResult    []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &questionData, &a.Answer, &a.Language,
			&runResult, &a.Score, &a.Timestamp); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questionData, &a.Question); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		if len(runResult) > 0 && string(runResult) != "null" {
			a.RunResult = &model.RunResult{}
			if err := json.Unmarshal(runResult, a.RunResult); err != nil {
				return nil, fmt.Errorf("unmarshal run result: %w", err)
			}
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
