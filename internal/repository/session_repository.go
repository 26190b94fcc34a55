package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// ErrSessionNotFound is returned when no matching session row exists.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository handles exam session persistence. Exam data, answers and
// results travel as JSONB documents; the upsert key is the session id, which
// makes both checkpoint writes and the completion commit idempotent. A frozen
// row only ever accepts completed snapshots: the checkpoint queue can deliver
// an in-progress snapshot after the completion commit has landed, and that
// must not reopen the session.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// SaveExamSession UPSERTs a session row by id.
func (r *SessionRepository) SaveExamSession(ctx context.Context, s *model.ExamSession) error {
	examData, err := json.Marshal(s.Exam)
	if err != nil {
		return fmt.Errorf("marshal exam: %w", err)
	}
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	var results []byte
	if s.Results != nil {
		if results, err = json.Marshal(s.Results); err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO exam_sessions
		   (id, user_id, exam_id, exam_data, answers, current_section, current_idx,
		    start_time, is_completed, results, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		 ON CONFLICT (id) DO UPDATE
		 SET answers = EXCLUDED.answers,
		     current_section = EXCLUDED.current_section,
		     current_idx = EXCLUDED.current_idx,
		     is_completed = EXCLUDED.is_completed,
		     results = EXCLUDED.results,
		     updated_at = NOW()
		 WHERE exam_sessions.is_completed = FALSE
		    OR EXCLUDED.is_completed = TRUE`,
		s.ID, s.UserID, s.Exam.ID, examData, answers,
		string(s.CurrentSection), s.CurrentIdx, s.StartTime, s.IsCompleted, results,
	)
	return err
}

// SessionsForUser retrieves all sessions for a user, newest first.
func (r *SessionRepository) SessionsForUser(ctx context.Context, userID uuid.UUID) ([]model.ExamSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, exam_data, answers, current_section, current_idx,
		        start_time, is_completed, results, updated_at
		 FROM exam_sessions
		 WHERE user_id = $1
		 ORDER BY start_time DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.ExamSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// LatestInProgress retrieves the newest non-completed session for a user,
// used to resume an interrupted exam from its last checkpoint.
func (r *SessionRepository) LatestInProgress(ctx context.Context, userID uuid.UUID) (*model.ExamSession, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, exam_data, answers, current_section, current_idx,
		        start_time, is_completed, results, updated_at
		 FROM exam_sessions
		 WHERE user_id = $1 AND is_completed = FALSE
		 ORDER BY updated_at DESC
		 LIMIT 1`, userID,
	)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.ExamSession, error) {
	var (
		s        model.ExamSession
		examData []byte
		answers  []byte
		section  string
		results  []byte
		updated  *time.Time
	)
	err := row.Scan(&s.ID, &s.UserID, &examData, &answers, &section, &s.CurrentIdx,
		&s.StartTime, &s.IsCompleted, &results, &updated)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(examData, &s.Exam); err != nil {
		return nil, fmt.Errorf("unmarshal exam: %w", err)
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &s.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	if s.Answers == nil {
		s.Answers = map[string]*model.UserAnswer{}
	}
	if len(results) > 0 {
		s.Results = &model.ExamResults{}
		if err := json.Unmarshal(results, s.Results); err != nil {
			return nil, fmt.Errorf("unmarshal results: %w", err)
		}
	}
	s.CurrentSection = model.SectionType(section)
	if updated != nil {
		s.UpdatedAt = *updated
	}
	return &s, nil
}
