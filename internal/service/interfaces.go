package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// SessionStore is the persistence boundary for exam sessions. Implemented by
// repository.SessionRepository; faked in tests.
type SessionStore interface {
	SaveExamSession(ctx context.Context, s *model.ExamSession) error
	SessionsForUser(ctx context.Context, userID uuid.UUID) ([]model.ExamSession, error)
	LatestInProgress(ctx context.Context, userID uuid.UUID) (*model.ExamSession, error)
}

// AttemptStore is the persistence boundary for practice attempts.
type AttemptStore interface {
	SavePracticeAttempt(ctx context.Context, a *model.PracticeAttempt) error
	AttemptsForUser(ctx context.Context, userID uuid.UUID) ([]model.PracticeAttempt, error)
}

// Oracle is the generation/judging gateway. Implemented by oracle.Client.
type Oracle interface {
	GenerateAssessment(ctx context.Context, company, role string, level model.PositionLevel) (*model.Exam, error)
	GeneratePracticeSet(ctx context.Context, topic, difficulty string) ([]model.CodingQuestion, error)
	JudgeCode(ctx context.Context, question model.CodingQuestion, code, language string) (*model.RunResult, error)
	Evaluate(ctx context.Context, exam *model.Exam, answers map[string]*model.UserAnswer) (*model.ExamResults, error)
}
