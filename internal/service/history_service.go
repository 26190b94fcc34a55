package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/exam"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// HistoryService serves the derived read models over stored sessions and
// attempts.
type HistoryService struct {
	sessions SessionStore
	attempts AttemptStore
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(sessions SessionStore, attempts AttemptStore) *HistoryService {
	return &HistoryService{sessions: sessions, attempts: attempts}
}

// History aggregates a user's full record: sessions newest first, practice
// attempts, average readiness over completed sessions, and the companies
// discovered through exam generation.
func (s *HistoryService) History(ctx context.Context, userID uuid.UUID) (*model.UserHistory, error) {
	sessions, err := s.sessions.SessionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.AttemptsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history := exam.ComputeHistory(sessions, attempts)
	return &history, nil
}

// PracticeStats tallies a user's practice attempts by difficulty and topic.
func (s *HistoryService) PracticeStats(ctx context.Context, userID uuid.UUID) (*model.PracticeStats, error) {
	attempts, err := s.attempts.AttemptsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := exam.ComputePracticeStats(attempts)
	return &stats, nil
}
