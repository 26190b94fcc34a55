package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/config"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/exam"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/model"
)

// ErrNoActiveSprint is returned when no live practice sprint exists for the
// user.
var ErrNoActiveSprint = errors.New("no active practice sprint")

// PracticeService orchestrates practice sprints: a fixed set of generated
// coding questions attempted in any order, finalized as one attempt per
// question. Attempts are judged immediately; judge outages degrade to the
// safe zero-score result so a sprint can always finish.
type PracticeService struct {
	log      zerolog.Logger
	oracle   Oracle
	attempts AttemptStore
	rdb      *redis.Client

	mu      sync.Mutex
	sprints map[uuid.UUID]*exam.SprintMachine

	now func() time.Time
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(oracle Oracle, attempts AttemptStore, rdb *redis.Client, log zerolog.Logger) *PracticeService {
	return &PracticeService{
		log:      log.With().Str("component", "practice_service").Logger(),
		oracle:   oracle,
		attempts: attempts,
		rdb:      rdb,
		sprints:  make(map[uuid.UUID]*exam.SprintMachine),
		now:      time.Now,
	}
}

// StartSprint generates a question set and opens a sprint. An unfinished
// sprint is replaced; its recorded attempts are abandoned, matching the
// explicit-finalize contract (only finalized attempts persist).
func (s *PracticeService) StartSprint(ctx context.Context, userID uuid.UUID, req *model.StartSprintRequest) (*model.PracticeSession, error) {
	questions, err := s.oracle.GeneratePracticeSet(ctx, req.Topic, req.Difficulty)
	if err != nil {
		return nil, err
	}

	sprint := exam.NewSprint(userID, req.Topic, req.Difficulty, questions, s.now())

	s.mu.Lock()
	s.sprints[userID] = sprint
	s.mu.Unlock()

	session := sprint.Session()
	s.cacheSprint(ctx, session)

	s.log.Info().
		Str("user_id", userID.String()).
		Str("topic", req.Topic).
		Str("difficulty", req.Difficulty).
		Int("questions", len(questions)).
		Msg("practice sprint opened")
	return session, nil
}

// Current returns the live sprint snapshot.
func (s *PracticeService) Current(userID uuid.UUID) (*model.PracticeSession, error) {
	sprint, err := s.requireSprint(userID)
	if err != nil {
		return nil, err
	}
	return sprint.Session(), nil
}

// SubmitAttempt judges a solution and records it against the sprint.
// Re-submitting a question overwrites the earlier attempt. If the judge is
// down the attempt is kept with the safe zero-score result rather than lost.
func (s *PracticeService) SubmitAttempt(ctx context.Context, userID uuid.UUID, questionID string, req *model.RunCodeRequest) (*model.PracticeAttempt, error) {
	sprint, err := s.requireSprint(userID)
	if err != nil {
		return nil, err
	}

	question := sprint.Question(questionID)
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	result, err := s.oracle.JudgeCode(ctx, *question, req.Code, req.Language)
	if err != nil {
		s.log.Warn().Err(err).
			Str("question_id", questionID).
			Msg("judge call failed, recording safe result")
		result = model.SafeRunResult()
	}

	attempt := &model.PracticeAttempt{
		ID:        uuid.New(),
		UserID:    userID,
		Question:  *question,
		Answer:    req.Code,
		Language:  req.Language,
		RunResult: result,
		Timestamp: s.now(),
		Score:     result.Score,
	}
	if err := sprint.RecordAttempt(attempt); err != nil {
		if errors.Is(err, exam.ErrUnknownQuestion) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	s.cacheSprint(ctx, sprint.Session())
	return attempt, nil
}

// FinalizeSprint closes the sprint. Unanswered questions require explicit
// confirmation and are filled with zero-score placeholders; every attempt is
// then persisted individually before the sprint is marked completed, so a
// mid-write failure can be retried without duplicating rows.
func (s *PracticeService) FinalizeSprint(ctx context.Context, userID uuid.UUID, confirmPartial bool) (*model.PracticeSession, error) {
	sprint, err := s.requireSprint(userID)
	if err != nil {
		return nil, err
	}

	attempts, err := sprint.FillPlaceholders(userID, model.SupportedLanguages[0], confirmPartial, s.now())
	if err != nil {
		return nil, err
	}

	for _, attempt := range attempts {
		if err := s.attempts.SavePracticeAttempt(ctx, attempt); err != nil {
			s.log.Error().Err(err).
				Str("attempt_id", attempt.ID.String()).
				Msg("attempt persist failed, sprint stays open for retry")
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	if err := sprint.Complete(); err != nil && !errors.Is(err, exam.ErrSessionCompleted) {
		return nil, err
	}
	s.clearSprintCache(ctx, userID)

	session := sprint.Session()
	s.log.Info().
		Str("user_id", userID.String()).
		Int("attempts", len(attempts)).
		Msg("practice sprint finalized")
	return session, nil
}

// ─── Internal helpers ───────────────────────────────────────────────────────

func (s *PracticeService) requireSprint(userID uuid.UUID) (*exam.SprintMachine, error) {
	s.mu.Lock()
	sprint := s.sprints[userID]
	s.mu.Unlock()
	if sprint == nil || sprint.Phase() == exam.PhaseCompleted {
		return nil, ErrNoActiveSprint
	}
	return sprint, nil
}

func (s *PracticeService) cacheSprint(ctx context.Context, session *model.PracticeSession) {
	payload, err := json.Marshal(session)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal sprint snapshot")
		return
	}
	key := config.CacheKey.ActiveSprintKey(session.UserID.String())
	if err := s.rdb.Set(ctx, key, payload, 6*time.Hour).Err(); err != nil {
		s.log.Warn().Err(err).Msg("write sprint snapshot")
	}
}

func (s *PracticeService) clearSprintCache(ctx context.Context, userID uuid.UUID) {
	key := config.CacheKey.ActiveSprintKey(userID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Msg("clear sprint snapshot")
	}
}
