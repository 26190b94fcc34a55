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

// Service-level assessment errors.
var (
	ErrNoActiveSession     = errors.New("no active assessment session")
	ErrActiveSessionExists = errors.New("an assessment session is already active")
	ErrQuestionNotFound    = errors.New("question not part of this session")
	ErrJudgeUnavailable    = errors.New("code judge unavailable")
	ErrPersistence         = errors.New("session persistence failed")
)

// AssessmentService orchestrates the exam session lifecycle. Live sessions
// are held in an in-memory machine registry keyed by user id; every mutation
// enqueues a checkpoint that the background worker flushes to PostgreSQL, and
// a Redis snapshot covers fast resume after a server restart.
type AssessmentService struct {
	cfg    *config.Config
	log    zerolog.Logger
	oracle Oracle
	store  SessionStore
	rdb    *redis.Client

	mu       sync.Mutex
	machines map[uuid.UUID]*exam.Machine
	// pendingCommits marks frozen sessions whose completion commit has not
	// landed yet; a retried Complete re-persists them.
	pendingCommits map[uuid.UUID]bool

	now func() time.Time
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(cfg *config.Config, oracle Oracle, store SessionStore, rdb *redis.Client, log zerolog.Logger) *AssessmentService {
	return &AssessmentService{
		cfg:            cfg,
		log:            log.With().Str("component", "assessment_service").Logger(),
		oracle:         oracle,
		store:          store,
		rdb:            rdb,
		machines:       make(map[uuid.UUID]*exam.Machine),
		pendingCommits: make(map[uuid.UUID]bool),
		now:            time.Now,
	}
}

// StartExam generates a fresh exam and opens a session in the Intro phase.
// A user can hold only one live session at a time.
func (s *AssessmentService) StartExam(ctx context.Context, userID uuid.UUID, req *model.StartExamRequest) (*model.ExamSession, error) {
	if m := s.machine(userID); m != nil {
		switch m.Phase() {
		case exam.PhaseIntro, exam.PhaseInProgress, exam.PhaseGrading:
			return nil, ErrActiveSessionExists
		}
	}

	level := model.ParsePositionLevel(req.Level)
	generated, err := s.oracle.GenerateAssessment(ctx, req.Company, req.Role, level)
	if err != nil {
		return nil, err
	}

	m := exam.NewMachine(userID, generated, s.now())

	s.mu.Lock()
	// Re-check under lock: a concurrent start may have won the race.
	if existing, ok := s.machines[userID]; ok {
		switch existing.Phase() {
		case exam.PhaseIntro, exam.PhaseInProgress, exam.PhaseGrading:
			s.mu.Unlock()
			return nil, ErrActiveSessionExists
		}
	}
	s.machines[userID] = m
	// Any unfinished commit belongs to the replaced session; the worker
	// queue still holds its snapshot.
	delete(s.pendingCommits, userID)
	s.mu.Unlock()

	snapshot := m.Snapshot()
	s.checkpoint(ctx, snapshot)

	s.log.Info().
		Str("user_id", userID.String()).
		Str("session_id", snapshot.ID.String()).
		Str("company", req.Company).
		Msg("exam session opened")
	return snapshot, nil
}

// Begin moves the session out of the intro screen and into the timed run.
func (s *AssessmentService) Begin(ctx context.Context, userID uuid.UUID) (*model.ExamSession, error) {
	m, err := s.requireMachine(userID)
	if err != nil {
		return nil, err
	}
	if err := m.Begin(); err != nil {
		return nil, err
	}
	snapshot := m.Snapshot()
	s.checkpoint(ctx, snapshot)
	return snapshot, nil
}

// Current returns the live session snapshot and its remaining seconds.
func (s *AssessmentService) Current(userID uuid.UUID) (*model.ExamSession, int, error) {
	m, err := s.requireMachine(userID)
	if err != nil {
		return nil, 0, err
	}
	return m.Snapshot(), m.Remaining(s.now()), nil
}

// Navigate moves the session's section/question pointer.
func (s *AssessmentService) Navigate(ctx context.Context, userID uuid.UUID, req *model.NavigateRequest) (*model.ExamSession, error) {
	m, err := s.requireMachine(userID)
	if err != nil {
		return nil, err
	}
	if err := m.Navigate(model.SectionType(req.Section), req.Idx); err != nil {
		return nil, err
	}
	snapshot := m.Snapshot()
	s.checkpoint(ctx, snapshot)
	return snapshot, nil
}

// SaveAnswer merges a partial answer for one question. MCQ questions store
// the selected option; coding questions store per-language editor text. An
// empty coding answer seeds the editor with starter code instead.
func (s *AssessmentService) SaveAnswer(ctx context.Context, userID uuid.UUID, questionID string, req *model.AnswerPatchRequest) (*model.UserAnswer, error) {
	m, err := s.requireMachine(userID)
	if err != nil {
		return nil, err
	}

	session := m.Snapshot()
	if coding := session.Exam.CodingQuestion(questionID); coding != nil {
		language := req.Language
		if language == "" || !model.IsSupportedLanguage(language) {
			language = model.SupportedLanguages[0]
		}
		if req.Answer == "" {
			if _, err := m.SeedCode(questionID, language); err != nil {
				return nil, s.mapLedgerErr(err)
			}
		} else if err := m.RecordCode(questionID, language, req.Answer); err != nil {
			return nil, s.mapLedgerErr(err)
		}
	} else {
		if err := m.RecordChoice(questionID, req.Answer); err != nil {
			return nil, s.mapLedgerErr(err)
		}
	}

	s.checkpoint(ctx, m.Snapshot())
	return m.Answer(questionID), nil
}

// RunCode submits a coding answer to the judge. The code is recorded first so
// nothing is lost if the judge is down; on judge failure the answer keeps its
// previous run result and the caller gets ErrJudgeUnavailable.
func (s *AssessmentService) RunCode(ctx context.Context, userID uuid.UUID, questionID string, req *model.RunCodeRequest) (*model.RunResult, error) {
	m, err := s.requireMachine(userID)
	if err != nil {
		return nil, err
	}

	session := m.Snapshot()
	question := session.Exam.CodingQuestion(questionID)
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	language := req.Language
	if language == "" || !model.IsSupportedLanguage(language) {
		language = model.SupportedLanguages[0]
	}
	if err := m.RecordCode(questionID, language, req.Code); err != nil {
		return nil, s.mapLedgerErr(err)
	}

	result, err := s.oracle.JudgeCode(ctx, *question, req.Code, language)
	if err != nil {
		s.log.Warn().Err(err).
			Str("question_id", questionID).
			Msg("judge call failed, keeping previous run result")
		return nil, ErrJudgeUnavailable
	}

	if !m.AttachRunResult(questionID, result) {
		s.log.Debug().Str("question_id", questionID).Msg("stale run result dropped")
	}
	s.checkpoint(ctx, m.Snapshot())
	return result, nil
}

// Complete finishes the session: exactly one caller wins the grading slot,
// the oracle evaluates the final answer snapshot, and the frozen session is
// committed synchronously. Evaluation failure discards the session entirely;
// commit failure surfaces as ErrPersistence with the frozen session kept in
// memory so a retried Complete re-persists it. A second Complete on a fully
// committed session returns the same frozen session without re-grading.
func (s *AssessmentService) Complete(ctx context.Context, userID uuid.UUID) (*model.ExamSession, error) {
	m, err := s.requireMachine(userID)
	if err != nil {
		return nil, err
	}

	answers, err := m.BeginGrading()
	if err != nil {
		if errors.Is(err, exam.ErrSessionCompleted) {
			return s.finishCommit(ctx, userID, m)
		}
		return nil, err
	}

	session := m.Snapshot()
	results, err := s.oracle.Evaluate(ctx, &session.Exam, answers)
	if err != nil {
		// Grading failure is terminal: the session is discarded and the
		// user starts over.
		m.FailGrading()
		s.discardSession(ctx, userID)
		s.log.Warn().Err(err).
			Str("session_id", session.ID.String()).
			Msg("evaluation failed, session discarded")
		return nil, err
	}

	completed, err := m.Complete(answers, results, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveExamSession(ctx, completed); err != nil {
		s.mu.Lock()
		s.pendingCommits[userID] = true
		s.mu.Unlock()
		s.enqueueCheckpoint(ctx, completed)
		s.log.Error().Err(err).
			Str("session_id", completed.ID.String()).
			Msg("completion commit failed")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.clearActiveSnapshot(ctx, userID)

	s.log.Info().
		Str("session_id", completed.ID.String()).
		Int("readiness", completed.Results.ReadinessScore).
		Msg("exam session completed")
	return completed, nil
}

// Remaining reports countdown seconds and the lifecycle phase, for the
// countdown stream.
func (s *AssessmentService) Remaining(userID uuid.UUID) (int, exam.Phase, error) {
	m, err := s.requireMachine(userID)
	if err != nil {
		return 0, "", err
	}
	return m.Remaining(s.now()), m.Phase(), nil
}

// Resume rebuilds a live session after a disconnect or server restart: the
// in-memory machine wins, then the Redis snapshot, then the newest
// in-progress row in PostgreSQL.
func (s *AssessmentService) Resume(ctx context.Context, userID uuid.UUID) (*model.ExamSession, error) {
	if m := s.machine(userID); m != nil {
		switch m.Phase() {
		case exam.PhaseIntro, exam.PhaseInProgress, exam.PhaseGrading:
			return m.Snapshot(), nil
		}
	}

	session := s.loadActiveSnapshot(ctx, userID)
	if session == nil {
		stored, err := s.store.LatestInProgress(ctx, userID)
		if err != nil {
			return nil, ErrNoActiveSession
		}
		session = stored
	}

	m, err := exam.Restore(session)
	if err != nil {
		return nil, ErrNoActiveSession
	}

	s.mu.Lock()
	s.machines[userID] = m
	s.mu.Unlock()

	s.log.Info().
		Str("user_id", userID.String()).
		Str("session_id", session.ID.String()).
		Msg("exam session resumed")
	return m.Snapshot(), nil
}

// ─── Internal helpers ───────────────────────────────────────────────────────

func (s *AssessmentService) machine(userID uuid.UUID) *exam.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machines[userID]
}

func (s *AssessmentService) requireMachine(userID uuid.UUID) (*exam.Machine, error) {
	m := s.machine(userID)
	if m == nil {
		return nil, ErrNoActiveSession
	}
	return m, nil
}

// finishCommit handles Complete on an already-frozen session. If the first
// commit failed, the save is retried (the store upsert is idempotent);
// otherwise the frozen snapshot is returned as-is.
func (s *AssessmentService) finishCommit(ctx context.Context, userID uuid.UUID, m *exam.Machine) (*model.ExamSession, error) {
	snapshot := m.Snapshot()

	s.mu.Lock()
	pending := s.pendingCommits[userID]
	s.mu.Unlock()
	if !pending {
		return snapshot, nil
	}

	if err := s.store.SaveExamSession(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.mu.Lock()
	delete(s.pendingCommits, userID)
	s.mu.Unlock()
	s.clearActiveSnapshot(ctx, userID)

	s.log.Info().
		Str("session_id", snapshot.ID.String()).
		Msg("completion commit retried successfully")
	return snapshot, nil
}

// discardSession drops the user's live machine and resume snapshot.
func (s *AssessmentService) discardSession(ctx context.Context, userID uuid.UUID) {
	s.mu.Lock()
	delete(s.machines, userID)
	delete(s.pendingCommits, userID)
	s.mu.Unlock()
	s.clearActiveSnapshot(ctx, userID)
}

func (s *AssessmentService) mapLedgerErr(err error) error {
	if errors.Is(err, exam.ErrUnknownQuestion) {
		return ErrQuestionNotFound
	}
	return err
}

// checkpoint writes the snapshot to both durability paths: the Redis key for
// fast resume and the worker queue for the PostgreSQL upsert.
func (s *AssessmentService) checkpoint(ctx context.Context, snapshot *model.ExamSession) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal checkpoint")
		return
	}

	ttl := time.Duration(snapshot.Exam.TimeMinutes)*time.Minute + time.Hour
	key := config.CacheKey.ActiveExamKey(snapshot.UserID.String())
	if err := s.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("write resume snapshot")
	}
	if err := s.rdb.RPush(ctx, config.QueueKey.CheckpointQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("enqueue checkpoint")
	}
}

func (s *AssessmentService) enqueueCheckpoint(ctx context.Context, snapshot *model.ExamSession) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal checkpoint")
		return
	}
	if err := s.rdb.RPush(ctx, config.QueueKey.CheckpointQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("enqueue checkpoint")
	}
}

func (s *AssessmentService) loadActiveSnapshot(ctx context.Context, userID uuid.UUID) *model.ExamSession {
	raw, err := s.rdb.Get(ctx, config.CacheKey.ActiveExamKey(userID.String())).Result()
	if err != nil {
		return nil
	}
	var session model.ExamSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.log.Warn().Err(err).Msg("corrupt resume snapshot, falling back to database")
		return nil
	}
	if session.IsCompleted {
		return nil
	}
	return &session
}

func (s *AssessmentService) clearActiveSnapshot(ctx context.Context, userID uuid.UUID) {
	key := config.CacheKey.ActiveExamKey(userID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Msg("clear resume snapshot")
	}
}
